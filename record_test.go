package aisafety_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("page record omits title and date", func(t *testing.T) {
		t.Parallel()

		r := aisafety.NewPageRecord("https://metr.org", testTime)
		r.Content = "Welcome"

		b, err := json.Marshal(r)

		require.NoError(t, err)
		assert.Equal(t, `{"url":"https://metr.org","timestamp":"2024-06-01T12:00:00Z","content":"Welcome","headings":[]}`, string(b))
	})

	t.Run("content record emits null date and ordered extensions", func(t *testing.T) {
		t.Parallel()

		r := aisafety.NewContentRecord("https://metr.org/blog/x", testTime)
		r.Title = "X"
		r.Headings = []string{"Intro"}
		r.Links = []aisafety.Link{}
		r.Set("category", "Research")
		r.Set("authors", []string{"A", "B"})
		r.Set("category", "Policy")

		b, err := json.Marshal(r)

		require.NoError(t, err)
		assert.Equal(t,
			`{"url":"https://metr.org/blog/x","timestamp":"2024-06-01T12:00:00Z","title":"X","date":null,"content":"","headings":["Intro"],"links":[],"category":"Policy","authors":["A","B"]}`,
			string(b))
	})

	t.Run("does not escape html or non-ascii", func(t *testing.T) {
		t.Parallel()

		r := aisafety.NewPageRecord("https://x.org", testTime)
		r.Content = "a < b & café"

		b, err := json.Marshal(r)

		require.NoError(t, err)
		assert.Contains(t, string(b), `"a < b & café"`)
	})
}

func TestRecord_SetDate(t *testing.T) {
	t.Parallel()

	r := aisafety.NewContentRecord("https://x.org/a", testTime)

	r.SetDate("March 3, 2024")
	require.NotNil(t, r.Date)
	assert.Equal(t, "March 3, 2024", *r.Date)

	r.SetDate("")
	assert.Nil(t, r.Date)
}

func TestOutput(t *testing.T) {
	t.Parallel()

	t.Run("declared sections serialize in order with metadata first", func(t *testing.T) {
		t.Parallel()

		out := aisafety.NewOutput(aisafety.Metadata{
			Timestamp: testTime,
			BaseURL:   "https://metr.org",
			Publisher: "metr",
			RunID:     "run-1",
		})
		out.Declare("home", false)
		out.Declare("about", false)
		out.Declare("blog_posts", true)
		out.SetPage("home", aisafety.NewPageRecord("https://metr.org", testTime))

		b, err := json.Marshal(out)

		require.NoError(t, err)
		assert.Equal(t,
			`{"metadata":{"timestamp":"2024-06-01T12:00:00Z","base_url":"https://metr.org","publisher":"metr","run_id":"run-1"},`+
				`"home":{"url":"https://metr.org","timestamp":"2024-06-01T12:00:00Z","content":"","headings":[]},`+
				`"about":null,"blog_posts":[]}`,
			string(b))
		assert.Equal(t, []string{"home", "about", "blog_posts"}, out.Sections())
	})

	t.Run("append declares missing list", func(t *testing.T) {
		t.Parallel()

		out := aisafety.NewOutput(aisafety.Metadata{})
		out.Append("posts", aisafety.NewContentRecord("https://x.org/a", testTime))
		out.Append("posts", aisafety.NewContentRecord("https://x.org/b", testTime))

		require.Len(t, out.List("posts"), 2)
		assert.Equal(t, "https://x.org/b", out.List("posts")[1].URL)
		assert.Nil(t, out.Page("posts"))
	})

	t.Run("declare keeps existing value", func(t *testing.T) {
		t.Parallel()

		out := aisafety.NewOutput(aisafety.Metadata{})
		out.SetPage("home", aisafety.NewPageRecord("https://x.org", testTime))
		out.Declare("home", false)

		assert.NotNil(t, out.Page("home"))
	})
}

func TestOutputFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://www.anthropic.com":   "www_anthropic_com_data.json",
		"https://deepmind.google":     "deepmind_google_data.json",
		"https://www.nist.gov/aisi":   "www_nist_gov_data.json",
		"https://humancompatible.ai/": "humancompatible_ai_data.json",
		"https://ised-isde.canada.ca": "ised-isde_canada_ca_data.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, aisafety.OutputFilename(in), in)
	}
}
