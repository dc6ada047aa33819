package goquery_test

import (
	"net/url"
	"strings"
	"testing"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// find parses body and returns the first match of selector.
func find(t *testing.T, body, selector string) *pq.Selection {
	t.Helper()
	doc, err := pq.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	sel := doc.Find(selector).First()
	require.Equal(t, 1, sel.Length(), "selector %q", selector)
	return sel
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRender(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://x.org/blog/")

	t.Run("renders tables as tab-separated rows", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<table><tr><th>Model</th><th>Score</th></tr><tr><td> A </td><td>0.9</td></tr></table>`, "table")

		assert.Equal(t, "Model\tScore\nA\t0.9", goquery.Render(sel, base, true))
	})

	t.Run("renders list items and drops empty ones", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<ul><li>A</li><li>  </li><li>B</li></ul>`, "ul")

		assert.Equal(t, "- A\n- B", goquery.Render(sel, base, true))
	})

	t.Run("prefixes every blockquote line", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<blockquote>first\nsecond</blockquote>", "blockquote")

		assert.Equal(t, "> first\n> second", goquery.Render(sel, base, true))
	})

	t.Run("fences code blocks", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<pre>  x := 1  </pre>", "pre")

		assert.Equal(t, "```\nx := 1\n```", goquery.Render(sel, base, true))
	})

	t.Run("renders empty code blocks as empty", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<div><code> </code></div>", "code")

		assert.Empty(t, goquery.Render(sel, base, true))
	})

	t.Run("resolves relative links against the base", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<a href="../about">About</a>`, "a")

		assert.Equal(t, "[About](https://x.org/about)", goquery.Render(sel, base, true))
	})

	t.Run("renders bare link text without link resolution", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<a href="../about">About</a>`, "a")

		assert.Equal(t, "About", goquery.Render(sel, base, false))
	})

	t.Run("renders link text when href is missing", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<a>About</a>`, "a")

		assert.Equal(t, "About", goquery.Render(sel, base, true))
	})

	t.Run("keeps direct text and links of elements containing links", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<p>See <a href="/paper">the paper</a> and <em>dropped</em> more</p>`, "p")

		assert.Equal(t, "See [the paper](https://x.org/paper) and more", goquery.Render(sel, base, true))
	})

	t.Run("renders plain text of elements containing links without resolution", func(t *testing.T) {
		t.Parallel()

		sel := find(t, `<p>See <a href="/paper">the paper</a></p>`, "p")

		assert.Equal(t, "See the paper", goquery.Render(sel, base, false))
	})

	t.Run("renders trimmed text of other elements", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<p>\n  Plain <b>bold</b> text \n</p>", "p")

		assert.Equal(t, "Plain bold text", goquery.Render(sel, base, true))
	})

	t.Run("renders empty selections as empty", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<p>x</p>", "p").Find("span")

		assert.Empty(t, goquery.Render(sel, base, true))
	})

	t.Run("is pure", func(t *testing.T) {
		t.Parallel()

		// Given a mixed block
		sel := find(t, `<div>Intro <a href="x">link</a><ul><li>a</li></ul></div>`, "div")

		// When rendered twice
		first := goquery.Render(sel, base, true)
		second := goquery.Render(sel, base, true)

		// Then the output is identical
		assert.Equal(t, first, second)
		assert.Equal(t, "Intro [link](https://x.org/blog/x)", first)
	})
}

func TestText(t *testing.T) {
	t.Parallel()

	t.Run("trims the ends of the subtree text", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<h2>\n  Title <small>v2</small>\n</h2>", "h2")

		assert.Equal(t, "Title v2", goquery.Text(sel))
	})

	t.Run("keeps whitespace between inline nodes", func(t *testing.T) {
		t.Parallel()

		sel := find(t, "<p>a <b>b</b></p>", "p")

		assert.Equal(t, "a b", goquery.Text(sel))
	})
}
