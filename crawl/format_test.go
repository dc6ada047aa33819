package crawl_test

import (
	"testing"

	"github.com/diogo-cruz/aisafety/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://metr.org", crawl.TruncateURL("https://metr.org", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://metr.org/blog/2024-03-01-evaluations"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, "...03-01-evaluations", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns empty string when maxLen is not positive", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://metr.org", 0))
		assert.Empty(t, crawl.TruncateURL("https://metr.org", -1))
	})

	t.Run("returns prefix of URL when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "htt", crawl.TruncateURL("https://metr.org", 3))
		assert.Equal(t, "a", crawl.TruncateURL("a", 2))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	got := crawl.FormatProgress(crawl.ProgressEvent{Completed: 3, Total: 12})

	assert.Equal(t, "3/12", got)
}
