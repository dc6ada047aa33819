package crawl_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/diogo-cruz/aisafety/crawl"
	"github.com/stretchr/testify/assert"
)

func TestVisitedSet_Visit(t *testing.T) {
	t.Parallel()

	t.Run("claims each URL once", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()

		assert.True(t, v.Visit("https://metr.org/blog/a"))
		assert.False(t, v.Visit("https://metr.org/blog/a"))
		assert.True(t, v.Visit("https://metr.org/blog/b"))
		assert.Equal(t, 2, v.Len())
	})

	t.Run("treats fragment variants as the same page", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()

		assert.True(t, v.Visit("https://metr.org/blog/a#intro"))
		assert.False(t, v.Visit("https://metr.org/blog/a"))
		assert.True(t, v.Contains("https://metr.org/blog/a#other"))
	})

	t.Run("contains is false for unseen URLs", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		v.Visit("https://metr.org/blog/a")

		assert.False(t, v.Contains("https://metr.org/blog/z"))
	})

	t.Run("concurrent visits claim a URL exactly once", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		var wg sync.WaitGroup
		var claimed atomic.Int32

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if v.Visit("https://www.anthropic.com/research/clio") {
					claimed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), claimed.Load())
	})

	t.Run("scales past many URLs without false positives", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		for i := range 5000 {
			assert.True(t, v.Visit(fmt.Sprintf("https://deepmind.google/research/publications/%d/", i)))
		}
		assert.Equal(t, 5000, v.Len())
	})
}
