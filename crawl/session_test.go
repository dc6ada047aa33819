package crawl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/crawl"
	"github.com/diogo-cruz/aisafety/mock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("implements aisafety.Session", func(t *testing.T) {
		t.Parallel()
		var _ aisafety.Session = newTestSession()
	})

	t.Run("timestamps come from the injected clock", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
		s := newTestSession(crawl.WithClock(testclock.NewClock(now)))

		assert.Equal(t, now, s.Now())
	})

	t.Run("fetch delegates to the fetcher", func(t *testing.T) {
		t.Parallel()

		var got string
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				got = url
				return "<p>hi</p>", nil
			},
		}
		s := crawl.NewSession("https://metr.org", aisafety.NewOutput(aisafety.Metadata{}), fetcher)

		html, err := s.Fetch(context.Background(), "https://metr.org/blog")

		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", html)
		assert.Equal(t, "https://metr.org/blog", got)
	})

	t.Run("retries are throttled and logged", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				if calls == 1 {
					return "", errors.New("HTTP 502 for " + url)
				}
				return "ok", nil
			},
		}
		var buf bytes.Buffer
		s := crawl.NewSession("https://metr.org", aisafety.NewOutput(aisafety.Metadata{}), fetcher,
			crawl.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
			crawl.WithRetryDelays([]time.Duration{time.Millisecond}),
		)

		html, err := s.Fetch(context.Background(), "https://metr.org")

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, 2, calls)
		assert.Contains(t, buf.String(), "retry")
	})

	t.Run("visit is check-and-mark", func(t *testing.T) {
		t.Parallel()

		s := newTestSession()

		assert.False(t, s.Visited("https://x.org/a"))
		assert.True(t, s.Visit("https://x.org/a"))
		assert.True(t, s.Visited("https://x.org/a"))
		assert.False(t, s.Visit("https://x.org/a"))
	})

	t.Run("max pages defaults and overrides", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, aisafety.DefaultMaxPages, newTestSession().MaxPages())
		assert.Equal(t, 7, newTestSession(crawl.WithMaxPages(7)).MaxPages())
		assert.Equal(t, aisafety.DefaultMaxPages, newTestSession(crawl.WithMaxPages(0)).MaxPages())
	})
}
