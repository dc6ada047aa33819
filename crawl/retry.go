package crawl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/juju/clock"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryDelays returns n backoff delays doubling from 1s: 1s, 2s, 4s, ...
// Zero means no retries.
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// Retrier repeats failed fetches after each of its delays. Missing pages
// and malformed URLs fail immediately.
type Retrier struct {
	Delays []time.Duration
	Clock  clock.Clock
	Logger *slog.Logger
}

// Fetch calls fetch until it succeeds, fails permanently or the delays
// are exhausted, and returns the last error.
func (r *Retrier) Fetch(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	clk := r.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= len(r.Delays) || permanent(err) {
			return "", lastErr
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		logger.Warn("retry", "url", url, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-clk.After(r.Delays[attempt]):
		}
	}
}

func permanent(err error) bool {
	switch aisafety.ErrorCode(err) {
	case aisafety.ENOTFOUND, aisafety.EINVALID:
		return true
	}
	return false
}
