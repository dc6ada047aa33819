package crawl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/juju/clock"
)

var _ aisafety.Session = (*Session)(nil)

// Session is the state of a single publisher crawl: its throttle,
// visited set and the output being assembled. Requests made through a
// session are strictly sequential in intent; the throttle serializes
// them even if callers overlap.
type Session struct {
	baseURL     string
	fetcher     aisafety.Fetcher
	throttle    *Throttle
	visited     *VisitedSet
	clock       clock.Clock
	logger      *slog.Logger
	maxPages    int
	retryDelays []time.Duration
	out         *aisafety.Output
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDelay sets the politeness delay charged before every request.
func WithDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.throttle = NewThrottle(d)
	}
}

// WithClock sets the clock used for record timestamps and retry backoff.
// Defaults to clock.WallClock.
func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) {
		s.clock = c
	}
}

// WithLogger sets the session logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMaxPages caps listing pagination.
// Defaults to aisafety.DefaultMaxPages.
func WithMaxPages(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithRetryDelays enables retries of failed requests.
func WithRetryDelays(delays []time.Duration) SessionOption {
	return func(s *Session) {
		s.retryDelays = delays
	}
}

// NewSession creates a session for one publisher crawl.
func NewSession(baseURL string, out *aisafety.Output, fetcher aisafety.Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		baseURL:  baseURL,
		fetcher:  fetcher,
		throttle: NewThrottle(0),
		visited:  NewVisitedSet(),
		clock:    clock.WallClock,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxPages: aisafety.DefaultMaxPages,
		out:      out,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) BaseURL() string { return s.baseURL }

// Fetch waits for the throttle and retrieves the URL. Every attempt,
// including retries, is charged the delay.
func (s *Session) Fetch(ctx context.Context, url string) (string, error) {
	fetch := func(ctx context.Context, url string) (string, error) {
		if err := s.throttle.Wait(ctx); err != nil {
			return "", err
		}
		return s.fetcher.Fetch(ctx, url)
	}
	r := &Retrier{Delays: s.retryDelays, Clock: s.clock, Logger: s.logger}
	return r.Fetch(ctx, url, fetch)
}

func (s *Session) Visit(url string) bool { return s.visited.Visit(url) }

func (s *Session) Visited(url string) bool { return s.visited.Contains(url) }

func (s *Session) Now() time.Time { return s.clock.Now().UTC() }

func (s *Session) MaxPages() int { return s.maxPages }

func (s *Session) Logger() *slog.Logger { return s.logger }

func (s *Session) Output() *aisafety.Output { return s.out }
