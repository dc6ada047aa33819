// Package crawl drives publisher crawls. It owns the per-session state
// (throttle, visited set, output), walks paginated listings and runs an
// adapter's crawl plan section by section.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/diogo-cruz/aisafety"
	"github.com/google/uuid"
	"github.com/juju/clock"
)

// Crawler runs adapter crawl plans and persists their output.
type Crawler struct {
	Fetcher aisafety.Fetcher
	Store   aisafety.OutputStore
	Config  aisafety.Config
	Clock   clock.Clock
	Logger  *slog.Logger

	// RetryDelays overrides the delays derived from Config.Retries.
	RetryDelays []time.Duration

	// NewRunID generates metadata.run_id. Defaults to uuid.NewString.
	NewRunID func() string
}

// SectionState is the lifecycle state of one crawl section.
type SectionState int

const (
	StateNotStarted SectionState = iota
	StateListingDiscovery
	StatePerItemFetch
	StateDone
)

func (s SectionState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateListingDiscovery:
		return "listing_discovery"
	case StatePerItemFetch:
		return "per_item_fetch"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Publisher string
	Section   string
	Completed int
	Total     int
	URL       string
	Reason    string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Omission reasons reported for list items that produced no record.
const (
	ReasonNotContent = "not a content url"
	ReasonVisited    = "already visited"
	ReasonFailed     = "fetch failed or content missing"
)

// NewSession creates a session for the adapter, configured from the
// crawler's config.
func (c *Crawler) NewSession(a aisafety.Adapter, out *aisafety.Output) *Session {
	delays := c.RetryDelays
	if delays == nil {
		delays = RetryDelays(c.Config.Retries)
	}
	return NewSession(a.BaseURL(), out, c.Fetcher,
		WithDelay(c.Config.DelayFor(a.Name(), a.Delay())),
		WithClock(c.clock()),
		WithLogger(c.logger().With("publisher", a.Name())),
		WithMaxPages(c.Config.MaxPages),
		WithRetryDelays(delays),
	)
}

// NewOutput creates an empty output for the adapter with metadata
// populated and every planned section pre-initialised.
func (c *Crawler) NewOutput(a aisafety.Adapter) *aisafety.Output {
	newRunID := c.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	out := aisafety.NewOutput(aisafety.Metadata{
		Timestamp: c.clock().Now().UTC(),
		BaseURL:   a.BaseURL(),
		Publisher: a.Name(),
		RunID:     newRunID(),
	})
	for _, sec := range a.Sections() {
		out.Declare(sec.Name, sec.IsList())
	}
	return out
}

// Crawl runs the adapter's full crawl plan and returns the assembled
// output. Per-page failures are logged and leave null or omitted
// entries. Only context cancellation aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, a aisafety.Adapter, progress ProgressFunc) (*aisafety.Output, error) {
	out := c.NewOutput(a)
	s := c.NewSession(a, out)

	for _, sec := range a.Sections() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sec.IsList() {
			c.crawlList(ctx, a, s, sec, progress)
			continue
		}

		rec := sec.Page(ctx, s)
		out.SetPage(sec.Name, rec)
		if rec == nil {
			s.Logger().Warn("page unavailable", "section", sec.Name)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Discover returns the adapter's content URLs without scraping them.
func (c *Crawler) Discover(ctx context.Context, a aisafety.Adapter) ([]string, error) {
	s := c.NewSession(a, c.NewOutput(a))
	urls := a.DiscoverContentURLs(ctx, s)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Run crawls the adapter and persists the output exactly once.
// An empty path lets the store derive the filename. Returns the path
// written.
func (c *Crawler) Run(ctx context.Context, a aisafety.Adapter, path string, progress ProgressFunc) (string, error) {
	out, err := c.Crawl(ctx, a, progress)
	if err != nil {
		return "", fmt.Errorf("crawl %s: %w", a.Name(), err)
	}
	written, err := c.Store.Save(ctx, out, path)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", a.Name(), err)
	}
	return written, nil
}

func (c *Crawler) crawlList(ctx context.Context, a aisafety.Adapter, s *Session, sec aisafety.Section, progress ProgressFunc) {
	logger := s.Logger().With("section", sec.Name)
	emit := func(e ProgressEvent) {
		if progress != nil {
			e.Publisher = a.Name()
			e.Section = sec.Name
			progress(e)
		}
	}

	logger.Debug("section state", "state", StateListingDiscovery)
	urls := dedupe(sec.Discover(ctx, s))

	logger.Debug("section state", "state", StatePerItemFetch, "discovered", len(urls))
	emit(ProgressEvent{Type: ProgressStarted, Total: len(urls)})

	scrape := sec.Scrape
	if scrape == nil {
		scrape = a.ScrapeContentPage
	}

	out := s.Output()
	for i, u := range urls {
		if ctx.Err() != nil {
			return
		}

		reason := ""
		if sec.Scrape == nil {
			if !a.IsContentURL(u) {
				reason = ReasonNotContent
			} else if s.Visited(u) {
				reason = ReasonVisited
			}
		}

		var rec *aisafety.Record
		if reason == "" {
			rec = scrape(ctx, s, u)
			if rec == nil {
				reason = ReasonFailed
			}
		}

		if rec == nil {
			logger.Info("item omitted", "url", u, "reason", reason)
			emit(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: len(urls), URL: u, Reason: reason})
			continue
		}
		out.Append(sec.Name, rec)
		emit(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: len(urls), URL: u})
	}

	records := len(out.List(sec.Name))
	logger.Debug("section state", "state", StateDone, "records", records)
	emit(ProgressEvent{Type: ProgressFinished, Completed: records, Total: len(urls)})
}

func (c *Crawler) clock() clock.Clock {
	if c.Clock == nil {
		return clock.WallClock
	}
	return c.Clock
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	result := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		result = append(result, u)
	}
	return result
}
