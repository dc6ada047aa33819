package aisafety

import (
	"context"
	"log/slog"
	"time"
)

// Session is the mutable state of one publisher crawl. It is created per
// run, passed to every adapter operation, and discarded after persistence.
type Session interface {
	// BaseURL returns the publisher's base URL.
	BaseURL() string

	// Fetch waits for the politeness delay and retrieves the URL.
	Fetch(ctx context.Context, url string) (string, error)

	// Visit marks url as visited. It reports false when url was already
	// visited. The check and the mark are atomic.
	Visit(url string) bool

	// Visited reports whether url was already visited.
	Visited(url string) bool

	// Now returns the extraction timestamp for new records.
	Now() time.Time

	// MaxPages bounds listing pagination.
	MaxPages() int

	// Logger returns the session logger.
	Logger() *slog.Logger

	// Output returns the document being assembled.
	Output() *Output
}

// Section is one step of a publisher's crawl plan.
//
// A page section sets Page and produces a single record (or nil).
// A list section sets Discover, which returns candidate URLs, and
// optionally Scrape; a nil Scrape defaults to the adapter's
// ScrapeContentPage.
type Section struct {
	Name     string
	Page     func(ctx context.Context, s Session) *Record
	Discover func(ctx context.Context, s Session) []string
	Scrape   func(ctx context.Context, s Session, url string) *Record
}

// IsList reports whether the section produces a list of records.
func (s Section) IsList() bool {
	return s.Page == nil
}

// Adapter implements publisher-specific page location and URL discovery.
type Adapter interface {
	// Name returns the publisher identifier (e.g., "metr").
	Name() string

	// BaseURL returns the publisher's base URL.
	BaseURL() string

	// Delay returns the politeness delay charged before every request.
	Delay() time.Duration

	// IsContentURL reports whether rawURL identifies an individual
	// article, post or publication. It is false for listing pages and
	// their pagination, query or fragment variants.
	IsContentURL(rawURL string) bool

	// ScrapeHome scrapes the publisher's home page. Returns nil when the
	// page cannot be fetched or the publisher has none.
	ScrapeHome(ctx context.Context, s Session) *Record

	// ScrapeAbout scrapes the publisher's about page. Returns nil when the
	// page cannot be fetched or the publisher has none.
	ScrapeAbout(ctx context.Context, s Session) *Record

	// ScrapeContentPage scrapes one content page. Returns nil without
	// fetching when url is not a content URL or was already visited, and
	// nil when the fetch fails or the content container is missing.
	ScrapeContentPage(ctx context.Context, s Session, url string) *Record

	// DiscoverContentURLs returns the absolute URLs of every content page
	// the publisher exposes, in discovery order.
	DiscoverContentURLs(ctx context.Context, s Session) []string

	// Sections returns the full crawl plan.
	Sections() []Section
}

// AdapterRegistry resolves publisher identifiers to adapters.
type AdapterRegistry interface {
	// Register adds an adapter, replacing any with the same name.
	Register(a Adapter)

	// Get returns the adapter registered under name, or nil.
	Get(name string) Adapter

	// Resolve matches identifier exactly or by substring against the
	// known publishers. Returns EUNSUPPORTED when nothing matches.
	Resolve(identifier string) (Adapter, error)

	// List returns registered publisher names in registration order.
	List() []string
}
