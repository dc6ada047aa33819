package mock

import (
	"context"
	"time"

	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Adapter = (*Adapter)(nil)

// Adapter is a mock implementation of aisafety.Adapter.
type Adapter struct {
	NameFn                func() string
	BaseURLFn             func() string
	DelayFn               func() time.Duration
	IsContentURLFn        func(rawURL string) bool
	ScrapeHomeFn          func(ctx context.Context, s aisafety.Session) *aisafety.Record
	ScrapeAboutFn         func(ctx context.Context, s aisafety.Session) *aisafety.Record
	ScrapeContentPageFn   func(ctx context.Context, s aisafety.Session, url string) *aisafety.Record
	DiscoverContentURLsFn func(ctx context.Context, s aisafety.Session) []string
	SectionsFn            func() []aisafety.Section
}

func (a *Adapter) Name() string {
	return a.NameFn()
}

func (a *Adapter) BaseURL() string {
	return a.BaseURLFn()
}

func (a *Adapter) Delay() time.Duration {
	return a.DelayFn()
}

func (a *Adapter) IsContentURL(rawURL string) bool {
	return a.IsContentURLFn(rawURL)
}

func (a *Adapter) ScrapeHome(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return a.ScrapeHomeFn(ctx, s)
}

func (a *Adapter) ScrapeAbout(ctx context.Context, s aisafety.Session) *aisafety.Record {
	return a.ScrapeAboutFn(ctx, s)
}

func (a *Adapter) ScrapeContentPage(ctx context.Context, s aisafety.Session, url string) *aisafety.Record {
	return a.ScrapeContentPageFn(ctx, s, url)
}

func (a *Adapter) DiscoverContentURLs(ctx context.Context, s aisafety.Session) []string {
	return a.DiscoverContentURLsFn(ctx, s)
}

func (a *Adapter) Sections() []aisafety.Section {
	return a.SectionsFn()
}
