package mock

import (
	"context"

	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of aisafety.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
