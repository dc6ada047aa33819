package crawl

import (
	"context"

	"github.com/diogo-cruz/aisafety"
)

// Listing is one parsed page of a paginated listing.
type Listing struct {
	// Items are candidate content URLs, in document order.
	Items []string

	// Next is the URL of the next listing page. Empty when the page has
	// no next-page control.
	Next string
}

// ListingFunc fetches and parses the listing page at pageURL, which is
// page number page (1-based). It reports false when the fetch failed.
type ListingFunc func(ctx context.Context, pageURL string, page int) (Listing, bool)

// Paginate walks a listing from first, collecting the ordered, de-duplicated
// union of items. It stops on a failed fetch, on a page with no items, on
// a page with no next-page control, on a next page already walked, or
// after s.MaxPages pages.
func Paginate(ctx context.Context, s aisafety.Session, first string, listing ListingFunc) []string {
	maxPages := s.MaxPages()
	if maxPages <= 0 {
		maxPages = aisafety.DefaultMaxPages
	}

	var items []string
	seenItems := make(map[string]struct{})
	walked := make(map[string]struct{})

	pageURL := first
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			break
		}
		if page > maxPages {
			s.Logger().Warn("pagination cap reached", "url", first, "max_pages", maxPages)
			break
		}
		walked[pageURL] = struct{}{}

		l, ok := listing(ctx, pageURL, page)
		if !ok {
			s.Logger().Warn("listing page unavailable", "url", pageURL, "page", page)
			break
		}
		if len(l.Items) == 0 {
			s.Logger().Debug("listing exhausted", "url", pageURL, "page", page)
			break
		}

		for _, item := range l.Items {
			if _, ok := seenItems[item]; ok {
				continue
			}
			seenItems[item] = struct{}{}
			items = append(items, item)
		}

		if l.Next == "" {
			break
		}
		if _, ok := walked[l.Next]; ok {
			s.Logger().Warn("pagination loop detected", "url", l.Next, "page", page)
			break
		}
		pageURL = l.Next
	}

	return items
}
