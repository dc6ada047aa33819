package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/diogo-cruz/aisafety"
)

// absoluteURL resolves href against base. Unparseable hrefs are
// returned unchanged.
func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// resolveURL resolves a discovered href against base for crawling.
// Returns empty string for non-HTTP links and unparseable hrefs.
// Fragments are stripped for deduplication.
func resolveURL(base *url.URL, href string) string {
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// This uses exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// Links returns every anchor with an href inside sel, resolved against
// base, in document order. The result is never nil.
func Links(sel *goquery.Selection, base *url.URL) []aisafety.Link {
	links := []aisafety.Link{}
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, aisafety.Link{
			Text: Text(a),
			Href: absoluteURL(base, href),
		})
	})
	return links
}

// collectURLs resolves every href matched by selector inside sel and
// keeps the on-site ones accepted by keep, de-duplicated in document
// order.
func collectURLs(sel *goquery.Selection, selector string, base *url.URL, keep func(string) bool) []string {
	var urls []string
	seen := make(map[string]struct{})
	sel.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return
		}
		if keep != nil && !keep(resolved) {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		urls = append(urls, resolved)
	})
	return urls
}
