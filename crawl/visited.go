package crawl

import (
	"strings"
	"sync"

	"github.com/diogo-cruz/aisafety/bloom"
)

// Visited set sizing.
const (
	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.01
)

// VisitedSet records which content URLs a session has already claimed.
// A Bloom filter answers most negative lookups; an exact set resolves
// filter hits so no URL is ever wrongly treated as visited.
// It is safe for concurrent use by multiple goroutines.
type VisitedSet struct {
	mu     sync.Mutex
	filter *bloom.Filter
	urls   map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewFilter(visitedExpectedURLs, visitedFalsePositiveRate),
		urls:   make(map[string]struct{}),
	}
}

// Visit marks the URL as visited and reports whether it was new.
// URL fragments are stripped first; URLs differing only by fragment
// are the same page.
func (v *VisitedSet) Visit(rawURL string) bool {
	key := visitKey(rawURL)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.filter.MayContain(key) {
		if _, ok := v.urls[key]; ok {
			return false
		}
	}
	v.filter.Add(key)
	v.urls[key] = struct{}{}
	return true
}

// Contains reports whether the URL was visited.
func (v *VisitedSet) Contains(rawURL string) bool {
	key := visitKey(rawURL)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.filter.MayContain(key) {
		return false
	}
	_, ok := v.urls[key]
	return ok
}

// Len returns the number of visited URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}

func visitKey(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}
