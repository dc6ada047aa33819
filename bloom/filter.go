// Package bloom provides a probabilistic pre-check for visited URLs.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not seen" for URL keys. Positive answers
// must be confirmed against an exact set.
// It is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs at the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records a URL key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// MayContain returns false when the key was definitely never added.
func (f *Filter) MayContain(key string) bool {
	return f.f.TestString(key)
}
