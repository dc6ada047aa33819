package goquery

import (
	"net/url"
	"strings"

	"github.com/diogo-cruz/aisafety"
)

var _ aisafety.AdapterRegistry = (*Registry)(nil)

// alias maps identifier fragments to a publisher name. A fragment
// matches when the identifier contains it and none of the excluded
// fragments.
type alias struct {
	name     string
	contains []string
	excludes []string
}

// aliases are tried in order after exact name matching.
var aliases = []alias{
	{name: "metr", contains: []string{"metr"}},
	{name: "aisi", contains: []string{"aisi"}, excludes: []string{"nist", "canada"}},
	{name: "lakera", contains: []string{"lakera"}},
	{name: "nist", contains: []string{"nist"}},
	{name: "canada", contains: []string{"canada", "ised"}},
	{name: "apollo", contains: []string{"apollo"}},
	{name: "anthropic", contains: []string{"anthropic"}},
	{name: "deepmind", contains: []string{"deepmind"}},
	{name: "cser", contains: []string{"cser"}},
	{name: "chai", contains: []string{"chai", "humancompatible"}},
}

func (a alias) matches(identifier string) bool {
	for _, x := range a.excludes {
		if strings.Contains(identifier, x) {
			return false
		}
	}
	for _, c := range a.contains {
		if strings.Contains(identifier, c) {
			return true
		}
	}
	return false
}

// Registry holds publisher adapters in registration order and resolves
// user-supplied identifiers (names, hosts or URLs) to them.
type Registry struct {
	names    []string
	adapters map[string]aisafety.Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]aisafety.Adapter)}
}

// DefaultRegistry returns a registry with every supported publisher.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewMetr())
	r.Register(NewAISI())
	r.Register(NewLakera())
	r.Register(NewNIST())
	r.Register(NewCanada())
	r.Register(NewApollo())
	r.Register(NewAnthropic())
	r.Register(NewDeepMind())
	r.Register(NewCSER())
	r.Register(NewCHAI())
	return r
}

// Register adds an adapter. An adapter with the same name is replaced
// and keeps its position.
func (r *Registry) Register(a aisafety.Adapter) {
	if _, ok := r.adapters[a.Name()]; !ok {
		r.names = append(r.names, a.Name())
	}
	r.adapters[a.Name()] = a
}

// Get returns the adapter registered under name, or nil.
func (r *Registry) Get(name string) aisafety.Adapter {
	return r.adapters[name]
}

// List returns the registered publisher names in registration order.
func (r *Registry) List() []string {
	return append([]string(nil), r.names...)
}

// Resolve matches identifier, case-insensitively, against registered
// names and base URL hosts, then against the alias table. It performs
// no I/O.
func (r *Registry) Resolve(identifier string) (aisafety.Adapter, error) {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" {
		return nil, aisafety.Errorf(aisafety.EINVALID, "publisher identifier required")
	}

	if a, ok := r.adapters[id]; ok {
		return a, nil
	}
	for _, name := range r.names {
		a := r.adapters[name]
		if host := hostOf(a.BaseURL()); host != "" && (id == host || hostOf(id) == host) {
			return a, nil
		}
	}
	for _, al := range aliases {
		if !al.matches(id) {
			continue
		}
		if a, ok := r.adapters[al.name]; ok {
			return a, nil
		}
	}
	return nil, aisafety.Errorf(aisafety.EUNSUPPORTED, "unsupported publisher %q", identifier)
}

// NewAdapter resolves identifier against the default registry.
func NewAdapter(identifier string) (aisafety.Adapter, error) {
	return DefaultRegistry().Resolve(identifier)
}

func hostOf(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
