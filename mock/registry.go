package mock

import "github.com/diogo-cruz/aisafety"

var _ aisafety.AdapterRegistry = (*AdapterRegistry)(nil)

// AdapterRegistry is a mock implementation of aisafety.AdapterRegistry.
type AdapterRegistry struct {
	RegisterFn func(a aisafety.Adapter)
	GetFn      func(name string) aisafety.Adapter
	ResolveFn  func(identifier string) (aisafety.Adapter, error)
	ListFn     func() []string
}

func (r *AdapterRegistry) Register(a aisafety.Adapter) {
	r.RegisterFn(a)
}

func (r *AdapterRegistry) Get(name string) aisafety.Adapter {
	return r.GetFn(name)
}

func (r *AdapterRegistry) Resolve(identifier string) (aisafety.Adapter, error) {
	return r.ResolveFn(identifier)
}

func (r *AdapterRegistry) List() []string {
	return r.ListFn()
}
