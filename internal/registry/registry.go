// Package registry maps bound method names to host callables shared across threads.
package registry

import (
	"sort"
	"sync"
)

// Reserved method names resolved at dispatch time, so late rebinding is honored.
const (
	TrayClickMethod  = "pytron_tray_click"
	OnCloseMethod    = "pytron_on_close"
	ServeAssetMethod = "pytron_serve_asset"
)

// Callback is a host callable. Bridge calls pass the sequence id and the raw
// argument JSON; tray clicks pass the menu item id as seq; close interception
// passes an empty seq. Callbacks run on the shell thread and must not block.
type Callback func(seq, args string)

// Provider is a reply-carrying callable resolving a virtual asset path to
// bytes and a content type. The Callback signature cannot return data, so
// ServeAssetMethod binds here instead of the callback map.
type Provider func(path string) (data []byte, contentType string, ok bool)

// Registry is a mutex-guarded name → callable map. The lock is held only for
// the duration of a lookup or insert, never across an invocation.
type Registry struct {
	mu        sync.Mutex
	callbacks map[string]Callback
	providers map[string]Provider
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		callbacks: make(map[string]Callback),
		providers: make(map[string]Provider),
	}
}

// Bind registers fn under name, replacing any previous binding. The entry is
// visible to subsequent lookups immediately.
func (r *Registry) Bind(name string, fn Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[name] = fn
}

// Lookup copies out the callable bound to name.
func (r *Registry) Lookup(name string) (Callback, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.callbacks[name]
	return fn, ok
}

// BindProvider registers fn under name, replacing any previous provider.
func (r *Registry) BindProvider(name string, fn Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = fn
}

// Provider copies out the provider bound to name.
func (r *Registry) Provider(name string) (Provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.providers[name]
	return fn, ok
}

// Names returns a sorted snapshot of all bound method names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.callbacks))
	for name := range r.callbacks {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}
