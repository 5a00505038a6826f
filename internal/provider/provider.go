package provider

import (
	"context"
	"sort"

	"prompt-gateway/internal/prompt"
)

// NoResponseText is returned when an upstream success envelope carries no
// usable content. The callers treat this as a degraded success, not an error.
const NoResponseText = "No response generated"

// Adapter translates between the gateway's abstract request shape and one
// upstream LLM provider's concrete HTTP schema.
type Adapter interface {
	Name() string
	// Dialect reports which output constraints this provider's prompts
	// impose on the generate and edit actions.
	Dialect() prompt.Dialect
	// Available reports whether the required credentials are configured.
	Available() bool
	// Send performs one upstream call and returns the extracted text.
	// Failures are reported as *Error.
	Send(ctx context.Context, content string, spec prompt.Spec) (string, error)
}

// Registry is a name-indexed set of adapters.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(name string, a Adapter) {
	r.adapters[name] = a
}

func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
