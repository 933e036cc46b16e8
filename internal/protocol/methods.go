package protocol

import (
	"context"
	"sort"
)

// Handler processes one decoded request and returns the response payload.
type Handler func(ctx context.Context, req *Request) (any, error)

// Registry maps operation names to handlers.
type Registry struct {
	ops map[string]Handler
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Handler)}
}

// Register adds an operation to the registry, replacing any existing
// handler with the same name.
func (r *Registry) Register(op string, handler Handler) {
	r.ops[op] = handler
}

// Lookup returns the handler for an operation, or nil if none is registered.
func (r *Registry) Lookup(op string) Handler {
	return r.ops[op]
}

// Ops returns the registered operation names, sorted.
func (r *Registry) Ops() []string {
	ops := make([]string, 0, len(r.ops))
	for op := range r.ops {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
