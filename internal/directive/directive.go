// Package directive implements the parser-function surface of the unique-link
// extension: named directives embedded in page source as {{#name:arg|arg|...}}
// constructs, dispatched to registered handlers during a render session.
package directive

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"git.home.luguber.info/inful/linkonce/internal/linkregistry"
	"git.home.luguber.info/inful/linkonce/internal/metrics"
	"git.home.luguber.info/inful/linkonce/internal/titles"
)

// Invocation is one parsed directive occurrence. Args are already split on
// "|" and whitespace-trimmed; missing arguments are absent from the slice.
type Invocation struct {
	Name string
	Args []string
}

// Arg returns the i-th argument or the empty string when absent. Directive
// arguments are permissive: a missing argument and an empty one are the same.
func (inv Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Reporter receives per-directive outcomes for the page link report.
// Implemented by the render session; a nil Reporter is allowed.
type Reporter interface {
	LinkEmitted(target, category string)
	LinkSuppressed(target, category string)
	TargetMissing(target string)
}

// Context carries the per-session collaborators a handler may use. One
// Context exists per render session; it is not shared across sessions.
type Context struct {
	Ctx      context.Context
	Links    *linkregistry.Registry
	Resolver titles.Resolver
	Recorder metrics.Recorder
	Reporter Reporter
	Logger   *slog.Logger
}

// Handler renders one directive invocation to output text. Returning an empty
// string means the directive produces no output.
type Handler func(dctx *Context, inv Invocation) (string, error)

// Registry binds directive names to handlers. It is populated once at
// pipeline construction (where the configuration surface is consulted) and is
// read-only during dispatch, so concurrent page renders may share it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a new empty directive registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a directive name.
// Returns an error if the name is empty, the handler nil, or the name taken.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("cannot register directive with empty name")
	}
	if h == nil {
		return fmt.Errorf("cannot register nil handler for directive %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("directive %q already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Lookup returns the handler for name, or false when the directive is
// unknown. Unknown directives are left verbatim in the page output.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered directive names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered directives.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
