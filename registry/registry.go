// Package registry keeps named, type-erased schemas so callers that only
// know a type name (the CLI, generic handlers) can parse and serialize.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// ErrNotRegistered is returned by Get for unknown names.
var ErrNotRegistered = errors.New("registry: type not registered")

// Entry is a type-erased schema.
type Entry interface {
	Name() string
	Parse(ctx context.Context, raw any, opts ...wireschema.ParseOpt) (any, error)
	Serialize(ctx context.Context, v any, opts ...wireschema.SerializeOpt) (any, error)
	JSONSchema() (*js.Schema, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry maps type names to entries. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	logger  *slog.Logger
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{entries: make(map[string]Entry), logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds s under name. Registering a name twice is an error.
func Register[T any](r *Registry, name string, s wireschema.Schema[T]) error {
	if name == "" {
		return fmt.Errorf("registry: type name cannot be empty")
	}
	if s == nil {
		return fmt.Errorf("registry: schema for %s cannot be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("registry: type %s already registered", name)
	}
	r.entries[name] = entry[T]{name: name, schema: s}
	r.logger.Debug("registered schema", "type", name)
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister[T any](r *Registry, name string, s wireschema.Schema[T]) {
	if err := Register(r, name, s); err != nil {
		panic(err)
	}
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return e, nil
}

// MustGet is Get that panics on error.
func (r *Registry) MustGet(name string) Entry {
	e, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

type entry[T any] struct {
	name   string
	schema wireschema.Schema[T]
}

func (e entry[T]) Name() string { return e.name }

func (e entry[T]) Parse(ctx context.Context, raw any, opts ...wireschema.ParseOpt) (any, error) {
	v, err := wireschema.Parse(ctx, e.schema, raw, opts...)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Serialize accepts a T or a *T.
func (e entry[T]) Serialize(ctx context.Context, v any, opts ...wireschema.SerializeOpt) (any, error) {
	switch t := v.(type) {
	case T:
		return wireschema.Serialize(ctx, e.schema, t, opts...)
	case *T:
		if t != nil {
			return wireschema.Serialize(ctx, e.schema, *t, opts...)
		}
	}
	var zero T
	return nil, &wireschema.SerializationError{Issues: wireschema.Issues{{
		Path:     "/",
		Code:     wireschema.CodeShapeMismatch,
		Message:  fmt.Sprintf("%s: cannot serialize %T", e.name, v),
		Expected: fmt.Sprintf("%T", zero),
		Actual:   fmt.Sprintf("%T", v),
	}}}
}

func (e entry[T]) JSONSchema() (*js.Schema, error) {
	s, err := e.schema.JSONSchema()
	if err != nil {
		return nil, err
	}
	if s.Title == "" {
		c := *s
		c.Title = e.name
		s = &c
	}
	return s, nil
}
