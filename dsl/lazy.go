package dsl

import (
	"context"
	"sync"
	"sync/atomic"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// Lazy defers construction of a schema until first use, for recursive shapes.
func Lazy[T any](build func() wireschema.Schema[T]) wireschema.Schema[T] {
	return &lazySchema[T]{build: build}
}

type lazySchema[T any] struct {
	once  sync.Once
	build func() wireschema.Schema[T]
	s     wireschema.Schema[T]

	cached atomic.Pointer[js.Schema]
}

func (l *lazySchema[T]) get() wireschema.Schema[T] {
	l.once.Do(func() { l.s = l.build() })
	return l.s
}

func (l *lazySchema[T]) Parse(ctx context.Context, raw any) (T, error) { return l.get().Parse(ctx, raw) }

func (l *lazySchema[T]) Serialize(ctx context.Context, v T) (any, error) {
	return l.get().Serialize(ctx, v)
}

// JSONSchema expands the target and caches the result. A recursive
// reference met during the expansion projects to the empty schema; other
// callers, concurrent ones included, always see the full expansion.
func (l *lazySchema[T]) JSONSchema() (*js.Schema, error) { return l.project(expanding{}) }

func (l *lazySchema[T]) project(seen expanding) (*js.Schema, error) {
	if c := l.cached.Load(); c != nil {
		return c, nil
	}
	if seen[l] {
		return &js.Schema{}, nil
	}
	seen[l] = true
	defer delete(seen, l)
	out, err := jsonSchemaOf(l.get(), seen)
	if err != nil {
		return nil, err
	}
	// An expansion nested in another lazy schema may have cut that one's
	// recursion short, so only the outermost result is cached.
	if len(seen) == 1 {
		l.cached.CompareAndSwap(nil, out)
	}
	return out, nil
}
