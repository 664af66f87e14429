package dsl

import (
	"context"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// optionalMarker is implemented by schemas whose object field may be absent.
type optionalMarker interface{ isOptional() }

// Optional makes s optional: an absent field or null parses to nil, and nil
// is omitted from objects (null at the root).
func Optional[T any](s wireschema.Schema[T]) wireschema.Schema[*T] {
	return optionalSchema[T]{inner: s}
}

type optionalSchema[T any] struct{ inner wireschema.Schema[T] }

func (optionalSchema[T]) isOptional() {}

func (o optionalSchema[T]) Parse(ctx context.Context, raw any) (*T, error) {
	return parsePointer(ctx, o.inner, raw)
}

func (o optionalSchema[T]) Serialize(ctx context.Context, v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	return o.inner.Serialize(ctx, *v)
}

func (o optionalSchema[T]) JSONSchema() (*js.Schema, error) { return o.project(expanding{}) }

func (o optionalSchema[T]) project(seen expanding) (*js.Schema, error) {
	s, err := jsonSchemaOf(o.inner, seen)
	if err != nil {
		return nil, err
	}
	return js.Nullable(s), nil
}

// Nullable accepts an explicit null in addition to s. Unlike Optional the
// field stays required in objects, and nil serializes as null.
func Nullable[T any](s wireschema.Schema[T]) wireschema.Schema[*T] {
	return nullableSchema[T]{inner: s}
}

type nullableSchema[T any] struct{ inner wireschema.Schema[T] }

func (n nullableSchema[T]) Parse(ctx context.Context, raw any) (*T, error) {
	return parsePointer(ctx, n.inner, raw)
}

func (n nullableSchema[T]) Serialize(ctx context.Context, v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	return n.inner.Serialize(ctx, *v)
}

func (n nullableSchema[T]) JSONSchema() (*js.Schema, error) { return n.project(expanding{}) }

func (n nullableSchema[T]) project(seen expanding) (*js.Schema, error) {
	s, err := jsonSchemaOf(n.inner, seen)
	if err != nil {
		return nil, err
	}
	return js.Nullable(s), nil
}

func parsePointer[T any](ctx context.Context, s wireschema.Schema[T], raw any) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	if v, ok := raw.(wireschema.Value); ok && v.IsNull() {
		return nil, nil
	}
	v, err := s.Parse(ctx, raw)
	if err != nil {
		if skipValidation(ctx) {
			return &v, err
		}
		return nil, err
	}
	return &v, nil
}
