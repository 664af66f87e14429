package dsl

import (
	"context"
	"maps"
	"slices"
	"strconv"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// Alt is one alternative of an undiscriminated union over T.
type Alt[T any] interface {
	Name() string

	parse(ctx context.Context, raw any) (T, error)
	serialize(ctx context.Context, v T) (any, bool, error)
	jsonSchema(seen expanding) (*js.Schema, error)
}

// Alternative declares a union member backed by s. wrap lifts the member
// value into T; unwrap reports whether a T holds this member.
func Alternative[T, A any](name string, s wireschema.Schema[A], wrap func(A) T, unwrap func(T) (A, bool)) Alt[T] {
	return alt[T, A]{name: name, schema: s, wrap: wrap, unwrap: unwrap}
}

type alt[T, A any] struct {
	name   string
	schema wireschema.Schema[A]
	wrap   func(A) T
	unwrap func(T) (A, bool)
}

func (a alt[T, A]) Name() string { return a.name }

func (a alt[T, A]) parse(ctx context.Context, raw any) (T, error) {
	v, err := a.schema.Parse(ctx, raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.wrap(v), nil
}

func (a alt[T, A]) serialize(ctx context.Context, v T) (any, bool, error) {
	m, ok := a.unwrap(v)
	if !ok {
		return nil, false, nil
	}
	raw, err := a.schema.Serialize(ctx, m)
	return raw, true, err
}

func (a alt[T, A]) jsonSchema(seen expanding) (*js.Schema, error) {
	s, err := jsonSchemaOf(a.schema, seen)
	if err != nil {
		return nil, err
	}
	if s.Title == "" {
		c := *s
		c.Title = a.name
		s = &c
	}
	return s, nil
}

// UndiscriminatedUnion tries alts in declaration order and returns the first
// that parses. When none does, the result is a single union_exhausted issue
// whose Alternatives hold each member's issues in order.
func UndiscriminatedUnion[T any](alts ...Alt[T]) wireschema.Schema[T] {
	if len(alts) == 0 {
		panic("dsl.UndiscriminatedUnion: no alternatives")
	}
	return undiscriminatedUnion[T]{alts: slices.Clone(alts)}
}

type undiscriminatedUnion[T any] struct{ alts []Alt[T] }

func (u undiscriminatedUnion[T]) Parse(ctx context.Context, raw any) (T, error) {
	var zero T
	actx := strictContext(ctx)
	failures := make([]wireschema.Issues, 0, len(u.alts))
	for _, a := range u.alts {
		v, err := a.parse(actx, raw)
		if err == nil {
			return v, nil
		}
		failures = append(failures, toIssues(err))
	}
	it := wireschema.NewIssue("/", wireschema.CodeUnionExhausted, map[string]string{"actual": wireschema.ShapeOf(raw)})
	it.Alternatives = failures
	return zero, wireschema.Issues{it}
}

func (u undiscriminatedUnion[T]) Serialize(ctx context.Context, v T) (any, error) {
	var failures []wireschema.Issues
	for _, a := range u.alts {
		raw, matched, err := a.serialize(ctx, v)
		if !matched {
			continue
		}
		if err == nil {
			return raw, nil
		}
		failures = append(failures, toIssues(err))
	}
	it := wireschema.NewIssue("/", wireschema.CodeUnionNoMatch, nil)
	it.Alternatives = failures
	return nil, wireschema.Issues{it}
}

func (u undiscriminatedUnion[T]) JSONSchema() (*js.Schema, error) { return u.project(expanding{}) }

func (u undiscriminatedUnion[T]) project(seen expanding) (*js.Schema, error) {
	out := &js.Schema{AnyOf: make([]*js.Schema, 0, len(u.alts))}
	for _, a := range u.alts {
		s, err := a.jsonSchema(seen)
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, s)
	}
	return out, nil
}

// VariantOf is one member of a discriminated union over T.
type VariantOf[T any] interface {
	Tag() string

	parse(ctx context.Context, raw map[string]any) (T, error)
	serialize(ctx context.Context, v T) (any, bool, error)
	jsonSchema(seen expanding) (*js.Schema, error)
}

// Variant declares the member selected by tag. s sees the object without
// the discriminator key, and must serialize to an object.
func Variant[T, V any](tag string, s wireschema.Schema[V], wrap func(V) T, unwrap func(T) (V, bool)) VariantOf[T] {
	return variant[T, V]{tag: tag, schema: s, wrap: wrap, unwrap: unwrap}
}

type variant[T, V any] struct {
	tag    string
	schema wireschema.Schema[V]
	wrap   func(V) T
	unwrap func(T) (V, bool)
}

func (v variant[T, V]) Tag() string { return v.tag }

func (v variant[T, V]) parse(ctx context.Context, raw map[string]any) (T, error) {
	m, err := v.schema.Parse(ctx, raw)
	if err != nil {
		var zero T
		if skipValidation(ctx) {
			return v.wrap(m), err
		}
		return zero, err
	}
	return v.wrap(m), nil
}

func (v variant[T, V]) serialize(ctx context.Context, t T) (any, bool, error) {
	m, ok := v.unwrap(t)
	if !ok {
		return nil, false, nil
	}
	raw, err := v.schema.Serialize(ctx, m)
	return raw, true, err
}

func (v variant[T, V]) jsonSchema(seen expanding) (*js.Schema, error) {
	return jsonSchemaOf(v.schema, seen)
}

// UnionSchema is a union keyed by a string discriminator property.
type UnionSchema[T any] struct {
	discriminator string
	variants      map[string]VariantOf[T]
	order         []string
	// fallback for unrecognized tags when AllowUnrecognizedUnionMembers is set
	unknownWrap   func(tag string, raw wireschema.Value) T
	unknownUnwrap func(T) (wireschema.Value, bool)
}

// Union builds a discriminated union. Tags must be unique.
func Union[T any](discriminator string, variants ...VariantOf[T]) *UnionSchema[T] {
	u := &UnionSchema[T]{discriminator: discriminator, variants: make(map[string]VariantOf[T], len(variants))}
	for _, v := range variants {
		if _, dup := u.variants[v.Tag()]; dup {
			panic("dsl.Union: duplicate variant " + strconv.Quote(v.Tag()))
		}
		u.variants[v.Tag()] = v
		u.order = append(u.order, v.Tag())
	}
	return u
}

// WithUnknown keeps members with unrecognized tags as raw values when the
// parse option AllowUnrecognizedUnionMembers is set. unwrap returns the raw
// value back for serialization.
func (u *UnionSchema[T]) WithUnknown(wrap func(tag string, raw wireschema.Value) T, unwrap func(T) (wireschema.Value, bool)) *UnionSchema[T] {
	c := *u
	c.unknownWrap, c.unknownUnwrap = wrap, unwrap
	return &c
}

func (u *UnionSchema[T]) Parse(ctx context.Context, raw any) (T, error) {
	var zero T
	m, ok := unwrapValue(raw).(map[string]any)
	if !ok {
		return zero, wireschema.ShapeMismatch("object", raw)
	}
	path := wireschema.FieldPointer(u.discriminator)
	tag, ok := m[u.discriminator].(string)
	if !ok {
		return zero, issues(path, wireschema.CodeDiscriminatorMissing, map[string]string{"key": u.discriminator})
	}
	v, ok := u.variants[tag]
	if !ok {
		if u.unknownWrap != nil && wireschema.ParseOptFrom(ctx).AllowUnrecognizedUnionMembers {
			val, err := wireschema.FromAny(m)
			if err != nil {
				return zero, toIssues(err)
			}
			return u.unknownWrap(tag, val), nil
		}
		return zero, issues(path, wireschema.CodeDiscriminatorUnknown, map[string]string{"value": strconv.Quote(tag)})
	}
	rest := maps.Clone(m)
	delete(rest, u.discriminator)
	return v.parse(ctx, rest)
}

func (u *UnionSchema[T]) Serialize(ctx context.Context, t T) (any, error) {
	for _, tag := range u.order {
		raw, matched, err := u.variants[tag].serialize(ctx, t)
		if !matched {
			continue
		}
		if err != nil {
			return nil, err
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, wireschema.ShapeMismatch("object", raw)
		}
		out := maps.Clone(m)
		out[u.discriminator] = tag
		return out, nil
	}
	if u.unknownUnwrap != nil {
		if val, ok := u.unknownUnwrap(t); ok {
			return val.ToAny(), nil
		}
	}
	return nil, issues("/", wireschema.CodeUnionNoMatch, nil)
}

func (u *UnionSchema[T]) JSONSchema() (*js.Schema, error) { return u.project(expanding{}) }

func (u *UnionSchema[T]) project(seen expanding) (*js.Schema, error) {
	out := &js.Schema{OneOf: make([]*js.Schema, 0, len(u.order))}
	for _, tag := range u.order {
		vs, err := u.variants[tag].jsonSchema(seen)
		if err != nil {
			return nil, err
		}
		c := *vs
		c.Properties = maps.Clone(vs.Properties)
		if c.Properties == nil {
			c.Properties = map[string]*js.Schema{}
		}
		c.Properties[u.discriminator] = &js.Schema{Type: "string", Const: tag}
		c.Required = append([]string{u.discriminator}, vs.Required...)
		out.OneOf = append(out.OneOf, &c)
	}
	return out, nil
}
