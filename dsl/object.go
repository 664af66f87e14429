package dsl

import (
	"context"
	"maps"
	"slices"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// Prop is one declared field of an object schema over T.
type Prop[T any] interface {
	TypedName() string
	RawName() string
	Optional() bool

	parse(ctx context.Context, raw any, dst *T) error
	serialize(ctx context.Context, src *T) (any, error)
	jsonSchema(seen expanding) (*js.Schema, error)
}

// Property declares a field whose typed name differs from its raw wire name.
// ref returns the address of the field inside T.
func Property[T, F any](typed, raw string, s wireschema.Schema[F], ref func(*T) *F) Prop[T] {
	_, opt := s.(optionalMarker)
	return &prop[T, F]{typed: typed, raw: raw, schema: s, ref: ref, optional: opt}
}

// Field declares a field whose raw name equals its typed name.
func Field[T, F any](name string, s wireschema.Schema[F], ref func(*T) *F) Prop[T] {
	return Property(name, name, s, ref)
}

// OptionalProperty declares a pointer field that may be absent on the wire.
func OptionalProperty[T, F any](typed, raw string, s wireschema.Schema[F], ref func(*T) **F) Prop[T] {
	return Property(typed, raw, Optional(s), ref)
}

type prop[T, F any] struct {
	typed, raw string
	schema     wireschema.Schema[F]
	ref        func(*T) *F
	optional   bool
}

func (p *prop[T, F]) TypedName() string { return p.typed }
func (p *prop[T, F]) RawName() string   { return p.raw }
func (p *prop[T, F]) Optional() bool    { return p.optional }

func (p *prop[T, F]) parse(ctx context.Context, raw any, dst *T) error {
	v, err := p.schema.Parse(ctx, raw)
	if err == nil || skipValidation(ctx) {
		*p.ref(dst) = v
	}
	return err
}

func (p *prop[T, F]) serialize(ctx context.Context, src *T) (any, error) {
	return p.schema.Serialize(ctx, *p.ref(src))
}

func (p *prop[T, F]) jsonSchema(seen expanding) (*js.Schema, error) {
	return jsonSchemaOf(p.schema, seen)
}

// ObjectSchema maps a JSON object onto T through an explicit field table.
type ObjectSchema[T any] struct {
	props   []Prop[T]
	unknown wireschema.UnknownPolicy
	extra   func(*T) *map[string]wireschema.Value
	title   string
}

// Object builds an object schema. Fields are validated and serialized in
// declaration order. Unknown keys are stripped unless Strict or Passthrough
// is used.
func Object[T any](props ...Prop[T]) *ObjectSchema[T] {
	seen := map[string]bool{}
	for _, p := range props {
		if seen[p.RawName()] {
			panic("dsl.Object: duplicate raw field name " + p.RawName())
		}
		seen[p.RawName()] = true
	}
	return &ObjectSchema[T]{props: slices.Clone(props), unknown: wireschema.UnknownStrip}
}

func (o *ObjectSchema[T]) clone() *ObjectSchema[T] {
	c := *o
	return &c
}

// Strict rejects unknown keys with unknown_key.
func (o *ObjectSchema[T]) Strict() *ObjectSchema[T] {
	c := o.clone()
	c.unknown = wireschema.UnknownStrict
	return c
}

// Passthrough keeps unknown keys in the map returned by extra, and writes
// them back on serialize.
func (o *ObjectSchema[T]) Passthrough(extra func(*T) *map[string]wireschema.Value) *ObjectSchema[T] {
	c := o.clone()
	c.unknown = wireschema.UnknownPassthrough
	c.extra = extra
	return c
}

// Titled sets the title of the JSON Schema projection.
func (o *ObjectSchema[T]) Titled(title string) *ObjectSchema[T] {
	c := o.clone()
	c.title = title
	return c
}

// Props returns the declared fields.
func (o *ObjectSchema[T]) Props() []Prop[T] { return slices.Clone(o.props) }

func (o *ObjectSchema[T]) Parse(ctx context.Context, raw any) (T, error) {
	var out T
	m, ok := unwrapValue(raw).(map[string]any)
	if !ok {
		return out, wireschema.ShapeMismatch("object", raw)
	}
	failFast := wireschema.IsFailFast(ctx)
	var iss wireschema.Issues
	for _, p := range o.props {
		path := wireschema.FieldPointer(p.RawName())
		rv, present := m[p.RawName()]
		if !present && !p.Optional() {
			iss = append(iss, wireschema.NewIssue(path, wireschema.CodeMissingField, map[string]string{"key": p.RawName()}))
			if failFast {
				return out, iss
			}
			continue
		}
		if err := p.parse(ctx, rv, &out); err != nil {
			iss = append(iss, wireschema.Rebase(toIssues(err), path, wireschema.CodeInvalidFieldValue)...)
			if failFast {
				return out, iss
			}
		}
	}

	switch wireschema.ResolveUnknown(wireschema.ParseOptFrom(ctx).UnknownKeys, o.unknown) {
	case wireschema.UnknownStrict:
		for _, k := range o.unknownKeys(m) {
			iss = append(iss, wireschema.NewIssue(wireschema.FieldPointer(k), wireschema.CodeUnknownKey, map[string]string{"key": k}))
			if failFast {
				return out, iss
			}
		}
	case wireschema.UnknownPassthrough:
		if o.extra != nil {
			keys := o.unknownKeys(m)
			if len(keys) > 0 {
				extra := make(map[string]wireschema.Value, len(keys))
				for _, k := range keys {
					v, err := wireschema.FromAny(m[k])
					if err != nil {
						iss = append(iss, wireschema.Rebase(toIssues(err), wireschema.FieldPointer(k), wireschema.CodeShapeMismatch)...)
						continue
					}
					extra[k] = v
				}
				*o.extra(&out) = extra
			}
		}
	}
	if len(iss) > 0 {
		return out, iss
	}
	return out, nil
}

// unknownKeys returns the keys of m that are not declared, sorted.
func (o *ObjectSchema[T]) unknownKeys(m map[string]any) []string {
	var keys []string
	for k := range m {
		if !o.declared(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (o *ObjectSchema[T]) declared(raw string) bool {
	for _, p := range o.props {
		if p.RawName() == raw {
			return true
		}
	}
	return false
}

func (o *ObjectSchema[T]) Serialize(ctx context.Context, v T) (any, error) {
	out := make(map[string]any, len(o.props))
	var iss wireschema.Issues
	for _, p := range o.props {
		rv, err := p.serialize(ctx, &v)
		if err != nil {
			iss = append(iss, wireschema.Rebase(toIssues(err), wireschema.FieldPointer(p.RawName()), wireschema.CodeInvalidFieldValue)...)
			continue
		}
		if rv == nil && p.Optional() {
			continue
		}
		out[p.RawName()] = rv
	}
	policy := wireschema.ResolveUnknown(wireschema.SerializeOptFrom(ctx).UnknownKeys, o.unknown)
	if policy == wireschema.UnknownPassthrough && o.extra != nil {
		extra := *o.extra(&v)
		for _, k := range slices.Sorted(maps.Keys(extra)) {
			if o.declared(k) {
				continue
			}
			out[k] = extra[k].ToAny()
		}
	}
	if len(iss) > 0 {
		return out, iss
	}
	return out, nil
}

func (o *ObjectSchema[T]) JSONSchema() (*js.Schema, error) { return o.project(expanding{}) }

func (o *ObjectSchema[T]) project(seen expanding) (*js.Schema, error) {
	out := &js.Schema{Type: "object", Title: o.title, Properties: make(map[string]*js.Schema, len(o.props))}
	for _, p := range o.props {
		ps, err := p.jsonSchema(seen)
		if err != nil {
			return nil, err
		}
		out.Properties[p.RawName()] = ps
		if !p.Optional() {
			out.Required = append(out.Required, p.RawName())
		}
	}
	if o.unknown == wireschema.UnknownStrict {
		out.AdditionalProperties = false
	}
	return out, nil
}
