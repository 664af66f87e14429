package dsl

import (
	"context"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// Codec adapts a Codec[A,B] into a Schema[B] that reads wire A and produces
// domain B. Decode failures that are not Issues become invalid_format.
// If c has a Format() string method, it is reported in the JSON Schema.
func Codec[A, B any](c wireschema.Codec[A, B]) wireschema.Schema[B] { return codecSchema[A, B]{c: c} }

type codecSchema[A, B any] struct{ c wireschema.Codec[A, B] }

func (s codecSchema[A, B]) Parse(ctx context.Context, raw any) (B, error) {
	var zero B
	a, err := s.c.In().Parse(ctx, raw)
	if err != nil {
		return zero, err
	}
	b, err := s.c.Decode(ctx, a)
	if err != nil {
		return zero, formatIssues(err, s.format())
	}
	return b, nil
}

func (s codecSchema[A, B]) Serialize(ctx context.Context, v B) (any, error) {
	a, err := s.c.Encode(ctx, v)
	if err != nil {
		return nil, formatIssues(err, s.format())
	}
	return s.c.In().Serialize(ctx, a)
}

func (s codecSchema[A, B]) format() string {
	if f, ok := s.c.(interface{ Format() string }); ok {
		return f.Format()
	}
	return ""
}

func (s codecSchema[A, B]) JSONSchema() (*js.Schema, error) { return s.project(expanding{}) }

func (s codecSchema[A, B]) project(seen expanding) (*js.Schema, error) {
	in, err := jsonSchemaOf(s.c.In(), seen)
	if err != nil {
		return nil, err
	}
	out := *in
	if f := s.format(); f != "" {
		out.Format = f
	}
	return &out, nil
}

func formatIssues(err error, format string) wireschema.Issues {
	if iss, ok := wireschema.AsIssues(err); ok {
		return iss
	}
	if format == "" {
		format = "value"
	}
	it := wireschema.NewIssue("/", wireschema.CodeInvalidFormat, map[string]string{"expected": format})
	it.Cause = err
	return wireschema.Issues{it}
}
