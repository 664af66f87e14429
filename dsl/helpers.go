package dsl

import (
	"context"
	"encoding/json"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// unwrapValue lets schemas accept a wireschema.Value wherever a raw tree is
// expected.
func unwrapValue(raw any) any {
	if v, ok := raw.(wireschema.Value); ok {
		return v.ToAny()
	}
	return raw
}

// numberOf extracts a number literal from any numeric raw value.
func numberOf(raw any) (json.Number, bool) {
	if wireschema.ShapeOf(raw) != "number" {
		return "", false
	}
	v, err := wireschema.FromAny(raw)
	if err != nil {
		return "", false
	}
	return v.AsNumber()
}

func issues(path, code string, data map[string]string) wireschema.Issues {
	return wireschema.Issues{wireschema.NewIssue(path, code, data)}
}

// skipValidation reports whether parse issues should be tolerated.
func skipValidation(ctx context.Context) bool {
	return wireschema.ParseOptFrom(ctx).SkipValidation
}

// strictContext disables SkipValidation, used where a failure must be
// observed (union alternatives).
func strictContext(ctx context.Context) context.Context {
	opt := wireschema.ParseOptFrom(ctx)
	if !opt.SkipValidation {
		return ctx
	}
	opt.SkipValidation = false
	return wireschema.WithParseOpt(ctx, opt)
}

// expanding holds the lazy schemas on the stack of one JSONSchema call.
type expanding map[any]bool

// projector is implemented by combinators that contain other schemas, so a
// single JSONSchema call can recognise a recursive reference.
type projector interface {
	project(seen expanding) (*js.Schema, error)
}

func jsonSchemaOf[T any](s wireschema.Schema[T], seen expanding) (*js.Schema, error) {
	if p, ok := s.(projector); ok {
		return p.project(seen)
	}
	return s.JSONSchema()
}

func toIssues(err error) wireschema.Issues { return wireschema.IssuesFromErr("/", err) }
