package wireschema

import (
	"context"

	js "github.com/opik-go/wireschema/jsonschema"
)

// Schema is a bidirectional mapping between a raw JSON tree and T.
//
// Parse and Serialize return bare Issues on failure. With SkipValidation in
// effect, Parse may return a best-effort value together with its Issues; the
// package-level entry points decide whether that value is surfaced.
type Schema[T any] interface {
	// Parse validates raw and converts it into T, applying field renaming.
	Parse(ctx context.Context, raw any) (T, error)
	// Serialize converts v into its raw wire form, applying inverse renaming.
	Serialize(ctx context.Context, v T) (any, error)
	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// Codec performs bidirectional transformation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	In() Schema[A]                              // Wire schema.
	Decode(ctx context.Context, a A) (B, error) // A -> B.
	Encode(ctx context.Context, b B) (A, error) // B -> A.
}

// Parse validates raw against s and returns the typed value. Failures are
// reported as *ValidationError.
func Parse[T any](ctx context.Context, s Schema[T], raw any, opts ...ParseOpt) (T, error) {
	var zero T
	opt, ctx := resolveParseOpt(ctx, opts)
	v, err := s.Parse(ctx, raw)
	if err != nil {
		if opt.SkipValidation {
			if _, ok := AsIssues(err); ok {
				return v, nil
			}
		}
		return zero, &ValidationError{Issues: withPrefix(IssuesFromErr("/", err), opt.BreadcrumbsPrefix)}
	}
	return v, nil
}

// Serialize converts v into its raw wire form. Failures are reported as
// *SerializationError.
func Serialize[T any](ctx context.Context, s Schema[T], v T, opts ...SerializeOpt) (any, error) {
	opt, ctx := resolveSerializeOpt(ctx, opts)
	raw, err := s.Serialize(ctx, v)
	if err != nil {
		if opt.SkipValidation && raw != nil {
			return raw, nil
		}
		return nil, &SerializationError{Issues: withPrefix(IssuesFromErr("/", err), opt.BreadcrumbsPrefix)}
	}
	return raw, nil
}

// SafeParse parses raw into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], raw any) (T, bool) {
	val, err := Parse(ctx, s, raw)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is reports whether raw conforms to s.
func Is[T any](ctx context.Context, s Schema[T], raw any) bool {
	_, err := s.Parse(ctx, raw)
	return err == nil
}

// resolveParseOpt picks the last explicit option, falling back to the one in
// ctx, and stores the result in the returned context.
func resolveParseOpt(ctx context.Context, opts []ParseOpt) (ParseOpt, context.Context) {
	if len(opts) == 0 {
		return ParseOptFrom(ctx), ctx
	}
	opt := opts[len(opts)-1]
	return opt, WithParseOpt(ctx, opt)
}

func resolveSerializeOpt(ctx context.Context, opts []SerializeOpt) (SerializeOpt, context.Context) {
	if len(opts) == 0 {
		return SerializeOptFrom(ctx), ctx
	}
	opt := opts[len(opts)-1]
	return opt, WithSerializeOpt(ctx, opt)
}

// withPrefix rebases issue paths under the breadcrumb segments.
func withPrefix(iss Issues, prefix []string) Issues {
	if len(prefix) == 0 {
		return iss
	}
	base := ""
	for _, seg := range prefix {
		base += "/" + EscapePointerToken(seg)
	}
	return Rebase(iss, base, "")
}
