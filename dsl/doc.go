// Package dsl provides the schema combinators of wireschema.
//
// Every combinator returns a wireschema.Schema[T] that converts in both
// directions between the raw JSON tree (map[string]any, []any, string,
// json.Number, bool, nil) and a typed Go value.
//
//   - Primitives: String, Number, Int, Bool, Unknown, Any, StringLiteral,
//     BooleanLiteral, Enum.
//   - Wrappers: Optional (absent or null parses to nil), Nullable.
//   - Containers: List, Set, Record.
//   - Object: explicit field tables built from Property, Field and
//     OptionalProperty. The raw name of each field is declared next to its
//     typed accessor, so renaming is a property of the schema, not of struct
//     tags.
//   - Unions: UndiscriminatedUnion (alternatives tried in declaration order,
//     first success wins) and Union (string discriminator).
//   - Lazy for recursive shapes, Codec to adapt a wireschema.Codec.
//
// Example
//
//	type Part struct {
//	    ETag       string
//	    PartNumber int
//	}
//
//	part := dsl.Object(
//	    dsl.Property("eTag", "e_tag", dsl.String(), func(p *Part) *string { return &p.ETag }),
//	    dsl.Property("partNumber", "part_number", dsl.Int(), func(p *Part) *int { return &p.PartNumber }),
//	)
//	v, err := wireschema.ParseJSON(ctx, part, []byte(`{"e_tag":"abc","part_number":3}`))
//
// Issue paths are JSON Pointers over raw names. A sub-schema that rejects
// a field value as a whole is reported as invalid_field_value at the field;
// deeper issues keep their own codes.
package dsl
