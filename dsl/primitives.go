package dsl

import (
	"context"
	"encoding/json"
	"math"
	"slices"
	"strconv"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// String accepts JSON strings.
func String() wireschema.Schema[string] { return stringSchema{} }

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, raw any) (string, error) {
	s, ok := unwrapValue(raw).(string)
	if !ok {
		return "", wireschema.ShapeMismatch("string", raw)
	}
	return s, nil
}

func (stringSchema) Serialize(ctx context.Context, v string) (any, error) { return v, nil }

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// Bool accepts JSON booleans.
func Bool() wireschema.Schema[bool] { return boolSchema{} }

type boolSchema struct{}

func (boolSchema) Parse(ctx context.Context, raw any) (bool, error) {
	b, ok := unwrapValue(raw).(bool)
	if !ok {
		return false, wireschema.ShapeMismatch("boolean", raw)
	}
	return b, nil
}

func (boolSchema) Serialize(ctx context.Context, v bool) (any, error) { return v, nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

// Number accepts any JSON number as float64.
func Number() wireschema.Schema[float64] { return numberSchema{} }

type numberSchema struct{}

func (numberSchema) Parse(ctx context.Context, raw any) (float64, error) {
	n, ok := numberOf(raw)
	if !ok {
		return 0, wireschema.ShapeMismatch("number", raw)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, issues("/", wireschema.CodeInvalidFormat, map[string]string{"expected": "number", "actual": string(n)})
	}
	return f, nil
}

func (numberSchema) Serialize(ctx context.Context, v float64) (any, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, issues("/", wireschema.CodeInvalidFormat, map[string]string{"expected": "number", "actual": strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return json.Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (numberSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// Int accepts JSON numbers with an integral value that fits in int.
// 3, 3.0 and 3e0 parse; 3.5 is a shape mismatch.
func Int() wireschema.Schema[int] { return intSchema{} }

type intSchema struct{}

func (intSchema) Parse(ctx context.Context, raw any) (int, error) {
	n, ok := numberOf(raw)
	if !ok {
		return 0, wireschema.ShapeMismatch("integer", raw)
	}
	if i, err := strconv.ParseInt(string(n), 10, strconv.IntSize); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, issues("/", wireschema.CodeShapeMismatch, map[string]string{"expected": "integer", "actual": "number"})
	}
	return int(f), nil
}

func (intSchema) Serialize(ctx context.Context, v int) (any, error) {
	return json.Number(strconv.Itoa(v)), nil
}

func (intSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

// Unknown accepts any JSON value.
func Unknown() wireschema.Schema[wireschema.Value] { return unknownSchema{} }

type unknownSchema struct{}

func (unknownSchema) Parse(ctx context.Context, raw any) (wireschema.Value, error) {
	v, err := wireschema.FromAny(raw)
	if err != nil {
		return wireschema.Value{}, issues("/", wireschema.CodeShapeMismatch, map[string]string{"expected": "json", "actual": wireschema.ShapeOf(raw)})
	}
	return v, nil
}

func (unknownSchema) Serialize(ctx context.Context, v wireschema.Value) (any, error) {
	return v.ToAny(), nil
}

func (unknownSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

// Any passes raw JSON trees through unchanged, normalizing numbers to
// json.Number on serialize.
func Any() wireschema.Schema[any] { return anySchema{} }

type anySchema struct{}

func (anySchema) Parse(ctx context.Context, raw any) (any, error) {
	if _, err := wireschema.FromAny(raw); err != nil {
		return nil, issues("/", wireschema.CodeShapeMismatch, map[string]string{"expected": "json", "actual": wireschema.ShapeOf(raw)})
	}
	return raw, nil
}

func (anySchema) Serialize(ctx context.Context, v any) (any, error) {
	val, err := wireschema.FromAny(v)
	if err != nil {
		return nil, issues("/", wireschema.CodeShapeMismatch, map[string]string{"expected": "json", "actual": wireschema.ShapeOf(v)})
	}
	return val.ToAny(), nil
}

func (anySchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

// StringLiteral accepts exactly the string lit.
func StringLiteral(lit string) wireschema.Schema[string] { return stringLiteral{lit: lit} }

type stringLiteral struct{ lit string }

func (l stringLiteral) Parse(ctx context.Context, raw any) (string, error) {
	s, err := (stringSchema{}).Parse(ctx, raw)
	if err != nil {
		return "", err
	}
	if s != l.lit {
		return s, issues("/", wireschema.CodeInvalidLiteral, map[string]string{"expected": strconv.Quote(l.lit), "actual": strconv.Quote(s)})
	}
	return s, nil
}

func (l stringLiteral) Serialize(ctx context.Context, v string) (any, error) {
	if v != l.lit && !wireschema.SerializeOptFrom(ctx).SkipValidation {
		return nil, issues("/", wireschema.CodeInvalidLiteral, map[string]string{"expected": strconv.Quote(l.lit), "actual": strconv.Quote(v)})
	}
	return v, nil
}

func (l stringLiteral) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Const: l.lit}, nil
}

// BooleanLiteral accepts exactly the boolean lit.
func BooleanLiteral(lit bool) wireschema.Schema[bool] { return boolLiteral{lit: lit} }

type boolLiteral struct{ lit bool }

func (l boolLiteral) Parse(ctx context.Context, raw any) (bool, error) {
	b, err := (boolSchema{}).Parse(ctx, raw)
	if err != nil {
		return false, err
	}
	if b != l.lit {
		return b, issues("/", wireschema.CodeInvalidLiteral, map[string]string{"expected": strconv.FormatBool(l.lit), "actual": strconv.FormatBool(b)})
	}
	return b, nil
}

func (l boolLiteral) Serialize(ctx context.Context, v bool) (any, error) {
	if v != l.lit && !wireschema.SerializeOptFrom(ctx).SkipValidation {
		return nil, issues("/", wireschema.CodeInvalidLiteral, map[string]string{"expected": strconv.FormatBool(l.lit), "actual": strconv.FormatBool(v)})
	}
	return v, nil
}

func (l boolLiteral) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "boolean", Const: l.lit}, nil
}

// Enum accepts one of values. With AllowUnrecognizedEnumValues set in the
// parse options, other strings are passed through.
func Enum[T ~string](values ...T) wireschema.Schema[T] {
	return enumSchema[T]{values: slices.Clone(values)}
}

type enumSchema[T ~string] struct{ values []T }

func (e enumSchema[T]) Parse(ctx context.Context, raw any) (T, error) {
	s, err := (stringSchema{}).Parse(ctx, raw)
	if err != nil {
		return "", err
	}
	v := T(s)
	if !slices.Contains(e.values, v) && !wireschema.ParseOptFrom(ctx).AllowUnrecognizedEnumValues {
		return v, issues("/", wireschema.CodeInvalidEnum, map[string]string{"value": strconv.Quote(s)})
	}
	return v, nil
}

func (e enumSchema[T]) Serialize(ctx context.Context, v T) (any, error) {
	if !slices.Contains(e.values, v) && !wireschema.SerializeOptFrom(ctx).SkipValidation {
		return nil, issues("/", wireschema.CodeInvalidEnum, map[string]string{"value": strconv.Quote(string(v))})
	}
	return string(v), nil
}

func (e enumSchema[T]) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string", Enum: make([]any, len(e.values))}
	for i, v := range e.values {
		out.Enum[i] = string(v)
	}
	return out, nil
}
