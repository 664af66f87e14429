package dsl

import (
	"context"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// List maps a JSON array element-wise. Parsing stops at the first failing
// element. A nil slice serializes as an empty array.
func List[T any](elem wireschema.Schema[T]) wireschema.Schema[[]T] {
	return listSchema[T]{elem: elem}
}

type listSchema[T any] struct {
	elem   wireschema.Schema[T]
	unique bool
}

func (l listSchema[T]) Parse(ctx context.Context, raw any) ([]T, error) {
	arr, ok := unwrapValue(raw).([]any)
	if !ok {
		return nil, wireschema.ShapeMismatch("array", raw)
	}
	out := make([]T, 0, len(arr))
	for i, e := range arr {
		v, err := l.elem.Parse(ctx, e)
		if err != nil {
			if skipValidation(ctx) {
				out = append(out, v)
			}
			return out, wireschema.Rebase(toIssues(err), wireschema.IndexPointer(i), wireschema.CodeInvalidFieldValue)
		}
		out = append(out, v)
	}
	if l.unique {
		if iss := duplicates(arr); len(iss) > 0 {
			return out, iss
		}
	}
	return out, nil
}

func (l listSchema[T]) Serialize(ctx context.Context, v []T) (any, error) {
	out := make([]any, 0, len(v))
	for i, e := range v {
		rv, err := l.elem.Serialize(ctx, e)
		if err != nil {
			return nil, wireschema.Rebase(toIssues(err), wireschema.IndexPointer(i), wireschema.CodeInvalidFieldValue)
		}
		out = append(out, rv)
	}
	if l.unique && !wireschema.SerializeOptFrom(ctx).SkipValidation {
		if iss := duplicates(out); len(iss) > 0 {
			return nil, iss
		}
	}
	return out, nil
}

func (l listSchema[T]) JSONSchema() (*js.Schema, error) { return l.project(expanding{}) }

func (l listSchema[T]) project(seen expanding) (*js.Schema, error) {
	es, err := jsonSchemaOf(l.elem, seen)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: es, UniqueItems: l.unique}, nil
}

// Set is a List whose elements must be pairwise distinct as JSON values.
// A repeated element is reported as duplicate_item at its index.
func Set[T any](elem wireschema.Schema[T]) wireschema.Schema[[]T] {
	return listSchema[T]{elem: elem, unique: true}
}

func duplicates(arr []any) wireschema.Issues {
	vals := make([]wireschema.Value, len(arr))
	for i, e := range arr {
		v, err := wireschema.FromAny(e)
		if err != nil {
			return wireschema.Rebase(toIssues(err), wireschema.IndexPointer(i), wireschema.CodeShapeMismatch)
		}
		vals[i] = v
	}
	var iss wireschema.Issues
	for i := 1; i < len(vals); i++ {
		for j := 0; j < i; j++ {
			if vals[i].Equal(vals[j]) {
				iss = append(iss, wireschema.NewIssue(wireschema.IndexPointer(i), wireschema.CodeDuplicateItem, map[string]string{"value": vals[i].String()}))
				break
			}
		}
	}
	return iss
}
