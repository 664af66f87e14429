package dsl

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	wireschema "github.com/opik-go/wireschema"
	js "github.com/opik-go/wireschema/jsonschema"
)

// Record maps a JSON object with arbitrary keys onto map[K]V. Keys are
// parsed by key, which must serialize to a string. Entries are visited in
// sorted key order so diagnostics are deterministic.
func Record[K comparable, V any](key wireschema.Schema[K], value wireschema.Schema[V]) wireschema.Schema[map[K]V] {
	return recordSchema[K, V]{key: key, value: value}
}

type recordSchema[K comparable, V any] struct {
	key   wireschema.Schema[K]
	value wireschema.Schema[V]
}

func (r recordSchema[K, V]) Parse(ctx context.Context, raw any) (map[K]V, error) {
	m, ok := unwrapValue(raw).(map[string]any)
	if !ok {
		return nil, wireschema.ShapeMismatch("object", raw)
	}
	failFast := wireschema.IsFailFast(ctx)
	out := make(map[K]V, len(m))
	var iss wireschema.Issues
	for _, k := range slices.Sorted(maps.Keys(m)) {
		path := wireschema.FieldPointer(k)
		kv, err := r.key.Parse(ctx, k)
		if err != nil {
			iss = append(iss, wireschema.Rebase(toIssues(err), path, "")...)
			if failFast {
				return out, iss
			}
			continue
		}
		vv, err := r.value.Parse(ctx, m[k])
		if err != nil {
			iss = append(iss, wireschema.Rebase(toIssues(err), path, wireschema.CodeInvalidFieldValue)...)
			if failFast {
				return out, iss
			}
			if !skipValidation(ctx) {
				continue
			}
		}
		out[kv] = vv
	}
	if len(iss) > 0 {
		return out, iss
	}
	return out, nil
}

func (r recordSchema[K, V]) Serialize(ctx context.Context, v map[K]V) (any, error) {
	out := make(map[string]any, len(v))
	var iss wireschema.Issues
	for kv, vv := range v {
		rk, err := r.key.Serialize(ctx, kv)
		if err != nil {
			iss = append(iss, wireschema.Rebase(toIssues(err), wireschema.FieldPointer(fmt.Sprint(kv)), "")...)
			continue
		}
		ks, ok := rk.(string)
		if !ok {
			iss = append(iss, wireschema.ShapeMismatch("string", rk)...)
			continue
		}
		rv, err := r.value.Serialize(ctx, vv)
		if err != nil {
			iss = append(iss, wireschema.Rebase(toIssues(err), wireschema.FieldPointer(ks), wireschema.CodeInvalidFieldValue)...)
			continue
		}
		out[ks] = rv
	}
	if len(iss) > 0 {
		slices.SortFunc(iss, func(a, b wireschema.Issue) int { return strings.Compare(a.Path, b.Path) })
		return out, iss
	}
	return out, nil
}

func (r recordSchema[K, V]) JSONSchema() (*js.Schema, error) { return r.project(expanding{}) }

func (r recordSchema[K, V]) project(seen expanding) (*js.Schema, error) {
	vs, err := jsonSchemaOf(r.value, seen)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
}
