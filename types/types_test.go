package types_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wireschema "github.com/opik-go/wireschema"
	"github.com/opik-go/wireschema/types"
)

func TestMultipartUploadPart_Renaming(t *testing.T) {
	ctx := context.Background()
	s := types.MultipartUploadPartSchema()

	raw, err := wireschema.Serialize(ctx, s, types.MultipartUploadPart{ETag: "abc", PartNumber: 3})
	require.NoError(t, err)
	want := map[string]any{"e_tag": "abc", "part_number": json.Number("3")}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("serialize mismatch (-want +got):\n%s", diff)
	}

	v, err := wireschema.Parse(ctx, s, want)
	require.NoError(t, err)
	assert.Equal(t, types.MultipartUploadPart{ETag: "abc", PartNumber: 3}, v)
}

func TestMultipartUploadPart_MissingField(t *testing.T) {
	_, err := wireschema.Parse(context.Background(), types.MultipartUploadPartSchema(), map[string]any{"e_tag": "abc"})
	var ve *wireschema.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, wireschema.CodeMissingField, ve.Issues[0].Code)
	assert.Equal(t, "/part_number", ve.Issues[0].Path)
}

func TestMultipartUploadPart_InvalidFieldValue(t *testing.T) {
	_, err := wireschema.Parse(context.Background(), types.MultipartUploadPartSchema(),
		map[string]any{"e_tag": json.Number("5"), "part_number": json.Number("3")})
	var ve *wireschema.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, wireschema.CodeInvalidFieldValue, ve.Issues[0].Code)
	assert.Equal(t, "/e_tag", ve.Issues[0].Path)
	assert.Equal(t, "string", ve.Issues[0].Expected)
	assert.Equal(t, "number", ve.Issues[0].Actual)
}

func TestMultipartUploadPart_ExtraKeysDropped(t *testing.T) {
	ctx := context.Background()
	s := types.MultipartUploadPartSchema()
	v, err := wireschema.Parse(ctx, s, map[string]any{"e_tag": "abc", "part_number": json.Number("3"), "extra": true})
	require.NoError(t, err)

	raw, err := wireschema.Serialize(ctx, s, v)
	require.NoError(t, err)
	assert.NotContains(t, raw.(map[string]any), "extra")
	assert.Len(t, raw.(map[string]any), 2)
}

func TestMultipartUploadPart_AnyNumber(t *testing.T) {
	ctx := context.Background()
	s := types.MultipartUploadPartSchema()
	for _, n := range []string{"3.5", "1e20", "-2"} {
		v, err := wireschema.ParseJSON(ctx, s, []byte(`{"e_tag":"a","part_number":`+n+`}`))
		require.NoError(t, err, n)
		raw, err := wireschema.Serialize(ctx, s, v)
		require.NoError(t, err)
		got, err := wireschema.FromAny(raw.(map[string]any)["part_number"])
		require.NoError(t, err)
		assert.True(t, got.Equal(wireschema.Number(json.Number(n))), "%s round-tripped as %s", n, got)
	}
}

func TestMultipartUploadPart_JSON(t *testing.T) {
	b, err := json.Marshal(types.MultipartUploadPart{ETag: "abc", PartNumber: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"e_tag":"abc","part_number":3}`, string(b))

	var p types.MultipartUploadPart
	require.NoError(t, json.Unmarshal([]byte(`{"e_tag":"x","part_number":7,"other":null}`), &p))
	assert.Equal(t, types.MultipartUploadPart{ETag: "x", PartNumber: 7}, p)

	err = json.Unmarshal([]byte(`{"e_tag":"x"}`), &p)
	assert.True(t, wireschema.IsValidationError(err))
}

func TestJsonListString_Selection(t *testing.T) {
	ctx := context.Background()
	s := types.JsonListStringSchema()

	v, err := wireschema.Parse(ctx, s, "hello")
	require.NoError(t, err)
	assert.Equal(t, types.JsonListStringTypeString, v.Type())
	assert.Equal(t, "hello", v.String)

	v, err = wireschema.Parse(ctx, s, map[string]any{"a": json.Number("1")})
	require.NoError(t, err)
	assert.Equal(t, types.JsonListStringTypeStringUnknownMap, v.Type())
	assert.True(t, v.StringUnknownMap["a"].Equal(wireschema.Int(1)))

	v, err = wireschema.Parse(ctx, s, []any{map[string]any{"a": json.Number("1")}})
	require.NoError(t, err)
	assert.Equal(t, types.JsonListStringTypeStringUnknownMapList, v.Type())
	require.Len(t, v.StringUnknownMapList, 1)
	assert.True(t, v.StringUnknownMapList[0]["a"].Equal(wireschema.Int(1)))
}

func TestJsonListString_Exhausted(t *testing.T) {
	_, err := wireschema.Parse(context.Background(), types.JsonListStringSchema(), json.Number("42"))
	var ve *wireschema.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 1)
	it := ve.Issues[0]
	assert.Equal(t, wireschema.CodeUnionExhausted, it.Code)
	require.Len(t, it.Alternatives, 3)
	assert.Equal(t, "object", it.Alternatives[0][0].Expected)
	assert.Equal(t, "array", it.Alternatives[1][0].Expected)
	assert.Equal(t, "string", it.Alternatives[2][0].Expected)

	_, err = wireschema.Parse(context.Background(), types.JsonListStringSchema(), []any{"not a record"})
	assert.True(t, wireschema.HasCode(err, wireschema.CodeUnionExhausted))
}

func TestJsonListString_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := types.JsonListStringSchema()
	for _, raw := range []any{
		"hello",
		map[string]any{"a": json.Number("1"), "b": []any{nil, true}},
		[]any{map[string]any{"a": json.Number("1")}, map[string]any{}},
	} {
		v, err := wireschema.Parse(ctx, s, raw)
		require.NoError(t, err)
		back, err := wireschema.Serialize(ctx, s, v)
		require.NoError(t, err)
		if diff := cmp.Diff(raw, back); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestJsonListString_TypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := types.JsonListStringSchema()
	in := *types.NewJsonListStringFromStringUnknownMapList([]map[string]wireschema.Value{
		{"k": wireschema.String("v")},
	})
	raw, err := wireschema.Serialize(ctx, s, in)
	require.NoError(t, err)
	out, err := wireschema.Parse(ctx, s, raw)
	require.NoError(t, err)
	assert.Equal(t, in.Type(), out.Type())
	require.Len(t, out.StringUnknownMapList, 1)
	assert.True(t, out.StringUnknownMapList[0]["k"].Equal(wireschema.String("v")))
}

func TestJsonListString_ZeroValueCannotSerialize(t *testing.T) {
	_, err := wireschema.Serialize(context.Background(), types.JsonListStringSchema(), types.JsonListString{})
	var se *wireschema.SerializationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, wireschema.CodeUnionNoMatch, se.Issues[0].Code)
}

func TestJsonListString_StructLiteral(t *testing.T) {
	ctx := context.Background()
	s := types.JsonListStringSchema()

	raw, err := wireschema.Serialize(ctx, s, types.JsonListString{String: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", raw)

	raw, err = wireschema.Serialize(ctx, s, types.JsonListString{
		StringUnknownMap: map[string]wireschema.Value{"a": wireschema.Int(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, raw)

	raw, err = wireschema.Serialize(ctx, s, types.JsonListString{
		StringUnknownMapList: []map[string]wireschema.Value{{}},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{}}, raw)

	// The first populated field in declaration order wins.
	raw, err = wireschema.Serialize(ctx, s, types.JsonListString{
		StringUnknownMap: map[string]wireschema.Value{},
		String:           "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, raw)

	b, err := json.Marshal(types.JsonListString{StringUnknownMap: map[string]wireschema.Value{"a": wireschema.Int(1)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	lit := types.JsonListString{String: "x"}
	assert.Equal(t, types.JsonListStringTypeString, lit.Type())
	v := &countingVisitor{}
	require.NoError(t, lit.Accept(v))
	assert.Equal(t, "string", v.got)
}

func TestSchemas_Concurrent(t *testing.T) {
	ctx := context.Background()
	lists := types.JsonListStringSchema()
	parts := types.MultipartUploadPartSchema()
	inputs := []string{`"hello"`, `{"a":1,"b":[true,null]}`, `[{"a":1},{}]`}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				in := inputs[(i+j)%len(inputs)]
				v, err := wireschema.ParseJSON(ctx, lists, []byte(in))
				assert.NoError(t, err)
				out, err := wireschema.SerializeJSON(ctx, lists, v)
				assert.NoError(t, err)
				assert.JSONEq(t, in, string(out))

				p, err := wireschema.Parse(ctx, parts, map[string]any{"e_tag": "e", "part_number": json.Number("7")})
				assert.NoError(t, err)
				_, err = wireschema.Serialize(ctx, parts, p)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
}

type countingVisitor struct{ got string }

func (c *countingVisitor) VisitStringUnknownMap(map[string]wireschema.Value) error {
	c.got = "map"
	return nil
}

func (c *countingVisitor) VisitStringUnknownMapList([]map[string]wireschema.Value) error {
	c.got = "list"
	return nil
}

func (c *countingVisitor) VisitString(string) error {
	c.got = "string"
	return nil
}

func TestJsonListString_JSONAndVisitor(t *testing.T) {
	var j types.JsonListString
	require.NoError(t, json.Unmarshal([]byte(`[{"a":1}]`), &j))
	v := &countingVisitor{}
	require.NoError(t, j.Accept(v))
	assert.Equal(t, "list", v.got)

	b, err := json.Marshal(j)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1}]`, string(b))

	assert.Error(t, (&types.JsonListString{}).Accept(v))
}

func TestRegistry(t *testing.T) {
	r := types.Registry()
	assert.Equal(t, []string{types.JsonListStringName, types.MultipartUploadPartName}, r.Names())
	assert.Same(t, r, types.Registry())

	e := r.MustGet(types.MultipartUploadPartName)
	v, err := e.Parse(context.Background(), map[string]any{"e_tag": "abc", "part_number": json.Number("3")})
	require.NoError(t, err)
	assert.Equal(t, types.MultipartUploadPart{ETag: "abc", PartNumber: 3}, v)
}
