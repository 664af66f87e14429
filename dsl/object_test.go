package dsl_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wireschema "github.com/opik-go/wireschema"
	g "github.com/opik-go/wireschema/dsl"
)

type user struct {
	ID       string
	Name     string
	Age      int
	Nickname *string
	Address  address
	Extra    map[string]wireschema.Value
}

type address struct {
	City string
}

func addressSchema() *g.ObjectSchema[address] {
	return g.Object(
		g.Field("city", g.String(), func(a *address) *string { return &a.City }),
	)
}

func userSchema() *g.ObjectSchema[user] {
	return g.Object(
		g.Property("id", "user_id", g.String(), func(u *user) *string { return &u.ID }),
		g.Field("name", g.String(), func(u *user) *string { return &u.Name }),
		g.Field("age", g.Int(), func(u *user) *int { return &u.Age }),
		g.OptionalProperty("nickname", "nick_name", g.String(), func(u *user) **string { return &u.Nickname }),
		g.Field("address", wireschema.Schema[address](addressSchema()), func(u *user) *address { return &u.Address }),
	)
}

func TestObject_RenameRoundTrip(t *testing.T) {
	ctx := context.Background()
	raw := map[string]any{
		"user_id": "u1",
		"name":    "alice",
		"age":     json.Number("30"),
		"address": map[string]any{"city": "Tokyo"},
	}
	v, err := userSchema().Parse(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, user{ID: "u1", Name: "alice", Age: 30, Address: address{City: "Tokyo"}}, v)

	back, err := userSchema().Serialize(ctx, v)
	require.NoError(t, err)
	if diff := cmp.Diff(raw, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_OptionalPresent(t *testing.T) {
	ctx := context.Background()
	raw := map[string]any{
		"user_id": "u1", "name": "alice", "age": json.Number("30"),
		"nick_name": "al", "address": map[string]any{"city": "Tokyo"},
	}
	v, err := userSchema().Parse(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, v.Nickname)
	assert.Equal(t, "al", *v.Nickname)

	back, err := userSchema().Serialize(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, "al", back.(map[string]any)["nick_name"])
}

func TestObject_IssuesInDeclarationOrder(t *testing.T) {
	ctx := context.Background()
	_, err := userSchema().Parse(ctx, map[string]any{
		"name":    5,
		"address": map[string]any{"city": true},
	})
	iss, ok := wireschema.AsIssues(err)
	require.True(t, ok)

	type pc struct{ Path, Code string }
	var got []pc
	for _, it := range iss {
		got = append(got, pc{it.Path, it.Code})
	}
	want := []pc{
		{"/user_id", wireschema.CodeMissingField},
		{"/name", wireschema.CodeInvalidFieldValue},
		{"/age", wireschema.CodeMissingField},
		{"/address/city", wireschema.CodeInvalidFieldValue},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_FailFast(t *testing.T) {
	ctx := wireschema.WithParseOpt(context.Background(), wireschema.ParseOpt{FailFast: true})
	_, err := userSchema().Parse(ctx, map[string]any{})
	iss, ok := wireschema.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/user_id", iss[0].Path)
}

func TestObject_NotAnObject(t *testing.T) {
	_, err := userSchema().Parse(context.Background(), []any{})
	it := firstIssue(t, err)
	assert.Equal(t, wireschema.CodeShapeMismatch, it.Code)
	assert.Equal(t, "object", it.Expected)
	assert.Equal(t, "array", it.Actual)
}

func TestObject_UnknownKeys(t *testing.T) {
	ctx := context.Background()
	raw := map[string]any{"city": "Osaka", "zip": "530"}

	v, err := addressSchema().Parse(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, address{City: "Osaka"}, v)

	_, err = addressSchema().Strict().Parse(ctx, raw)
	it := firstIssue(t, err)
	assert.Equal(t, wireschema.CodeUnknownKey, it.Code)
	assert.Equal(t, "/zip", it.Path)

	strict := wireschema.WithParseOpt(ctx, wireschema.ParseOpt{UnknownKeys: wireschema.UnknownStrict})
	_, err = addressSchema().Parse(strict, raw)
	assert.True(t, wireschema.HasCode(err, wireschema.CodeUnknownKey))
}

func TestObject_Passthrough(t *testing.T) {
	ctx := context.Background()
	s := g.Object(
		g.Field("name", g.String(), func(u *user) *string { return &u.Name }),
	).Passthrough(func(u *user) *map[string]wireschema.Value { return &u.Extra })

	raw := map[string]any{"name": "bob", "x": json.Number("1"), "y": []any{"z"}}
	v, err := s.Parse(ctx, raw)
	require.NoError(t, err)
	require.Len(t, v.Extra, 2)
	assert.True(t, v.Extra["x"].Equal(wireschema.Int(1)))

	back, err := s.Serialize(ctx, v)
	require.NoError(t, err)
	if diff := cmp.Diff(raw, back); diff != "" {
		t.Fatalf("passthrough mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_SkipValidationKeepsParsedFields(t *testing.T) {
	ctx := context.Background()
	v, err := wireschema.Parse(ctx, wireschema.Schema[user](userSchema()), map[string]any{"user_id": "u1", "name": 1},
		wireschema.ParseOpt{SkipValidation: true})
	require.NoError(t, err)
	assert.Equal(t, "u1", v.ID)
}

func TestObject_JSONSchema(t *testing.T) {
	js, err := userSchema().JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", js.Type)
	assert.Equal(t, []string{"user_id", "name", "age", "address"}, js.Required)
	assert.Contains(t, js.Properties, "nick_name")
	assert.Nil(t, js.AdditionalProperties)

	strict, err := addressSchema().Strict().JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, false, strict.AdditionalProperties)
}

func TestObject_DuplicateRawNamePanics(t *testing.T) {
	assert.Panics(t, func() {
		g.Object(
			g.Field("a", g.String(), func(u *user) *string { return &u.ID }),
			g.Property("name", "a", g.String(), func(u *user) *string { return &u.Name }),
		)
	})
}
