package registry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wireschema "github.com/opik-go/wireschema"
	g "github.com/opik-go/wireschema/dsl"
	"github.com/opik-go/wireschema/registry"
)

type pet struct{ Name string }

func petSchema() wireschema.Schema[pet] {
	return g.Object(g.Field("name", g.String(), func(p *pet) *string { return &p.Name }))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := registry.New(registry.WithLogger(logger))

	require.NoError(t, registry.Register(r, "Pet", petSchema()))
	assert.True(t, r.Has("Pet"))
	assert.Contains(t, buf.String(), "type=Pet")

	e, err := r.Get("Pet")
	require.NoError(t, err)
	assert.Equal(t, "Pet", e.Name())

	v, err := e.Parse(context.Background(), map[string]any{"name": "rex"})
	require.NoError(t, err)
	assert.Equal(t, pet{Name: "rex"}, v)

	raw, err := e.Serialize(context.Background(), &pet{Name: "rex"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "rex"}, raw)

	js, err := e.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "Pet", js.Title)
}

func TestRegistry_Errors(t *testing.T) {
	r := registry.New()
	require.NoError(t, registry.Register(r, "Pet", petSchema()))
	assert.Error(t, registry.Register(r, "Pet", petSchema()))
	assert.Error(t, registry.Register(r, "", petSchema()))

	_, err := r.Get("Cat")
	assert.ErrorIs(t, err, registry.ErrNotRegistered)
	assert.Panics(t, func() { r.MustGet("Cat") })

	e := r.MustGet("Pet")
	_, err = e.Serialize(context.Background(), 42)
	assert.True(t, wireschema.IsSerializationError(err))

	_, err = e.Parse(context.Background(), map[string]any{"name": json.Number("1")})
	assert.True(t, wireschema.IsValidationError(err))
}

func TestRegistry_Names_Concurrent(t *testing.T) {
	r := registry.New()
	var wg sync.WaitGroup
	for _, name := range []string{"c", "a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.MustRegister(r, name, g.String())
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}
