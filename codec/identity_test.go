package codec_test

import (
	"context"
	"encoding/json"
	"testing"

	wireschema "github.com/opik-go/wireschema"
	"github.com/opik-go/wireschema/codec"
	g "github.com/opik-go/wireschema/dsl"
)

func TestIdentity_String_Parse_Decode_Encode(t *testing.T) {
	ctx := context.Background()
	schema := g.String()

	v, err := schema.Parse(ctx, "asdf")
	if err != nil || v != "asdf" {
		t.Fatalf("parse err=%v v=%q", err, v)
	}

	id := codec.Identity(schema)
	dv, err := id.Decode(ctx, "asdf")
	if err != nil || dv != "asdf" {
		t.Fatalf("decode err=%v v=%q", err, dv)
	}
	ev, err := id.Encode(ctx, dv)
	if err != nil || ev != "asdf" {
		t.Fatalf("encode err=%v v=%q", err, ev)
	}
}

func TestIdentity_AsSchema_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := g.Codec(codec.Identity(g.Int()))

	v, err := s.Parse(ctx, json.Number("42"))
	if err != nil || v != 42 {
		t.Fatalf("parse err=%v v=%d", err, v)
	}
	raw, err := s.Serialize(ctx, v)
	if err != nil {
		t.Fatalf("serialize err=%v", err)
	}
	if raw != json.Number("42") {
		t.Fatalf("unexpected raw: %#v", raw)
	}
	if _, err := s.Parse(ctx, "42"); !wireschema.HasCode(err, wireschema.CodeShapeMismatch) {
		t.Fatalf("expected shape_mismatch, got %v", err)
	}
}
