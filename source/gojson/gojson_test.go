package gojson

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"testing"

	eng "github.com/opik-go/wireschema/internal/engine"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, tok)
	}
}

func TestTokens_KeysAndValues(t *testing.T) {
	toks := kinds(t, NewBytes([]byte(`{"a":"x","b":[1.50,true,null],"c":{"d":"e"}}`)))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindEndObject,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[1].String != "a" || toks[2].String != "x" {
		t.Fatalf("unexpected key/value: %+v %+v", toks[1], toks[2])
	}
	if f, err := strconv.ParseFloat(toks[5].Number, 64); err != nil || f != 1.5 {
		t.Fatalf("unexpected number %q", toks[5].Number)
	}
	if toks[5].Offset != -1 {
		t.Fatalf("go-json tokens carry no offset, got %d", toks[5].Offset)
	}
}

func TestDecodeDocument(t *testing.T) {
	v, err := eng.DecodeDocument(NewBytes([]byte(`[{"n":7}]`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 1 {
		t.Fatalf("unexpected value %#v", v)
	}
	if n := arr[0].(map[string]any)["n"]; n != json.Number("7") {
		t.Fatalf("got %#v, want json.Number(7)", n)
	}
}

func TestMalformed(t *testing.T) {
	if _, err := eng.DecodeDocument(NewBytes([]byte(`{"a":}`))); err == nil {
		t.Fatal("expected error for malformed input")
	}
}
