// Package json provides a token driver over encoding/json.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/opik-go/wireschema/internal/engine"
)

type source struct {
	dec  *json.Decoder
	keys eng.KeyTracker
	off  int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, off: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.off = s.dec.InputOffset()
	t := eng.Token{Offset: s.off}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			t.Kind = eng.KindBeginObject
		case '}':
			t.Kind = eng.KindEndObject
		case '[':
			t.Kind = eng.KindBeginArray
		default:
			t.Kind = eng.KindEndArray
		}
	case string:
		t.Kind, t.String = eng.KindString, v
	case json.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	default:
		t.Kind = eng.KindNull
	}
	return s.keys.Classify(t), nil
}

func (s *source) Location() int64 { return s.off }
