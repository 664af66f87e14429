// Package gojson provides a token driver over github.com/goccy/go-json. It is
// the default driver.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/opik-go/wireschema/internal/engine"
)

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	t := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
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
	case j.Number:
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

// Location is unknown for go-json; byte limits are enforced by the caller.
func (s *source) Location() int64 { return -1 }
