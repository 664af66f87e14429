// Package engine holds the token model shared by the JSON drivers and the
// decoding of token streams into raw value trees.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "{"
	case KindEndObject:
		return "}"
	case KindBeginArray:
		return "["
	case KindEndArray:
		return "]"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single JSON token. Offset is the approximate input offset after
// the token, or -1 when the driver cannot tell.
type Token struct {
	Kind   Kind
	String string // key or string payload
	Number string // number literal
	Bool   bool
	Offset int64
}

// TokenSource produces tokens until io.EOF.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData is returned when a document has tokens after its root value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// DecodeDocument decodes exactly one value from src and rejects trailing
// tokens. Numbers decode as json.Number.
func DecodeDocument(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		m := make(map[string]any)
		for {
			kt, err := next(src)
			if err != nil {
				return nil, err
			}
			if kt.Kind == KindEndObject {
				return m, nil
			}
			if kt.Kind != KindKey {
				return nil, fmt.Errorf("expected object key, got %s", kt.Kind)
			}
			vt, err := next(src)
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(src, vt)
			if err != nil {
				return nil, err
			}
			// last occurrence wins, matching encoding/json
			m[kt.String] = v
		}
	case KindBeginArray:
		arr := []any{}
		for {
			et, err := next(src)
			if err != nil {
				return nil, err
			}
			if et.Kind == KindEndArray {
				return arr, nil
			}
			v, err := decodeValue(src, et)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %s", tok.Kind)
	}
}

func next(src TokenSource) (Token, error) {
	t, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return t, err
}
