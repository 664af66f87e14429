package wireschema

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/opik-go/wireschema/i18n"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef struct {
	parts []string
}

// Root returns the PathRef for the document root.
func Root() PathRef { return PathRef{} }

// At parses a JSON Pointer into a PathRef. Tokens are expected to be escaped.
func At(pointer string) PathRef {
	if pointer == "" || pointer == "/" {
		return Root()
	}
	var parts []string
	for _, p := range strings.Split(pointer, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return PathRef{parts: parts}
}

// Field appends an object key, escaping '~' and '/' per RFC 6901.
func (p PathRef) Field(name string) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), EscapePointerToken(name))}
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Pointer renders the path; the root renders as "/".
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue located at p.
func (p PathRef) Issue(code, msg string) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes a single JSON Pointer reference token.
func EscapePointerToken(s string) string { return pointerEscaper.Replace(s) }

// FieldPointer returns the pointer "/<escaped name>".
func FieldPointer(name string) string { return "/" + EscapePointerToken(name) }

// IndexPointer returns the pointer "/<i>".
func IndexPointer(i int) string { return "/" + strconv.Itoa(i) }

// ShapeOf names the JSON kind of a raw value for diagnostics.
func ShapeOf(raw any) string {
	switch t := raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case Value:
		return t.Kind().String()
	default:
		return "unsupported"
	}
}

// ShapeMismatch returns a root-level shape_mismatch issue for raw.
func ShapeMismatch(expected string, raw any) Issues {
	return Issues{{
		Path:     "/",
		Code:     CodeShapeMismatch,
		Message:  i18n.T(CodeShapeMismatch, map[string]string{"expected": expected, "actual": ShapeOf(raw)}),
		Expected: expected,
		Actual:   ShapeOf(raw),
	}}
}

// NewIssue builds an issue at path with a localized message. data may carry
// "expected", "actual", "key" and "value"; expected/actual are also copied
// into the issue.
func NewIssue(path, code string, data map[string]string) Issue {
	if path == "" {
		path = "/"
	}
	return Issue{
		Path:     path,
		Code:     code,
		Message:  i18n.T(code, data),
		Expected: data["expected"],
		Actual:   data["actual"],
	}
}
