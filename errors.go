package wireschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeShapeMismatch     = "shape_mismatch"
	CodeMissingField      = "missing_field"
	CodeInvalidFieldValue = "invalid_field_value"
	CodeUnionExhausted    = "union_exhausted"
	CodeUnknownKey        = "unknown_key"
	CodeDuplicateKey      = "duplicate_key"
	CodeDuplicateItem     = "duplicate_item"
	CodeInvalidEnum       = "invalid_enum"
	CodeInvalidLiteral    = "invalid_literal"
	CodeInvalidFormat     = "invalid_format"
	// Discriminated unions.
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	// Serialize side: no union alternative accepted the typed value.
	CodeUnionNoMatch = "union_no_match"
	// Token layer.
	CodeParseError = "parse_error"
	CodeTruncated  = "truncated"
)

// Issue is a single validation or serialization failure.
type Issue struct {
	Path     string // JSON Pointer over raw field names (for example: /parts/2/e_tag).
	Code     string
	Message  string
	Expected string // Expected shape, e.g. "string" or "object".
	Actual   string // Observed shape, e.g. "number".
	Cause    error
	// Alternatives holds the per-alternative failures of an exhausted union,
	// in declaration order.
	Alternatives []Issues
}

func (it Issue) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	if it.Expected != "" || it.Actual != "" {
		fmt.Fprintf(b, " (expected %s, got %s)", orUnknown(it.Expected), orUnknown(it.Actual))
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As. It sees through
// ValidationError and SerializationError.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts err into Issues, wrapping foreign errors as a
// parse_error at path.
func IssuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// Rebase prefixes every issue path with base. Root-level issues ("/" or "")
// are moved to base and, when rootCode is non-empty, relabelled with it so a
// child's shape mismatch surfaces as e.g. invalid_field_value at the field.
// Union failures keep their code along with their Alternatives.
func Rebase(iss Issues, base, rootCode string) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
			if rootCode != "" && !isUnionCode(it.Code) {
				it.Code = rootCode
			}
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

func isUnionCode(code string) bool {
	return code == CodeUnionExhausted || code == CodeUnionNoMatch
}

// ValidationError reports that a raw value does not conform to a schema.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string { return "wireschema: validation failed: " + e.Issues.Error() }

func (e *ValidationError) Unwrap() error { return e.Issues }

// SerializationError reports that a typed value violates its schema's
// invariants and cannot be written in wire form.
type SerializationError struct {
	Issues Issues
}

func (e *SerializationError) Error() string {
	return "wireschema: serialization failed: " + e.Issues.Error()
}

func (e *SerializationError) Unwrap() error { return e.Issues }

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSerializationError reports whether err is (or wraps) a SerializationError.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// HasCode reports whether any issue in err carries code, searching union
// alternatives recursively.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	return hasCode(iss, code)
}

func hasCode(iss Issues, code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
		for _, alt := range it.Alternatives {
			if hasCode(alt, code) {
				return true
			}
		}
	}
	return false
}
