package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness selects how duplicate object keys are treated.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal findings (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
	// FailFast turns warnings into errors.
	FailFast bool
}

// Disabled reports whether enforcement would be a no-op.
func (o EnforceOptions) Disabled() bool {
	return o.OnDuplicate == DupIgnore && o.MaxDepth == 0 && o.MaxBytes == 0
}

// SimpleIssue is the engine's dependency-free issue form.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a fatal enforcement finding.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.Message + " at " + e.Path }

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if opt.Disabled() {
		return inner
	}
	return &enforcer{inner: inner, opt: opt}
}

type frame struct {
	object  bool
	path    string
	keys    map[string]struct{}
	lastKey string
	index   int
}

type enforcer struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

// valuePath returns the pointer of the value about to start in the top frame.
func (e *enforcer) valuePath() string {
	if len(e.stack) == 0 {
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	if top.object {
		return top.path + "/" + escape(top.lastKey)
	}
	p := top.path + "/" + strconv.Itoa(top.index)
	top.index++
	return p
}

func (e *enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		p := e.valuePath()
		f := frame{object: tok.Kind == KindBeginObject, path: p}
		if f.object && e.opt.OnDuplicate != DupIgnore {
			f.keys = map[string]struct{}{}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{SimpleIssue{Code: "parse_error", Path: pointer(p), Message: "max depth exceeded"}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			top.lastKey = tok.String
			if top.keys != nil {
				if _, dup := top.keys[tok.String]; dup {
					si := SimpleIssue{Code: "duplicate_key", Path: pointer(top.path + "/" + escape(tok.String)), Message: "duplicate key " + tok.String}
					if e.opt.OnDuplicate == DupError || e.opt.FailFast {
						return Token{}, IssueError{si}
					}
					if e.opt.IssueSink != nil {
						e.opt.IssueSink(si)
					}
				}
				top.keys[tok.String] = struct{}{}
			}
		}
	default:
		e.valuePath()
	}
	if e.opt.MaxBytes > 0 {
		if off := e.inner.Location(); off > e.opt.MaxBytes {
			return Token{}, IssueError{SimpleIssue{Code: "truncated", Path: "/", Message: "max bytes exceeded"}}
		}
	}
	return tok, nil
}

func (e *enforcer) Location() int64 { return e.inner.Location() }

var escaper = strings.NewReplacer("~", "~0", "/", "~1")

func escape(s string) string { return escaper.Replace(s) }

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
