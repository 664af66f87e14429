package wireschema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// UnknownPolicy controls how unrecognized object keys are handled.
type UnknownPolicy int

const (
	UnknownDefault     UnknownPolicy = iota // Keep each object's own policy.
	UnknownStrip                            // Drop unknown keys.
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownPassthrough                      // Preserve unknown keys in the object's extras.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrip:
		return "strip"
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "default"
	}
}

// UnmarshalYAML accepts the names returned by String.
func (p *UnknownPolicy) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "default":
		*p = UnknownDefault
	case "strip":
		*p = UnknownStrip
	case "strict", "fail":
		*p = UnknownStrict
	case "passthrough":
		*p = UnknownPassthrough
	default:
		return fmt.Errorf("unknown key policy %q", s)
	}
	return nil
}

// Severity expresses how the token layer reacts to a finding.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// UnmarshalYAML accepts "ignore", "warn" and "error".
func (s *Severity) UnmarshalYAML(n *yaml.Node) error {
	var str string
	if err := n.Decode(&str); err != nil {
		return err
	}
	switch str {
	case "", "ignore":
		*s = Ignore
	case "warn":
		*s = Warn
	case "error":
		*s = Error
	default:
		return fmt.Errorf("unknown severity %q", str)
	}
	return nil
}

// Strictness configures token-level enforcement.
type Strictness struct {
	OnDuplicateKey Severity `yaml:"onDuplicateKey"`
}

// ParseOpt bundles parse-time options.
type ParseOpt struct {
	UnknownKeys                   UnknownPolicy `yaml:"unknownKeys"`
	SkipValidation                bool          `yaml:"skipValidation"`
	AllowUnrecognizedEnumValues   bool          `yaml:"allowUnrecognizedEnumValues"`
	AllowUnrecognizedUnionMembers bool          `yaml:"allowUnrecognizedUnionMembers"`
	BreadcrumbsPrefix             []string      `yaml:"breadcrumbsPrefix"`
	FailFast                      bool          `yaml:"failFast"`

	// Token layer (JSON sources only).
	Strictness Strictness `yaml:"strictness"`
	MaxDepth   int        `yaml:"maxDepth"`
	MaxBytes   int64      `yaml:"maxBytes"`

	// Warnings receives non-fatal token findings (duplicate keys under Warn).
	Warnings func(Issue) `yaml:"-"`
}

// SerializeOpt bundles serialize-time options.
type SerializeOpt struct {
	UnknownKeys       UnknownPolicy `yaml:"unknownKeys"`
	SkipValidation    bool          `yaml:"skipValidation"`
	BreadcrumbsPrefix []string      `yaml:"breadcrumbsPrefix"`
}

// Options is the on-disk form of ParseOpt and SerializeOpt.
type Options struct {
	Parse     ParseOpt     `yaml:"parse"`
	Serialize SerializeOpt `yaml:"serialize"`
}

// LoadOptions reads Options from a YAML file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}
	return DecodeOptions(data)
}

// DecodeOptions parses Options from YAML bytes. Unknown keys are rejected.
func DecodeOptions(data []byte) (Options, error) {
	var o Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return Options{}, nil
		}
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	return o, nil
}

// ---- context plumbing ----

type contextKey int

const (
	_ctxKeyParseOpt contextKey = iota
	_ctxKeySerializeOpt
)

// WithParseOpt returns a child context carrying opt for schema implementations.
func WithParseOpt(ctx context.Context, opt ParseOpt) context.Context {
	return context.WithValue(ctx, _ctxKeyParseOpt, opt)
}

// ParseOptFrom returns the ParseOpt stored in ctx, or the zero value.
func ParseOptFrom(ctx context.Context) ParseOpt {
	opt, _ := ctx.Value(_ctxKeyParseOpt).(ParseOpt)
	return opt
}

// WithSerializeOpt returns a child context carrying opt.
func WithSerializeOpt(ctx context.Context, opt SerializeOpt) context.Context {
	return context.WithValue(ctx, _ctxKeySerializeOpt, opt)
}

// SerializeOptFrom returns the SerializeOpt stored in ctx, or the zero value.
func SerializeOptFrom(ctx context.Context) SerializeOpt {
	opt, _ := ctx.Value(_ctxKeySerializeOpt).(SerializeOpt)
	return opt
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool { return ParseOptFrom(ctx).FailFast }

// ResolveUnknown returns the effective unknown-key policy for an object
// whose own policy is own.
func ResolveUnknown(override, own UnknownPolicy) UnknownPolicy {
	if override != UnknownDefault {
		return override
	}
	if own == UnknownDefault {
		return UnknownStrip
	}
	return own
}
