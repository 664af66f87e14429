package wireschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	eng "github.com/opik-go/wireschema/internal/engine"
)

// ParseFrom decodes one JSON document from src, applying the token-level
// enforcement in opts, and parses it with s.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	opt, ctx := resolveParseOpt(ctx, opts)
	raw, err := eng.DecodeDocument(EnforceSource(src, opt))
	if err != nil {
		return zero, &ValidationError{Issues: withPrefix(tokenIssues(err), opt.BreadcrumbsPrefix)}
	}
	return Parse(ctx, s, raw, opt)
}

// ParseJSON parses a JSON document held in data.
func ParseJSON[T any](ctx context.Context, s Schema[T], data []byte, opts ...ParseOpt) (T, error) {
	opt, ctx := resolveParseOpt(ctx, opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		var zero T
		return zero, truncated(opt.BreadcrumbsPrefix)
	}
	return ParseFrom(ctx, s, JSONBytes(data), opt)
}

// ParseReader parses a JSON document read from r. When MaxBytes is set the
// size cap is enforced before decoding.
func ParseReader[T any](ctx context.Context, s Schema[T], r io.Reader, opts ...ParseOpt) (T, error) {
	opt, ctx := resolveParseOpt(ctx, opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			var zero T
			return zero, &ValidationError{Issues: withPrefix(tokenIssues(err), opt.BreadcrumbsPrefix)}
		}
		return ParseJSON(ctx, s, data, opt)
	}
	return ParseFrom(ctx, s, JSONReader(r), opt)
}

// ParseYAML parses a YAML document. Mappings must have string keys; numbers
// reach the schema as json.Number.
func ParseYAML[T any](ctx context.Context, s Schema[T], data []byte, opts ...ParseOpt) (T, error) {
	var zero T
	opt, ctx := resolveParseOpt(ctx, opts)
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return zero, &ValidationError{Issues: Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}}
	}
	raw, err := yamlToRaw(&node, "")
	if err != nil {
		return zero, &ValidationError{Issues: withPrefix(IssuesFromErr("/", err), opt.BreadcrumbsPrefix)}
	}
	return Parse(ctx, s, raw, opt)
}

// SerializeJSON serializes v and encodes the result as JSON. Object keys
// are written in sorted order.
func SerializeJSON[T any](ctx context.Context, s Schema[T], v T, opts ...SerializeOpt) ([]byte, error) {
	raw, err := Serialize(ctx, s, v, opts...)
	if err != nil {
		return nil, err
	}
	b, err := gojson.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("wireschema: encode json: %w", err)
	}
	return b, nil
}

func truncated(prefix []string) error {
	iss := Issues{{Path: "/", Code: CodeTruncated, Message: "max bytes exceeded"}}
	return &ValidationError{Issues: withPrefix(iss, prefix)}
}

// tokenIssues maps decoder and enforcement failures into Issues.
func tokenIssues(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: ie.Message, Cause: err}}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return Issues{{Path: "/", Code: CodeTruncated, Message: "unexpected end of input", Cause: err}}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// yamlToRaw converts a YAML node tree into the raw JSON-compatible tree.
func yamlToRaw(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlToRaw(n.Content[0], path)
	case yaml.AliasNode:
		return yamlToRaw(n.Alias, path)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
				return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: fmt.Sprintf("line %d: mapping key must be a string", k.Line)}}
			}
			child, err := yamlToRaw(v, path+FieldPointer(k.Value))
			if err != nil {
				return nil, err
			}
			m[k.Value] = child
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, len(n.Content))
		for i, c := range n.Content {
			child, err := yamlToRaw(c, path+IndexPointer(i))
			if err != nil {
				return nil, err
			}
			arr[i] = child
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err == nil {
				return json.Number(strconv.FormatInt(i, 10)), nil
			}
			return yamlFloat(n, path)
		case "!!float":
			return yamlFloat(n, path)
		default:
			return n.Value, nil
		}
	}
	return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: fmt.Sprintf("line %d: unsupported yaml node", n.Line)}}
}

func yamlFloat(n *yaml.Node, path string) (any, error) {
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, Issues{{Path: pointerOrRoot(path), Code: CodeParseError, Message: fmt.Sprintf("line %d: %s is not a JSON number", n.Line, n.Value)}}
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
