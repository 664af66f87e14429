// Package codec holds reusable codecs for dsl.Codec.
package codec

import (
	"context"
	"time"

	wireschema "github.com/opik-go/wireschema"
	"github.com/opik-go/wireschema/dsl"
)

// TimeRFC3339 returns a Codec between RFC 3339 strings and time.Time.
// Encoding normalizes to UTC and trims trailing zero fractions.
func TimeRFC3339() wireschema.Codec[string, time.Time] { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) In() wireschema.Schema[string] { return dsl.String() }

// Format names the JSON Schema string format.
func (rfc3339Codec) Format() string { return "date-time" }

func (rfc3339Codec) Decode(ctx context.Context, a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		it := wireschema.NewIssue("/", wireschema.CodeInvalidFormat, map[string]string{"expected": "date-time", "actual": a})
		it.Cause = err
		return time.Time{}, wireschema.Issues{it}
	}
	return t, nil
}

func (rfc3339Codec) Encode(ctx context.Context, b time.Time) (string, error) {
	return formatRFC3339Canonical(b), nil
}

func parseRFC3339(s string) (time.Time, error) {
	// RFC3339Nano also accepts inputs without a fractional part
	return time.Parse(time.RFC3339Nano, s)
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
