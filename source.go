package wireschema

import (
	"bytes"
	"io"
	"sync"

	eng "github.com/opik-go/wireschema/internal/engine"
	gojsonsrc "github.com/opik-go/wireschema/source/gojson"
	jsonsrc "github.com/opik-go/wireschema/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// Source produces tokens until io.EOF.
type Source = eng.TokenSource

// JSONDriver converts JSON input into a Source.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	Name() string
}

type driverFunc struct {
	name string
	fn   func(io.Reader) eng.TokenSource
}

func (d driverFunc) NewReader(r io.Reader) Source { return d.fn(r) }
func (d driverFunc) Name() string                 { return d.name }

// GoJSONDriver returns the goccy/go-json backed driver. It is the default.
func GoJSONDriver() JSONDriver { return driverFunc{name: "goccy/go-json", fn: gojsonsrc.NewReader} }

// StdJSONDriver returns the encoding/json backed driver. Unlike the default
// it reports byte offsets, so MaxBytes is also enforced while streaming.
func StdJSONDriver() JSONDriver { return driverFunc{name: "encoding/json", fn: jsonsrc.NewReader} }

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver = GoJSONDriver()
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(GoJSONDriver()) }

// CurrentJSONDriver returns the driver used by JSONReader and JSONBytes.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	defer jsonDriverMu.RUnlock()
	return currentJSONDriver
}

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return JSONReader(bytes.NewReader(b)) }

// EnforceSource wraps s with duplicate key, depth and byte enforcement as
// configured by opt. Non-fatal findings go to opt.Warnings.
func EnforceSource(s Source, opt ParseOpt) Source {
	var sink func(eng.SimpleIssue)
	if opt.Warnings != nil {
		sink = func(si eng.SimpleIssue) {
			opt.Warnings(Issue{Path: si.Path, Code: si.Code, Message: si.Message})
		}
	}
	return eng.WrapWithEnforcement(s, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
		FailFast:    opt.FailFast,
	})
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}
