package wireschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an arbitrary JSON value. It is the typed form of "unknown" wire
// payloads. The zero Value is null.
//
// Values are immutable by convention: AsArray and AsObject return the backing
// collections, which callers must not modify.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload or number literal
	arr  []Value
	obj  map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number wraps a JSON number literal. It panics if n is not a valid number.
func Number(n json.Number) Value {
	if _, err := strconv.ParseFloat(string(n), 64); err != nil {
		panic(fmt.Sprintf("wireschema.Number: invalid number literal %q", string(n)))
	}
	return Value{kind: KindNumber, s: string(n)}
}

// Float wraps f using its shortest representation. NaN and infinities panic.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic("wireschema.Float: NaN and Inf are not JSON numbers")
	}
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Int wraps i.
func Int(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// Array wraps elems.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// Object wraps m.
func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindObject, obj: m}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsNumber() (json.Number, bool) { return json.Number(v.s), v.kind == KindNumber }

// AsFloat returns the number as float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

func (v Value) AsObject() (map[string]Value, bool) { return v.obj, v.kind == KindObject }

// Get returns the member key of an object Value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	m, ok := v.obj[key]
	return m, ok
}

// FromAny converts a raw tree into a Value. Accepted leaves are nil, bool,
// string, json.Number and Go numeric types; containers are map[string]any,
// []any, map[string]Value and []Value.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if _, err := strconv.ParseFloat(string(t), 64); err != nil {
			return Value{}, fmt.Errorf("invalid number literal %q", string(t))
		}
		return Value{kind: KindNumber, s: string(t)}, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Value{}, fmt.Errorf("non-finite number %v", t)
		}
		return Float(t), nil
	case float32:
		return FromAny(float64(t))
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint, uint8, uint16, uint32, uint64:
		return Value{kind: KindNumber, s: fmt.Sprint(t)}, nil
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", IndexPointer(i), err)
			}
			out[i] = ev
		}
		return Array(out...), nil
	case []Value:
		return Array(t...), nil
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", FieldPointer(k), err)
			}
			out[k] = ev
		}
		return Object(out), nil
	case map[string]Value:
		return Object(t), nil
	case numberLiteral:
		return FromAny(json.Number(t.String()))
	default:
		return Value{}, fmt.Errorf("unsupported raw type %T", raw)
	}
}

// numberLiteral matches number types of other JSON decoders.
type numberLiteral interface {
	String() string
	Float64() (float64, error)
	Int64() (int64, error)
}

// ToAny converts v into a raw tree using map[string]any, []any and
// json.Number.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Equal reports structural equality. Numbers compare by value (1 == 1.0);
// object keys compare regardless of order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		return numbersEqual(v.s, o.s)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, e := range v.obj {
			oe, ok := o.obj[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	x, ok1 := new(big.Float).SetString(a)
	y, ok2 := new(big.Float).SetString(b)
	if !ok1 || !ok2 {
		return false
	}
	return x.Cmp(y) == 0
}

// Keys returns the sorted member names of an object Value.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes v; object keys are emitted in sorted order.
func (v Value) MarshalJSON() ([]byte, error) { return gojson.Marshal(v.ToAny()) }

// UnmarshalJSON decodes any JSON document into v, keeping number literals.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	nv, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = nv
	return nil
}

func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(b)
}
