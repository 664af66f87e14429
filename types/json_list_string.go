package types

import (
	"context"
	"fmt"

	wireschema "github.com/opik-go/wireschema"
	"github.com/opik-go/wireschema/dsl"
)

// JsonListString is a record of unknown values, a list of such records, or
// a string. The wire form carries no discriminator; parsing tries the
// alternatives in that order.
type JsonListString struct {
	StringUnknownMap     map[string]wireschema.Value
	StringUnknownMapList []map[string]wireschema.Value
	String               string

	typ string
}

// Alternative names reported by Type.
const (
	JsonListStringTypeStringUnknownMap     = "stringUnknownMap"
	JsonListStringTypeStringUnknownMapList = "stringUnknownMapList"
	JsonListStringTypeString               = "string"
)

func NewJsonListStringFromStringUnknownMap(value map[string]wireschema.Value) *JsonListString {
	return &JsonListString{typ: JsonListStringTypeStringUnknownMap, StringUnknownMap: value}
}

func NewJsonListStringFromStringUnknownMapList(value []map[string]wireschema.Value) *JsonListString {
	return &JsonListString{typ: JsonListStringTypeStringUnknownMapList, StringUnknownMapList: value}
}

func NewJsonListStringFromString(value string) *JsonListString {
	return &JsonListString{typ: JsonListStringTypeString, String: value}
}

// Type returns the name of the alternative that is set, or "" for the zero
// value. Values built as struct literals report the first populated field
// in declaration order.
func (j *JsonListString) Type() string { return j.shape() }

func (j JsonListString) shape() string {
	switch {
	case j.typ != "":
		return j.typ
	case j.StringUnknownMap != nil:
		return JsonListStringTypeStringUnknownMap
	case j.StringUnknownMapList != nil:
		return JsonListStringTypeStringUnknownMapList
	case j.String != "":
		return JsonListStringTypeString
	}
	return ""
}

// JsonListStringVisitor dispatches on the alternative that is set.
type JsonListStringVisitor interface {
	VisitStringUnknownMap(map[string]wireschema.Value) error
	VisitStringUnknownMapList([]map[string]wireschema.Value) error
	VisitString(string) error
}

func (j *JsonListString) Accept(visitor JsonListStringVisitor) error {
	switch j.shape() {
	case JsonListStringTypeStringUnknownMap:
		return visitor.VisitStringUnknownMap(j.StringUnknownMap)
	case JsonListStringTypeStringUnknownMapList:
		return visitor.VisitStringUnknownMapList(j.StringUnknownMapList)
	case JsonListStringTypeString:
		return visitor.VisitString(j.String)
	}
	return fmt.Errorf("type %T does not include a non-empty union type", j)
}

var jsonListStringSchema = dsl.UndiscriminatedUnion(
	dsl.Alternative(JsonListStringTypeStringUnknownMap,
		dsl.Record(dsl.String(), dsl.Unknown()),
		func(m map[string]wireschema.Value) JsonListString { return *NewJsonListStringFromStringUnknownMap(m) },
		func(j JsonListString) (map[string]wireschema.Value, bool) {
			return j.StringUnknownMap, j.shape() == JsonListStringTypeStringUnknownMap
		}),
	dsl.Alternative(JsonListStringTypeStringUnknownMapList,
		dsl.List(dsl.Record(dsl.String(), dsl.Unknown())),
		func(l []map[string]wireschema.Value) JsonListString {
			return *NewJsonListStringFromStringUnknownMapList(l)
		},
		func(j JsonListString) ([]map[string]wireschema.Value, bool) {
			return j.StringUnknownMapList, j.shape() == JsonListStringTypeStringUnknownMapList
		}),
	dsl.Alternative(JsonListStringTypeString,
		dsl.String(),
		func(s string) JsonListString { return *NewJsonListStringFromString(s) },
		func(j JsonListString) (string, bool) { return j.String, j.shape() == JsonListStringTypeString }),
)

// JsonListStringSchema returns the schema of JsonListString.
func JsonListStringSchema() wireschema.Schema[JsonListString] { return jsonListStringSchema }

func (j JsonListString) MarshalJSON() ([]byte, error) {
	return wireschema.SerializeJSON(context.Background(), jsonListStringSchema, j)
}

func (j *JsonListString) UnmarshalJSON(data []byte) error {
	v, err := wireschema.ParseJSON(context.Background(), jsonListStringSchema, data)
	if err != nil {
		return err
	}
	*j = v
	return nil
}
