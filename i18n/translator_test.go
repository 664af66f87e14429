package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	msg := T("missing_field", map[string]string{"key": "part_number"})
	assert.Equal(t, "required field part_number is missing", msg)

	SetLanguage("ja")
	defer SetLanguage("en")
	assert.Equal(t, "必須フィールド part_number がありません", T("missing_field", map[string]string{"key": "part_number"}))
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	assert.Equal(t, "no_such_code", T("no_such_code", nil))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	assert.Equal(t, "X:parse_error", T("parse_error", nil))
	SetTranslator(nil)
	assert.Equal(t, "parse error", T("parse_error", nil))
}
