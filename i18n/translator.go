package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message ("expected",
// "actual", "key", "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"shape_mismatch":        "expected {expected}, got {actual}",
		"missing_field":         "required field {key} is missing",
		"invalid_field_value":   "invalid value: expected {expected}, got {actual}",
		"union_exhausted":       "value matched none of the union alternatives",
		"unknown_key":           "unknown key {key}",
		"duplicate_key":         "duplicate key {key}",
		"duplicate_item":        "duplicate item",
		"invalid_enum":          "{value} is not one of the allowed values",
		"invalid_literal":       "expected literal {expected}",
		"invalid_format":        "invalid {expected} format",
		"discriminator_missing": "discriminator {key} is missing",
		"discriminator_unknown": "unknown variant {value}",
		"union_no_match":        "typed value matches no union alternative",
		"parse_error":           "parse error",
		"truncated":             "input truncated",
	},
	"ja": {
		"shape_mismatch":        "{expected} が必要ですが {actual} でした",
		"missing_field":         "必須フィールド {key} がありません",
		"invalid_field_value":   "値が不正です: {expected} が必要ですが {actual} でした",
		"union_exhausted":       "どのユニオン候補にも一致しません",
		"unknown_key":           "未知のキー {key} です",
		"duplicate_key":         "キー {key} が重複しています",
		"duplicate_item":        "要素が重複しています",
		"invalid_enum":          "{value} は許可された値ではありません",
		"invalid_literal":       "リテラル {expected} が必要です",
		"invalid_format":        "{expected} の形式が不正です",
		"discriminator_missing": "判別子 {key} がありません",
		"discriminator_unknown": "未知のバリアント {value} です",
		"union_no_match":        "値に一致するユニオン候補がありません",
		"parse_error":           "解析エラー",
		"truncated":             "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation. nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
