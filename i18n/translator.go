package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message ("detail",
// "base", "item").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			msg = "ベースとアイテムの型が一致しません"
			if data["base"] != "" {
				msg += " (ベース: " + data["base"] + ", アイテム: " + data["item"] + ")"
			}
		case "invalid_type":
			msg = "変換できない型です"
		case "duplicate_key":
			msg = "キーが重複しています"
		case "max_depth":
			msg = "ネストが深すぎます"
		case "parse_error":
			msg = "解析エラー"
		case "truncated":
			msg = "サイズ上限を超えました"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			msg = "base and item disagree on container type"
			if data["base"] != "" {
				msg += " (base " + data["base"] + ", item " + data["item"] + ")"
			}
		case "invalid_type":
			msg = "unsupported type"
		case "duplicate_key":
			msg = "duplicate key"
		case "max_depth":
			msg = "nesting too deep"
		case "parse_error":
			msg = "parse error"
		case "truncated":
			msg = "size limit exceeded"
		}
	}
	if msg == "" {
		msg = code
	}
	if d := data["detail"]; d != "" {
		msg += ": " + d
	}
	return msg
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

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
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
