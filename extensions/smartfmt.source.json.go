package extensions

import (
	"bytes"
	"encoding/json"
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// JSONSource walks json.RawMessage documents. Objects stay raw messages so
// the next selector can continue, arrays become []any for the list
// formatter, and scalars are decoded to string, bool, int64, float64 or nil.
type JSONSource struct{}

// NewJSONSource creates the JSON source
func NewJSONSource() *JSONSource { return &JSONSource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *JSONSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	raw, ok := info.CurrentValue().(json.RawMessage)
	if !ok {
		return false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(raw, &object); err != nil {
			return false
		}
		member, found := object[info.SelectorText()]
		if !found && info.IgnoreCase() {
			for key, value := range object {
				if strings.EqualFold(key, info.SelectorText()) {
					member, found = value, true
					break
				}
			}
		}
		if !found {
			return false
		}
		info.SetResult(jsonValue(member))
		return true
	case '[':
		index, ok := internal.ParseIndex(info.SelectorText())
		if !ok {
			return false
		}
		var array []json.RawMessage
		if err := json.Unmarshal(raw, &array); err != nil || index >= len(array) {
			return false
		}
		info.SetResult(jsonValue(array[index]))
		return true
	}
	return false
}

// jsonValue converts a member of a document to the value exposed to
// formatters
func jsonValue(raw json.RawMessage) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		return json.RawMessage(trimmed)
	case '[':
		var array []json.RawMessage
		if err := json.Unmarshal(trimmed, &array); err != nil {
			return json.RawMessage(trimmed)
		}
		items := make([]any, len(array))
		for i, item := range array {
			items[i] = jsonValue(item)
		}
		return items
	case 'n':
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil
		}
		return b
	case '"':
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return nil
		}
		return str
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return nil
	}
	if n, err := number.Int64(); err == nil {
		return n
	}
	if f, err := number.Float64(); err == nil {
		return f
	}
	return number.String()
}
