package extensions

import (
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	smartfmt "github.com/itsatony/go-smartfmt"
)

// stringFunc computes a selector value from a string. ok is false if the
// string cannot be converted.
type stringFunc func(s string) (any, bool)

var stringSelectors = map[string]stringFunc{
	StringLength:      func(s string) (any, bool) { return utf8.RuneCountInString(s), true },
	StringToUpper:     func(s string) (any, bool) { return strings.ToUpper(s), true },
	StringToLower:     func(s string) (any, bool) { return strings.ToLower(s), true },
	StringTrim:        func(s string) (any, bool) { return strings.TrimSpace(s), true },
	StringTrimStart:   func(s string) (any, bool) { return strings.TrimLeftFunc(s, unicode.IsSpace), true },
	StringTrimEnd:     func(s string) (any, bool) { return strings.TrimRightFunc(s, unicode.IsSpace), true },
	StringCapitalize:  capitalize,
	StringToBase64:    func(s string) (any, bool) { return base64.StdEncoding.EncodeToString([]byte(s)), true },
	StringFromBase64:  fromBase64,
	StringToCharArray: toCharArray,
}

// StringSource resolves the well-known string selectors such as Length,
// ToUpper or ToBase64 on string values.
type StringSource struct{}

// NewStringSource creates the string source
func NewStringSource() *StringSource { return &StringSource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *StringSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	str, ok := info.CurrentValue().(string)
	if !ok {
		return false
	}

	fn, ok := lookupStringSelector(info.SelectorText(), info.IgnoreCase())
	if !ok {
		return false
	}
	value, ok := fn(str)
	if !ok {
		return false
	}
	info.SetResult(value)
	return true
}

func lookupStringSelector(name string, ignoreCase bool) (stringFunc, bool) {
	if fn, ok := stringSelectors[name]; ok {
		return fn, true
	}
	if !ignoreCase {
		return nil, false
	}
	for key, fn := range stringSelectors {
		if strings.EqualFold(key, name) {
			return fn, true
		}
	}
	return nil, false
}

func capitalize(s string) (any, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s, true
	}
	return string(unicode.ToUpper(r)) + s[size:], true
}

func fromBase64(s string) (any, bool) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return string(decoded), true
}

// toCharArray splits into one string per rune so the list formatter can
// iterate the characters
func toCharArray(s string) (any, bool) {
	chars := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars, true
}
