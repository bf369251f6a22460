package extensions

import (
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// ChooseFormatter compares the value's text with the options and outputs
// the choice at the same position; an extra last choice is the default:
//
//	{Status:choose(ok|warn|fail):green|yellow|red}
//	{Code:choose(1|2):one|two|many}
//
// nil compares as "null", booleans as "true" and "false".
type ChooseFormatter struct{}

// NewChooseFormatter creates the choose formatter
func NewChooseFormatter() *ChooseFormatter { return &ChooseFormatter{} }

// Name implements smartfmt.Formatter
func (f *ChooseFormatter) Name() string { return NameChoose }

// CanAutoDetect implements smartfmt.Formatter
func (f *ChooseFormatter) CanAutoDetect() bool { return false }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *ChooseFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	format := info.Format()
	if format == nil {
		return false, info.ExtensionError(NameChoose, ErrMsgFormatRequired, nil)
	}

	options := SplitOptions(info.FormatterOptionsRaw(), OptionsSeparator)
	choices := format.Split(ParamSeparator)
	if len(choices) != len(options) && len(choices) != len(options)+1 {
		return false, info.ExtensionError(NameChoose, ErrMsgChoiceCount, nil)
	}

	value := info.CurrentValue()
	text := NullText
	if !internal.IsNil(value) {
		text = internal.ToString(value)
	}

	for i, option := range options {
		if option == text || info.IgnoreCase() && strings.EqualFold(option, text) {
			return true, info.FormatAsChild(choices[i], value)
		}
	}
	if len(choices) > len(options) {
		return true, info.FormatAsChild(choices[len(choices)-1], value)
	}
	return false, info.ExtensionError(NameChoose, ErrMsgNoChoiceMatched, nil)
}

// SplitOptions splits raw formatter options at unescaped separators and
// resolves backslash escapes in the parts.
func SplitOptions(raw string, sep rune) []string {
	var (
		parts   []string
		current strings.Builder
		escaped bool
	)
	for _, r := range raw {
		switch {
		case escaped:
			if r != sep && !strings.ContainsRune(internal.EscapableChars, r) {
				current.WriteRune(smartfmt.EscapeChar)
			}
			current.WriteRune(r)
			escaped = false
		case r == smartfmt.EscapeChar:
			escaped = true
		case r == sep:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune(smartfmt.EscapeChar)
	}
	return append(parts, current.String())
}
