package extensions

import (
	"errors"
	"strconv"
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// SubStringFormatter cuts the value's text by rune positions:
//
//	{Name:substr(0,3)}   first three characters
//	{Name:substr(-3)}    last three characters
//	{Name:substr(2):{ToUpper}}  nested format applied to the cut text
//
// Positions outside the text are clamped.
type SubStringFormatter struct{}

// NewSubStringFormatter creates the substring formatter
func NewSubStringFormatter() *SubStringFormatter { return &SubStringFormatter{} }

// Name implements smartfmt.Formatter
func (f *SubStringFormatter) Name() string { return NameSubString }

// CanAutoDetect implements smartfmt.Formatter
func (f *SubStringFormatter) CanAutoDetect() bool { return false }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *SubStringFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	start, length, err := parseSubStringOptions(info.FormatterOptions())
	if err != nil {
		return false, info.ExtensionError(NameSubString, ErrMsgInvalidSubString, err)
	}

	value := info.CurrentValue()
	if internal.IsNil(value) {
		return true, nil
	}
	result := SubString([]rune(internal.ToString(value)), start, length)

	if format := info.Format(); format != nil && !format.IsEmpty() {
		return true, info.FormatAsChild(format, result)
	}
	return true, info.Write(result)
}

// SubString returns up to length runes from start. A negative start counts
// from the end, a negative length takes the rest.
func SubString(runes []rune, start, length int) string {
	if start < 0 {
		start += len(runes)
		if start < 0 {
			start = 0
		}
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := len(runes)
	if length >= 0 && start+length < end {
		end = start + length
	}
	return string(runes[start:end])
}

// parseSubStringOptions parses "start" or "start,length"
func parseSubStringOptions(options string) (int, int, error) {
	parts := strings.Split(options, SubStringSep)
	if len(parts) > 2 {
		return 0, 0, errors.New(ErrMsgTooManyParams)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	length := -1
	if len(parts) == 2 {
		length, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, err
		}
		if length < 0 {
			return 0, 0, strconv.ErrRange
		}
	}
	return start, length, nil
}
