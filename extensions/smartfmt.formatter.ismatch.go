package extensions

import (
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// DefaultMatchTimeout bounds a single regular expression evaluation
const DefaultMatchTimeout = 500 * time.Millisecond

// IsMatchFormatter outputs the first parameter when the value's text matches
// the regular expression in the options and the second otherwise:
//
//	{Code:ismatch(^\d\{3\}$):valid|invalid}
//
// Braces and parentheses of the pattern are escaped with a backslash. Patterns
// use .NET syntax (regexp2) and are compiled once.
type IsMatchFormatter struct {
	timeout  time.Duration
	patterns sync.Map // pattern -> *regexp2.Regexp
}

// NewIsMatchFormatter creates the formatter with DefaultMatchTimeout
func NewIsMatchFormatter() *IsMatchFormatter {
	return &IsMatchFormatter{timeout: DefaultMatchTimeout}
}

// WithTimeout sets the evaluation timeout, zero disables it
func (f *IsMatchFormatter) WithTimeout(timeout time.Duration) *IsMatchFormatter {
	f.timeout = timeout
	return f
}

// Name implements smartfmt.Formatter
func (f *IsMatchFormatter) Name() string { return NameIsMatch }

// CanAutoDetect implements smartfmt.Formatter
func (f *IsMatchFormatter) CanAutoDetect() bool { return false }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *IsMatchFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	format := info.Format()
	if format == nil {
		return false, info.ExtensionError(NameIsMatch, ErrMsgFormatRequired, nil)
	}
	params := format.Split(ParamSeparator)
	if len(params) > 2 {
		return false, info.ExtensionError(NameIsMatch, ErrMsgTooManyParams, nil)
	}

	re, err := f.compile(info.FormatterOptions())
	if err != nil {
		return false, info.ExtensionError(NameIsMatch, ErrMsgInvalidPattern, err)
	}

	value := info.CurrentValue()
	matched, err := re.MatchString(internal.ToString(value))
	if err != nil {
		return false, info.ExtensionError(NameIsMatch, ErrMsgPatternTimeout, err)
	}

	switch {
	case matched:
		return true, info.FormatAsChild(params[0], value)
	case len(params) == 2:
		return true, info.FormatAsChild(params[1], value)
	}
	return true, nil
}

func (f *IsMatchFormatter) compile(pattern string) (*regexp2.Regexp, error) {
	if cached, ok := f.patterns.Load(pattern); ok {
		return cached.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	if f.timeout > 0 {
		re.MatchTimeout = f.timeout
	}
	actual, _ := f.patterns.LoadOrStore(pattern, re)
	return actual.(*regexp2.Regexp), nil
}
