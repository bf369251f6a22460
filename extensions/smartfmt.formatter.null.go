package extensions

import (
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// NullFormatter outputs the first parameter for nil values and the second
// one otherwise: {Middle:isnull:-|{}}. With a single parameter non-nil
// values produce no output.
type NullFormatter struct{}

// NewNullFormatter creates the null formatter
func NewNullFormatter() *NullFormatter { return &NullFormatter{} }

// Name implements smartfmt.Formatter
func (f *NullFormatter) Name() string { return NameNull }

// CanAutoDetect implements smartfmt.Formatter
func (f *NullFormatter) CanAutoDetect() bool { return false }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *NullFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	format := info.Format()
	if format == nil {
		return false, info.ExtensionError(NameNull, ErrMsgFormatRequired, nil)
	}
	params := format.Split(ParamSeparator)
	if len(params) > 2 {
		return false, info.ExtensionError(NameNull, ErrMsgTooManyParams, nil)
	}

	value := info.CurrentValue()
	if internal.IsNil(value) {
		return true, info.FormatAsChild(params[0], value)
	}
	if len(params) == 2 {
		return true, info.FormatAsChild(params[1], value)
	}
	return true, nil
}
