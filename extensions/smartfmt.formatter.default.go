package extensions

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/beevik/etree"
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Default number of decimals for N, F, P and E formats
const defaultNumberDecimals = 2

// DefaultFormatter renders any value and is the last formatter of the
// chain. A nested format containing placeholders is formatted with the value
// as current value; otherwise the format text is a format string:
//
//	{0:%08.3f}   fmt verbs, localized by the culture's printer
//	{0:N2}       grouped decimal with 2 decimals ("1,234.50" in en)
//	{0:F1}       decimal without grouping
//	{0:P0}       percent
//	{0:D5} {0:X} zero padded integer, hexadecimal
//	{0:E3}       exponent notation
//	{0:2006-01-02} time.Time layout
//
// Providers implementing smartfmt.CustomFormatter and values implementing
// smartfmt.Formattable take precedence.
type DefaultFormatter struct{}

// NewDefaultFormatter creates the default formatter
func NewDefaultFormatter() *DefaultFormatter { return &DefaultFormatter{} }

// Name implements smartfmt.Formatter
func (f *DefaultFormatter) Name() string { return NameDefault }

// CanAutoDetect implements smartfmt.Formatter
func (f *DefaultFormatter) CanAutoDetect() bool { return true }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *DefaultFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	value := info.CurrentValue()
	format := info.Format()

	if format != nil && format.HasNested {
		return true, info.FormatAsChild(format, value)
	}

	var formatText string
	if format != nil {
		formatText = format.LiteralText()
	}
	return true, info.Write(FormatValue(value, formatText, info.Provider()))
}

// FormatValue renders value with a format string the way the default
// formatter does.
func FormatValue(value any, formatText string, provider smartfmt.FormatProvider) string {
	if custom, ok := provider.(smartfmt.CustomFormatter); ok {
		if text, ok := custom.FormatValue(formatText, value, provider); ok {
			return text
		}
	}
	if internal.IsNil(value) {
		return ""
	}
	if formattable, ok := value.(smartfmt.Formattable); ok {
		return formattable.FormatString(formatText, provider)
	}

	switch v := value.(type) {
	case time.Time:
		if formatText != "" {
			return v.Format(formatText)
		}
	case *etree.Element:
		return v.Text()
	case *etree.Document:
		if root := v.Root(); root != nil {
			return root.Text()
		}
		return ""
	}

	if formatText != "" && internal.IsNumber(value) {
		if text, ok := formatNumber(smartfmt.PrinterFor(provider), formatText, value); ok {
			return text
		}
	}
	return internal.ToString(value)
}

// formatNumber applies a printf format or a standard numeric format.
func formatNumber(p *message.Printer, formatText string, value any) (string, bool) {
	if strings.HasPrefix(formatText, "%") {
		return p.Sprintf(formatText, value), true
	}

	kind := rune(formatText[0])
	decimals := -1
	if len(formatText) > 1 {
		n, err := strconv.Atoi(formatText[1:])
		if err != nil || n < 0 {
			return "", false
		}
		decimals = n
	}
	withDefault := func(d int) int {
		if decimals < 0 {
			return d
		}
		return decimals
	}

	f, _ := internal.ToFloat(value)
	switch unicode.ToUpper(kind) {
	case 'N':
		return p.Sprint(number.Decimal(value, number.Scale(withDefault(defaultNumberDecimals)))), true
	case 'F':
		return p.Sprint(number.Decimal(value, number.Scale(withDefault(defaultNumberDecimals)), number.NoSeparator())), true
	case 'P':
		return p.Sprint(number.Percent(value, number.Scale(withDefault(defaultNumberDecimals)))), true
	case 'D':
		negative, magnitude, ok := internal.ToInteger(value)
		if !ok {
			return "", false
		}
		digits := strconv.FormatUint(magnitude, 10)
		if pad := withDefault(0) - len(digits); pad > 0 {
			digits = strings.Repeat("0", pad) + digits
		}
		if negative {
			digits = "-" + digits
		}
		return digits, true
	case 'X':
		negative, magnitude, ok := internal.ToInteger(value)
		if !ok {
			return "", false
		}
		bits := magnitude
		if negative {
			// two's complement of the 64-bit value
			bits = -magnitude
		}
		verb := "%0*x"
		if kind == 'X' {
			verb = "%0*X"
		}
		return fmt.Sprintf(verb, withDefault(0), bits), true
	case 'E':
		text := strconv.FormatFloat(f, 'e', withDefault(defaultNumberDecimals), 64)
		if kind == 'E' {
			text = strings.ToUpper(text)
		}
		return text, true
	}
	return "", false
}
