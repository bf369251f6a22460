package smartfmt

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatProvider supplies the culture for culture-aware formatting.
type FormatProvider interface {
	Language() language.Tag
}

// CustomFormatter is an optional provider capability. When implemented, the
// default formatter asks it first and uses its text if ok is true.
type CustomFormatter interface {
	FormatValue(format string, value any, provider FormatProvider) (text string, ok bool)
}

// Formattable is implemented by values that render themselves for a format
// string, the way numbers and times do.
type Formattable interface {
	FormatString(format string, provider FormatProvider) string
}

// Culture is a FormatProvider backed by a language tag.
type Culture struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCulture creates a culture from a BCP 47 tag such as "en" or "de-CH".
func NewCulture(tag string) (*Culture, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return nil, NewSettingsError(ErrMsgSettingsInvalidValue, SettingDefaultCulture, tag, err)
	}
	return CultureOf(parsed), nil
}

// MustCulture is NewCulture that panics on an invalid tag
func MustCulture(tag string) *Culture {
	c, err := NewCulture(tag)
	if err != nil {
		panic(err)
	}
	return c
}

// CultureOf wraps an already parsed language tag.
func CultureOf(tag language.Tag) *Culture {
	return &Culture{tag: tag, printer: message.NewPrinter(tag)}
}

// Language implements FormatProvider
func (c *Culture) Language() language.Tag { return c.tag }

// Printer returns a printer localizing numbers for the culture
func (c *Culture) Printer() *message.Printer { return c.printer }

// String returns the BCP 47 tag
func (c *Culture) String() string { return c.tag.String() }

// PrinterFor returns a localizing printer for any provider. Nil providers use
// the undetermined language.
func PrinterFor(provider FormatProvider) *message.Printer {
	if c, ok := provider.(*Culture); ok && c != nil {
		return c.printer
	}
	return message.NewPrinter(LanguageOf(provider))
}

// LanguageOf returns the provider's language or language.Und for nil.
func LanguageOf(provider FormatProvider) language.Tag {
	if provider == nil {
		return language.Und
	}
	return provider.Language()
}
