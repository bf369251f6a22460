package extensions

import (
	"math"
	"strconv"
	"strings"
	"sync"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// PluralFormatter picks a parameter by the CLDR plural form of a number, or
// of the length of a list:
//
//	{Count:plural:one item|{} items}
//	{Count:plural:no items|one item|{} items}
//	{Count:plural(pl):plik|pliki|plików}
//
// Two parameters are one|other. Three are one|few|many in languages whose
// integers have few or many forms (Polish, Russian, Czech) and
// zero|one|other elsewhere. More are zero|one|two|few|many|other. The
// culture comes from the options or the provider, English when neither is
// set.
type PluralFormatter struct{}

// NewPluralFormatter creates the plural formatter
func NewPluralFormatter() *PluralFormatter { return &PluralFormatter{} }

// Name implements smartfmt.Formatter
func (f *PluralFormatter) Name() string { return NamePlural }

// CanAutoDetect implements smartfmt.Formatter
func (f *PluralFormatter) CanAutoDetect() bool { return true }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *PluralFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	format := info.Format()
	if format == nil {
		return false, nil
	}

	value := info.CurrentValue()
	var n float64
	if items, ok := internal.ListItems(value); ok {
		n = float64(len(items))
	} else if number, ok := internal.ToFloat(value); ok {
		n = number
	} else {
		return false, nil
	}

	params := format.Split(ParamSeparator)
	explicit := info.Placeholder() != nil && info.Placeholder().FormatterName != ""
	if len(params) < 2 && !explicit {
		return false, nil
	}
	// comparisons like >=18?adult belong to the conditional formatter
	if !explicit && hasComparison(params[0]) {
		return false, nil
	}

	tag, err := pluralLanguage(info)
	if err != nil {
		return false, err
	}

	index := pluralIndex(tag, n, len(params))
	return true, info.FormatAsChild(params[index], value)
}

// pluralLanguage returns the culture of the options or of the provider
func pluralLanguage(info *smartfmt.FormattingInfo) (language.Tag, error) {
	if options := strings.TrimSpace(info.FormatterOptions()); options != "" {
		tag, err := language.Parse(options)
		if err != nil {
			return language.Und, info.ExtensionError(NamePlural, ErrMsgInvalidCulture, err)
		}
		return tag, nil
	}
	tag := smartfmt.LanguageOf(info.Provider())
	if tag == language.Und {
		return language.English, nil
	}
	return tag, nil
}

// pluralIndex maps the plural form of n to one of count parameters
func pluralIndex(tag language.Tag, n float64, count int) int {
	if count <= 1 {
		return 0
	}
	form := pluralForm(tag, n)

	switch count {
	case 2:
		if form == plural.One {
			return 0
		}
		return 1
	case 3:
		if hasFewOrMany(tag) {
			switch form {
			case plural.One:
				return 0
			case plural.Few:
				return 1
			default:
				return 2
			}
		}
		switch {
		case n == 0:
			return 0
		case form == plural.One:
			return 1
		default:
			return 2
		}
	}

	if n == 0 {
		return 0
	}
	var index int
	switch form {
	case plural.Zero:
		index = 0
	case plural.One:
		index = 1
	case plural.Two:
		index = 2
	case plural.Few:
		index = 3
	case plural.Many:
		index = 4
	default:
		index = 5
	}
	if index >= count {
		index = count - 1
	}
	return index
}

const pluralProbeLimit = 200

// fewOrMany caches hasFewOrMany per language
var fewOrMany sync.Map // language.Tag -> bool

// hasFewOrMany reports whether some integer below pluralProbeLimit takes the
// few or many form in tag. Forms reserved for millions, as in French or
// Spanish, do not count.
func hasFewOrMany(tag language.Tag) bool {
	if cached, ok := fewOrMany.Load(tag); ok {
		return cached.(bool)
	}
	found := false
	for i := 0; i < pluralProbeLimit && !found; i++ {
		form := plural.Cardinal.MatchPlural(tag, i, 0, 0, 0, 0)
		found = form == plural.Few || form == plural.Many
	}
	fewOrMany.Store(tag, found)
	return found
}

// pluralForm computes the CLDR operands of n and matches the cardinal rules
func pluralForm(tag language.Tag, n float64) plural.Form {
	n = math.Abs(n)
	text := strconv.FormatFloat(n, 'f', -1, 64)
	intPart, fraction, _ := strings.Cut(text, ".")

	i, err := strconv.Atoi(intPart)
	if err != nil {
		// beyond int range only the "other" form applies
		return plural.Other
	}
	v := len(fraction)
	f, _ := strconv.Atoi("0" + fraction)
	trimmed := strings.TrimRight(fraction, "0")
	w := len(trimmed)
	t, _ := strconv.Atoi("0" + trimmed)
	return plural.Cardinal.MatchPlural(tag, i, v, w, f, t)
}
