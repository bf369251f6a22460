package extensions

import (
	"context"
	"errors"
	"strings"
	"sync"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/store"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// LocalizationFormatter replaces a key by its localized resource and formats
// it with the current value:
//
//	{:L:WelcomeText}
//	{User:L(de):Greeting}
//
// The culture comes from the options or the provider and is matched against
// the supported languages. Resources are looked up for the matched language,
// its base language, the default language and the neutral language in this
// order; without any resource the key itself is formatted.
type LocalizationFormatter struct {
	store     store.Store
	supported []language.Tag
	matcher   language.Matcher
	formats   sync.Map // localizationKey -> *smartfmt.Format
	mu        sync.RWMutex
	logger    *zap.Logger
}

type localizationKey struct {
	engine   *smartfmt.Engine
	language string
	key      string
}

// NewLocalizationFormatter creates a formatter reading s. The first supported
// language is the default; English when none is given.
func NewLocalizationFormatter(s store.Store, supported ...language.Tag) *LocalizationFormatter {
	if len(supported) == 0 {
		supported = []language.Tag{language.English}
	}
	return &LocalizationFormatter{
		store:     s,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		logger:    zap.NewNop(),
	}
}

// Initialize adopts the engine logger
func (f *LocalizationFormatter) Initialize(e *smartfmt.Engine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = e.Logger()
	return nil
}

// Name implements smartfmt.Formatter
func (f *LocalizationFormatter) Name() string { return NameLocalization }

// CanAutoDetect implements smartfmt.Formatter
func (f *LocalizationFormatter) CanAutoDetect() bool { return false }

// DefaultLanguage returns the fallback language
func (f *LocalizationFormatter) DefaultLanguage() language.Tag { return f.supported[0] }

// Reset drops all cached resources, e.g. after the store was updated
func (f *LocalizationFormatter) Reset() { f.formats.Clear() }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *LocalizationFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	format := info.Format()
	if format == nil || format.IsEmpty() {
		return false, info.ExtensionError(NameLocalization, ErrMsgFormatRequired, nil)
	}
	key := format.String()

	requested := smartfmt.LanguageOf(info.Provider())
	if options := strings.TrimSpace(info.FormatterOptions()); options != "" {
		tag, err := language.Parse(options)
		if err != nil {
			return false, info.ExtensionError(NameLocalization, ErrMsgInvalidCulture, err)
		}
		requested = tag
	}
	lang := f.Match(requested)

	cacheKey := localizationKey{engine: info.Engine(), language: lang.String(), key: key}
	if cached, ok := f.formats.Load(cacheKey); ok {
		return true, info.FormatAsChild(cached.(*smartfmt.Format), info.CurrentValue())
	}

	source, err := f.lookup(key, lang)
	if err != nil {
		return false, info.ExtensionError(NameLocalization, ErrMsgResourceLoadFailed, err)
	}
	parsed, err := info.Engine().ParseFormat(source)
	if err != nil {
		return false, info.ExtensionError(NameLocalization, ErrMsgResourceLoadFailed, err)
	}
	actual, _ := f.formats.LoadOrStore(cacheKey, parsed)
	return true, info.FormatAsChild(actual.(*smartfmt.Format), info.CurrentValue())
}

// Match returns the supported language closest to requested, or the default
// language when none matches.
func (f *LocalizationFormatter) Match(requested language.Tag) language.Tag {
	if requested == language.Und {
		return f.DefaultLanguage()
	}
	_, index, confidence := f.matcher.Match(requested)
	if confidence == language.No {
		return f.DefaultLanguage()
	}
	return f.supported[index]
}

// lookup walks the fallback languages and returns the key itself when no
// resource exists
func (f *LocalizationFormatter) lookup(key string, lang language.Tag) (string, error) {
	f.mu.RLock()
	logger := f.logger
	f.mu.RUnlock()

	if f.store == nil {
		logger.Debug(LogMsgResourceMissing, zap.String(LogFieldKey, key))
		return key, nil
	}

	ctx := context.Background()
	candidates := f.candidates(lang)
	for i, candidate := range candidates {
		resource, err := f.store.Get(ctx, key, candidate)
		if err == nil {
			if i > 0 {
				logger.Debug(LogMsgResourceFallback,
					zap.String(LogFieldKey, key),
					zap.String(LogFieldLanguage, candidate),
				)
			}
			return resource.Source, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
	}

	logger.Debug(LogMsgResourceMissing,
		zap.String(LogFieldKey, key),
		zap.String(LogFieldLanguage, lang.String()),
	)
	return key, nil
}

// candidates lists the languages to try, without duplicates
func (f *LocalizationFormatter) candidates(lang language.Tag) []string {
	seen := make(map[string]bool)
	var list []string
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			list = append(list, tag)
		}
	}

	add(lang.String())
	if base, confidence := lang.Base(); confidence != language.No {
		add(base.String())
	}
	add(f.DefaultLanguage().String())
	add("")
	return list
}
