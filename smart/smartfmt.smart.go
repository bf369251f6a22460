// Package smart builds engines with the built-in sources and formatters.
//
//	result, err := smart.Format("{0:plural:one item|{} items}", 3)
//
//	engine, err := smart.New(
//	    smart.WithEngineOptions(smartfmt.WithFormatErrorAction(smartfmt.ErrorActionMaintainTokens)),
//	    smart.WithStore(resources),
//	    smart.WithLanguages(language.English, language.German),
//	)
package smart

import (
	"sync"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/extensions"
	"github.com/itsatony/go-smartfmt/store"
	"golang.org/x/text/language"
)

// Option configures the engine built by New
type Option func(*config)

type config struct {
	engineOptions []smartfmt.Option
	store         store.Store
	languages     []language.Tag
	templates     map[string]string
}

// WithEngineOptions passes options to smartfmt.New
func WithEngineOptions(opts ...smartfmt.Option) Option {
	return func(c *config) {
		c.engineOptions = append(c.engineOptions, opts...)
	}
}

// WithStore sets the resource store of the template and localization
// formatters.
func WithStore(s store.Store) Option {
	return func(c *config) {
		c.store = s
	}
}

// WithLanguages sets the languages supported by the localization formatter.
// The first one is the fallback.
func WithLanguages(tags ...language.Tag) Option {
	return func(c *config) {
		c.languages = append(c.languages, tags...)
	}
}

// WithTemplate registers a template with the template formatter
func WithTemplate(name, template string) Option {
	return func(c *config) {
		if c.templates == nil {
			c.templates = make(map[string]string)
		}
		c.templates[name] = template
	}
}

// DefaultSources returns new instances of the built-in sources in priority
// order.
func DefaultSources() []smartfmt.Source {
	return []smartfmt.Source{
		extensions.NewGlobalVariablesSource(),
		extensions.NewPersistentVariablesSource(),
		extensions.NewDefaultSource(),
		extensions.NewStringSource(),
		extensions.NewListFormatter(),
		extensions.NewDictionarySource(),
		extensions.NewKeyValuePairSource(),
		extensions.NewJSONSource(),
		extensions.NewYAMLSource(),
		extensions.NewXMLSource(),
		extensions.NewReflectionSource(),
	}
}

// DefaultFormatters returns new instances of the built-in formatters in
// priority order. The localization formatter has no store and formats keys
// as they are.
func DefaultFormatters() []smartfmt.Formatter {
	return []smartfmt.Formatter{
		extensions.NewListFormatter(),
		extensions.NewPluralFormatter(),
		extensions.NewConditionalFormatter(),
		extensions.NewTimeFormatter(),
		extensions.NewIsMatchFormatter(),
		extensions.NewNullFormatter(),
		extensions.NewLocalizationFormatter(nil),
		extensions.NewTemplateFormatter(),
		extensions.NewChooseFormatter(),
		extensions.NewSubStringFormatter(),
		extensions.NewDefaultFormatter(),
	}
}

// New creates an engine with the built-in extensions. The list formatter is
// registered once and serves as source and formatter.
func New(opts ...Option) (*smartfmt.Engine, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	engine, err := smartfmt.New(c.engineOptions...)
	if err != nil {
		return nil, err
	}

	list := extensions.NewListFormatter()
	templates := extensions.NewTemplateFormatter()
	if c.store != nil {
		templates.WithStore(c.store)
	}

	err = engine.AddSources(
		extensions.NewGlobalVariablesSource(),
		extensions.NewPersistentVariablesSource(),
		extensions.NewDefaultSource(),
		extensions.NewStringSource(),
		list,
		extensions.NewDictionarySource(),
		extensions.NewKeyValuePairSource(),
		extensions.NewJSONSource(),
		extensions.NewYAMLSource(),
		extensions.NewXMLSource(),
		extensions.NewReflectionSource(),
	)
	if err != nil {
		return nil, err
	}

	err = engine.AddFormatters(
		list,
		extensions.NewPluralFormatter(),
		extensions.NewConditionalFormatter(),
		extensions.NewTimeFormatter(),
		extensions.NewIsMatchFormatter(),
		extensions.NewNullFormatter(),
		extensions.NewLocalizationFormatter(c.store, c.languages...),
		templates,
		extensions.NewChooseFormatter(),
		extensions.NewSubStringFormatter(),
		extensions.NewDefaultFormatter(),
	)
	if err != nil {
		return nil, err
	}

	for name, template := range c.templates {
		if err := templates.Register(name, template); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// MustNew creates a new engine and panics if there's an error.
func MustNew(opts ...Option) *smartfmt.Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

var (
	sharedOnce   sync.Once
	sharedEngine *smartfmt.Engine
)

// Shared returns a process-wide engine with the default configuration,
// created on first use.
func Shared() *smartfmt.Engine {
	sharedOnce.Do(func() {
		sharedEngine = MustNew()
	})
	return sharedEngine
}

// Format renders template with the shared engine.
func Format(template string, args ...any) (string, error) {
	return Shared().Format(template, args...)
}

// FormatWithProvider renders template with the shared engine and the given
// culture.
func FormatWithProvider(provider smartfmt.FormatProvider, template string, args ...any) (string, error) {
	return Shared().FormatWithProvider(provider, template, args...)
}
