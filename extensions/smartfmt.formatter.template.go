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

// TemplateFormatter formats a named template with the current value:
//
//	{Customer:t:address}
//	{Customer:t(address)}
//
// Templates are registered in code or loaded from a store, preferring the
// resource of the call's language over the neutral one. Parsed templates are
// cached per engine.
type TemplateFormatter struct {
	mu        sync.RWMutex
	templates map[string]string
	store     store.Store
	formats   sync.Map // templateKey -> *smartfmt.Format
	logger    *zap.Logger
}

type templateKey struct {
	engine   *smartfmt.Engine
	language string
	name     string
}

// NewTemplateFormatter creates a formatter without templates
func NewTemplateFormatter() *TemplateFormatter {
	return &TemplateFormatter{
		templates: make(map[string]string),
		logger:    zap.NewNop(),
	}
}

// WithStore sets the store consulted for templates not registered in code
func (f *TemplateFormatter) WithStore(s store.Store) *TemplateFormatter {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store = s
	f.formats.Clear()
	return f
}

// Initialize adopts the engine logger
func (f *TemplateFormatter) Initialize(e *smartfmt.Engine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = e.Logger()
	return nil
}

// Name implements smartfmt.Formatter
func (f *TemplateFormatter) Name() string { return NameTemplate }

// CanAutoDetect implements smartfmt.Formatter
func (f *TemplateFormatter) CanAutoDetect() bool { return false }

// Register adds or replaces a template.
func (f *TemplateFormatter) Register(name, template string) error {
	if strings.TrimSpace(name) == "" {
		return smartfmt.NewRegistryError(ErrMsgTemplateNameEmpty, NameTemplate)
	}
	f.mu.Lock()
	f.templates[name] = template
	logger := f.logger
	f.mu.Unlock()

	f.forget(name)
	logger.Debug(LogMsgTemplateRegistered, zap.String(LogFieldTemplate, name))
	return nil
}

// Remove deletes a registered template
func (f *TemplateFormatter) Remove(name string) bool {
	f.mu.Lock()
	_, ok := f.templates[name]
	delete(f.templates, name)
	f.mu.Unlock()

	f.forget(name)
	return ok
}

// Names returns the sorted names of the registered templates
func (f *TemplateFormatter) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return sortedKeys(f.templates)
}

// Clear removes all templates and cached formats
func (f *TemplateFormatter) Clear() {
	f.mu.Lock()
	f.templates = make(map[string]string)
	f.mu.Unlock()
	f.formats.Clear()
}

// TryEvaluateFormat implements smartfmt.Formatter
func (f *TemplateFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	name := strings.TrimSpace(info.FormatterOptions())
	if name == "" && info.Format() != nil {
		name = strings.TrimSpace(info.Format().LiteralText())
	}
	if name == "" {
		return false, info.ExtensionError(NameTemplate, ErrMsgTemplateNameEmpty, nil)
	}

	format, err := f.format(info, name)
	if err != nil {
		return false, err
	}
	return true, info.FormatAsChild(format, info.CurrentValue())
}

// format returns the parsed template, loading and caching it on first use
func (f *TemplateFormatter) format(info *smartfmt.FormattingInfo, name string) (*smartfmt.Format, error) {
	lang := smartfmt.LanguageOf(info.Provider())
	key := templateKey{engine: info.Engine(), language: lang.String(), name: name}
	if cached, ok := f.formats.Load(key); ok {
		return cached.(*smartfmt.Format), nil
	}

	source, err := f.source(name, lang, info.IgnoreCase())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, info.ExtensionError(NameTemplate, ErrMsgTemplateNotFound, err)
		}
		return nil, info.ExtensionError(NameTemplate, ErrMsgTemplateLoadFailed, err)
	}

	format, err := info.Engine().ParseFormat(source)
	if err != nil {
		return nil, info.ExtensionError(NameTemplate, ErrMsgTemplateLoadFailed, err)
	}
	actual, _ := f.formats.LoadOrStore(key, format)
	return actual.(*smartfmt.Format), nil
}

// source finds a template registered in code, then in the store
func (f *TemplateFormatter) source(name string, lang language.Tag, ignoreCase bool) (string, error) {
	f.mu.RLock()
	template, ok := lookupName(f.templates, name, ignoreCase)
	s := f.store
	logger := f.logger
	f.mu.RUnlock()

	if ok {
		return template, nil
	}
	if s == nil {
		return "", store.ErrNotFound
	}

	ctx := context.Background()
	var candidates []string
	if lang != language.Und {
		candidates = append(candidates, lang.String())
	}
	candidates = append(candidates, "")
	for _, candidate := range candidates {
		resource, err := s.Get(ctx, name, candidate)
		if err == nil {
			logger.Debug(LogMsgTemplateLoaded,
				zap.String(LogFieldTemplate, name),
				zap.String(LogFieldLanguage, candidate),
			)
			return resource.Source, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
	}
	return "", store.ErrNotFound
}

// forget drops cached formats of a template
func (f *TemplateFormatter) forget(name string) {
	f.formats.Range(func(k, _ any) bool {
		if strings.EqualFold(k.(templateKey).name, name) {
			f.formats.Delete(k)
		}
		return true
	})
}
