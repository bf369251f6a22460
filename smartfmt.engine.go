package smartfmt

import (
	"errors"
	"io"

	"github.com/itsatony/go-smartfmt/internal"
	"go.uber.org/zap"
)

// Engine parses templates and evaluates them against a chain of sources and
// formatters. Formatting is safe for concurrent use. Registering extensions
// while formats are running is also safe, but running calls keep the chain
// they started with.
type Engine struct {
	parser   *Parser
	registry *registry
	cache    *parseCache
	settings Settings
	provider FormatProvider
	config   *engineConfig
	logger   *zap.Logger
}

// New creates an Engine with the given options. The engine has no
// extensions; register them with AddSources and AddFormatters, or use the
// smart package for the default set.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := config.provider
	if provider == nil {
		culture, err := NewCulture(config.settings.Localization.DefaultCulture)
		if err != nil {
			return nil, err
		}
		provider = culture
	}

	cache := newParseCache(config.settings.ParseCacheSize, logger)
	parser := NewParser(config.settings, logger)
	parser.onIssue = config.onParsingFailure
	parser.onCharsChanged = cache.clear

	logger.Debug(LogMsgEngineCreated,
		zap.Stringer(LogFieldAction, config.settings.Formatter.ErrorAction),
		zap.Int(LogFieldCacheSize, config.settings.ParseCacheSize),
	)

	return &Engine{
		parser:   parser,
		registry: newRegistry(config.settings.CaseSensitivity, logger),
		cache:    cache,
		settings: config.settings,
		provider: provider,
		config:   config,
		logger:   logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parser returns the engine's parser. Extensions use it during
// initialization to register selector and operator characters.
func (e *Engine) Parser() *Parser { return e.parser }

// Settings returns a copy of the engine settings
func (e *Engine) Settings() Settings { return e.settings }

// Provider returns the default culture of the engine
func (e *Engine) Provider() FormatProvider { return e.provider }

// Logger returns the engine logger, never nil
func (e *Engine) Logger() *zap.Logger { return e.logger }

// ParseFormat parses template, validating explicit formatter names against
// the registered formatters. Parsed formats are cached when enabled.
func (e *Engine) ParseFormat(template string) (*Format, error) {
	if format, ok := e.cache.get(template); ok {
		return format, nil
	}
	generation := e.cache.current()
	format, err := e.parser.ParseFormat(template, e.registry.formatterNames())
	if err != nil {
		return nil, err
	}
	e.cache.putAt(generation, template, format)
	return format, nil
}

// Format renders template with the engine's default culture.
func (e *Engine) Format(template string, args ...any) (string, error) {
	return e.FormatWithProvider(nil, template, args...)
}

// FormatWithProvider renders template using provider as culture. A nil
// provider means the engine default.
func (e *Engine) FormatWithProvider(provider FormatProvider, template string, args ...any) (string, error) {
	format, err := e.ParseFormat(template)
	if err != nil {
		return "", err
	}
	return e.FormatParsed(provider, format, args...)
}

// FormatTo renders template into w.
func (e *Engine) FormatTo(w io.Writer, provider FormatProvider, template string, args ...any) error {
	format, err := e.ParseFormat(template)
	if err != nil {
		return err
	}
	return e.FormatInto(NewWriterOutput(w), provider, format, args...)
}

// FormatParsed renders an already parsed format.
func (e *Engine) FormatParsed(provider FormatProvider, format *Format, args ...any) (string, error) {
	output := NewStringOutput(len(format.BaseString()))
	if err := e.FormatInto(output, provider, format, args...); err != nil {
		return "", err
	}
	return output.String(), nil
}

// FormatInto renders format into output. The first argument is the initial
// current value; numeric selectors address arguments by position.
func (e *Engine) FormatInto(output Output, provider FormatProvider, format *Format, args ...any) error {
	if provider == nil {
		provider = e.provider
	}
	details := &FormatDetails{
		Engine:         e,
		OriginalFormat: format,
		OriginalArgs:   args,
		Provider:       provider,
		Output:         output,
		Settings:       e.settings,
	}
	var current any
	if len(args) > 0 {
		current = args[0]
	}
	root := &FormattingInfo{
		details:      details,
		format:       format,
		currentValue: current,
		output:       output,
	}

	e.logger.Debug(LogMsgFormatStart,
		zap.Int(LogFieldTemplateLength, len(format.BaseString())),
		zap.Int(LogFieldArgs, len(args)),
	)
	if err := e.formatItems(root); err != nil {
		return unwrapAbort(err)
	}
	e.logger.Debug(LogMsgFormatEnd, zap.Int(LogFieldItems, len(format.Items)))
	return nil
}

// formatItems writes the items of info's format
func (e *Engine) formatItems(info *FormattingInfo) error {
	for _, item := range info.format.Items {
		switch it := item.(type) {
		case *LiteralText:
			if err := info.Write(it.Text()); err != nil {
				return err
			}
		case *Placeholder:
			if err := e.formatPlaceholder(info, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) formatPlaceholder(parent *FormattingInfo, ph *Placeholder) error {
	info := parent.placeholderInfo(ph)

	var buffer *StringOutput
	if ph.Alignment != 0 {
		buffer = NewStringOutput(0)
		info.output = buffer
	}

	if err := e.evaluatePlaceholder(info); err != nil {
		if err = e.handleFailure(info, err); err != nil {
			return err
		}
	}

	if buffer != nil {
		padded := internal.Pad(buffer.String(), ph.Alignment, e.settings.Formatter.AlignmentFillChar)
		if err := parent.output.Write(padded, info); err != nil {
			return &abortError{err: NewFormattingError(ErrMsgOutputFailed, ph, ph.StartIndex(), err)}
		}
	}
	return nil
}

func (e *Engine) evaluatePlaceholder(info *FormattingInfo) error {
	if err := e.evaluateSelectors(info); err != nil {
		return err
	}
	return e.evaluateFormatters(info)
}

// evaluateSelectors threads the current value through the selector chain.
// The first source that resolves a selector wins.
func (e *Engine) evaluateSelectors(info *FormattingInfo) error {
	ph := info.placeholder
	if len(ph.Selectors) == 0 {
		return nil
	}
	sources := e.registry.sourceList()
	for _, sel := range ph.Selectors {
		si := &SelectorInfo{info: info, selector: sel, current: info.currentValue}
		resolved := trySources(sources, si)
		// the first selector may also address values of enclosing scopes
		for scope := enclosingScope(info); !resolved && sel.SelectorIndex == 0 && scope != nil; scope = scope.parent {
			si = &SelectorInfo{info: info, selector: sel, current: scope.currentValue}
			resolved = trySources(sources, si)
		}
		if !resolved {
			return NewSelectorError(ph, sel)
		}
		info.currentValue = si.result
		// a nullable selector yielding nil ends the chain
		if sel.HasNullableOperator() && internal.IsNil(si.result) {
			break
		}
	}
	return nil
}

func trySources(sources []Source, si *SelectorInfo) bool {
	for _, source := range sources {
		if source.TryEvaluateSelector(si) {
			return true
		}
	}
	return false
}

// enclosingScope skips the format context a placeholder was started from,
// which holds the same value as the placeholder itself
func enclosingScope(info *FormattingInfo) *FormattingInfo {
	if info.parent == nil {
		return nil
	}
	return info.parent.parent
}

// evaluateFormatters runs the explicitly named formatter or the first
// auto-detecting formatter that accepts the value.
func (e *Engine) evaluateFormatters(info *FormattingInfo) error {
	ph := info.placeholder

	if ph.FormatterName != "" {
		formatter, ok := e.registry.formatterByName(ph.FormatterName)
		if !ok {
			return NewFormattingError(ErrMsgFormatterNotFound, ph, ph.StartIndex(), nil)
		}
		handled, err := formatter.TryEvaluateFormat(info)
		if err != nil {
			return e.explicitFailure(info, err)
		}
		if !handled {
			return NewFormattingError(ErrMsgFormatterNotApplicable, ph, ph.StartIndex(), nil)
		}
		return nil
	}

	for _, formatter := range e.registry.formatterList() {
		if !formatter.CanAutoDetect() {
			continue
		}
		handled, err := formatter.TryEvaluateFormat(info)
		if err != nil {
			return asFormattingError(ph, err)
		}
		if handled {
			return nil
		}
	}
	return NewFormattingError(ErrMsgNoSuitableFormatter, ph, ph.StartIndex(), nil)
}

// explicitFailure turns an error of an explicitly named formatter into an
// abort, bypassing the format error action.
func (e *Engine) explicitFailure(info *FormattingInfo, err error) error {
	var abort *abortError
	if errors.As(err, &abort) {
		return err
	}
	err = asFormattingError(info.placeholder, err)
	e.notifyFailure(info.placeholder, err, ErrorActionThrowError)
	return &abortError{err: err}
}

// handleFailure applies the format error action to a failed placeholder.
// It returns nil when the failure was replaced in the output.
func (e *Engine) handleFailure(info *FormattingInfo, err error) error {
	var abort *abortError
	if errors.As(err, &abort) {
		return err
	}

	ph := info.placeholder
	action := e.settings.Formatter.ErrorAction
	e.notifyFailure(ph, err, action)

	if action == ErrorActionThrowError {
		return err
	}

	index, ok := ErrorIndex(err)
	if !ok {
		index = ph.StartIndex()
	}
	e.logger.Debug(LogMsgFormatFailureHandled,
		zap.Int(LogFieldIndex, index),
		zap.Stringer(LogFieldAction, action),
		zap.Error(err),
	)

	switch action {
	case ErrorActionMaintainTokens:
		return info.Write(ph.RawText())
	case ErrorActionOutputErrorInResult:
		return info.Write(inlineError(err.Error(), index))
	default:
		return nil
	}
}

func (e *Engine) notifyFailure(ph *Placeholder, err error, action ErrorAction) {
	handler := e.config.onFormattingFailure
	if handler == nil {
		return
	}
	index, ok := ErrorIndex(err)
	if !ok {
		index = ph.StartIndex()
	}
	handler(FormattingFailure{
		Template: ph.BaseString(),
		Index:    index,
		RawText:  ph.RawText(),
		Err:      err,
		Action:   action,
	})
}

// asFormattingError wraps foreign extension errors with placeholder context
func asFormattingError(ph *Placeholder, err error) error {
	if IsFormattingError(err) {
		return err
	}
	var abort *abortError
	if errors.As(err, &abort) {
		return err
	}
	return NewFormattingError(ErrMsgExtensionFailed, ph, ph.StartIndex(), err)
}
