package smartfmt

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	settings            Settings
	logger              *zap.Logger
	provider            FormatProvider
	onParsingFailure    func(*ParsingIssue)
	onFormattingFailure func(FormattingFailure)
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		settings: DefaultSettings(),
		logger:   nil,
	}
}

// WithSettings replaces all settings, e.g. with the result of LoadSettings.
// Options applied later override individual values.
func WithSettings(settings Settings) Option {
	return func(c *engineConfig) {
		c.settings = settings
	}
}

// WithCaseSensitivity sets how selectors and formatter names are matched.
// Default: CaseSensitive
func WithCaseSensitivity(cs CaseSensitivity) Option {
	return func(c *engineConfig) {
		c.settings.CaseSensitivity = cs
	}
}

// WithParseErrorAction sets the action for template parse issues.
// Default: ErrorActionThrowError
func WithParseErrorAction(action ErrorAction) Option {
	return func(c *engineConfig) {
		c.settings.Parser.ErrorAction = action
	}
}

// WithFormatErrorAction sets the action for placeholder evaluation failures.
// Default: ErrorActionThrowError
func WithFormatErrorAction(action ErrorAction) Option {
	return func(c *engineConfig) {
		c.settings.Formatter.ErrorAction = action
	}
}

// WithMaxNestingDepth bounds placeholder nesting at parse time and
// recursion at format time. Values <= 0 are ignored.
// Default: 100
func WithMaxNestingDepth(depth int) Option {
	return func(c *engineConfig) {
		if depth > 0 {
			c.settings.Parser.MaxNestingDepth = depth
		}
	}
}

// WithAlignmentFillChar sets the rune used to pad aligned placeholders.
// Default: ' '
func WithAlignmentFillChar(fill rune) Option {
	return func(c *engineConfig) {
		c.settings.Formatter.AlignmentFillChar = fill
	}
}

// WithParseCache enables caching of up to size parsed templates.
// Default: 0 (disabled)
func WithParseCache(size int) Option {
	return func(c *engineConfig) {
		if size >= 0 {
			c.settings.ParseCacheSize = size
		}
	}
}

// WithProvider sets the culture used when a call passes no provider.
// Default: the culture named by Settings.Localization.DefaultCulture
func WithProvider(provider FormatProvider) Option {
	return func(c *engineConfig) {
		c.provider = provider
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithParsingFailureHandler registers a callback invoked for every parse
// issue, whatever the parse error action.
func WithParsingFailureHandler(handler func(*ParsingIssue)) Option {
	return func(c *engineConfig) {
		c.onParsingFailure = handler
	}
}

// WithFormattingFailureHandler registers a callback invoked for every failed
// placeholder, whatever the format error action.
func WithFormattingFailureHandler(handler func(FormattingFailure)) Option {
	return func(c *engineConfig) {
		c.onFormattingFailure = handler
	}
}
