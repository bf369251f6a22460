package smartfmt

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// Settings keys
const (
	SettingCaseSensitivity   = "case_sensitivity"
	SettingParserErrorAction = "parser.error_action"
	SettingMaxNestingDepth   = "parser.max_nesting_depth"
	SettingSelectorChars     = "parser.selector_chars"
	SettingOperatorChars     = "parser.operator_chars"
	SettingFormatErrorAction = "formatter.error_action"
	SettingAlignmentFillChar = "formatter.alignment_fill_char"
	SettingDefaultCulture    = "localization.default_culture"
	SettingParseCacheSize    = "parse_cache_size"
)

// Settings file extensions
const (
	extYAML = ".yaml"
	extYML  = ".yml"
	extTOML = ".toml"

	envKeySeparator = "__"
	keyDelimiter    = "."
)

// ParserSettings configure template parsing
type ParserSettings struct {
	ErrorAction     ErrorAction
	MaxNestingDepth int
	// SelectorChars are allowed in selectors besides letters, digits, '_' and '-'
	SelectorChars string
	// OperatorChars are allowed between selectors besides ".,[]?"
	OperatorChars string
}

// FormatterSettings configure placeholder evaluation
type FormatterSettings struct {
	ErrorAction       ErrorAction
	AlignmentFillChar rune
}

// LocalizationSettings configure culture handling
type LocalizationSettings struct {
	DefaultCulture string
}

// Settings is the complete engine configuration. The zero value is not
// useful; start from DefaultSettings.
type Settings struct {
	CaseSensitivity CaseSensitivity
	Parser          ParserSettings
	Formatter       FormatterSettings
	Localization    LocalizationSettings
	// ParseCacheSize bounds the parsed template cache; 0 disables it
	ParseCacheSize int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		CaseSensitivity: CaseSensitive,
		Parser: ParserSettings{
			ErrorAction:     ErrorActionThrowError,
			MaxNestingDepth: DefaultMaxNestingDepth,
		},
		Formatter: FormatterSettings{
			ErrorAction:       ErrorActionThrowError,
			AlignmentFillChar: DefaultAlignmentFillChar,
		},
		Localization: LocalizationSettings{
			DefaultCulture: DefaultCulture,
		},
		ParseCacheSize: DefaultParseCacheSize,
	}
}

// LoadSettings layers the defaults, the given YAML or TOML files (in order)
// and SMARTFMT_* environment variables. Nested keys use a double underscore
// in variable names, e.g. SMARTFMT_PARSER__ERROR_ACTION.
func LoadSettings(paths ...string) (Settings, error) {
	return loadSettings(DefaultEnvPrefix, paths...)
}

func loadSettings(envPrefix string, paths ...string) (Settings, error) {
	k := koanf.New(keyDelimiter)

	if err := k.Load(confmap.Provider(defaultSettingsMap(), keyDelimiter), nil); err != nil {
		return Settings{}, NewSettingsError(ErrMsgSettingsLoadFailed, "", "", err)
	}

	for _, path := range paths {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case extYAML, extYML:
			parser = yaml.Parser()
		case extTOML:
			parser = toml.Parser()
		default:
			return Settings{}, NewSettingsError(ErrMsgSettingsUnknownFileType, MetaKeyPath, path, nil)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Settings{}, NewSettingsError(ErrMsgSettingsLoadFailed, MetaKeyPath, path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, keyDelimiter, func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, envKeySeparator, keyDelimiter)
	}), nil)
	if err != nil {
		return Settings{}, NewSettingsError(ErrMsgSettingsLoadFailed, "", "", err)
	}

	return settingsFromKoanf(k)
}

func defaultSettingsMap() map[string]any {
	d := DefaultSettings()
	return map[string]any{
		SettingCaseSensitivity:   d.CaseSensitivity.String(),
		SettingParserErrorAction: d.Parser.ErrorAction.String(),
		SettingMaxNestingDepth:   d.Parser.MaxNestingDepth,
		SettingSelectorChars:     d.Parser.SelectorChars,
		SettingOperatorChars:     d.Parser.OperatorChars,
		SettingFormatErrorAction: d.Formatter.ErrorAction.String(),
		SettingAlignmentFillChar: string(d.Formatter.AlignmentFillChar),
		SettingDefaultCulture:    d.Localization.DefaultCulture,
		SettingParseCacheSize:    d.ParseCacheSize,
	}
}

func settingsFromKoanf(k *koanf.Koanf) (Settings, error) {
	s := DefaultSettings()

	switch value := strings.ToLower(k.String(SettingCaseSensitivity)); value {
	case CaseSensitivityNameSensitive:
		s.CaseSensitivity = CaseSensitive
	case CaseSensitivityNameInsensitive:
		s.CaseSensitivity = CaseInsensitive
	default:
		return Settings{}, NewSettingsError(ErrMsgSettingsInvalidValue, SettingCaseSensitivity, value, nil)
	}

	action, err := errorActionSetting(k, SettingParserErrorAction)
	if err != nil {
		return Settings{}, err
	}
	s.Parser.ErrorAction = action

	action, err = errorActionSetting(k, SettingFormatErrorAction)
	if err != nil {
		return Settings{}, err
	}
	s.Formatter.ErrorAction = action

	s.Parser.MaxNestingDepth = k.Int(SettingMaxNestingDepth)
	if s.Parser.MaxNestingDepth <= 0 {
		return Settings{}, NewSettingsError(ErrMsgSettingsInvalidValue, SettingMaxNestingDepth, k.String(SettingMaxNestingDepth), nil)
	}
	s.Parser.SelectorChars = k.String(SettingSelectorChars)
	s.Parser.OperatorChars = k.String(SettingOperatorChars)

	fill := k.String(SettingAlignmentFillChar)
	if utf8.RuneCountInString(fill) != 1 {
		return Settings{}, NewSettingsError(ErrMsgSettingsInvalidValue, SettingAlignmentFillChar, fill, nil)
	}
	s.Formatter.AlignmentFillChar, _ = utf8.DecodeRuneInString(fill)

	culture := k.String(SettingDefaultCulture)
	if _, err := language.Parse(culture); err != nil {
		return Settings{}, NewSettingsError(ErrMsgSettingsInvalidValue, SettingDefaultCulture, culture, err)
	}
	s.Localization.DefaultCulture = culture

	s.ParseCacheSize = k.Int(SettingParseCacheSize)
	if s.ParseCacheSize < 0 {
		return Settings{}, NewSettingsError(ErrMsgSettingsInvalidValue, SettingParseCacheSize, k.String(SettingParseCacheSize), nil)
	}

	return s, nil
}

func errorActionSetting(k *koanf.Koanf, key string) (ErrorAction, error) {
	value := strings.ToLower(k.String(key))
	action, ok := ParseErrorAction(value)
	if !ok {
		return ErrorActionThrowError, NewSettingsError(ErrMsgSettingsInvalidValue, key, value, nil)
	}
	return action, nil
}
