package smartfmt

// ModulePath is the import path of this module. Well-known extension type
// names are qualified with it.
const ModulePath = "github.com/itsatony/go-smartfmt"

// ExtensionsPkgPath is the import path of the built-in extensions package
const ExtensionsPkgPath = ModulePath + "/extensions"

// ErrorAction selects how parse and format failures are handled.
type ErrorAction int

const (
	// ErrorActionThrowError aborts the call and returns the error
	ErrorActionThrowError ErrorAction = iota
	// ErrorActionOutputErrorInResult writes the error message in place of the failing item
	ErrorActionOutputErrorInResult
	// ErrorActionIgnore writes nothing for the failing item
	ErrorActionIgnore
	// ErrorActionMaintainTokens writes the original template text of the failing item
	ErrorActionMaintainTokens
)

// Error action names used in settings files
const (
	ErrorActionNameThrowError          = "throw"
	ErrorActionNameOutputErrorInResult = "output"
	ErrorActionNameIgnore              = "ignore"
	ErrorActionNameMaintainTokens      = "maintain"
)

// String returns the settings name of the action.
func (a ErrorAction) String() string {
	switch a {
	case ErrorActionOutputErrorInResult:
		return ErrorActionNameOutputErrorInResult
	case ErrorActionIgnore:
		return ErrorActionNameIgnore
	case ErrorActionMaintainTokens:
		return ErrorActionNameMaintainTokens
	default:
		return ErrorActionNameThrowError
	}
}

// ParseErrorAction parses a settings name. Unknown names report false.
func ParseErrorAction(s string) (ErrorAction, bool) {
	switch s {
	case ErrorActionNameThrowError:
		return ErrorActionThrowError, true
	case ErrorActionNameOutputErrorInResult:
		return ErrorActionOutputErrorInResult, true
	case ErrorActionNameIgnore:
		return ErrorActionIgnore, true
	case ErrorActionNameMaintainTokens:
		return ErrorActionMaintainTokens, true
	default:
		return ErrorActionThrowError, false
	}
}

// CaseSensitivity controls how sources compare selector names.
type CaseSensitivity int

const (
	// CaseSensitive requires an exact match (default)
	CaseSensitive CaseSensitivity = iota
	// CaseInsensitive matches names with Unicode case folding
	CaseInsensitive
)

// Case sensitivity names used in settings files
const (
	CaseSensitivityNameSensitive   = "sensitive"
	CaseSensitivityNameInsensitive = "insensitive"
)

// String returns the settings name of the mode.
func (c CaseSensitivity) String() string {
	if c == CaseInsensitive {
		return CaseSensitivityNameInsensitive
	}
	return CaseSensitivityNameSensitive
}

// Default configuration values
const (
	DefaultMaxNestingDepth     = 100
	DefaultAlignmentFillChar   = ' '
	DefaultParseCacheSize      = 0
	DefaultCulture             = "en"
	DefaultEnvPrefix           = "SMARTFMT_"
	DefaultSplitChar           = '|'
	DefaultFormatterOptionsSep = '|'
)

// Grammar characters
const (
	OpenBrace         = '{'
	CloseBrace        = '}'
	FormatSeparator   = ':'
	EscapeChar        = '\\'
	AlignmentOperator = ','
	NullableOperator  = '?'
	ListIndexEndChar  = ']'
	OptionsOpen       = '('
	OptionsClose      = ')'
	NullableMemberOp  = "?."
	NullableIndexOp   = "?["
	MemberOperator    = "."
	IndexOperator     = "["
)

// Parse issue kinds
const (
	IssueTooManyClosingBraces        = "too_many_closing_braces"
	IssueMissingClosingBrace         = "missing_closing_brace"
	IssueTrailingOperatorsInSelector = "trailing_operators_in_selector"
	IssueInvalidCharactersInSelector = "invalid_characters_in_selector"
	IssueUnknownFormatterName        = "unknown_formatter_name"
	IssueNestingTooDeep              = "nesting_too_deep"
	IssueMissingClosingParenthesis   = "missing_closing_parenthesis"
	IssueInvalidAlignment            = "invalid_alignment"
)

// Error message constants
const (
	// Parse errors
	ErrMsgParseFailed               = "format string parsing failed"
	ErrMsgTooManyClosingBraces      = "too many closing braces"
	ErrMsgMissingClosingBrace       = "format string is missing a closing brace"
	ErrMsgTrailingOperators         = "selector ends with trailing operator characters"
	ErrMsgInvalidSelectorChars      = "invalid character in selector"
	ErrMsgUnknownFormatterName      = "unknown formatter name"
	ErrMsgNestingTooDeep            = "maximum nesting depth exceeded"
	ErrMsgMissingClosingParenthesis = "formatter options are missing a closing parenthesis"
	ErrMsgInvalidAlignment          = "alignment must be an integer"

	// Formatting errors
	ErrMsgNoSourceForSelector    = "no source extension could handle the selector"
	ErrMsgNoSuitableFormatter    = "no suitable formatter could be found"
	ErrMsgFormatterNotFound      = "no formatter registered with name"
	ErrMsgFormatterNotApplicable = "formatter cannot process the value"
	ErrMsgExtensionFailed        = "formatter extension failed"
	ErrMsgOutputFailed           = "writing to output failed"

	// Registry errors
	ErrMsgNilExtension        = "extension cannot be nil"
	ErrMsgExtensionExists     = "extension of this type already registered"
	ErrMsgFormatterNameExists = "formatter name already registered"
	ErrMsgFormatterNameEmpty  = "formatter without auto-detection needs a name"
	ErrMsgInitializeFailed    = "extension initialization failed"

	// Settings errors
	ErrMsgSettingsLoadFailed      = "loading settings failed"
	ErrMsgSettingsInvalidValue    = "invalid settings value"
	ErrMsgSettingsUnknownFileType = "unsupported settings file type"
)

// Error code constants for categorization
const (
	ErrCodeParse     = "SMARTFMT_PARSE"
	ErrCodeFormat    = "SMARTFMT_FORMAT"
	ErrCodeExtension = "SMARTFMT_EXTENSION"
	ErrCodeRegistry  = "SMARTFMT_REGISTRY"
	ErrCodeSettings  = "SMARTFMT_SETTINGS"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyKind      = "kind"
	MetaKeyIndex     = "index"
	MetaKeyItem      = "item"
	MetaKeyIssue     = "issue"
	MetaKeySelector  = "selector"
	MetaKeyFormatter = "formatter"
	MetaKeyExtension = "extension"
	MetaKeySetting   = "setting"
	MetaKeyValue     = "value"
	MetaKeyPath      = "path"
)

// Error kinds stored under MetaKeyKind
const (
	ErrKindParse     = "parse"
	ErrKindFormat    = "format"
	ErrKindExtension = "extension"
	ErrKindRegistry  = "registry"
	ErrKindSettings  = "settings"
)

// Log message constants
const (
	LogMsgEngineCreated        = "engine created"
	LogMsgParseStart           = "starting parse"
	LogMsgParseEnd             = "parse complete"
	LogMsgParseIssueHandled    = "parse issue handled by error action"
	LogMsgFormatStart          = "starting format"
	LogMsgFormatEnd            = "format complete"
	LogMsgFormatFailureHandled = "format failure handled by error action"
	LogMsgExtensionRegistered  = "extension registered"
	LogMsgExtensionRemoved     = "extension removed"
	LogMsgExtensionCollision   = "extension registration collision - first-come-wins"
	LogMsgParseCacheHit        = "parse cache hit"
	LogMsgParseCacheEvict      = "parse cache eviction"
	LogMsgParseCacheStale      = "parse cache skipped stale format"
	LogMsgSettingsLoaded       = "settings loaded"
)

// Log field names
const (
	LogFieldTemplateLength = "template_length"
	LogFieldItems          = "item_count"
	LogFieldIndex          = "index"
	LogFieldIssue          = "issue"
	LogFieldIssues         = "issue_count"
	LogFieldAction         = "action"
	LogFieldExtension      = "extension"
	LogFieldChain          = "chain"
	LogFieldPosition       = "position"
	LogFieldArgs           = "arg_count"
	LogFieldPath           = "path"
	LogFieldCacheSize      = "cache_size"
)

// Extension chain names used in logs and errors
const (
	ChainSources    = "sources"
	ChainFormatters = "formatters"
)
