package extensions

// Formatter names used for explicit invocation
const (
	NameList         = "list"
	NameDefault      = "d"
	NamePlural       = "plural"
	NameConditional  = "cond"
	NameChoose       = "choose"
	NameIsMatch      = "ismatch"
	NameNull         = "isnull"
	NameSubString    = "substr"
	NameTime         = "time"
	NameTemplate     = "t"
	NameLocalization = "L"
)

// Delimiters
const (
	ParamSeparator   = '|'
	OptionsSeparator = '|'
	SubStringSep     = ","
	TimeOptionsSep   = " ,|"
)

// Selector names with special meaning
const (
	SelectorIndex = "Index"
	AttributeMark = "@"
)

// String source selectors
const (
	StringLength      = "Length"
	StringToUpper     = "ToUpper"
	StringToLower     = "ToLower"
	StringTrim        = "Trim"
	StringTrimStart   = "TrimStart"
	StringTrimEnd     = "TrimEnd"
	StringCapitalize  = "Capitalize"
	StringToBase64    = "ToBase64"
	StringFromBase64  = "FromBase64"
	StringToCharArray = "ToCharArray"
)

// Literal values used in comparisons
const (
	NullText  = "null"
	EmptyText = ""
)

// Time formatter options
const (
	TimeOptionShort = "short"
	TimeOptionLong  = "long"
	TimeOptionRound = "round"
	TimeOptionZero  = "zero"
)

// Error message constants
const (
	ErrMsgTooFewParams         = "at least two parameters are required"
	ErrMsgTooManyParams        = "too many parameters"
	ErrMsgChoiceCount          = "the number of choices must equal the number of options or exceed it by one"
	ErrMsgNoChoiceMatched      = "no choice matches the value and no default is given"
	ErrMsgFormatRequired       = "a format is required"
	ErrMsgInvalidPattern       = "invalid regular expression"
	ErrMsgPatternTimeout       = "regular expression evaluation failed"
	ErrMsgInvalidSubString     = "options must be start or start,length"
	ErrMsgInvalidCulture       = "invalid culture"
	ErrMsgTemplateNotFound     = "template not found"
	ErrMsgTemplateLoadFailed   = "loading template failed"
	ErrMsgTemplateNameEmpty    = "template name cannot be empty"
	ErrMsgResourceLoadFailed   = "loading localized resource failed"
	ErrMsgInvalidTimeOption    = "unknown option"
	ErrMsgComparisonParamOrder = "a parameter without comparison must be last"
)

// Log message constants
const (
	LogMsgTemplateRegistered = "template registered"
	LogMsgTemplateLoaded     = "template loaded from store"
	LogMsgResourceFallback   = "localized resource not found - using fallback"
	LogMsgResourceMissing    = "localized resource missing - using key"
	LogMsgVariableSet        = "variable set"
)

// Log field names
const (
	LogFieldTemplate = "template"
	LogFieldLanguage = "language"
	LogFieldKey      = "key"
	LogFieldGroup    = "group"
)
