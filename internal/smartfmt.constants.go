package internal

// Default grammar characters shared by the parser and the built-in extensions.
const (
	// DefaultSelectorChars are accepted in selectors in addition to letters and digits.
	DefaultSelectorChars = "_-"
	// DefaultOperatorChars may appear between selectors.
	DefaultOperatorChars = ".,[]?"
	// EscapableChars may follow the escape character inside nested formats.
	EscapableChars = "{}\\:|,~()"
)

// Character constants
const (
	CharOpenBrace     = '{'
	CharCloseBrace    = '}'
	CharFormatSep     = ':'
	CharEscape        = '\\'
	CharAlignment     = ','
	CharNullable      = '?'
	CharMember        = '.'
	CharIndexOpen     = '['
	CharIndexClose    = ']'
	CharOptionsOpen   = '('
	CharOptionsClose  = ')'
	CharSpace         = ' '
	CharPipe          = '|'
	CharComma         = ','
	CharTilde         = '~'
	CharMinus         = '-'
	CharAttributeMark = '@'
)

// Literal words used when values are compared or rendered as text
const (
	StringNull  = "null"
	StringTrue  = "true"
	StringFalse = "false"
	StringEmpty = ""
)
