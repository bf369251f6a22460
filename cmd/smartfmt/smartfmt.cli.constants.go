package main

import "os"

// CLIName is the binary name
const CLIName = "smartfmt"

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagTemplate        = "template"
	FlagFile            = "file"
	FlagData            = "data"
	FlagDataFile        = "data-file"
	FlagOutput          = "output"
	FlagConfig          = "config"
	FlagCulture         = "culture"
	FlagCaseInsensitive = "case-insensitive"
	FlagOnError         = "on-error"
	FlagVerbose         = "verbose"
	FlagStoreDriver     = "store-driver"
	FlagStoreDSN        = "store-dsn"
	FlagLanguages       = "languages"
	FlagFormat          = "format"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagFileShort     = "f"
	FlagDataShort     = "d"
	FlagDataFileShort = "D"
	FlagOutputShort   = "o"
	FlagConfigShort   = "c"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = OutputFormatText
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input handling
const (
	InputSourceStdin = "-"
	FilePermissions  = os.FileMode(0o644)

	// DefaultConfigFile is searched in the XDG config directories
	DefaultConfigFile = CLIName + "/config.yaml"
)

// Data file extensions
const (
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtTOML = ".toml"
	ExtXML  = ".xml"
)

// Version values, overridden at build time with -ldflags "-X main.version=..."
var (
	version = VersionUnknown
	commit  = VersionUnknown
	date    = VersionUnknown
)

// Version output
const (
	VersionUnknown      = "unknown"
	VersionTextTemplate = CLIName + " version %s\n  commit: %s\n  built:  %s\n  go:     %s"
)

// Error messages - ALL must be constants
const (
	ErrMsgMissingTemplate     = "template required: use --template, --file or stdin"
	ErrMsgTemplateConflict    = "--template and --file cannot be combined"
	ErrMsgDataConflict        = "--data and --data-file cannot be combined"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgReadStdinFailed     = "failed to read from stdin"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgInvalidData         = "invalid data"
	ErrMsgUnknownDataType     = "unsupported data file type"
	ErrMsgInvalidOnError      = "invalid --on-error value"
	ErrMsgInvalidLanguage     = "invalid language"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgLoadConfigFailed    = "failed to load configuration"
	ErrMsgCreateEngineFailed  = "failed to create engine"
	ErrMsgOpenStoreFailed     = "failed to open store"
	ErrMsgStoreDSNRequired    = "--store-dsn is required with --store-driver"
	ErrMsgFormatFailed        = "formatting failed"
	ErrMsgValidationFailed    = "template is invalid"
	ErrMsgJSONMarshalFailed   = "failed to marshal JSON"
)

// Output messages
const (
	MsgTemplateValid    = "template is valid"
	FmtErrorWithCause   = "%s: %v\n"
	FmtError            = "%s\n"
	FmtValidationIssue  = "  at %d: %s\n"
	FmtPlaceholderCount = "%d placeholders\n"
)

// Help texts
const (
	HelpRootShort = "Composable string formatting from the command line"
	HelpRootLong  = `smartfmt renders templates with placeholders like {Name}, {Items:list:{}|, | and }
or {Count:plural:one item|{} items} against JSON, YAML, TOML or XML data.`

	HelpRenderShort   = "Render a template with data"
	HelpRenderExample = `  smartfmt render -t "Hello {name}!" -d '{"name": "Alice"}'
  smartfmt render -f greeting.txt -D customer.yaml
  echo "{0} and {1}" | smartfmt render Alice Bob
  smartfmt render -t "{:L:Welcome}" --culture de --store-driver filesystem --store-dsn ./resources`

	HelpValidateShort   = "Validate a template without formatting it"
	HelpValidateExample = `  smartfmt validate -t "{Name:choose(a|b):x|y}"
  smartfmt validate -f greeting.txt`

	HelpVersionShort = "Show version information"
)
