// Package smartfmt provides a composable string formatting engine.
//
// Templates contain placeholders of the form {selector:format}. Selectors are
// resolved against the arguments by a chain of sources, and the resulting
// value is rendered by a chain of formatters:
//
//	engine := smart.MustNew()
//	result, err := engine.Format("{Name} has {ItemCount:plural:no items|one item|{} items}", order)
//
// # Template Syntax
//
//	{0}                           positional argument
//	{Address.City}                member path, "?." skips nil values
//	{Items[2]}                    index
//	{0,10} {0,-10}                right or left alignment
//	{0:{FirstName} {LastName}}    nested format with the value as current value
//	{0:choose(1|2):one|two|many}  explicit formatter with options
//	{{ and }}                     literal braces in the template
//	\{ \} \: \| ...               escapes inside nested formats
//
// # Extensions
//
// The engine itself knows no sources or formatters. The smart package builds
// an engine with the built-in set of the extensions package. Custom
// extensions implement Source or Formatter and may implement Initializer to
// register additional selector or operator characters:
//
//	type EnvSource struct{}
//
//	func (EnvSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
//	    value, ok := os.LookupEnv(info.SelectorText())
//	    if ok {
//	        info.SetResult(value)
//	    }
//	    return ok
//	}
//
// Well-known extension types are ordered by a fixed priority table, so e.g.
// the list source is always consulted before the reflection source. Other
// types are appended to their chain.
//
// # Error Handling
//
// Parse and format failures are handled by independently configured error
// actions. The default, ErrorActionThrowError, returns the error; the other
// actions write nothing, the original placeholder text or an inline message:
//
//	engine, _ := smartfmt.New(smartfmt.WithFormatErrorAction(smartfmt.ErrorActionMaintainTokens))
//
// Errors are *cuserr.CustomError values carrying the template index, see
// ErrorIndex, IsParsingError and IsFormattingError.
//
// # Configuration
//
// Customize the engine with functional options or load Settings from YAML or
// TOML files and SMARTFMT_* environment variables:
//
//	settings, err := smartfmt.LoadSettings("smartfmt.yaml")
//	engine, err := smartfmt.New(smartfmt.WithSettings(settings), smartfmt.WithLogger(logger))
package smartfmt
