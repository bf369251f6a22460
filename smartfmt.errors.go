package smartfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Inline error text written by ErrorActionOutputErrorInResult
const (
	inlineErrorFormat   = "[error: %s at index %d]"
	issuesErrorFormat   = "%d parsing issue(s): %s"
	issueErrorFormat    = "%s at %d"
	issueJoinSeparator  = "; "
	extensionNameFormat = "%s: %s"
)

// ParsingIssue describes one problem found while parsing a template.
type ParsingIssue struct {
	Issue   string // one of the Issue* kinds
	Index   int    // character index in the original template
	Length  int    // length of the faulty region
	Message string
}

// Error implements the error interface
func (i *ParsingIssue) Error() string {
	return fmt.Sprintf(issueErrorFormat, i.Message, i.Index)
}

// ParsingIssues collects every issue of one parse. It is the cause wrapped by
// parsing errors, so errors.As can recover the full list.
type ParsingIssues []*ParsingIssue

// Error implements the error interface
func (p ParsingIssues) Error() string {
	parts := make([]string, len(p))
	for i, issue := range p {
		parts[i] = issue.Error()
	}
	return fmt.Sprintf(issuesErrorFormat, len(p), strings.Join(parts, issueJoinSeparator))
}

// FormattingFailure is passed to the formatting failure handler for every
// failed placeholder, whatever the configured error action.
type FormattingFailure struct {
	Template string
	Index    int
	RawText  string
	Err      error
	Action   ErrorAction
}

// NewParsingError creates the error returned when a template fails to parse.
// Index and issue metadata describe the first issue.
func NewParsingError(template string, issues ParsingIssues) error {
	err := cuserr.WrapStdError(issues, ErrCodeParse, ErrMsgParseFailed).
		WithMetadata(MetaKeyKind, ErrKindParse)
	if len(issues) == 0 {
		return err
	}
	first := issues[0]
	return err.
		WithMetadata(MetaKeyIndex, strconv.Itoa(first.Index)).
		WithMetadata(MetaKeyIssue, first.Issue).
		WithMetadata(MetaKeyItem, issueRegion(template, first))
}

// NewFormattingError creates a formatting error for a placeholder, located at
// index in the original template.
func NewFormattingError(msg string, ph *Placeholder, index int, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeFormat, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeFormat, msg)
	}
	err = err.
		WithMetadata(MetaKeyKind, ErrKindFormat).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index))
	if ph != nil {
		err = err.WithMetadata(MetaKeyItem, ph.RawText())
		if ph.FormatterName != "" {
			err = err.WithMetadata(MetaKeyFormatter, ph.FormatterName)
		}
	}
	return err
}

// NewSelectorError creates the error for a selector no source could resolve.
func NewSelectorError(ph *Placeholder, sel *Selector) error {
	return cuserr.NewValidationError(ErrCodeFormat, ErrMsgNoSourceForSelector).
		WithMetadata(MetaKeyKind, ErrKindFormat).
		WithMetadata(MetaKeyIndex, strconv.Itoa(sel.StartIndex())).
		WithMetadata(MetaKeySelector, sel.Text).
		WithMetadata(MetaKeyItem, ph.RawText())
}

// NewExtensionError creates the error an extension returns when its own
// options or format are invalid.
func NewExtensionError(extension string, msg string, ph *Placeholder, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeExtension, fmt.Sprintf(extensionNameFormat, extension, msg))
	} else {
		err = cuserr.NewValidationError(ErrCodeExtension, fmt.Sprintf(extensionNameFormat, extension, msg))
	}
	err = err.
		WithMetadata(MetaKeyKind, ErrKindExtension).
		WithMetadata(MetaKeyExtension, extension)
	if ph != nil {
		err = err.
			WithMetadata(MetaKeyIndex, strconv.Itoa(ph.StartIndex())).
			WithMetadata(MetaKeyItem, ph.RawText())
	}
	return err
}

// NewRegistryError creates an extension registration error
func NewRegistryError(msg string, extension string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, msg).
		WithMetadata(MetaKeyKind, ErrKindRegistry).
		WithMetadata(MetaKeyExtension, extension)
}

// NewInitializeError wraps the error of a failed Initializer hook
func NewInitializeError(extension string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, ErrMsgInitializeFailed).
		WithMetadata(MetaKeyKind, ErrKindRegistry).
		WithMetadata(MetaKeyExtension, extension)
}

// NewSettingsError creates a settings loading or validation error
func NewSettingsError(msg string, setting string, value string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeSettings, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeSettings, msg)
	}
	return err.
		WithMetadata(MetaKeyKind, ErrKindSettings).
		WithMetadata(MetaKeySetting, setting).
		WithMetadata(MetaKeyValue, value)
}

// ErrorIndex returns the template character index recorded on err.
func ErrorIndex(err error) (int, bool) {
	value, ok := metadata(err, MetaKeyIndex)
	if !ok {
		return 0, false
	}
	index, convErr := strconv.Atoi(value)
	if convErr != nil {
		return 0, false
	}
	return index, true
}

// IsParsingError reports whether err was raised while parsing a template.
func IsParsingError(err error) bool {
	kind, ok := metadata(err, MetaKeyKind)
	return ok && kind == ErrKindParse
}

// IsFormattingError reports whether err was raised while formatting, either
// by the engine or by an extension.
func IsFormattingError(err error) bool {
	kind, ok := metadata(err, MetaKeyKind)
	return ok && (kind == ErrKindFormat || kind == ErrKindExtension)
}

// Issues returns the parsing issues wrapped by a parsing error.
func Issues(err error) ParsingIssues {
	var issues ParsingIssues
	if errors.As(err, &issues) {
		return issues
	}
	return nil
}

func metadata(err error, key string) (string, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return "", false
	}
	return customErr.GetMetadata(key)
}

// inlineError renders the text written for ErrorActionOutputErrorInResult.
func inlineError(msg string, index int) string {
	return fmt.Sprintf(inlineErrorFormat, msg, index)
}

func issueRegion(template string, issue *ParsingIssue) string {
	start := issue.Index
	end := issue.Index + issue.Length
	if start < 0 || start > len(template) {
		return ""
	}
	if end > len(template) {
		end = len(template)
	}
	return template[start:end]
}

// abortError carries an error that must reach the caller unchanged. It wraps
// errors that already had their error action applied in a nested call.
type abortError struct {
	err error
}

func (a *abortError) Error() string { return a.err.Error() }
func (a *abortError) Unwrap() error { return a.err }

// unwrapAbort strips the abort marker before an error leaves the engine.
func unwrapAbort(err error) error {
	var abort *abortError
	if errors.As(err, &abort) {
		return abort.err
	}
	return err
}
