package smartfmt

import (
	"errors"

	"github.com/itsatony/go-smartfmt/internal"
)

// Source resolves one selector against the current value. It returns true
// and sets the result on success; false lets the next source try.
type Source interface {
	TryEvaluateSelector(info *SelectorInfo) bool
}

// Formatter renders the current value of a placeholder. Returning false
// means the formatter does not apply to the value. An error means it applies
// but its options or format are invalid.
type Formatter interface {
	// Name is used for explicit invocation, e.g. "choose" in {0:choose(1|2):a|b}
	Name() string
	// CanAutoDetect reports whether the formatter is tried for placeholders
	// without an explicit formatter name
	CanAutoDetect() bool
	TryEvaluateFormat(info *FormattingInfo) (bool, error)
}

// Initializer is implemented by extensions that need the engine at
// registration time, e.g. to register selector or operator characters.
type Initializer interface {
	Initialize(e *Engine) error
}

// ScopeKeyCollectionIndex is the call-scoped key holding the index of the
// list item currently being formatted.
const ScopeKeyCollectionIndex = "smartfmt.collection_index"

// FormatDetails is shared by every FormattingInfo of one Format call.
type FormatDetails struct {
	Engine         *Engine
	OriginalFormat *Format
	OriginalArgs   []any
	Provider       FormatProvider
	Output         Output
	Settings       Settings
}

// FormattingInfo is the call-scoped context of one placeholder or child
// format. A fresh instance is created for every placeholder and every
// FormatAsChild call, linked to its parent.
type FormattingInfo struct {
	parent       *FormattingInfo
	details      *FormatDetails
	format       *Format
	placeholder  *Placeholder
	currentValue any
	output       Output
	depth        int
	scoped       map[string]any
}

// Parent returns the enclosing context, nil for the root
func (fi *FormattingInfo) Parent() *FormattingInfo { return fi.parent }

// Details returns the per-call details
func (fi *FormattingInfo) Details() *FormatDetails { return fi.details }

// Engine returns the engine running the call
func (fi *FormattingInfo) Engine() *Engine { return fi.details.Engine }

// Provider returns the culture of the call
func (fi *FormattingInfo) Provider() FormatProvider { return fi.details.Provider }

// Format returns the nested format of the placeholder, nil if it has none
func (fi *FormattingInfo) Format() *Format { return fi.format }

// Placeholder returns the placeholder being evaluated, nil for child formats
func (fi *FormattingInfo) Placeholder() *Placeholder { return fi.placeholder }

// CurrentValue returns the value selected so far
func (fi *FormattingInfo) CurrentValue() any { return fi.currentValue }

// Depth returns the recursion depth of the context
func (fi *FormattingInfo) Depth() int { return fi.depth }

// Alignment returns the placeholder alignment, 0 if none
func (fi *FormattingInfo) Alignment() int {
	if fi.placeholder == nil {
		return 0
	}
	return fi.placeholder.Alignment
}

// FormatterOptions returns the placeholder's unescaped formatter options
func (fi *FormattingInfo) FormatterOptions() string {
	if fi.placeholder == nil {
		return ""
	}
	return fi.placeholder.FormatterOptions()
}

// FormatterOptionsRaw returns the formatter options as written
func (fi *FormattingInfo) FormatterOptionsRaw() string {
	if fi.placeholder == nil {
		return ""
	}
	return fi.placeholder.FormatterOptionsRaw
}

// IgnoreCase reports whether names are matched case-insensitively
func (fi *FormattingInfo) IgnoreCase() bool {
	return fi.details.Settings.CaseSensitivity == CaseInsensitive
}

// Write sends text to the output of the call.
func (fi *FormattingInfo) Write(text string) error {
	if err := fi.output.Write(text, fi); err != nil {
		return &abortError{err: NewFormattingError(ErrMsgOutputFailed, fi.placeholder, fi.index(), err)}
	}
	return nil
}

// FormatAsChild formats format with value as the current value, writing to
// the same output. Errors returned here must be passed on unchanged.
func (fi *FormattingInfo) FormatAsChild(format *Format, value any) error {
	return fi.FormatAsChildScoped(format, value, nil)
}

// FormatAsChildScoped is FormatAsChild with call-scoped values set on the
// child context before it is formatted.
func (fi *FormattingInfo) FormatAsChildScoped(format *Format, value any, scoped map[string]any) error {
	if format == nil {
		return nil
	}
	child := fi.child(format, value)
	child.scoped = scoped
	if child.depth > fi.details.Engine.parser.maxDepth {
		return &abortError{err: NewFormattingError(ErrMsgNestingTooDeep, fi.placeholder, format.StartIndex(), nil)}
	}
	if err := fi.details.Engine.formatItems(child); err != nil {
		var abort *abortError
		if errors.As(err, &abort) {
			return err
		}
		return &abortError{err: err}
	}
	return nil
}

// SetScoped stores a value visible to this context and its descendants.
func (fi *FormattingInfo) SetScoped(key string, value any) {
	if fi.scoped == nil {
		fi.scoped = make(map[string]any)
	}
	fi.scoped[key] = value
}

// Scoped looks key up on this context and then its ancestors.
func (fi *FormattingInfo) Scoped(key string) (any, bool) {
	for cur := fi; cur != nil; cur = cur.parent {
		if value, ok := cur.scoped[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// CollectionIndex returns the index of the enclosing list item, or -1 when
// no list is being iterated.
func (fi *FormattingInfo) CollectionIndex() int {
	if value, ok := fi.Scoped(ScopeKeyCollectionIndex); ok {
		if index, ok := value.(int); ok {
			return index
		}
	}
	return -1
}

// ExtensionError builds an error for invalid options or formats located at
// this placeholder.
func (fi *FormattingInfo) ExtensionError(extension string, msg string, cause error) error {
	return NewExtensionError(extension, msg, fi.placeholder, cause)
}

// child creates the context for a child format
func (fi *FormattingInfo) child(format *Format, value any) *FormattingInfo {
	return &FormattingInfo{
		parent:       fi,
		details:      fi.details,
		format:       format,
		currentValue: value,
		output:       fi.output,
		depth:        fi.depth + 1,
	}
}

// placeholderInfo creates the context evaluating ph within fi
func (fi *FormattingInfo) placeholderInfo(ph *Placeholder) *FormattingInfo {
	return &FormattingInfo{
		parent:       fi,
		details:      fi.details,
		format:       ph.Format,
		placeholder:  ph,
		currentValue: fi.currentValue,
		output:       fi.output,
		depth:        fi.depth,
	}
}

func (fi *FormattingInfo) index() int {
	if fi.placeholder != nil {
		return fi.placeholder.StartIndex()
	}
	if fi.format != nil {
		return fi.format.StartIndex()
	}
	return 0
}

// SelectorInfo is passed to sources for one selector of a placeholder.
type SelectorInfo struct {
	info     *FormattingInfo
	selector *Selector
	current  any
	result   any
}

// FormattingInfo returns the context of the placeholder
func (si *SelectorInfo) FormattingInfo() *FormattingInfo { return si.info }

// Placeholder returns the placeholder owning the selector
func (si *SelectorInfo) Placeholder() *Placeholder { return si.info.placeholder }

// Selector returns the selector being resolved
func (si *SelectorInfo) Selector() *Selector { return si.selector }

// SelectorText returns the selector name or index
func (si *SelectorInfo) SelectorText() string { return si.selector.Text }

// SelectorOperator returns the operator preceding the selector
func (si *SelectorInfo) SelectorOperator() string { return si.selector.Operator }

// SelectorIndex returns the position of the selector in its chain
func (si *SelectorInfo) SelectorIndex() int { return si.selector.SelectorIndex }

// CurrentValue returns the value the selector is applied to
func (si *SelectorInfo) CurrentValue() any { return si.current }

// Result returns the value set by a source
func (si *SelectorInfo) Result() any { return si.result }

// SetResult stores the resolved value
func (si *SelectorInfo) SetResult(value any) { si.result = value }

// HasNullableOperator reports whether the selector uses "?." or "?["
func (si *SelectorInfo) HasNullableOperator() bool { return si.selector.HasNullableOperator() }

// IgnoreCase reports whether names are matched case-insensitively
func (si *SelectorInfo) IgnoreCase() bool { return si.info.IgnoreCase() }

// ResolveNullable short-circuits a nullable selector on a nil current value.
// Sources call it first and return true when it does.
func (si *SelectorInfo) ResolveNullable() bool {
	if si.HasNullableOperator() && internal.IsNil(si.current) {
		si.result = nil
		return true
	}
	return false
}
