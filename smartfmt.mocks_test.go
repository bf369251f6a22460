package smartfmt

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/itsatony/go-smartfmt/internal"
	"github.com/stretchr/testify/require"
)

// mapSource resolves selectors on map[string]any values
type mapSource struct{}

func (mapSource) TryEvaluateSelector(info *SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	m, ok := info.CurrentValue().(map[string]any)
	if !ok {
		return false
	}
	for key, value := range m {
		if key == info.SelectorText() || info.IgnoreCase() && strings.EqualFold(key, info.SelectorText()) {
			info.SetResult(value)
			return true
		}
	}
	return false
}

// argSource resolves a leading numeric selector to the argument at that position
type argSource struct{}

func (argSource) TryEvaluateSelector(info *SelectorInfo) bool {
	if info.SelectorIndex() != 0 {
		return false
	}
	index, ok := internal.ParseIndex(info.SelectorText())
	args := info.FormattingInfo().Details().OriginalArgs
	if !ok || index >= len(args) {
		return false
	}
	info.SetResult(args[index])
	return true
}

// indexSource resolves "Index" to the collection index of the call
type indexSource struct{}

func (indexSource) TryEvaluateSelector(info *SelectorInfo) bool {
	index := info.FormattingInfo().CollectionIndex()
	if info.SelectorText() != "Index" || index < 0 {
		return false
	}
	info.SetResult(index)
	return true
}

// textFormatter writes the value as text or formats the nested format with it
type textFormatter struct{}

func (textFormatter) Name() string        { return "text" }
func (textFormatter) CanAutoDetect() bool { return true }
func (textFormatter) TryEvaluateFormat(info *FormattingInfo) (bool, error) {
	if format := info.Format(); format != nil && !format.IsEmpty() {
		return true, info.FormatAsChild(format, info.CurrentValue())
	}
	return true, info.Write(internal.ToString(info.CurrentValue()))
}

// pickFormatter writes the nested format part selected by its options
type pickFormatter struct{}

func (pickFormatter) Name() string        { return "pick" }
func (pickFormatter) CanAutoDetect() bool { return false }
func (pickFormatter) TryEvaluateFormat(info *FormattingInfo) (bool, error) {
	index, err := strconv.Atoi(info.FormatterOptions())
	if err != nil {
		return false, info.ExtensionError("pick", "options must be a number", err)
	}
	parts := info.Format().Split('|')
	if index < 0 || index >= len(parts) {
		return false, info.ExtensionError("pick", "index out of range", nil)
	}
	return true, info.FormatAsChild(parts[index], info.CurrentValue())
}

// rejectFormatter never applies
type rejectFormatter struct{}

func (rejectFormatter) Name() string                                    { return "reject" }
func (rejectFormatter) CanAutoDetect() bool                             { return true }
func (rejectFormatter) TryEvaluateFormat(*FormattingInfo) (bool, error) { return false, nil }

// eachFormatter formats the nested format once per list item
type eachFormatter struct{}

func (eachFormatter) Name() string        { return "each" }
func (eachFormatter) CanAutoDetect() bool { return false }
func (eachFormatter) TryEvaluateFormat(info *FormattingInfo) (bool, error) {
	items, ok := internal.ListItems(info.CurrentValue())
	if !ok {
		return false, nil
	}
	for i, item := range items {
		err := info.FormatAsChildScoped(info.Format(), item, map[string]any{ScopeKeyCollectionIndex: i})
		if err != nil {
			return true, err
		}
	}
	return true, nil
}

// loopFormatter formats the whole template again, recursing without end
type loopFormatter struct{}

func (loopFormatter) Name() string        { return "loop" }
func (loopFormatter) CanAutoDetect() bool { return false }
func (loopFormatter) TryEvaluateFormat(info *FormattingInfo) (bool, error) {
	return true, info.FormatAsChild(info.Details().OriginalFormat, info.CurrentValue())
}

// charSource registers '@' as a selector character and fails when told to
type charSource struct {
	fail bool
}

func (s *charSource) Initialize(e *Engine) error {
	if s.fail {
		return errors.New("init failed")
	}
	e.Parser().AddSelectorChars("@")
	return nil
}

func (s *charSource) TryEvaluateSelector(info *SelectorInfo) bool {
	if !strings.HasPrefix(info.SelectorText(), "@") {
		return false
	}
	info.SetResult(strings.TrimPrefix(info.SelectorText(), "@"))
	return true
}

// warmingSource parses a template during initialization before adding '#'
type warmingSource struct{}

func (warmingSource) Initialize(e *Engine) error {
	if _, err := e.ParseFormat("{0}"); err != nil {
		return err
	}
	e.Parser().AddSelectorChars("#")
	_, err := e.ParseFormat("{1}")
	return err
}

func (warmingSource) TryEvaluateSelector(*SelectorInfo) bool { return false }

// failingWriter rejects every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// newTestEngine creates an engine with the mock sources and formatters
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	require.NoError(t, e.AddSources(argSource{}, indexSource{}, mapSource{}))
	require.NoError(t, e.AddFormatters(pickFormatter{}, eachFormatter{}, loopFormatter{}, textFormatter{}))
	return e
}
