package extensions

import (
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// ListFormatter is both a source and a formatter for slices and arrays.
//
// As a source it resolves numeric selectors ({Items.2}, {Items[2]}) and the
// Index pseudo-selector. {Index} yields the position of the item being
// formatted; {Other.Index} yields the element of another list at that
// position, which keeps two lists in step.
//
// As a formatter it renders every item with the first parameter and joins
// them with the spacers: {Items:list:{Name}|, | and | and }. The third
// parameter replaces the last spacer, the fourth the spacer of exactly two
// items.
type ListFormatter struct{}

// NewListFormatter creates the list source and formatter
func NewListFormatter() *ListFormatter { return &ListFormatter{} }

// Name implements smartfmt.Formatter
func (f *ListFormatter) Name() string { return NameList }

// CanAutoDetect implements smartfmt.Formatter
func (f *ListFormatter) CanAutoDetect() bool { return true }

// TryEvaluateSelector implements smartfmt.Source
func (f *ListFormatter) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	items, isList := internal.ListItems(info.CurrentValue())
	selector := info.SelectorText()

	if isList {
		if index, ok := internal.ParseIndex(selector); ok {
			if index >= len(items) {
				return false
			}
			info.SetResult(items[index])
			return true
		}
	}

	if selector != SelectorIndex && !(info.IgnoreCase() && strings.EqualFold(selector, SelectorIndex)) {
		return false
	}
	index := info.FormattingInfo().CollectionIndex()
	if index < 0 {
		return false
	}
	if info.SelectorIndex() == 0 {
		info.SetResult(index)
		return true
	}
	if isList && index < len(items) {
		info.SetResult(items[index])
		return true
	}
	return false
}

// TryEvaluateFormat implements smartfmt.Formatter
func (f *ListFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	items, ok := internal.ListItems(info.CurrentValue())
	if !ok {
		return false, nil
	}
	format := info.Format()
	explicit := info.Placeholder() != nil && info.Placeholder().FormatterName != ""
	if format == nil {
		if explicit {
			return false, info.ExtensionError(NameList, ErrMsgFormatRequired, nil)
		}
		return false, nil
	}

	params := format.SplitN(ParamSeparator, 4)
	if len(params) < 2 && !explicit {
		return false, nil
	}

	itemFormat := params[0]
	var spacer, lastSpacer, twoSpacer *smartfmt.Format
	if len(params) > 1 {
		spacer = params[1]
	}
	lastSpacer = spacer
	if len(params) > 2 {
		lastSpacer = params[2]
	}
	twoSpacer = lastSpacer
	if len(params) > 3 {
		twoSpacer = params[3]
	}

	for i, item := range items {
		scope := map[string]any{smartfmt.ScopeKeyCollectionIndex: i}
		if i > 0 {
			sep := spacer
			switch {
			case len(items) == 2:
				sep = twoSpacer
			case i == len(items)-1:
				sep = lastSpacer
			}
			if err := info.FormatAsChildScoped(sep, item, scope); err != nil {
				return true, err
			}
		}
		if err := info.FormatAsChildScoped(itemFormat, item, scope); err != nil {
			return true, err
		}
	}
	return true, nil
}
