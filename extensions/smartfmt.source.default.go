package extensions

import (
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// DefaultSource resolves a leading numeric selector to the argument at that
// position, so {0} and {1} address the Format arguments.
type DefaultSource struct{}

// NewDefaultSource creates the positional argument source
func NewDefaultSource() *DefaultSource { return &DefaultSource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *DefaultSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.SelectorIndex() != 0 || info.SelectorOperator() != "" {
		return false
	}
	index, ok := internal.ParseIndex(info.SelectorText())
	if !ok {
		return false
	}
	args := info.FormattingInfo().Details().OriginalArgs
	if index >= len(args) {
		return false
	}
	info.SetResult(args[index])
	return true
}
