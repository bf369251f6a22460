package extensions

import (
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// ReflectionSource resolves selectors to exported struct fields and to
// exported methods without parameters returning T or (T, error). Lookups
// are cached per type.
type ReflectionSource struct {
	members *internal.MemberCache
}

// NewReflectionSource creates a reflection source with an empty cache
func NewReflectionSource() *ReflectionSource {
	return &ReflectionSource{members: internal.NewMemberCache()}
}

// TryEvaluateSelector implements smartfmt.Source
func (s *ReflectionSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	current := info.CurrentValue()
	if internal.IsNil(current) {
		return false
	}
	value, ok := s.members.Resolve(current, info.SelectorText(), info.IgnoreCase())
	if !ok {
		return false
	}
	info.SetResult(value)
	return true
}
