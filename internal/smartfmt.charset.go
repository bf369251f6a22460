package internal

import (
	"sort"
	"strings"
	"unicode"
)

// CharSet is an immutable set of runes. The zero value is empty.
type CharSet struct {
	ascii [128]bool
	other map[rune]struct{}
}

// NewCharSet creates a set containing every rune of chars.
func NewCharSet(chars string) CharSet {
	var c CharSet
	return c.With(chars)
}

// With returns a copy of the set extended with chars.
func (c CharSet) With(chars string) CharSet {
	out := CharSet{ascii: c.ascii}
	if len(c.other) > 0 {
		out.other = make(map[rune]struct{}, len(c.other))
		for r := range c.other {
			out.other[r] = struct{}{}
		}
	}
	for _, r := range chars {
		if r >= 0 && r < 128 {
			out.ascii[r] = true
			continue
		}
		if out.other == nil {
			out.other = make(map[rune]struct{})
		}
		out.other[r] = struct{}{}
	}
	return out
}

// Contains reports whether r is in the set.
func (c CharSet) Contains(r rune) bool {
	if r >= 0 && r < 128 {
		return c.ascii[r]
	}
	_, ok := c.other[r]
	return ok
}

// String returns the members of the set in rune order.
func (c CharSet) String() string {
	runes := make([]rune, 0, len(c.other)+8)
	for i, ok := range c.ascii {
		if ok {
			runes = append(runes, rune(i))
		}
	}
	for r := range c.other {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	var sb strings.Builder
	for _, r := range runes {
		sb.WriteRune(r)
	}
	return sb.String()
}

// IsSelectorChar reports whether r may appear in a selector name: letters,
// digits and the custom characters.
func IsSelectorChar(r rune, custom CharSet) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || custom.Contains(r)
}

// IsFormatterNameChar reports whether r may appear in a formatter name.
func IsFormatterNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
