package smartfmt

import (
	"strings"
	"sync"
)

// FormatItem is one parsed region of a template. Every item keeps a reference
// to the original template and a [start, end) byte span into it.
type FormatItem interface {
	BaseString() string
	StartIndex() int
	EndIndex() int
	RawText() string
	String() string
}

// span implements the positional part of FormatItem
type span struct {
	base  string
	start int
	end   int
}

// BaseString returns the complete template the item was parsed from
func (s span) BaseString() string { return s.base }

// StartIndex returns the byte offset of the item in the template
func (s span) StartIndex() int { return s.start }

// EndIndex returns the byte offset just past the item
func (s span) EndIndex() int { return s.end }

// RawText returns the item exactly as written in the template
func (s span) RawText() string { return s.base[s.start:s.end] }

// Length returns the byte length of the span
func (s span) Length() int { return s.end - s.start }

// LiteralText is plain text. Escape sequences are stored as their own items
// with the unescaped character as text.
type LiteralText struct {
	span
	text    string
	escaped bool
}

func newLiteral(base string, start, end int) *LiteralText {
	return &LiteralText{span: span{base: base, start: start, end: end}, text: base[start:end]}
}

func newEscapedLiteral(base string, start, end int, text string) *LiteralText {
	return &LiteralText{span: span{base: base, start: start, end: end}, text: text, escaped: true}
}

// newMessageLiteral covers a faulty region with replacement text
func newMessageLiteral(base string, start, end int, text string) *LiteralText {
	return &LiteralText{span: span{base: base, start: start, end: end}, text: text, escaped: true}
}

// Text returns the literal content with escapes resolved.
func (l *LiteralText) Text() string { return l.text }

// IsEscape reports whether the item came from an escape sequence. Escaped
// characters are never split points.
func (l *LiteralText) IsEscape() bool { return l.escaped }

// String returns the literal content
func (l *LiteralText) String() string { return l.text }

// Selector is one segment of a placeholder's selector chain.
type Selector struct {
	span
	// Text is the selector name or index
	Text string
	// Operator precedes the selector text, e.g. ".", "?.", "[" or "?["
	Operator string
	// SelectorIndex is the position in the placeholder's selector chain
	SelectorIndex int

	operatorStart int
}

// OperatorStartIndex returns where the operator begins in the template
func (s *Selector) OperatorStartIndex() int { return s.operatorStart }

// HasNullableOperator reports whether the operator contains the nullable marker
func (s *Selector) HasNullableOperator() bool {
	return strings.ContainsRune(s.Operator, NullableOperator)
}

// String returns the selector text
func (s *Selector) String() string { return s.Text }

// Placeholder is one {...} unit.
type Placeholder struct {
	span
	// Parent is the format containing the placeholder
	Parent *Format
	// Selectors may be empty, in which case the current value is used as is
	Selectors []*Selector
	// Alignment pads the output: positive right-aligns, negative left-aligns
	Alignment int
	// FormatterName is set when a formatter is invoked explicitly
	FormatterName string
	// FormatterOptionsRaw is the text inside the parentheses after the name
	FormatterOptionsRaw string
	// Format is the nested format after the first ':' or nil
	Format *Format
	// NestedDepth is 0 for placeholders of the template itself
	NestedDepth int
}

// FormatterOptions returns the options with escape sequences resolved.
func (p *Placeholder) FormatterOptions() string {
	return unescape(p.FormatterOptionsRaw)
}

// String returns the placeholder as written in the template
func (p *Placeholder) String() string { return p.RawText() }

// Format is an ordered list of literal and placeholder items covering one
// template or sub-template. A Format is immutable once parsed and safe for
// concurrent use.
type Format struct {
	span
	Items []FormatItem
	// Parent is the placeholder owning a nested format, nil for a template
	Parent *Placeholder
	// HasNested reports whether any item is a placeholder
	HasNested bool

	splitCache sync.Map // splitKey -> []*Format
}

type splitKey struct {
	delim rune
	max   int
}

func newFormat(base string, start int, parent *Placeholder) *Format {
	return &Format{span: span{base: base, start: start, end: start}, Parent: parent}
}

// String renders literal items and placeholders as written
func (f *Format) String() string {
	var sb strings.Builder
	for _, item := range f.Items {
		if lit, ok := item.(*LiteralText); ok {
			sb.WriteString(lit.Text())
			continue
		}
		sb.WriteString(item.RawText())
	}
	return sb.String()
}

// LiteralText concatenates the literal items, skipping placeholders.
func (f *Format) LiteralText() string {
	var sb strings.Builder
	for _, item := range f.Items {
		if lit, ok := item.(*LiteralText); ok {
			sb.WriteString(lit.Text())
		}
	}
	return sb.String()
}

// IsEmpty reports whether the format has no items
func (f *Format) IsEmpty() bool { return len(f.Items) == 0 }

// Split cuts the format at every top-level occurrence of delim. Escaped
// delimiters and delimiters inside nested placeholders are not split points.
// Without a delimiter the result holds the format itself.
func (f *Format) Split(delim rune) []*Format {
	return f.SplitN(delim, -1)
}

// SplitN is Split with at most max parts; the last part keeps the remainder.
// A negative max means no limit.
func (f *Format) SplitN(delim rune, max int) []*Format {
	key := splitKey{delim: delim, max: max}
	if cached, ok := f.splitCache.Load(key); ok {
		return cached.([]*Format)
	}

	var splits []int
	for _, item := range f.Items {
		if max >= 0 && len(splits) >= max-1 {
			break
		}
		lit, ok := item.(*LiteralText)
		if !ok || lit.IsEscape() {
			continue
		}
		raw := lit.RawText()
		for i, r := range raw {
			if r != delim {
				continue
			}
			splits = append(splits, lit.StartIndex()+i)
			if max >= 0 && len(splits) >= max-1 {
				break
			}
		}
	}

	var parts []*Format
	if len(splits) == 0 {
		parts = []*Format{f}
	} else {
		parts = make([]*Format, 0, len(splits)+1)
		start := f.StartIndex()
		for _, at := range splits {
			parts = append(parts, f.slice(start, at))
			start = at + len(string(delim))
		}
		parts = append(parts, f.slice(start, f.EndIndex()))
	}

	actual, _ := f.splitCache.LoadOrStore(key, parts)
	return actual.([]*Format)
}

// IndexOf returns the offset from the format start of the first top-level
// unescaped occurrence of r, or -1.
func (f *Format) IndexOf(r rune) int {
	for _, item := range f.Items {
		lit, ok := item.(*LiteralText)
		if !ok || lit.IsEscape() {
			continue
		}
		if i := strings.IndexRune(lit.RawText(), r); i >= 0 {
			return lit.StartIndex() + i - f.StartIndex()
		}
	}
	return -1
}

// Substring returns the part of the format starting at the given offset from
// the format start. A negative length extends to the end.
func (f *Format) Substring(offset, length int) *Format {
	start := f.StartIndex() + offset
	if start > f.EndIndex() {
		start = f.EndIndex()
	}
	if start < f.StartIndex() {
		start = f.StartIndex()
	}
	end := f.EndIndex()
	if length >= 0 && start+length < end {
		end = start + length
	}
	return f.slice(start, end)
}

// slice builds a format over [start, end). Literal items crossing the
// boundaries are cut; placeholders are kept only when fully inside.
func (f *Format) slice(start, end int) *Format {
	out := &Format{span: span{base: f.base, start: start, end: end}, Parent: f.Parent}
	for _, item := range f.Items {
		if item.EndIndex() <= start || item.StartIndex() >= end {
			continue
		}
		switch it := item.(type) {
		case *LiteralText:
			if it.IsEscape() {
				if it.StartIndex() >= start && it.EndIndex() <= end {
					out.Items = append(out.Items, it)
				}
				continue
			}
			s := it.StartIndex()
			if s < start {
				s = start
			}
			e := it.EndIndex()
			if e > end {
				e = end
			}
			if s < e {
				out.Items = append(out.Items, newLiteral(f.base, s, e))
			}
		case *Placeholder:
			if it.StartIndex() >= start && it.EndIndex() <= end {
				out.Items = append(out.Items, it)
				out.HasNested = true
			}
		}
	}
	return out
}

// unescape resolves backslash escapes of escapable characters
func unescape(s string) string {
	if !strings.ContainsRune(s, EscapeChar) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == EscapeChar && i+1 < len(runes) && isEscapable(runes[i+1]) {
			sb.WriteRune(runes[i+1])
			i++
			continue
		}
		sb.WriteRune(runes[i])
	}
	return sb.String()
}
