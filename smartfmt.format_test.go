package smartfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nestedFormat parses template and returns the format of its first placeholder
func nestedFormat(t *testing.T, template string) *Format {
	t.Helper()
	format, err := newTestParser(t, nil).ParseFormat(template, nil)
	require.NoError(t, err)
	ph, ok := format.Items[0].(*Placeholder)
	require.True(t, ok)
	require.NotNil(t, ph.Format)
	return ph.Format
}

func partStrings(parts []*Format) []string {
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = part.String()
	}
	return out
}

func TestFormat_Split(t *testing.T) {
	tests := []struct {
		name     string
		template string
		delim    rune
		max      int
		expected []string
	}{
		{name: "pipes", template: "{0:a|b|c}", delim: '|', max: -1, expected: []string{"a", "b", "c"}},
		{name: "commas", template: "{0:x,y}", delim: ',', max: -1, expected: []string{"x", "y"}},
		{name: "tildes", template: "{0:x~}", delim: '~', max: -1, expected: []string{"x", ""}},
		{name: "no delimiter", template: "{0:abc}", delim: '|', max: -1, expected: []string{"abc"}},
		{name: "nested placeholder is not split", template: "{0:x{1:p|q}y|z}", delim: '|', max: -1, expected: []string{"x{1:p|q}y", "z"}},
		{name: "escaped delimiter", template: `{0:a\|b|c}`, delim: '|', max: -1, expected: []string{"a|b", "c"}},
		{name: "limited", template: "{0:a,b,c}", delim: ',', max: 2, expected: []string{"a", "b,c"}},
		{name: "empty parts", template: "{0:||}", delim: '|', max: -1, expected: []string{"", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := nestedFormat(t, tt.template)
			assert.Equal(t, tt.expected, partStrings(format.SplitN(tt.delim, tt.max)))
		})
	}
}

func TestFormat_SplitIsIdempotent(t *testing.T) {
	format := nestedFormat(t, "{0:one|{1}|three}")

	first := format.Split('|')
	second := format.Split('|')

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
	assert.Equal(t, format.String(), strings.Join(partStrings(first), "|"))
	assert.True(t, first[1].HasNested)
	assert.False(t, first[0].HasNested)

	whole := nestedFormat(t, "{0:abc}")
	assert.Same(t, whole, whole.Split('|')[0])
}

func TestFormat_SplitPartsKeepPositions(t *testing.T) {
	format := nestedFormat(t, "{0:ab|cd}")

	parts := format.Split('|')

	require.Len(t, parts, 2)
	assert.Equal(t, 3, parts[0].StartIndex())
	assert.Equal(t, 5, parts[0].EndIndex())
	assert.Equal(t, 6, parts[1].StartIndex())
	assert.Equal(t, "cd", parts[1].RawText())
	assert.Same(t, format.Parent, parts[1].Parent)
}

func TestFormat_IndexOf(t *testing.T) {
	tests := []struct {
		name     string
		template string
		r        rune
		expected int
	}{
		{name: "found", template: "{0:ab|c}", r: '|', expected: 2},
		{name: "missing", template: "{0:abc}", r: '|', expected: -1},
		{name: "escaped skipped", template: `{0:a\|b|c}`, r: '|', expected: 4},
		{name: "inside placeholder skipped", template: "{0:{1:x|y}|z}", r: '|', expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nestedFormat(t, tt.template).IndexOf(tt.r))
		})
	}
}

func TestFormat_Substring(t *testing.T) {
	format := nestedFormat(t, "{0:hello}")

	assert.Equal(t, "ell", format.Substring(1, 3).String())
	assert.Equal(t, "llo", format.Substring(2, -1).String())
	assert.Equal(t, "hello", format.Substring(0, 100).String())
	assert.True(t, format.Substring(10, 2).IsEmpty())

	withPlaceholder := nestedFormat(t, "{0:a{1}b}")
	assert.Equal(t, "a{1}", withPlaceholder.Substring(0, 4).String())
	assert.Equal(t, "a", withPlaceholder.Substring(0, 2).String())
}

func TestFormat_LiteralText(t *testing.T) {
	format := nestedFormat(t, `{0:a{1}b\:c}`)

	assert.Equal(t, "ab:c", format.LiteralText())
	assert.Equal(t, "a{1}b:c", format.String())
	assert.False(t, format.IsEmpty())
}
