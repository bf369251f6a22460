package smartfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shoutFormatter writes the value in upper case
type shoutFormatter struct{}

func (shoutFormatter) Name() string        { return "TEXT" }
func (shoutFormatter) CanAutoDetect() bool { return false }
func (shoutFormatter) TryEvaluateFormat(info *FormattingInfo) (bool, error) {
	return true, info.Write(strings.ToUpper(info.CurrentValue().(string)))
}

// anonymousFormatter can neither be named nor detected
type anonymousFormatter struct{}

func (anonymousFormatter) Name() string                                    { return "" }
func (anonymousFormatter) CanAutoDetect() bool                             { return false }
func (anonymousFormatter) TryEvaluateFormat(*FormattingInfo) (bool, error) { return false, nil }

func TestTypeName(t *testing.T) {
	assert.Equal(t, ModulePath+".argSource", TypeName(argSource{}))
	assert.Equal(t, ModulePath+".charSource", TypeName(&charSource{}))
	assert.Equal(t, "", TypeName(nil))
	assert.Equal(t, "int", TypeName(42))
}

func TestRegistry_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		register func(e *Engine) error
		msg      string
	}{
		{name: "nil source", register: func(e *Engine) error { return e.AddSources(nil) }, msg: ErrMsgNilExtension},
		{name: "typed nil source", register: func(e *Engine) error { return e.AddSources((*charSource)(nil)) }, msg: ErrMsgNilExtension},
		{name: "nil formatter", register: func(e *Engine) error { return e.AddFormatters(nil) }, msg: ErrMsgNilExtension},
		{name: "duplicate source type", register: func(e *Engine) error { return e.AddSources(mapSource{}) }, msg: ErrMsgExtensionExists},
		{name: "duplicate formatter type", register: func(e *Engine) error { return e.AddFormatters(textFormatter{}) }, msg: ErrMsgExtensionExists},
		{name: "unnamed explicit formatter", register: func(e *Engine) error { return e.AddFormatters(anonymousFormatter{}) }, msg: ErrMsgFormatterNameEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			sources, formatters := len(e.Sources()), len(e.Formatters())

			err := tt.register(e)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			kind, ok := metadata(err, MetaKeyKind)
			require.True(t, ok)
			assert.Equal(t, ErrKindRegistry, kind)
			assert.Len(t, e.Sources(), sources)
			assert.Len(t, e.Formatters(), formatters)
		})
	}
}

func TestRegistry_FormatterNameCollision(t *testing.T) {
	sensitive := newTestEngine(t)
	require.NoError(t, sensitive.AddFormatters(shoutFormatter{}))

	insensitive := newTestEngine(t, WithCaseSensitivity(CaseInsensitive))
	err := insensitive.AddFormatters(shoutFormatter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFormatterNameExists)

	f, ok := insensitive.FormatterByName("TEXT")
	require.True(t, ok)
	assert.IsType(t, textFormatter{}, f)
}

func TestRegistry_Order(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, []string{"pick", "each", "loop", "text"}, e.FormatterNames())

	require.NoError(t, e.InsertSource(0, &charSource{}))
	sources := e.Sources()
	require.Len(t, sources, 4)
	assert.IsType(t, &charSource{}, sources[0])
	assert.IsType(t, mapSource{}, sources[3])

	require.NoError(t, e.InsertFormatter(100, shoutFormatter{}))
	names := e.FormatterNames()
	assert.Equal(t, "TEXT", names[len(names)-1])

	result, err := e.Format("{@abc} {0:TEXT:}", "x")
	require.NoError(t, err)
	assert.Equal(t, "abc X", result)
}

func TestRegistry_Remove(t *testing.T) {
	e := newTestEngine(t)

	assert.True(t, e.RemoveSource(mapSource{}))
	assert.False(t, e.RemoveSource(mapSource{}))
	assert.True(t, e.RemoveFormatter(pickFormatter{}))
	assert.False(t, e.RemoveFormatter(pickFormatter{}))

	_, ok := SourceOf[mapSource](e)
	assert.False(t, ok)
	_, ok = e.FormatterByName("pick")
	assert.False(t, ok)

	e.ClearExtensions()
	assert.Empty(t, e.Sources())
	assert.Empty(t, e.Formatters())
}

func TestRegistry_Lookup(t *testing.T) {
	e := newTestEngine(t)

	source, ok := SourceOf[indexSource](e)
	assert.True(t, ok)
	assert.Equal(t, indexSource{}, source)

	formatter, ok := FormatterOf[eachFormatter](e)
	assert.True(t, ok)
	assert.Equal(t, "each", formatter.Name())

	_, ok = FormatterOf[shoutFormatter](e)
	assert.False(t, ok)

	_, ok = e.FormatterByName("PICK")
	assert.False(t, ok)
}

func TestRegistry_Initializer(t *testing.T) {
	t.Run("success extends the parser", func(t *testing.T) {
		e := newTestEngine(t)
		require.NoError(t, e.AddSources(&charSource{}))
		assert.Contains(t, e.Parser().SelectorChars(), "@")
	})

	t.Run("failure rolls back", func(t *testing.T) {
		e := newTestEngine(t)
		before := len(e.Sources())

		err := e.AddSources(&charSource{fail: true})

		require.Error(t, err)
		assert.Len(t, e.Sources(), before)
		extension, ok := metadata(err, MetaKeyExtension)
		require.True(t, ok)
		assert.Equal(t, ModulePath+".charSource", extension)
		_, ok = SourceOf[*charSource](e)
		assert.False(t, ok)
	})
}

func TestRegistry_ChangesClearParseCache(t *testing.T) {
	e := newTestEngine(t, WithParseCache(8))

	before, err := e.ParseFormat("{0:TEXT:x}")
	require.NoError(t, err)
	assert.Empty(t, before.Items[0].(*Placeholder).FormatterName)
	assert.Equal(t, 1, e.cache.len())

	require.NoError(t, e.AddFormatters(shoutFormatter{}))
	assert.Equal(t, 0, e.cache.len())

	after, err := e.ParseFormat("{0:TEXT:x}")
	require.NoError(t, err)
	assert.Equal(t, "TEXT", after.Items[0].(*Placeholder).FormatterName)

	assert.True(t, e.RemoveFormatter(shoutFormatter{}))
	assert.Equal(t, 0, e.cache.len())
}

func TestRegistry_CharChangesClearParseCache(t *testing.T) {
	t.Run("parser char sets", func(t *testing.T) {
		e := newTestEngine(t, WithParseCache(8))
		_, err := e.ParseFormat("{0}")
		require.NoError(t, err)
		require.Equal(t, 1, e.cache.len())

		e.Parser().AddSelectorChars("@")
		assert.Equal(t, 0, e.cache.len())

		format, err := e.ParseFormat("{a@b}")
		require.NoError(t, err)
		assert.Equal(t, "a@b", format.Items[0].(*Placeholder).Selectors[0].Text)

		e.Parser().AddOperatorChars("/")
		assert.Equal(t, 0, e.cache.len())
	})

	t.Run("formats parsed during initialization are dropped", func(t *testing.T) {
		e := newTestEngine(t, WithParseCache(8))
		require.NoError(t, e.AddSources(warmingSource{}))
		assert.Equal(t, 0, e.cache.len())
		assert.Contains(t, e.Parser().SelectorChars(), "#")
	})
}

func TestPriorityIndex(t *testing.T) {
	priorities := map[string]int{"a": 1, "b": 2, "c": 3}
	at := func(names ...string) func(int) string {
		return func(i int) string { return names[i] }
	}

	assert.Equal(t, 0, priorityIndex("b", priorities, 2, at("c", "x")))
	assert.Equal(t, 2, priorityIndex("b", priorities, 2, at("a", "x")))
	assert.Equal(t, 1, priorityIndex("b", priorities, 3, at("a", "c", "x")))
	assert.Equal(t, 3, priorityIndex("z", priorities, 3, at("c", "b", "a")))
}
