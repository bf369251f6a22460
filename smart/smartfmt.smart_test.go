package smart

import (
	"context"
	"testing"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/extensions"
	"github.com/itsatony/go-smartfmt/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNew_RegistersBuiltins(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	assert.Len(t, engine.Sources(), len(DefaultSources()))
	assert.Len(t, engine.Formatters(), len(DefaultFormatters()))

	for _, name := range []string{
		extensions.NameList, extensions.NamePlural, extensions.NameConditional,
		extensions.NameTime, extensions.NameIsMatch, extensions.NameNull,
		extensions.NameLocalization, extensions.NameTemplate, extensions.NameChoose,
		extensions.NameSubString, extensions.NameDefault,
	} {
		_, ok := engine.FormatterByName(name)
		assert.True(t, ok, name)
	}
}

func TestNew_ListIsSharedBetweenChains(t *testing.T) {
	engine := MustNew()

	var source smartfmt.Source
	for _, s := range engine.Sources() {
		if list, ok := s.(*extensions.ListFormatter); ok {
			source = list
		}
	}
	formatter, ok := engine.FormatterByName(extensions.NameList)
	require.True(t, ok)
	require.NotNil(t, source)
	assert.Same(t, source, formatter)
}

func TestDefaultExtensionsOrder(t *testing.T) {
	sources := DefaultSources()
	assert.IsType(t, &extensions.GlobalVariablesSource{}, sources[0])
	assert.IsType(t, &extensions.ReflectionSource{}, sources[len(sources)-1])

	formatters := DefaultFormatters()
	assert.IsType(t, &extensions.ListFormatter{}, formatters[0])
	assert.IsType(t, &extensions.DefaultFormatter{}, formatters[len(formatters)-1])

	// fresh instances on every call
	assert.NotSame(t, sources[0], DefaultSources()[0])
}

func TestNew_Options(t *testing.T) {
	ctx := context.Background()
	resources := store.NewMemoryStore()
	require.NoError(t, resources.Save(ctx, &store.Resource{Name: "Greeting", Language: "de", Source: "Hallo {Name}"}))
	require.NoError(t, resources.Save(ctx, &store.Resource{Name: "signature", Source: "-- {0}"}))

	engine, err := New(
		WithEngineOptions(smartfmt.WithCaseSensitivity(smartfmt.CaseInsensitive)),
		WithStore(resources),
		WithLanguages(language.English, language.German),
		WithTemplate("greet", "Hi {Name}"),
	)
	require.NoError(t, err)
	data := map[string]any{"Name": "Ann"}

	tests := []struct {
		name     string
		culture  string
		template string
		args     []any
		expected string
	}{
		{name: "registered template", culture: "en", template: "{0:t:greet}", args: []any{data}, expected: "Hi Ann"},
		{name: "stored template", culture: "en", template: "{0:t:signature}", args: []any{"Ann"}, expected: "-- Ann"},
		{name: "localized resource", culture: "de", template: "{0:L:Greeting}", args: []any{data}, expected: "Hallo Ann"},
		{name: "localization fallback to key", culture: "en", template: "{0:L:Greeting}", args: []any{data}, expected: "Greeting"},
		{name: "engine options applied", culture: "en", template: "{name}", args: []any{data}, expected: "Ann"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.FormatWithProvider(smartfmt.MustCulture(tt.culture), tt.template, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithTemplate(" ", "x"))
	require.Error(t, err)

	settings := smartfmt.DefaultSettings()
	settings.Localization.DefaultCulture = "!!"
	_, err = New(WithEngineOptions(smartfmt.WithSettings(settings)))
	require.Error(t, err)

	assert.Panics(t, func() { MustNew(WithTemplate("", "x")) })
}

func TestShared(t *testing.T) {
	assert.Same(t, Shared(), Shared())

	result, err := Format("{0:list:{}|, | and }", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "a, b and c", result)

	result, err = FormatWithProvider(smartfmt.MustCulture("de"), "{0:N2}", 1234.5)
	require.NoError(t, err)
	assert.Equal(t, "1.234,50", result)
}
