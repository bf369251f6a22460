package smartfmt_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/extensions"
	"github.com/itsatony/go-smartfmt/smart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	Street string
	City   string
}

type customer struct {
	Name    string
	Address *address
	Orders  []order
}

type order struct {
	ID    int
	Total float64
}

func (c customer) OrderCount() int { return len(c.Orders) }

func sampleCustomer() customer {
	return customer{
		Name:    "Ann",
		Address: &address{Street: "Main St 1", City: "Berlin"},
		Orders:  []order{{ID: 1, Total: 9.5}, {ID: 2, Total: 20}},
	}
}

func TestE2E_Format(t *testing.T) {
	engine := smart.MustNew()
	ann := sampleCustomer()

	tests := []struct {
		name     string
		template string
		args     []any
		expected string
	}{
		{name: "literal only", template: "plain text", expected: "plain text"},
		{name: "positional", template: "{0} and {1}", args: []any{"a", 2}, expected: "a and 2"},
		{name: "escaped braces", template: "{{{0}}}", args: []any{"x"}, expected: "{x}"},
		{name: "member path", template: "{Name} lives in {Address.City}", args: []any{ann}, expected: "Ann lives in Berlin"},
		{name: "method", template: "{OrderCount} orders", args: []any{ann}, expected: "2 orders"},
		{name: "nested scope", template: "{Address:{Street}, {City}}", args: []any{ann}, expected: "Main St 1, Berlin"},
		{name: "list with members", template: "{Orders:list:#{ID}|, }", args: []any{ann}, expected: "#1, #2"},
		{name: "enclosing scope", template: "{Orders:{ID} for {Name}|, }", args: []any{ann}, expected: "1 for Ann, 2 for Ann"},
		{name: "plural", template: "{Orders:plural:one order|{Count} orders}", args: []any{map[string]any{"Orders": []int{1}, "Count": 1}}, expected: "one order"},
		{name: "plural with count", template: "{0} {0:item|items}", args: []any{3}, expected: "3 items"},
		{name: "conditional", template: "{0:Welcome back|Hello}, {1}", args: []any{true, "Ann"}, expected: "Welcome back, Ann"},
		{name: "comparison", template: "{0:>=18?adult|minor}", args: []any{17}, expected: "minor"},
		{name: "number format", template: "{Total:N2}", args: []any{order{Total: 1234.5}}, expected: "1,234.50"},
		{name: "string selector", template: "{Name.ToUpper}", args: []any{ann}, expected: "ANN"},
		{name: "nullable", template: "[{Address?.City}]", args: []any{customer{Name: "Bo"}}, expected: "[]"},
		{name: "alignment", template: "[{0,5}|{1,-5}]", args: []any{"ab", "cd"}, expected: "[   ab|cd   ]"},
		{name: "json", template: "{user.name} ({user.tags.0})", args: []any{json.RawMessage(`{"user":{"name":"Ann","tags":["admin"]}}`)}, expected: "Ann (admin)"},
		{name: "choose", template: "{0:choose(1|2):one|two|many}", args: []any{2}, expected: "two"},
		{name: "substring", template: "{0:substr(0,3)}...", args: []any{"Berlin"}, expected: "Ber..."},
		{name: "localization without store", template: "{0:L:Hello {Name}}", args: []any{ann}, expected: "Hello Ann"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Format(tt.template, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestE2E_ErrorActions(t *testing.T) {
	template := "Hi {Missing}!"

	tests := []struct {
		name     string
		action   smartfmt.ErrorAction
		expected string
	}{
		{name: "ignore", action: smartfmt.ErrorActionIgnore, expected: "Hi !"},
		{name: "maintain tokens", action: smartfmt.ErrorActionMaintainTokens, expected: "Hi {Missing}!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := smart.MustNew(smart.WithEngineOptions(smartfmt.WithFormatErrorAction(tt.action)))
			result, err := engine.Format(template, map[string]any{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("throw", func(t *testing.T) {
		_, err := smart.MustNew().Format(template, map[string]any{})
		require.Error(t, err)
		assert.True(t, smartfmt.IsFormattingError(err))

		index, ok := smartfmt.ErrorIndex(err)
		require.True(t, ok)
		assert.Equal(t, 4, index)
	})

	t.Run("output error in result", func(t *testing.T) {
		engine := smart.MustNew(smart.WithEngineOptions(smartfmt.WithFormatErrorAction(smartfmt.ErrorActionOutputErrorInResult)))
		result, err := engine.Format(template, map[string]any{})
		require.NoError(t, err)
		assert.Contains(t, result, smartfmt.ErrMsgNoSourceForSelector)
		assert.Contains(t, result, "at index 4")
	})

	t.Run("parse errors", func(t *testing.T) {
		_, err := smart.MustNew().Format("{0", 1)
		require.Error(t, err)
		assert.True(t, smartfmt.IsParsingError(err))
		require.Len(t, smartfmt.Issues(err), 1)
	})
}

func TestE2E_CaseSensitivity(t *testing.T) {
	ann := sampleCustomer()

	_, err := smart.MustNew().Format("{name}", ann)
	require.Error(t, err)

	engine := smart.MustNew(smart.WithEngineOptions(smartfmt.WithCaseSensitivity(smartfmt.CaseInsensitive)))
	result, err := engine.Format("{name} {ADDRESS.city} {name.toupper}", ann)
	require.NoError(t, err)
	assert.Equal(t, "Ann Berlin ANN", result)
}

func TestE2E_EscapeRoundTrip(t *testing.T) {
	engine := smart.MustNew()
	escaper := strings.NewReplacer("{", "{{", "}", "}}")

	for _, text := range []string{"plain", "{braces}", "a}b{c", "{{double}}", ""} {
		t.Run(text, func(t *testing.T) {
			escaped := escaper.Replace(text)
			result, err := engine.Format(escaped)
			require.NoError(t, err)
			assert.Equal(t, text, result)
		})
	}
}

func TestE2E_ParseOnceFormatMany(t *testing.T) {
	engine := smart.MustNew()
	format, err := engine.ParseFormat("{Name}: {Orders:{Total:F2}|, }")
	require.NoError(t, err)

	ann := sampleCustomer()
	bo := customer{Name: "Bo", Orders: []order{{Total: 1}, {Total: 2}, {Total: 3}}}

	result, err := engine.FormatParsed(nil, format, ann)
	require.NoError(t, err)
	assert.Equal(t, "Ann: 9.50, 20.00", result)

	result, err = engine.FormatParsed(nil, format, bo)
	require.NoError(t, err)
	assert.Equal(t, "Bo: 1.00, 2.00, 3.00", result)

	parts := format.Split('|')
	assert.Len(t, parts, 1)
	assert.Same(t, format, parts[0])
}

func TestE2E_ConcurrentLists(t *testing.T) {
	engine := smart.MustNew()

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items := []int{i, i + 1, i + 2}
			expected := fmt.Sprintf("0:%d 1:%d 2:%d", i, i+1, i+2)
			result, err := engine.Format("{0:list:{Index}:{}| }", items)
			if err != nil {
				errs <- err
				return
			}
			if result != expected {
				errs <- fmt.Errorf("got %q, want %q", result, expected)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestE2E_PriorityOrdering(t *testing.T) {
	engine := smartfmt.MustNew()
	list := extensions.NewListFormatter()

	// registration order does not decide the chain order of built-ins
	require.NoError(t, engine.AddSources(extensions.NewReflectionSource(), list, extensions.NewDefaultSource()))
	require.NoError(t, engine.AddFormatters(extensions.NewDefaultFormatter(), list))

	sources := engine.Sources()
	require.Len(t, sources, 3)
	assert.IsType(t, &extensions.DefaultSource{}, sources[0])
	assert.IsType(t, &extensions.ListFormatter{}, sources[1])
	assert.IsType(t, &extensions.ReflectionSource{}, sources[2])

	formatters := engine.Formatters()
	require.Len(t, formatters, 2)
	assert.IsType(t, &extensions.ListFormatter{}, formatters[0])

	result, err := engine.Format("{Items.2} {Items:{}|-}", struct{ Items []string }{Items: []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, "c a-b-c", result)
}
