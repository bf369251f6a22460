package extensions

import (
	"errors"
	"testing"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEngine creates an engine with the stateless built-in extensions
func newEngine(t *testing.T, opts ...smartfmt.Option) *smartfmt.Engine {
	t.Helper()
	e, err := smartfmt.New(opts...)
	require.NoError(t, err)

	list := NewListFormatter()
	require.NoError(t, e.AddSources(
		NewDefaultSource(),
		NewStringSource(),
		list,
		NewDictionarySource(),
		NewKeyValuePairSource(),
		NewJSONSource(),
		NewYAMLSource(),
		NewXMLSource(),
		NewReflectionSource(),
	))
	require.NoError(t, e.AddFormatters(
		list,
		NewPluralFormatter(),
		NewConditionalFormatter(),
		NewTimeFormatter(),
		NewIsMatchFormatter(),
		NewNullFormatter(),
		NewChooseFormatter(),
		NewSubStringFormatter(),
		NewDefaultFormatter(),
	))
	return e
}

type formatCase struct {
	name     string
	template string
	args     []any
	expected string
}

func runFormatCases(t *testing.T, e *smartfmt.Engine, cases []formatCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := e.Format(tc.template, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

type errorCase struct {
	name     string
	template string
	args     []any
	msg      string
}

func runErrorCases(t *testing.T, e *smartfmt.Engine, cases []errorCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Format(tc.template, tc.args...)
			require.Error(t, err)
			assert.True(t, smartfmt.IsFormattingError(err))
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func args(values ...any) []any { return values }

type address struct {
	City string
}

type person struct {
	Name    string
	Age     int
	Address *address
	Pets    []string
}

func (p person) Greeting() string { return "Hi " + p.Name }

func (p *person) Lookup() (string, error) { return "", errors.New("lookup failed") }
