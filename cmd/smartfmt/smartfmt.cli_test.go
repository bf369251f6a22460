package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the CLI with stdin content and returns exit code and output
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	return path
}

func TestRun_NoArgs_ShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, CLIName)
	assert.Contains(t, stdout, CmdNameRender)
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "", "unknown")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	jsonFile := writeFile(t, dir, "data.json", `{"name": "Alice", "items": ["a", "b", "c"]}`)
	yamlFile := writeFile(t, dir, "data.yaml", "name: Bob\ncount: 1\n")
	tomlFile := writeFile(t, dir, "data.toml", "name = \"Carol\"\n[address]\ncity = \"Berlin\"\n")
	xmlFile := writeFile(t, dir, "data.xml", `<person id="7"><name>Dave</name></person>`)
	templateFile := writeFile(t, dir, "greeting.txt", "Hi {name}!")

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{
			name:     "inline template and JSON data",
			args:     []string{CmdNameRender, "-t", "Hello {name}!", "-d", `{"name": "Alice"}`},
			expected: "Hello Alice!\n",
		},
		{
			name:     "inline YAML data",
			args:     []string{CmdNameRender, "-t", "{name} is {age}", "-d", "name: Eve\nage: 30"},
			expected: "Eve is 30\n",
		},
		{
			name:     "JSON file with list",
			args:     []string{CmdNameRender, "-t", "{items:list:{}|, | and }", "-D", jsonFile},
			expected: "a, b and c\n",
		},
		{
			name:     "YAML file with plural",
			args:     []string{CmdNameRender, "-t", "{name} has {count:plural:one item|{} items}", "-D", yamlFile},
			expected: "Bob has one item\n",
		},
		{
			name:     "TOML file",
			args:     []string{CmdNameRender, "-t", "{name} lives in {address.city}", "-D", tomlFile},
			expected: "Carol lives in Berlin\n",
		},
		{
			name:     "XML file",
			args:     []string{CmdNameRender, "-t", "{name} ({@id})", "-D", xmlFile},
			expected: "Dave (7)\n",
		},
		{
			name:     "template file",
			args:     []string{CmdNameRender, "-f", templateFile, "-D", yamlFile},
			expected: "Hi Bob!\n",
		},
		{
			name:     "template from stdin with positional args",
			stdin:    "{0} and {1}\n",
			args:     []string{CmdNameRender, "Alice", "Bob"},
			expected: "Alice and Bob\n",
		},
		{
			name:     "case insensitive",
			args:     []string{CmdNameRender, "--case-insensitive", "-t", "{NAME}", "-d", `{"name": "Alice"}`},
			expected: "Alice\n",
		},
		{
			name:     "maintain tokens on error",
			args:     []string{CmdNameRender, "--on-error", "maintain", "-t", "{missing} ok"},
			expected: "{missing} ok\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.stdin, tt.args...)

			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	badJSON := writeFile(t, dir, "bad.json", `{"name": `)
	unknownType := writeFile(t, dir, "data.csv", "a,b")

	tests := []struct {
		name     string
		args     []string
		exitCode int
		message  string
	}{
		{
			name:     "missing template",
			args:     []string{CmdNameRender},
			exitCode: ExitCodeUsageError,
			message:  ErrMsgMissingTemplate,
		},
		{
			name:     "template and file",
			args:     []string{CmdNameRender, "-t", "x", "-f", "y"},
			exitCode: ExitCodeUsageError,
			message:  ErrMsgTemplateConflict,
		},
		{
			name:     "missing template file",
			args:     []string{CmdNameRender, "-f", filepath.Join(dir, "none.txt")},
			exitCode: ExitCodeInputError,
			message:  ErrMsgReadFileFailed,
		},
		{
			name:     "invalid JSON file",
			args:     []string{CmdNameRender, "-t", "{name}", "-D", badJSON},
			exitCode: ExitCodeInputError,
			message:  ErrMsgInvalidData,
		},
		{
			name:     "unknown data type",
			args:     []string{CmdNameRender, "-t", "{name}", "-D", unknownType},
			exitCode: ExitCodeInputError,
			message:  ErrMsgUnknownDataType,
		},
		{
			name:     "invalid on-error",
			args:     []string{CmdNameRender, "--on-error", "explode", "-t", "x"},
			exitCode: ExitCodeUsageError,
			message:  ErrMsgInvalidOnError,
		},
		{
			name:     "invalid culture",
			args:     []string{CmdNameRender, "--culture", "not a tag", "-t", "x"},
			exitCode: ExitCodeUsageError,
			message:  ErrMsgInvalidLanguage,
		},
		{
			name:     "store without DSN",
			args:     []string{CmdNameRender, "--store-driver", "filesystem", "-t", "x"},
			exitCode: ExitCodeUsageError,
			message:  ErrMsgStoreDSNRequired,
		},
		{
			name:     "format failure",
			args:     []string{CmdNameRender, "-t", "{missing}"},
			exitCode: ExitCodeError,
			message:  ErrMsgFormatFailed,
		},
		{
			name:     "unknown flag",
			args:     []string{CmdNameRender, "--nope"},
			exitCode: ExitCodeUsageError,
			message:  "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)

			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stderr, tt.message)
		})
	}
}

func TestRender_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	code, stdout, stderr := runCLI(t, "", CmdNameRender, "-t", "{0}", "-o", out, "value")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "value", string(data))
}

func TestRender_FilesystemStore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Welcome"), 0o755))
	writeFile(t, filepath.Join(root, "Welcome"), "de.yaml", "name: Welcome\nsource: Willkommen {0}\n")
	writeFile(t, filepath.Join(root, "Welcome"), "neutral.yaml", "name: Welcome\nsource: Welcome {0}\n")

	tests := []struct {
		name     string
		culture  string
		expected string
	}{
		{name: "german", culture: "de", expected: "Willkommen Ann\n"},
		{name: "fallback", culture: "fr", expected: "Welcome Ann\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "",
				CmdNameRender,
				"-t", "{0:L:Welcome}",
				"--culture", tt.culture,
				"--languages", "en,de",
				"--store-driver", "filesystem",
				"--store-dsn", root,
				"Ann",
			)

			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRender_Verbose(t *testing.T) {
	code, _, stderr := runCLI(t, "", CmdNameRender, "-v", "--on-error", "ignore", "-t", "{missing}")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.NotEmpty(t, stderr)
}

func TestRender_ConfigFile(t *testing.T) {
	config := writeFile(t, t.TempDir(), "config.yaml", "formatter:\n  error_action: maintain\n")

	code, stdout, stderr := runCLI(t, "", CmdNameRender, "-c", config, "-t", "{missing}")

	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "{missing}\n", stdout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		exitCode int
		output   string
	}{
		{name: "valid", template: "{Name} {Items:list:{Name}|, }", exitCode: ExitCodeSuccess, output: "3 placeholders"},
		{name: "unclosed brace", template: "{Name", exitCode: ExitCodeValidationError, output: "at "},
		{name: "unknown formatter", template: "{0:nope()}", exitCode: ExitCodeValidationError, output: "at "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, "", CmdNameValidate, "-t", tt.template)

			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stdout, tt.output)
		})
	}
}

func TestVersion(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		code, stdout, _ := runCLI(t, "", CmdNameVersion)

		assert.Equal(t, ExitCodeSuccess, code)
		assert.Contains(t, stdout, CLIName+" version")
	})

	t.Run("json", func(t *testing.T) {
		code, stdout, _ := runCLI(t, "", CmdNameVersion, "--format", OutputFormatJSON)

		assert.Equal(t, ExitCodeSuccess, code)
		assert.Contains(t, stdout, `"go_version"`)
	})

	t.Run("invalid format", func(t *testing.T) {
		code, _, stderr := runCLI(t, "", CmdNameVersion, "--format", "xml")

		assert.Equal(t, ExitCodeUsageError, code)
		assert.Contains(t, stderr, ErrMsgInvalidFormat)
	})
}
