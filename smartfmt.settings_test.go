package smartfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEnvPrefix = "TESTSMARTFMT_"

func writeSettingsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := loadSettings(testEnvPrefix)

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_Files(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "settings.yaml",
			content: `
case_sensitivity: insensitive
parser:
  error_action: maintain
  max_nesting_depth: 7
  selector_chars: "@"
formatter:
  error_action: output
  alignment_fill_char: "*"
localization:
  default_culture: de-CH
parse_cache_size: 16
`,
		},
		{
			name: "toml",
			file: "settings.toml",
			content: `
case_sensitivity = "insensitive"
parse_cache_size = 16

[parser]
error_action = "maintain"
max_nesting_depth = 7
selector_chars = "@"

[formatter]
error_action = "output"
alignment_fill_char = "*"

[localization]
default_culture = "de-CH"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettingsFile(t, tt.file, tt.content)

			s, err := loadSettings(testEnvPrefix, path)

			require.NoError(t, err)
			assert.Equal(t, CaseInsensitive, s.CaseSensitivity)
			assert.Equal(t, ErrorActionMaintainTokens, s.Parser.ErrorAction)
			assert.Equal(t, 7, s.Parser.MaxNestingDepth)
			assert.Equal(t, "@", s.Parser.SelectorChars)
			assert.Equal(t, ErrorActionOutputErrorInResult, s.Formatter.ErrorAction)
			assert.Equal(t, '*', s.Formatter.AlignmentFillChar)
			assert.Equal(t, "de-CH", s.Localization.DefaultCulture)
			assert.Equal(t, 16, s.ParseCacheSize)
		})
	}
}

func TestLoadSettings_LaterSourcesWin(t *testing.T) {
	first := writeSettingsFile(t, "a.yaml", "parser:\n  max_nesting_depth: 7\nparse_cache_size: 3\n")
	second := writeSettingsFile(t, "b.yml", "parse_cache_size: 5\n")
	t.Setenv(testEnvPrefix+"FORMATTER__ERROR_ACTION", "ignore")
	t.Setenv(testEnvPrefix+"PARSER__MAX_NESTING_DEPTH", "9")

	s, err := loadSettings(testEnvPrefix, first, second)

	require.NoError(t, err)
	assert.Equal(t, 9, s.Parser.MaxNestingDepth)
	assert.Equal(t, 5, s.ParseCacheSize)
	assert.Equal(t, ErrorActionIgnore, s.Formatter.ErrorAction)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		setting string
		msg     string
	}{
		{name: "unknown file type", file: "settings.json", content: "{}", msg: ErrMsgSettingsUnknownFileType},
		{name: "malformed yaml", file: "bad.yaml", content: "parser: [", msg: ErrMsgSettingsLoadFailed},
		{name: "case sensitivity", file: "s.yaml", content: "case_sensitivity: loose", setting: SettingCaseSensitivity, msg: ErrMsgSettingsInvalidValue},
		{name: "error action", file: "s.yaml", content: "parser:\n  error_action: panic", setting: SettingParserErrorAction, msg: ErrMsgSettingsInvalidValue},
		{name: "nesting depth", file: "s.yaml", content: "parser:\n  max_nesting_depth: 0", setting: SettingMaxNestingDepth, msg: ErrMsgSettingsInvalidValue},
		{name: "fill char", file: "s.yaml", content: "formatter:\n  alignment_fill_char: ab", setting: SettingAlignmentFillChar, msg: ErrMsgSettingsInvalidValue},
		{name: "culture", file: "s.yaml", content: "localization:\n  default_culture: '!!'", setting: SettingDefaultCulture, msg: ErrMsgSettingsInvalidValue},
		{name: "cache size", file: "s.yaml", content: "parse_cache_size: -1", setting: SettingParseCacheSize, msg: ErrMsgSettingsInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettingsFile(t, tt.file, tt.content)

			_, err := loadSettings(testEnvPrefix, path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			kind, ok := metadata(err, MetaKeyKind)
			require.True(t, ok)
			assert.Equal(t, ErrKindSettings, kind)
			if tt.setting != "" {
				setting, _ := metadata(err, MetaKeySetting)
				assert.Equal(t, tt.setting, setting)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadSettings(testEnvPrefix, filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgSettingsLoadFailed)
	})
}

func TestEngine_UsesLoadedSettings(t *testing.T) {
	path := writeSettingsFile(t, "s.yaml", "formatter:\n  error_action: maintain\n  alignment_fill_char: '.'\n")
	s, err := loadSettings(testEnvPrefix, path)
	require.NoError(t, err)

	e := newTestEngine(t, WithSettings(s))
	result, err := e.Format("{Missing} {A,4}", map[string]any{"A": "x"})

	require.NoError(t, err)
	assert.Equal(t, "{Missing} ...x", result)
	assert.Equal(t, s, e.Settings())
}
