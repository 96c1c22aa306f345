package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("SB_TEST_OUTPUT", "public")
	path := writeSettings(t, `
variant: Localized
clean: true
dir:
  output: ${SB_TEST_OUTPUT}
log:
  level: DEBUG
  format: json
metrics:
  textfile: /tmp/sitebuilder.prom
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, VariantLocalized, s.Variant)
	assert.Equal(t, ".", s.Root)
	assert.True(t, s.Clean)
	assert.Equal(t, "public", s.Dir.Output)
	assert.Empty(t, s.Dir.Input)
	assert.Equal(t, LogLevelDebug, s.Log.Level)
	assert.Equal(t, LogFormatJSON, s.Log.Format)
	assert.Equal(t, "/tmp/sitebuilder.prom", s.Metrics.Textfile)
}

func TestLoadSettingsRejectsUnknownVariant(t *testing.T) {
	path := writeSettings(t, "variant: fancy\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := writeSettings(t, "variant: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))

	s, err := LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, VariantMinimal, s.Variant)
	assert.Equal(t, LogLevelInfo, s.Log.Level)
	assert.Equal(t, LogFormatText, s.Log.Format)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")

	require.NoError(t, Init(path, false))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, VariantLocalized, s.Variant)
	assert.True(t, s.Clean)

	require.Error(t, Init(path, false), "existing file must not be overwritten")
	require.NoError(t, Init(path, true))
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("yaml"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
