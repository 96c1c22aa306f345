package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin/highlight"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

func newSiteRoot(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		path := filepath.Join(root, d, "asset.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(d), 0o644))
	}
	return root
}

func settingsFor(root, variant string) *config.Settings {
	s := config.Defaults()
	s.Root = root
	s.Variant = variant
	return s
}

func TestBuildCommandCopiesAssets(t *testing.T) {
	root := newSiteRoot(t, "src/css", "src/images")
	settings := settingsFor(root, config.VariantMinimal)
	settings.Metrics.Textfile = filepath.Join(root, "sitebuilder.prom")

	var out bytes.Buffer
	require.NoError(t, (&BuildCmd{}).run(context.Background(), &out, settings))

	assert.Contains(t, out.String(), "Copied 2 files from 2 passthrough rules to _site")
	assert.FileExists(t, filepath.Join(root, "_site", "css", "asset.txt"))
	assert.FileExists(t, filepath.Join(root, "_site", "images", "asset.txt"))

	prom, err := os.ReadFile(settings.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `sitebuilder_build_outcomes_total{outcome="success"} 1`)
}

func TestBuildCommandFlagsOverrideSettings(t *testing.T) {
	root := newSiteRoot(t, "src/css", "src/images", "src/js", "src/fonts")
	settings := settingsFor(root, config.VariantMinimal)

	cmd := &BuildCmd{Variant: config.VariantLocalized, Output: "public"}
	require.NoError(t, cmd.run(context.Background(), &bytes.Buffer{}, settings))

	assert.FileExists(t, filepath.Join(root, "public", "js", "asset.txt"))
	assert.FileExists(t, filepath.Join(root, "public", "fonts", "asset.txt"))
	assert.NoDirExists(t, filepath.Join(root, "_site"))
}

func TestBuildCommandErrors(t *testing.T) {
	root := newSiteRoot(t, "src/css", "src/images")

	err := (&BuildCmd{Variant: config.VariantLocalized}).run(context.Background(), &bytes.Buffer{}, settingsFor(root, ""))
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryFileSystem))

	err = (&BuildCmd{Variant: "everything"}).run(context.Background(), &bytes.Buffer{}, settingsFor(root, ""))
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
	assert.Equal(t, 2, serrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestResolveCommandYAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&ResolveCmd{Format: "yaml"}).run(&out, settingsFor(".", config.VariantLocalized)))

	var doc Resolved
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, config.VariantLocalized, doc.Variant)
	assert.Equal(t, config.DefaultEngineConfig(), doc.Config)
	assert.Equal(t, []RegistrationView{
		{Kind: site.KindPlugin, Name: highlight.Name},
		{Kind: site.KindPassthrough, Name: "src/css"},
		{Kind: site.KindPassthrough, Name: "src/images"},
		{Kind: site.KindPassthrough, Name: "src/js"},
		{Kind: site.KindPassthrough, Name: "src/fonts"},
		{Kind: site.KindGlobalData, Name: "languages"},
	}, doc.Registrations)
}

func TestResolveCommandJSONToFile(t *testing.T) {
	settings := settingsFor(".", config.VariantMinimal)
	settings.Dir.Output = "dist"
	target := filepath.Join(t.TempDir(), "resolved.json")

	var out bytes.Buffer
	require.NoError(t, (&ResolveCmd{Format: "json", Out: target}).run(&out, settings))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	var doc Resolved
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dist", doc.Config.Dir.Output)
	assert.Equal(t, "src", doc.Config.Dir.Input)
	assert.Equal(t, config.TemplateEngine("njk"), doc.Config.MarkdownTemplateEngine)
	assert.Len(t, doc.Registrations, 3)
}

func TestLanguagesCommand(t *testing.T) {
	var table bytes.Buffer
	require.NoError(t, (&LanguagesCmd{Format: "table"}).run(&table))
	assert.Contains(t, table.String(), "CODE")
	assert.Regexp(t, `(?m)^ar\s+Arabic\s+العربية\s+rtl$`, table.String())

	var doc bytes.Buffer
	require.NoError(t, (&LanguagesCmd{Format: "yaml"}).run(&doc))
	var parsed map[string]map[string]string
	require.NoError(t, yaml.Unmarshal(doc.Bytes(), &parsed))
	assert.Len(t, parsed, 16)
	assert.Equal(t, "ltr", parsed["pt-BR"]["dir"])
}

func TestLanguagesCommandFilters(t *testing.T) {
	tests := []struct {
		name string
		cmd  LanguagesCmd
		want []string
	}{
		{"codes match canonical form", LanguagesCmd{Codes: []string{"pt-br", "zh-tw"}}, []string{"pt-BR", "zh-TW"}},
		{"direction", LanguagesCmd{Dir: "RTL"}, []string{"ar", "fa", "he", "ur"}},
		{"codes and direction", LanguagesCmd{Codes: []string{"en", "he"}, Dir: "rtl"}, []string{"he"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			langs, err := tt.cmd.selected()
			require.NoError(t, err)
			assert.Equal(t, tt.want, langs.Codes())
		})
	}

	_, err := (&LanguagesCmd{Codes: []string{"tlh"}}).selected()
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))

	_, err = (&LanguagesCmd{Dir: "ttb"}).selected()
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitebuilder.yaml")
	var out bytes.Buffer

	require.NoError(t, RunInit(&out, path, false))
	assert.Contains(t, out.String(), "initialized successfully")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.VariantLocalized, s.Variant)

	require.Error(t, RunInit(&out, path, false))
	require.NoError(t, RunInit(&out, path, true))
}

func TestLogLevelPrecedence(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	c := &CLI{}
	assert.Equal(t, config.LogLevelWarn, c.logLevel(config.LogLevelWarn))

	t.Setenv(LogLevelEnv, "error")
	assert.Equal(t, config.LogLevelError, c.logLevel(config.LogLevelWarn))

	c.Verbose = true
	assert.Equal(t, config.LogLevelDebug, c.logLevel(config.LogLevelWarn))
}

func TestCLIParsing(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-c", "custom.yaml", "resolve", "--variant", "localized", "--format", "json"})
	require.NoError(t, err)
	assert.Equal(t, "resolve", ctx.Command())
	assert.Equal(t, "custom.yaml", cli.Config)
	assert.Equal(t, "localized", cli.Resolve.Variant)
	assert.Equal(t, "json", cli.Resolve.Format)

	ctx, err = parser.Parse([]string{"languages", "ar", "he", "--dir", "rtl"})
	require.NoError(t, err)
	assert.Equal(t, "languages <codes>", ctx.Command())
	assert.Equal(t, []string{"ar", "he"}, cli.Languages.Codes)

	_, err = parser.Parse([]string{"languages", "--format", "xml"})
	assert.Error(t, err)
}
