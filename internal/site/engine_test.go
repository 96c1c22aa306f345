package site

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
)

type stubPlugin struct {
	name       string
	capability plugin.PluginCapability
	execErr    error
	executed   *[]string
}

func (s *stubPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{Name: s.name, Version: "v0.0.1", Type: plugin.PluginTypeMarkup}
}

func (s *stubPlugin) Validate(map[string]any) error { return nil }

func (s *stubPlugin) Execute(_ context.Context, pc *plugin.PluginContext) error {
	if s.executed != nil {
		*s.executed = append(*s.executed, s.name)
	}
	if s.execErr != nil {
		return s.execErr
	}
	if s.capability != "" {
		return pc.Provide(s.capability, map[string]any{"by": s.name})
	}
	return nil
}

func TestEnginePreservesCallOrder(t *testing.T) {
	e := NewEngine()
	e.AddPassthroughCopy("src/images")
	e.AddPlugin(&stubPlugin{name: "a"}, nil)
	e.AddGlobalData("site", map[string]any{"title": "Docs"})
	e.AddPassthroughCopy("src/css")
	e.AddPassthroughCopy("src/css/vendor")

	assert.Equal(t, []string{"src/images", "src/css", "src/css/vendor"}, e.PassthroughRules())
	require.Len(t, e.Plugins(), 1)
	assert.Equal(t, []string{"site"}, e.GlobalDataKeys())

	kinds := []RegistrationKind{}
	for _, r := range e.Registrations() {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []RegistrationKind{KindPassthrough, KindPlugin, KindGlobalData, KindPassthrough, KindPassthrough}, kinds)
	assert.NoError(t, e.Err())
}

func TestEngineRejectsNilPlugin(t *testing.T) {
	e := NewEngine()
	e.AddPlugin(nil, nil)

	assert.Empty(t, e.Registrations())
	assert.Error(t, e.Err())
}

func TestEngineFreezeClosesRegistration(t *testing.T) {
	e := NewEngine()
	e.AddGlobalData("a", 1)
	rc := e.Freeze(config.DefaultEngineConfig(), nil)

	e.AddGlobalData("b", 2)
	e.AddPassthroughCopy("late")

	err := e.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegistrationClosed))
	assert.Equal(t, []string{"a"}, rc.Keys())
	assert.Empty(t, e.PassthroughRules())
}

func TestFreezeLastGlobalDataWins(t *testing.T) {
	e := NewEngine()
	e.AddGlobalData("title", "first")
	e.AddGlobalData("title", "second")

	rc := e.Freeze(config.DefaultEngineConfig(), nil)
	v, ok := rc.Data("title")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, []string{"title"}, e.GlobalDataKeys())
}

func TestRenderContextIsReadOnly(t *testing.T) {
	langs := i18n.Supported()
	meta := map[string]any{"title": "Docs"}

	e := NewEngine()
	e.AddGlobalData(LanguagesKey, langs)
	e.AddGlobalData("meta", meta)
	rc := e.Freeze(config.DefaultEngineConfig(), map[string]map[string]any{"highlight": {"style": "github"}})

	// Mutating the registered values after freeze does not leak in.
	delete(langs, "en")
	meta["title"] = "changed"

	got, ok := rc.Languages()
	require.True(t, ok)
	assert.Contains(t, got, "en")

	// Mutating what the context hands out does not leak back.
	delete(got, "fr")
	again, _ := rc.Languages()
	assert.Contains(t, again, "fr")

	m, _ := rc.Data("meta")
	assert.Equal(t, "Docs", m.(map[string]any)["title"])

	hl, ok := rc.Capability("highlight")
	require.True(t, ok)
	hl["style"] = "mutated"
	hl2, _ := rc.Capability("highlight")
	assert.Equal(t, "github", hl2["style"])

	assert.True(t, rc.HasCapability("highlight"))
	assert.False(t, rc.HasCapability("math"))
	assert.Equal(t, []string{"highlight"}, rc.Capabilities())
	assert.Equal(t, []string{LanguagesKey, "meta"}, rc.Keys())
}

func TestRenderContextWithoutLanguages(t *testing.T) {
	e := NewEngine()
	e.AddGlobalData(LanguagesKey, "not a table")
	rc := e.Freeze(config.DefaultEngineConfig(), nil)

	_, ok := rc.Languages()
	assert.False(t, ok)

	_, ok = rc.Data("missing")
	assert.False(t, ok)
}
