package site

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
)

// LanguagesKey is the global data key the language table is published under.
const LanguagesKey = "languages"

// RenderContext is the read-only view every template render receives. It is
// created once per build, after all registrations and plugins have run, and
// passed explicitly to the renderer.
type RenderContext struct {
	cfg          config.EngineConfig
	data         map[string]any
	capabilities map[string]map[string]any
}

func newRenderContext(cfg config.EngineConfig, data map[string]any, capabilities map[string]map[string]any) *RenderContext {
	caps := make(map[string]map[string]any, len(capabilities))
	for k, v := range capabilities {
		caps[k] = maps.Clone(v)
	}
	return &RenderContext{cfg: cfg, data: data, capabilities: caps}
}

// Config returns the resolved engine configuration.
func (rc *RenderContext) Config() config.EngineConfig { return rc.cfg }

// Data returns a copy of the global data value bound to key.
func (rc *RenderContext) Data(key string) (any, bool) {
	v, ok := rc.data[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Keys returns the global data keys in lexical order.
func (rc *RenderContext) Keys() []string {
	return slices.Sorted(maps.Keys(rc.data))
}

// Languages returns the language table when one was registered.
func (rc *RenderContext) Languages() (i18n.Languages, bool) {
	v, ok := rc.data[LanguagesKey]
	if !ok {
		return nil, false
	}
	langs, ok := v.(i18n.Languages)
	if !ok {
		return nil, false
	}
	return langs.Clone(), true
}

// HasCapability reports whether a plugin provided the named capability.
func (rc *RenderContext) HasCapability(name string) bool {
	_, ok := rc.capabilities[name]
	return ok
}

// Capability returns a copy of the settings of a provided capability.
func (rc *RenderContext) Capability(name string) (map[string]any, bool) {
	v, ok := rc.capabilities[name]
	if !ok {
		return nil, false
	}
	return maps.Clone(v), true
}

// Capabilities returns the provided capability names in lexical order.
func (rc *RenderContext) Capabilities() []string {
	return slices.Sorted(maps.Keys(rc.capabilities))
}

// cloneValue copies the container types global data is usually made of so
// renderers cannot mutate what the engine holds. Other values are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case i18n.Languages:
		return t.Clone()
	case map[string]any:
		return maps.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	case []string:
		return slices.Clone(t)
	case []any:
		return slices.Clone(t)
	default:
		return v
	}
}
