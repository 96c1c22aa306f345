package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// PluginContext is handed to a plugin's Execute. It exposes the resolved
// configuration and collects the capabilities the plugin contributes.
type PluginContext struct {
	// Context is the standard Go context for cancellation and deadlines.
	Context context.Context

	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Config is the resolved engine configuration.
	Config config.EngineConfig

	// BuildID uniquely identifies this build.
	BuildID string

	// Options are the options the plugin was registered with.
	Options map[string]any

	capabilities map[string]map[string]any
}

// NewPluginContext creates a plugin context. Capabilities provided through it
// are written into sink.
func NewPluginContext(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.EngineConfig,
	buildID string,
	options map[string]any,
	sink map[string]map[string]any,
) *PluginContext {
	if logger == nil {
		logger = slog.Default()
	}
	if options == nil {
		options = map[string]any{}
	}
	return &PluginContext{
		Context:      ctx,
		Logger:       logger,
		Config:       cfg,
		BuildID:      buildID,
		Options:      options,
		capabilities: sink,
	}
}

// Provide contributes a capability with its settings. A capability may only
// be provided once per build.
func (pc *PluginContext) Provide(name PluginCapability, settings map[string]any) error {
	if pc.capabilities == nil {
		return fmt.Errorf("plugin context has no capability sink")
	}
	if _, exists := pc.capabilities[name.String()]; exists {
		return fmt.Errorf("capability %s already provided", name)
	}
	pc.capabilities[name.String()] = maps.Clone(settings)
	pc.Logger.Debug("Capability provided", slog.String("capability", name.String()))
	return nil
}

// GetString retrieves a string option, returning def when absent or mistyped.
func (pc *PluginContext) GetString(key, def string) string {
	if v, ok := pc.Options[key].(string); ok {
		return v
	}
	return def
}

// GetBool retrieves a boolean option, returning def when absent or mistyped.
func (pc *PluginContext) GetBool(key string, def bool) bool {
	if v, ok := pc.Options[key].(bool); ok {
		return v
	}
	return def
}

// GetInt retrieves an integer option, returning def when absent or mistyped.
func (pc *PluginContext) GetInt(key string, def int) int {
	switch v := pc.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}
