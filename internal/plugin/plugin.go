// Package plugin provides the plugin system of the build host. Plugins are
// registered during setup and executed once per build, before any template
// is rendered, to contribute capabilities to the render context.
package plugin

import (
	"context"
	"fmt"
)

// Plugin represents a build plugin with metadata and lifecycle methods.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, type, capabilities).
	Metadata() PluginMetadata

	// Validate checks the options the plugin was registered with.
	Validate(options map[string]any) error

	// Execute runs the plugin. Plugins contribute capabilities through pluginCtx.
	Execute(ctx context.Context, pluginCtx *PluginContext) error
}

// PluginMetadata describes a plugin's identity and capabilities.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "syntaxhighlight").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string

	// Capabilities lists the capabilities this plugin provides when executed.
	Capabilities []string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}
