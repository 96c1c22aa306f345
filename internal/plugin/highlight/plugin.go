// Package highlight provides the syntax-highlighting plugin. Executing it adds
// the "highlight" capability to the render context; the renderer uses those
// settings to transform fenced code blocks.
package highlight

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "syntaxhighlight"

// Option keys accepted at registration.
const (
	OptStyle       = "style"
	OptLineNumbers = "lineNumbers"
	OptTabWidth    = "tabWidth"
	OptNoClasses   = "noClasses"
)

// Default settings, matching the site's historical markup config.
const (
	DefaultStyle    = "github"
	DefaultTabWidth = 4
)

// Plugin is the syntax-highlighting plugin. The zero value is ready to use.
type Plugin struct{}

// New returns the plugin.
func New() *Plugin { return &Plugin{} }

// Metadata returns the plugin metadata.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:         Name,
		Version:      "v1.0.0",
		Type:         plugin.PluginTypeMarkup,
		Description:  "Highlights fenced code blocks at render time",
		Capabilities: []string{plugin.CapabilityHighlight.String()},
	}
}

// Validate checks option types. Unknown keys are rejected so typos surface early.
func (p *Plugin) Validate(options map[string]any) error {
	for k, v := range options {
		switch k {
		case OptStyle:
			if s, ok := v.(string); !ok || s == "" {
				return fmt.Errorf("%s must be a non-empty string", OptStyle)
			}
		case OptLineNumbers, OptNoClasses:
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%s must be a boolean", k)
			}
		case OptTabWidth:
			n, ok := v.(int)
			if !ok || n < 1 {
				return fmt.Errorf("%s must be a positive integer", OptTabWidth)
			}
		default:
			return fmt.Errorf("unknown option %q", k)
		}
	}
	return nil
}

// Execute contributes the highlight capability.
func (p *Plugin) Execute(_ context.Context, pluginCtx *plugin.PluginContext) error {
	settings := map[string]any{
		"style":     pluginCtx.GetString(OptStyle, DefaultStyle),
		"lineNos":   pluginCtx.GetBool(OptLineNumbers, false),
		"tabWidth":  pluginCtx.GetInt(OptTabWidth, DefaultTabWidth),
		"noClasses": pluginCtx.GetBool(OptNoClasses, false),
	}
	return pluginCtx.Provide(plugin.CapabilityHighlight, settings)
}
