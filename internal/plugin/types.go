package plugin

// PluginType identifies the category of plugin.
type PluginType string

const (
	// PluginTypeMarkup extends how content is rendered (highlighting, anchors).
	PluginTypeMarkup PluginType = "markup"
)

// IsValid returns true if the plugin type is recognized.
func (t PluginType) IsValid() bool {
	switch t {
	case PluginTypeMarkup:
		return true
	default:
		return false
	}
}

// String returns the string representation of the plugin type.
func (t PluginType) String() string {
	return string(t)
}

// PluginCapability names a feature a plugin adds to the render pipeline.
type PluginCapability string

const (
	// CapabilityHighlight transforms fenced code blocks into highlighted markup.
	CapabilityHighlight PluginCapability = "highlight"
)

// String returns the string representation of the capability.
func (c PluginCapability) String() string {
	return string(c)
}
