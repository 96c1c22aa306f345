package highlight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
)

func TestMetadata(t *testing.T) {
	md := New().Metadata()
	require.NoError(t, md.Validate())
	assert.Equal(t, Name, md.Name)
	assert.Equal(t, plugin.PluginTypeMarkup, md.Type)
	assert.Equal(t, []string{"highlight"}, md.Capabilities)
}

func TestValidate(t *testing.T) {
	p := New()

	require.NoError(t, p.Validate(nil))
	require.NoError(t, p.Validate(map[string]any{OptStyle: "monokai", OptLineNumbers: true, OptTabWidth: 2}))

	tests := []map[string]any{
		{OptStyle: ""},
		{OptStyle: 3},
		{OptLineNumbers: "yes"},
		{OptTabWidth: 0},
		{"colour": "red"},
	}
	for _, opts := range tests {
		assert.Error(t, p.Validate(opts), "%v", opts)
	}
}

func TestExecuteProvidesDefaults(t *testing.T) {
	sink := map[string]map[string]any{}
	pc := plugin.NewPluginContext(context.Background(), nil, config.DefaultEngineConfig(), "b1", nil, sink)

	require.NoError(t, New().Execute(context.Background(), pc))

	assert.Equal(t, map[string]any{
		"style":     DefaultStyle,
		"lineNos":   false,
		"tabWidth":  DefaultTabWidth,
		"noClasses": false,
	}, sink["highlight"])
}

func TestExecuteUsesOptions(t *testing.T) {
	sink := map[string]map[string]any{}
	opts := map[string]any{OptStyle: "dracula", OptLineNumbers: true, OptTabWidth: 2}
	pc := plugin.NewPluginContext(context.Background(), nil, config.DefaultEngineConfig(), "b1", opts, sink)

	require.NoError(t, New().Execute(context.Background(), pc))
	assert.Equal(t, "dracula", sink["highlight"]["style"])
	assert.Equal(t, true, sink["highlight"]["lineNos"])
	assert.Equal(t, 2, sink["highlight"]["tabWidth"])

	require.Error(t, New().Execute(context.Background(), pc), "capability can only be provided once")
}
