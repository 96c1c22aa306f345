package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/resolver"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Variant string `help:"Configuration variant (minimal|localized); defaults to the settings file"`
	Format  string `short:"f" help:"Output format" enum:"yaml,json" default:"yaml"`
	Out     string `help:"Write to this file instead of stdout"`
}

// Resolved is the document printed by the resolve command.
type Resolved struct {
	Variant       string              `yaml:"variant" json:"variant"`
	Config        config.EngineConfig `yaml:"config" json:"config"`
	Registrations []RegistrationView  `yaml:"registrations" json:"registrations"`
}

// RegistrationView is the printable form of a site.Registration.
type RegistrationView struct {
	Kind    site.RegistrationKind `yaml:"kind" json:"kind"`
	Name    string                `yaml:"name" json:"name"`
	Options map[string]any        `yaml:"options,omitempty" json:"options,omitempty"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	settings, err := root.LoadSettings()
	if err != nil {
		return err
	}
	return r.run(g.out(), settings)
}

func (r *ResolveCmd) run(out io.Writer, settings *config.Settings) error {
	variant := settings.Variant
	if r.Variant != "" {
		variant = r.Variant
	}
	setup, err := resolver.Lookup(variant)
	if err != nil {
		return err
	}

	res := resolver.Resolve(setup)
	if err := res.Engine.Err(); err != nil {
		return err
	}
	doc := Resolved{Variant: variant, Config: res.Config}
	doc.Config.Dir = doc.Config.Dir.WithOverrides(settings.Dir)
	for _, reg := range res.Engine.Registrations() {
		doc.Registrations = append(doc.Registrations, viewOf(reg))
	}

	data, err := encode(doc, r.Format)
	if err != nil {
		return err
	}
	if r.Out == "" {
		_, err = out.Write(data)
		return err
	}
	if err := renameio.WriteFile(r.Out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.Out, err)
	}
	slog.Info("Resolved configuration written", logfields.Path(r.Out), logfields.Variant(variant))
	return nil
}

func viewOf(reg site.Registration) RegistrationView {
	v := RegistrationView{Kind: reg.Kind}
	switch reg.Kind {
	case site.KindPlugin:
		v.Name = reg.Plugin.Metadata().Name
		v.Options = reg.Options
	case site.KindPassthrough:
		v.Name = reg.Path
	case site.KindGlobalData:
		v.Name = reg.Key
	}
	return v
}

func encode(v any, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case "", "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
