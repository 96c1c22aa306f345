// Package resolver holds the site's build configuration: the setup functions
// that register the highlighting plugin, passthrough assets and language
// data, and return the directory conventions.
package resolver

import (
	"fmt"
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin/highlight"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// Passthrough paths, relative to the project root, in registration order.
var (
	minimalPassthrough   = []string{"src/css", "src/images"}
	localizedPassthrough = []string{"src/js", "src/fonts"}
)

// Minimal registers syntax highlighting and the stylesheet and image
// passthrough rules.
func Minimal(e *site.Engine) config.EngineConfig {
	e.AddPlugin(highlight.New(), nil)
	for _, p := range minimalPassthrough {
		e.AddPassthroughCopy(p)
	}
	return config.DefaultEngineConfig()
}

// Localized is Minimal plus script and font passthrough and the language
// table published as the "languages" global data.
func Localized(e *site.Engine) config.EngineConfig {
	cfg := Minimal(e)
	for _, p := range localizedPassthrough {
		e.AddPassthroughCopy(p)
	}
	e.AddGlobalData(site.LanguagesKey, i18n.Supported())
	return cfg
}

var variants = map[string]site.SetupFunc{
	config.VariantMinimal:   Minimal,
	config.VariantLocalized: Localized,
}

// Variants returns the known variant names in lexical order.
func Variants() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the setup function of a variant.
func Lookup(name string) (site.SetupFunc, error) {
	setup, ok := variants[name]
	if !ok {
		return nil, serrors.ValidationFailed("variant",
			fmt.Sprintf("unknown variant %q (known: %v)", name, Variants()))
	}
	return setup, nil
}

// Resolution is the outcome of running a setup function on a fresh engine.
type Resolution struct {
	Config config.EngineConfig
	Engine *site.Engine
}

// Resolve runs setup on a fresh engine. It performs no I/O and no validation;
// running it twice yields equal results.
func Resolve(setup site.SetupFunc) Resolution {
	e := site.NewEngine()
	return Resolution{Config: setup(e), Engine: e}
}
