// Package site is the build host: it collects the registrations made by a
// setup function, validates the resolved configuration, copies passthrough
// assets and hands an immutable render context to the renderer.
package site

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
)

// ErrRegistrationClosed is reported for registrations made after the render
// context was built.
var ErrRegistrationClosed = errors.New("registration after render context was frozen")

// SetupFunc registers plugins, passthrough rules and global data on the
// engine and returns the directory and template engine configuration.
type SetupFunc func(e *Engine) config.EngineConfig

// RegistrationKind classifies a Registration.
type RegistrationKind string

const (
	KindPlugin      RegistrationKind = "plugin"
	KindPassthrough RegistrationKind = "passthrough"
	KindGlobalData  RegistrationKind = "globalData"
)

// Registration is one recorded setup call.
type Registration struct {
	Kind    RegistrationKind
	Plugin  plugin.Plugin
	Options map[string]any
	Path    string
	Key     string
	Value   any
}

// String renders the registration for logs and the resolve command.
func (r Registration) String() string {
	switch r.Kind {
	case KindPlugin:
		return fmt.Sprintf("plugin %s", r.Plugin.Metadata().Name)
	case KindPassthrough:
		return fmt.Sprintf("passthrough %s", r.Path)
	case KindGlobalData:
		return fmt.Sprintf("globalData %s", r.Key)
	default:
		return string(r.Kind)
	}
}

// Engine accumulates registration intents in call order. Setup calls never
// fail; problems surface when the build applies the registrations.
type Engine struct {
	mu            sync.Mutex
	registrations []Registration
	frozen        bool
	late          []error
	logger        *slog.Logger
}

// NewEngine returns an empty engine.
func NewEngine() *Engine {
	return &Engine{logger: slog.Default()}
}

// WithLogger sets the logger used for registration diagnostics.
func (e *Engine) WithLogger(l *slog.Logger) *Engine {
	if l != nil {
		e.logger = l
	}
	return e
}

// AddPlugin registers a plugin with optional options.
func (e *Engine) AddPlugin(p plugin.Plugin, options map[string]any) {
	if p == nil {
		e.record(Registration{Kind: KindPlugin}, fmt.Errorf("nil plugin"))
		return
	}
	e.record(Registration{Kind: KindPlugin, Plugin: p, Options: options}, nil)
}

// AddPassthroughCopy declares a file or directory, relative to the project
// root, to be copied unchanged into the output tree.
func (e *Engine) AddPassthroughCopy(path string) {
	e.record(Registration{Kind: KindPassthrough, Path: path}, nil)
}

// AddGlobalData binds value to key for every template rendered during the build.
func (e *Engine) AddGlobalData(key string, value any) {
	e.record(Registration{Kind: KindGlobalData, Key: key, Value: value}, nil)
}

func (e *Engine) record(r Registration, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		e.late = append(e.late, fmt.Errorf("%s: %w", r, ErrRegistrationClosed))
		return
	}
	if err != nil {
		e.late = append(e.late, fmt.Errorf("%s: %w", r.Kind, err))
		return
	}
	e.registrations = append(e.registrations, r)
}

// Registrations returns every registration in call order.
func (e *Engine) Registrations() []Registration {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Registration, len(e.registrations))
	copy(out, e.registrations)
	return out
}

// PassthroughRules returns the declared passthrough paths in call order.
func (e *Engine) PassthroughRules() []string {
	return collect(e.Registrations(), KindPassthrough, func(r Registration) string { return r.Path })
}

// Plugins returns the plugin registrations in call order.
func (e *Engine) Plugins() []Registration {
	var out []Registration
	for _, r := range e.Registrations() {
		if r.Kind == KindPlugin {
			out = append(out, r)
		}
	}
	return out
}

// GlobalDataKeys returns the distinct global data keys in first-registration order.
func (e *Engine) GlobalDataKeys() []string {
	seen := map[string]bool{}
	var keys []string
	for _, k := range collect(e.Registrations(), KindGlobalData, func(r Registration) string { return r.Key }) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// Err reports registrations that were rejected (nil plugins, calls after freeze).
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return errors.Join(e.late...)
}

// Freeze closes the engine to further registrations and builds the render
// context. Later global data under the same key replaces earlier values.
func (e *Engine) Freeze(cfg config.EngineConfig, capabilities map[string]map[string]any) *RenderContext {
	e.mu.Lock()
	e.frozen = true
	regs := make([]Registration, len(e.registrations))
	copy(regs, e.registrations)
	e.mu.Unlock()

	data := make(map[string]any)
	for _, r := range regs {
		if r.Kind != KindGlobalData {
			continue
		}
		if _, dup := data[r.Key]; dup {
			e.logger.Warn("Global data key registered more than once; last value wins", logfields.DataKey(r.Key))
		}
		data[r.Key] = cloneValue(r.Value)
	}
	return newRenderContext(cfg, data, capabilities)
}

func collect(regs []Registration, kind RegistrationKind, f func(Registration) string) []string {
	var out []string
	for _, r := range regs {
		if r.Kind == kind {
			out = append(out, f(r))
		}
	}
	return out
}
