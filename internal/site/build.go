package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/i18n"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
)

// Renderer renders templates once the render context exists. Rendering is
// supplied by the caller; the build host only guarantees it runs last.
type Renderer interface {
	Render(ctx context.Context, rc *RenderContext) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, rc *RenderContext) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, rc *RenderContext) error { return f(ctx, rc) }

// Builder runs one build: setup, plugins, validation, passthrough copy, render.
type Builder struct {
	// Root is the project root every configured path is relative to.
	Root string
	// Setup registers plugins, passthrough rules and global data.
	Setup SetupFunc
	// Overrides replaces directory roles after setup (CLI flags, settings file).
	Overrides config.DirectoryMap
	// Clean removes the output directory before copying.
	Clean bool
	// Renderer is optional.
	Renderer Renderer
	// Recorder defaults to metrics.NoopRecorder.
	Recorder metrics.Recorder
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Report summarizes a build.
type Report struct {
	BuildID      string              `yaml:"build_id" json:"build_id"`
	Config       config.EngineConfig `yaml:"config" json:"config"`
	Plugins      []string            `yaml:"plugins" json:"plugins"`
	Capabilities []string            `yaml:"capabilities" json:"capabilities"`
	DataKeys     []string            `yaml:"data_keys" json:"data_keys"`
	Passthrough  []PassthroughResult `yaml:"passthrough" json:"passthrough"`
	Duration     time.Duration       `yaml:"duration" json:"duration"`
}

// Files returns the total number of files copied.
func (r *Report) Files() int {
	n := 0
	for _, p := range r.Passthrough {
		n += p.Files
	}
	return n
}

// Build runs the build. Registrations all complete, and plugins all execute,
// before the renderer is invoked.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if b.Setup == nil {
		return nil, serrors.InternalError("builder has no setup function", nil)
	}
	recorder := b.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := b.Root
	if root == "" {
		root = "."
	}

	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}
	logger = logger.With(logfields.BuildID(report.BuildID))

	err := b.run(ctx, root, report, recorder, logger)
	report.Duration = time.Since(start)
	recorder.ObserveBuildDuration(report.Duration)

	switch {
	case err == nil:
		recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		logger.Info("Build completed",
			logfields.Files(report.Files()),
			logfields.Duration(report.Duration))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		logger.Warn("Build canceled", logfields.Error(err))
	default:
		recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		logger.Error("Build failed", logfields.Error(err))
	}
	return report, err
}

func (b *Builder) run(ctx context.Context, root string, report *Report, recorder metrics.Recorder, logger *slog.Logger) error {
	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return serrors.Canceled(err)
		}
		t := time.Now()
		err := fn()
		recorder.ObserveStageDuration(name, time.Since(t))
		logger.Debug("Stage finished", logfields.Stage(name), logfields.Duration(time.Since(t)))
		return err
	}

	var (
		engine *Engine
		cfg    config.EngineConfig
		caps   = map[string]map[string]any{}
		rc     *RenderContext
	)

	if err := stage(metrics.StageResolve, func() error {
		engine = NewEngine().WithLogger(logger)
		cfg = b.Setup(engine)
		cfg.Dir = cfg.Dir.WithOverrides(b.Overrides)
		report.Config = cfg
		report.DataKeys = engine.GlobalDataKeys()
		return engine.Err()
	}); err != nil {
		if serrors.IsCategory(err, serrors.CategoryCanceled) {
			return err
		}
		return serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "setup rejected a registration")
	}

	if err := stage(metrics.StagePlugins, func() error {
		return b.runPlugins(ctx, engine, cfg, caps, report, logger)
	}); err != nil {
		return err
	}

	if err := stage(metrics.StageValidate, func() error {
		return b.validate(root, engine, cfg)
	}); err != nil {
		return err
	}

	rc = engine.Freeze(cfg, caps)
	report.Capabilities = rc.Capabilities()

	if err := stage(metrics.StagePassthrough, func() error {
		return b.passthrough(ctx, root, engine.PassthroughRules(), cfg, report, recorder, logger)
	}); err != nil {
		return err
	}

	if b.Renderer == nil {
		return nil
	}
	return stage(metrics.StageRender, func() error {
		if err := b.Renderer.Render(ctx, rc); err != nil {
			return serrors.RenderFailed(err)
		}
		// Registrations attempted from inside the render phase are rejected.
		if err := engine.Err(); err != nil {
			return serrors.RenderFailed(err)
		}
		return nil
	})
}

func (b *Builder) runPlugins(ctx context.Context, engine *Engine, cfg config.EngineConfig, caps map[string]map[string]any, report *Report, logger *slog.Logger) error {
	registry := plugin.NewRegistry()
	for _, r := range engine.Plugins() {
		name := r.Plugin.Metadata().Name
		if registry.Has(name) {
			return serrors.PluginFailed(name, "register", errors.New("plugin added more than once"))
		}
		if err := r.Plugin.Validate(r.Options); err != nil {
			return serrors.PluginFailed(name, "validate", err)
		}
		if err := registry.Register(r.Plugin, r.Options); err != nil {
			return serrors.PluginFailed(name, "register", err)
		}
	}

	for _, entry := range registry.Entries() {
		md := entry.Plugin.Metadata()
		pctx := plugin.NewPluginContext(ctx, logger.With(logfields.Plugin(md.Name)), cfg, report.BuildID, entry.Options, caps)
		if err := entry.Plugin.Execute(ctx, pctx); err != nil {
			return serrors.PluginFailed(md.Name, "execute", err)
		}
		report.Plugins = append(report.Plugins, md.String())
		logger.Debug("Plugin executed", logfields.Plugin(md.Name))
	}
	if n := registry.Count(); n > 0 {
		logger.Info("Plugins executed", slog.Int("plugins", n), slog.Int("capabilities", len(caps)))
	}
	return nil
}

func (b *Builder) validate(root string, engine *Engine, cfg config.EngineConfig) error {
	if err := config.ValidateEngineConfig(cfg); err != nil {
		return err
	}

	input := filepath.Join(root, cfg.Dir.Input)
	info, err := os.Stat(input)
	if err != nil {
		return serrors.Wrap(err, serrors.CategoryValidation, serrors.SeverityFatal, "input directory not found").
			WithContext("path", cfg.Dir.Input)
	}
	if !info.IsDir() {
		return serrors.ValidationFailed("dir.input", fmt.Sprintf("%q is not a directory", cfg.Dir.Input))
	}

	for _, r := range engine.Registrations() {
		if r.Kind != KindGlobalData || r.Key != LanguagesKey {
			continue
		}
		langs, ok := r.Value.(i18n.Languages)
		if !ok {
			return serrors.ValidationFailed("globalData.languages", fmt.Sprintf("unexpected type %T", r.Value))
		}
		if err := langs.Validate(); err != nil {
			return serrors.ValidationFailed("globalData.languages", err.Error())
		}
	}
	return nil
}

func (b *Builder) passthrough(ctx context.Context, root string, rules []string, cfg config.EngineConfig, report *Report, recorder metrics.Recorder, logger *slog.Logger) error {
	if b.Clean {
		output := filepath.Join(root, cfg.Dir.Output)
		if err := os.RemoveAll(output); err != nil {
			return serrors.OutputCleanFailed(output, err)
		}
		logger.Debug("Cleaned output directory", logfields.Path(output))
	}

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return serrors.Canceled(err)
		}
		res, err := copyPassthrough(root, rule, cfg.Dir)
		if err != nil {
			return err
		}
		recorder.ObservePassthrough(rule, res.Files, res.Bytes)
		report.Passthrough = append(report.Passthrough, res)
		logger.Info("Passthrough copied",
			logfields.Rule(rule),
			logfields.Path(res.Destination),
			logfields.Files(res.Files),
			logfields.Bytes(res.Bytes))
	}
	return nil
}
