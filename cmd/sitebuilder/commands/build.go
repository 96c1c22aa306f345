package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/resolver"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Watch   bool   `short:"w" help:"Keep running and re-copy passthrough assets when they change"`
	Input   string `short:"i" help:"Override the input directory"`
	Output  string `short:"o" help:"Override the output directory"`
	Clean   bool   `help:"Remove the output directory before copying"`
	Variant string `help:"Configuration variant (minimal|localized); defaults to the settings file"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	settings, err := root.LoadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return b.run(ctx, g.out(), settings)
}

func (b *BuildCmd) run(ctx context.Context, out io.Writer, settings *config.Settings) error {
	variant := settings.Variant
	if b.Variant != "" {
		variant = b.Variant
	}
	setup, err := resolver.Lookup(variant)
	if err != nil {
		return err
	}

	overrides := settings.Dir.WithOverrides(config.DirectoryMap{Input: b.Input, Output: b.Output})

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if settings.Metrics.Textfile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}
	flush := func() {
		if prom == nil {
			return
		}
		if err := prom.WriteTextfile(settings.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(settings.Metrics.Textfile), logfields.Error(err))
		}
	}

	logger := slog.Default().With(logfields.Variant(variant))
	builder := &site.Builder{
		Root:      settings.Root,
		Setup:     setup,
		Overrides: overrides,
		Clean:     b.Clean || settings.Clean,
		Recorder:  recorder,
		Logger:    logger,
	}

	_, _ = fmt.Fprintf(out, "Building site (variant %s)\n", variant)
	report, err := builder.Build(ctx)
	flush()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Copied %d files from %d passthrough rules to %s in %s\n",
		report.Files(), len(report.Passthrough), report.Config.Dir.Output, report.Duration.Round(time.Millisecond))

	if !b.Watch {
		return nil
	}

	w := site.NewWatcher(report).WithLogger(logger).WithRecorder(recorder)
	w.OnCopy = func(r site.PassthroughResult, err error) {
		if err == nil {
			_, _ = fmt.Fprintf(out, "Re-copied %s (%d files)\n", r.Rule, r.Files)
		}
		flush()
	}
	_, _ = fmt.Fprintln(out, "Watching passthrough sources; press Ctrl+C to stop")
	return w.Run(ctx)
}
