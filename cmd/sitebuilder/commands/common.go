package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// LogLevelEnv overrides the settings file log level.
const LogLevelEnv = "SITEBUILDER_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output; stdout when nil.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Settings file path" default:"sitebuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build     BuildCmd     `cmd:"" help:"Copy passthrough assets and render the site"`
	Resolve   ResolveCmd   `cmd:"" help:"Print the resolved build configuration"`
	Languages LanguagesCmd `cmd:"" help:"List the languages exposed to templates"`
	Init      InitCmd      `cmd:"" help:"Initialize a new settings file"`
}

// AfterApply runs after flag parsing; installs a logger before any settings are read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(c.logLevel(""), config.LogFormatText, os.Stderr))
	return nil
}

// LoadSettings reads the settings file (defaults when it is absent) and
// reconfigures logging from it.
func (c *CLI) LoadSettings() (*config.Settings, error) {
	s, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(c.logLevel(s.Log.Level), s.Log.Format, os.Stderr))
	return s, nil
}

// logLevel picks the level: --verbose, then SITEBUILDER_LOG_LEVEL, then the settings file.
func (c *CLI) logLevel(fromFile config.LogLevel) config.LogLevel {
	if c.Verbose {
		return config.LogLevelDebug
	}
	if env, ok := os.LookupEnv(LogLevelEnv); ok && env != "" {
		return config.NormalizeLogLevel(env)
	}
	return config.NormalizeLogLevel(string(fromFile))
}

func newLogger(level config.LogLevel, format config.LogFormat, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
