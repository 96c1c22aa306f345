package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// DefaultSettingsFile is the settings file looked up when no -c flag is given.
const DefaultSettingsFile = "sitebuilder.yaml"

// Variant names selectable from the settings file or the CLI.
const (
	VariantMinimal   = "minimal"
	VariantLocalized = "localized"
)

// Settings is the on-disk configuration of the sitebuilder CLI. It selects a
// resolver variant and tunes the build host; the resolved EngineConfig itself
// comes from code.
type Settings struct {
	Variant string         `yaml:"variant"`
	Root    string         `yaml:"root,omitempty"`
	Clean   bool           `yaml:"clean,omitempty"`
	Dir     DirectoryMap   `yaml:"dir,omitempty"`
	Log     LogSettings    `yaml:"log,omitempty"`
	Metrics MetricSettings `yaml:"metrics,omitempty"`
}

// LogSettings controls the slog handler.
type LogSettings struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricSettings controls Prometheus textfile export.
type MetricSettings struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads the settings file at path. Environment variables from .env or
// .env.local are loaded first (existing variables win) and ${VAR} references
// in the file are expanded.
func Load(path string) (*Settings, error) {
	loadEnvFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, serrors.ConfigNotFound(path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &s); err != nil {
		return nil, serrors.ConfigInvalid(path, err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadOrDefault behaves like Load but returns Defaults when the file does not exist.
func LoadOrDefault(path string) (*Settings, error) {
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return s, err
}

// Defaults returns settings for the minimal variant rooted at the working directory.
func Defaults() *Settings {
	s := &Settings{}
	_ = s.normalize()
	return s
}

func (s *Settings) normalize() error {
	s.Variant = strings.ToLower(strings.TrimSpace(s.Variant))
	if s.Variant == "" {
		s.Variant = VariantMinimal
	}
	if s.Variant != VariantMinimal && s.Variant != VariantLocalized {
		return serrors.ValidationFailed("variant", fmt.Sprintf("unknown variant %q", s.Variant))
	}
	if s.Root == "" {
		s.Root = "."
	}
	s.Log.Level = NormalizeLogLevel(string(s.Log.Level))
	s.Log.Format = NormalizeLogFormat(string(s.Log.Format))
	return nil
}

// loadEnvFile loads the first of .env / .env.local that parses.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}

// Init writes an example settings file. An existing file is only replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Settings{
		Variant: VariantLocalized,
		Root:    ".",
		Clean:   true,
		Log:     LogSettings{Level: LogLevelInfo, Format: LogFormatText},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	header := "# sitebuilder settings\n" +
		"# variant: minimal | localized\n" +
		"# dir: overrides for input/output/includes/layouts (optional)\n"
	if err := renameio.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
