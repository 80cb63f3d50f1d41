// Package config loads kerf settings. Sources are layered, lowest first:
// built-in defaults, a kerf.yaml file, KERF_* environment variables and
// explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/chazu/kerf/internal/logging"
	"github.com/chazu/kerf/pkg/export"
	"github.com/chazu/kerf/pkg/tessellate"
)

// FileName and FileNameAlt are the config file names looked up in the
// working directory.
const (
	FileName    = "kerf.yaml"
	FileNameAlt = "kerf.yml"
)

// EnvPrefix prefixes environment overrides: KERF_RESOLUTION sets resolution.
const EnvPrefix = "KERF_"

// Kernel backends selectable with the kernel key.
const (
	KernelBSP  = "bsp"
	KernelSDFX = "sdfx"
)

// Config holds the settings shared by every command.
type Config struct {
	// Resolution is the segment count for circular features.
	Resolution int `koanf:"resolution"`
	// Format is the artifact format used when the output path has no known
	// extension.
	Format string `koanf:"format"`
	// Workers bounds concurrent kernel operations; zero means GOMAXPROCS.
	Workers   int    `koanf:"workers"`
	LogLevel  string `koanf:"log_level"`
	OutputDir string `koanf:"output_dir"`
	Kernel    string `koanf:"kernel"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// keys lists the settings flags may override.
var keys = map[string]bool{
	"resolution": true,
	"format":     true,
	"workers":    true,
	"log_level":  true,
	"output_dir": true,
	"kernel":     true,
}

func defaults() map[string]any {
	return map[string]any{
		"resolution": tessellate.DefaultResolution,
		"format":     string(export.OFF),
		"workers":    0,
		"log_level":  "info",
		"output_dir": ".",
		"kernel":     KernelBSP,
	}
}

// Load reads the configuration. An empty cfgFile looks for kerf.yaml or
// kerf.yml in the working directory; a missing file is not an error unless
// it was named explicitly. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// KERF_OUTPUT_DIR -> output_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !f.Changed || !keys[key] {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicit, nil
	}
	for _, name := range []string{FileName, FileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Resolution < 3 {
		errs = append(errs, fmt.Errorf("resolution must be at least 3, got %d", c.Resolution))
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: unknown %q", c.Format))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if !logging.Valid(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level: unknown %q", c.LogLevel))
	}
	switch c.Kernel {
	case KernelBSP, KernelSDFX:
	default:
		errs = append(errs, fmt.Errorf("kernel: unknown %q (want %s or %s)", c.Kernel, KernelBSP, KernelSDFX))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// ExportFormat returns the configured default format.
func (c *Config) ExportFormat() export.Format {
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return export.OFF
	}
	return f
}

// OutputPath resolves name against OutputDir unless it is absolute.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) || c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
