package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/export"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("resolution", 0, "")
	fs.String("format", "", "")
	fs.Int("workers", 0, "")
	fs.String("log-level", "", "")
	fs.String("output-dir", "", "")
	fs.String("kernel", "", "")
	fs.StringP("output", "o", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Resolution)
	assert.Equal(t, "off", cfg.Format)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, KernelBSP, cfg.Kernel)
	assert.Empty(t, cfg.File)
}

func TestLoadDiscoversFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "resolution: 64\nformat: stl\n")
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Resolution)
	assert.Equal(t, export.STL, cfg.ExportFormat())
	assert.Equal(t, FileName, cfg.File)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "resolution: 64\nworkers: 2\nlog_level: debug\n")
	t.Setenv("KERF_RESOLUTION", "48")
	t.Setenv("KERF_OUTPUT_DIR", "out")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--resolution", "12", "-o", "ignored.off"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Resolution, "flag beats env and file")
	assert.Equal(t, "out", cfg.OutputDir, "env beats default")
	assert.Equal(t, 2, cfg.Workers, "file beats default")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadUnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "format: stl\n")

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "stl", cfg.Format)
	assert.Equal(t, 32, cfg.Resolution)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "resolution: 2\nkernel: cgal\n")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution must be at least 3")
	assert.Contains(t, err.Error(), `kernel: unknown "cgal"`)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Resolution: 32, Format: "off", LogLevel: "info", OutputDir: ".", Kernel: KernelBSP}
	}
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"sdfx kernel", func(c *Config) { c.Kernel = KernelSDFX }, ""},
		{"dotted format", func(c *Config) { c.Format = ".STL" }, ""},
		{"low resolution", func(c *Config) { c.Resolution = 0 }, "resolution"},
		{"bad format", func(c *Config) { c.Format = "obj" }, "format"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestOutputPath(t *testing.T) {
	c := Config{OutputDir: "build"}
	assert.Equal(t, filepath.Join("build", "a.off"), c.OutputPath("a.off"))
	assert.Equal(t, "/tmp/a.off", c.OutputPath("/tmp/a.off"))
	c.OutputDir = ""
	assert.Equal(t, "a.off", c.OutputPath("a.off"))
}
