package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 80, cfg.Printer.Width)
	assert.Equal(t, "cc", cfg.Compiler.CC)
	assert.Equal(t, []string{"-std=c11"}, cfg.Compiler.CFlags)
	assert.Equal(t, "tests", cfg.Tests.Root)
	assert.Equal(t, "build", cfg.Tests.OutDir)
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"Valid", func(*Config) {}, ""},
		{"MinWidth", func(c *Config) { c.Printer.Width = MinWidth }, ""},
		{"NarrowWidth", func(c *Config) { c.Printer.Width = 19 }, "printer.width must be at least 20, got 19"},
		{"EmptyCC", func(c *Config) { c.Compiler.CC = "" }, "compiler.cc must not be empty"},
		{"NoFlags", func(c *Config) { c.Compiler.CFlags = nil }, ""},
		{"EmptyRoot", func(c *Config) { c.Tests.Root = "" }, "tests.root must not be empty"},
		{"EmptyOutDir", func(c *Config) { c.Tests.OutDir = "" }, "tests.out_dir must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMerge(t *testing.T) {
	loaded := &Config{
		Printer:  PrinterConfig{Width: 100},
		Compiler: CompilerConfig{CFlags: []string{}},
		Tests:    TestsConfig{OutDir: "out"},
	}
	merged := Merge(loaded, DefaultConfig())

	assert.Equal(t, 100, merged.Printer.Width)
	assert.Equal(t, "cc", merged.Compiler.CC)
	assert.Empty(t, merged.Compiler.CFlags)
	assert.Equal(t, "tests", merged.Tests.Root)
	assert.Equal(t, "out", merged.Tests.OutDir)

	merged = Merge(&Config{}, DefaultConfig())
	assert.Equal(t, DefaultConfig(), merged)
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("printer:\n  width: 60\ncompiler:\n  cc: clang\n"), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Printer.Width)
	assert.Equal(t, "clang", cfg.Compiler.CC)
	assert.Equal(t, []string{"-std=c11"}, cfg.Compiler.CFlags)
	assert.Equal(t, "build", cfg.Tests.OutDir)
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("printer: [\n"), 0644))
	_, err = LoadFromPath(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")

	narrow := filepath.Join(dir, "narrow.yaml")
	require.NoError(t, os.WriteFile(narrow, []byte("printer:\n  width: 10\n"), 0644))
	_, err = LoadFromPath(narrow)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	_, err := SaveDefault(root)
	require.NoError(t, err)
	path := filepath.Join(root, ConfigDirName, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("tests:\n  root: cases\n"), 0644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "cases", cfg.Tests.Root)

	base, err := BaseDir(nested)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(base)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindConfigDirMissing(t *testing.T) {
	// Guard against a .cgen directory above the temp dir.
	dir := t.TempDir()
	if _, err := FindConfigDir(filepath.Dir(dir)); err == nil {
		t.Skip("a .cgen directory exists above the temp dir")
	}
	_, err := FindConfigDir(dir)
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigDirName, ConfigFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# cgen configuration")
	assert.Contains(t, string(data), "out_dir: build")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = SaveDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file already exists")
}

func TestEnsureConfigDirFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigDirName), nil, 0644))
	_, err := EnsureConfigDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exists but is not a directory")
}
