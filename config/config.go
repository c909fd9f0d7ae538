// Package config loads the cgen configuration from .cgen/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the cgen configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the cgen configuration directory
const ConfigDirName = ".cgen"

// MinWidth is the narrowest line width accepted for rendered C.
const MinWidth = 20

// Config holds all cgen configuration
type Config struct {
	Printer  PrinterConfig  `yaml:"printer"`
	Compiler CompilerConfig `yaml:"compiler"`
	Tests    TestsConfig    `yaml:"tests"`
}

// PrinterConfig controls how C is laid out
type PrinterConfig struct {
	Width int `yaml:"width"`
}

// CompilerConfig names the C compiler used to build test cases
type CompilerConfig struct {
	CC     string   `yaml:"cc"`
	CFlags []string `yaml:"cflags"`
}

// TestsConfig locates test cases and their generated output
type TestsConfig struct {
	Root   string `yaml:"root"`
	OutDir string `yaml:"out_dir"`
}

// ErrConfigNotFound is returned when no config directory can be found
var ErrConfigNotFound = errors.New("config directory not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .cgen/config.yaml, searching from workDir up the
// directory tree. Without a config directory the defaults are returned.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from path, merges it over the defaults and
// validates the result. A missing file gives the defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindConfigDir locates the .cgen directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .cgen directory in workDir if it doesn't exist.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)
	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return configDir, nil
}

// Validate checks that config values are usable.
func Validate(cfg *Config) error {
	if cfg.Printer.Width < MinWidth {
		return fmt.Errorf("%w: printer.width must be at least %d, got %d",
			ErrInvalidConfig, MinWidth, cfg.Printer.Width)
	}
	if cfg.Compiler.CC == "" {
		return fmt.Errorf("%w: compiler.cc must not be empty", ErrInvalidConfig)
	}
	if cfg.Tests.Root == "" {
		return fmt.Errorf("%w: tests.root must not be empty", ErrInvalidConfig)
	}
	if cfg.Tests.OutDir == "" {
		return fmt.Errorf("%w: tests.out_dir must not be empty", ErrInvalidConfig)
	}
	return nil
}

// SaveDefault writes the default configuration to .cgen/config.yaml in
// workDir and returns its path. An existing file is left alone.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	header := "# cgen configuration\n# Paths are relative to the directory holding .cgen.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return configPath, nil
}

// BaseDir returns the directory relative paths in the configuration resolve
// against: the parent of the .cgen directory above workDir, or workDir itself.
func BaseDir(workDir string) (string, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return filepath.Abs(workDir)
		}
		return "", err
	}
	return filepath.Dir(configDir), nil
}
