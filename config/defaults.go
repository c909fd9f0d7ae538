package config

// DefaultConfig returns the configuration used when no config file exists or
// a config file leaves fields unset.
func DefaultConfig() *Config {
	return &Config{
		Printer: PrinterConfig{
			Width: 80,
		},
		Compiler: CompilerConfig{
			CC:     "cc",
			CFlags: []string{"-std=c11"},
		},
		Tests: TestsConfig{
			Root:   "tests",
			OutDir: "build",
		},
	}
}

// Merge returns a new Config with loaded values taking precedence over
// defaults. Zero values count as unset.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Printer:  mergePrinterConfig(loaded.Printer, defaults.Printer),
		Compiler: mergeCompilerConfig(loaded.Compiler, defaults.Compiler),
		Tests:    mergeTestsConfig(loaded.Tests, defaults.Tests),
	}
}

func mergePrinterConfig(loaded, defaults PrinterConfig) PrinterConfig {
	result := defaults
	if loaded.Width != 0 {
		result.Width = loaded.Width
	}
	return result
}

func mergeCompilerConfig(loaded, defaults CompilerConfig) CompilerConfig {
	result := CompilerConfig{CC: defaults.CC}
	if loaded.CC != "" {
		result.CC = loaded.CC
	}
	// An explicit empty list clears the default flags.
	if loaded.CFlags != nil {
		result.CFlags = append([]string(nil), loaded.CFlags...)
	} else {
		result.CFlags = append([]string(nil), defaults.CFlags...)
	}
	return result
}

func mergeTestsConfig(loaded, defaults TestsConfig) TestsConfig {
	result := defaults
	if loaded.Root != "" {
		result.Root = loaded.Root
	}
	if loaded.OutDir != "" {
		result.OutDir = loaded.OutDir
	}
	return result
}
