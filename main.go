package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thiremani/cgen/config"
	"github.com/thiremani/cgen/harness"
)

type options struct {
	verbose    bool
	configPath string
}

// logger returns the debug logger enabled by --verbose.
func (o *options) logger(cmd *cobra.Command) *log.Logger {
	if !o.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "cgen: ", 0)
}

// load reads the configuration and returns it with the directory its
// relative paths resolve against.
func (o *options) load() (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}
	if o.configPath == "" {
		cfg, err := config.Load(cwd)
		if err != nil {
			return nil, "", err
		}
		base, err := config.BaseDir(cwd)
		if err != nil {
			return nil, "", err
		}
		return cfg, base, nil
	}

	path, err := filepath.Abs(o.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("config file: %w", err)
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	base := filepath.Dir(path)
	if filepath.Base(base) == config.ConfigDirName {
		base = filepath.Dir(base)
	}
	return cfg, base, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "cgen",
		Short: "Render C translation units and run their tests",
		Long: `cgen renders C translation units described in YAML and runs the test cases
under the configured tests root.

Examples:
  cgen render tests/bless/basic_math.yaml     # print the rendered C
  cgen test                                   # run every test case
  cgen test --bless                           # update blessed output`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Echo external commands and rendered files")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: .cgen/config.yaml)")

	root.AddCommand(
		newRenderCmd(opts),
		newTestCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

func addWidthFlag(fs *pflag.FlagSet, width *int) {
	fs.IntVarP(width, "width", "w", 0, "Line width (default: printer.width from config)")
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		width  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "render <unit.yaml>",
		Short: "Render a unit description to C",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				cfg.Printer.Width = width
				if err := config.Validate(cfg); err != nil {
					return err
				}
			}

			_, src, err := harness.RenderUnit(cmd.Context(), args[0], cfg.Printer.Width)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(src)
				return err
			}
			if err := harness.WriteC(cmd.Context(), output, src); err != nil {
				return err
			}
			opts.logger(cmd).Printf("rendered %s to %s", args[0], output)
			return nil
		},
	}
	addWidthFlag(cmd.Flags(), &width)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the C to this file instead of stdout")
	return cmd
}

func newTestCmd(opts *options) *cobra.Command {
	var bless bool
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the test cases under the tests root",
		Long: `Run the test cases under the tests root. Each unit description is rendered to
C under the output directory, then:

  auxiliary/*.yaml   compiled as a library
  examples/*.yaml    compiled and linked
  codegen/*.yaml     matched against the unit's checks
  bless/*.yaml       compared with the blessed <name>.c next to the unit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, base, err := opts.load()
			if err != nil {
				return err
			}
			r := harness.NewRunner(cfg, base, cmd.OutOrStdout(), opts.logger(cmd))
			r.Bless = bless
			return r.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&bless, "bless", false, "Update the blessed output")
	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .cgen/config.yaml with the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path := filepath.Join(cwd, config.ConfigDirName, config.ConfigFileName)
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", filepath.Join(config.ConfigDirName, config.ConfigFileName))
				return nil
			}
			if _, err := config.SaveDefault(cwd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized cgen configuration at %s\n", filepath.Join(config.ConfigDirName, config.ConfigFileName))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
