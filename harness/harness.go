package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/thiremani/cgen/config"
	"github.com/thiremani/cgen/filecheck"
)

// ErrNoChecks is returned for a FileCheck case whose unit has no checks.
var ErrNoChecks = errors.New("no checks")

// Runner runs test cases and reports progress to Out.
type Runner struct {
	Root     string // tests root
	OutDir   string // rendered C and build artifacts
	Width    int
	Compiler Compiler
	Bless    bool // update blessed output instead of comparing
	Out      io.Writer
	Log      *log.Logger
}

// NewRunner returns a Runner for cfg with relative paths resolved against
// base.
func NewRunner(cfg *config.Config, base string, out io.Writer, logger *log.Logger) *Runner {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		Root:   abs(cfg.Tests.Root),
		OutDir: abs(cfg.Tests.OutDir),
		Width:  cfg.Printer.Width,
		Compiler: Compiler{
			CC:     cfg.Compiler.CC,
			CFlags: cfg.Compiler.CFlags,
			Log:    logger,
		},
		Out: out,
		Log: logger,
	}
}

// Run discovers every case and runs them in order, stopping at the first
// failure.
func (r *Runner) Run(ctx context.Context) error {
	cases, err := Discover(r.Root, r.OutDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "[TEST] found %d testcases\n", len(cases))
	for _, c := range cases {
		fmt.Fprintf(r.Out, "%s %s...", kindVerbs[c.Kind], c.Name)
		if err := r.RunCase(ctx, c); err != nil {
			fmt.Fprintln(r.Out, "FAILED")
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		fmt.Fprintln(r.Out, "OK")
	}
	return nil
}

// RunCase renders c and performs the step its kind calls for.
func (r *Runner) RunCase(ctx context.Context, c Case) error {
	u, src, err := RenderUnit(ctx, c.Source, r.Width)
	if err != nil {
		return err
	}
	if err := WriteC(ctx, c.Output, src); err != nil {
		return err
	}
	r.Log.Printf("rendered %s to %s", c.Source, c.Output)

	switch c.Kind {
	case CompileLib, Compile:
		_, err := r.Compiler.Build(ctx, c.Output, c.Artifact(), c.Kind == CompileLib)
		return err
	case FileCheck:
		if u.Checks == "" {
			return fmt.Errorf("%w in %s", ErrNoChecks, c.Source)
		}
		ds, err := filecheck.Parse(u.Checks)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Source, err)
		}
		if len(ds) == 0 {
			return fmt.Errorf("%w in %s", ErrNoChecks, c.Source)
		}
		return filecheck.Match(ds, string(src))
	case Bless:
		return Blessed(ctx, c.Output, c.Reference(), r.OutDir, r.Bless)
	}
	return fmt.Errorf("unknown case kind %d", int(c.Kind))
}
