// Package harness runs the test cases under a tests root. Each case is a unit
// description rendered to C and then compiled, file checked or compared with
// blessed output, depending on the directory it lives in.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	UnitSuffix = ".yaml"
	CSuffix    = ".c"
	ObjSuffix  = ".o"
)

type Kind int

const (
	// CompileLib builds the rendered C as an object file.
	CompileLib Kind = iota
	// Compile builds and links the rendered C as an executable.
	Compile
	// FileCheck matches the unit's checks against the rendered C.
	FileCheck
	// Bless compares the rendered C with the blessed file next to the unit.
	Bless
)

// kindDirs is also the order cases run in: libraries build first.
var kindDirs = [...]string{
	CompileLib: "auxiliary",
	Compile:    "examples",
	FileCheck:  "codegen",
	Bless:      "bless",
}

var kindVerbs = [...]string{
	CompileLib: "Compiling lib",
	Compile:    "Compiling",
	FileCheck:  "File checking",
	Bless:      "Blessing",
}

func (k Kind) String() string { return kindDirs[k] }

// Case is one unit description and where its output goes.
type Case struct {
	Name   string // kind directory and file stem, e.g. "codegen/basic_math"
	Kind   Kind
	Source string // the unit description
	Output string // the rendered C
}

// Reference is the blessed output of a Bless case.
func (c Case) Reference() string {
	return strings.TrimSuffix(c.Source, UnitSuffix) + CSuffix
}

// Artifact is the file the C compiler produces for Compile and CompileLib.
func (c Case) Artifact() string {
	stem := strings.TrimSuffix(c.Output, CSuffix)
	if c.Kind == CompileLib {
		return stem + ObjSuffix
	}
	if runtime.GOOS == "windows" {
		return stem + ".exe"
	}
	return stem
}

// Discover lists the cases under root in run order. Output paths are placed
// under outDir/<kind>/.
func Discover(root, outDir string) ([]Case, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("tests root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tests root %s is not a directory", root)
	}

	var cases []Case
	for k, dir := range kindDirs {
		matches, err := filepath.Glob(filepath.Join(root, dir, "*"+UnitSuffix))
		if err != nil {
			return nil, fmt.Errorf("glob %s cases: %w", dir, err)
		}
		for _, src := range matches {
			stem := strings.TrimSuffix(filepath.Base(src), UnitSuffix)
			cases = append(cases, Case{
				Name:   dir + "/" + stem,
				Kind:   Kind(k),
				Source: src,
				Output: filepath.Join(outDir, dir, stem+CSuffix),
			})
		}
	}
	return cases, nil
}
