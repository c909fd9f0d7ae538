package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thiremani/cgen/ast"
	"github.com/thiremani/cgen/csyntax"
	"github.com/thiremani/cgen/parser"
)

// RenderUnit loads the unit description at path and renders it at width. The
// rendered C is checked for well-formedness before it is returned.
func RenderUnit(ctx context.Context, path string, width int) (*parser.Unit, []byte, error) {
	u, err := parser.LoadUnit(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := u.Build(ast.NewModuleCtx())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	src := []byte(m.Render(width))
	if err := csyntax.Check(ctx, src); err != nil {
		return nil, nil, fmt.Errorf("%s: rendered C: %w", path, err)
	}
	return u, src, nil
}

// WriteC checks src and writes it to path, creating parent directories.
func WriteC(ctx context.Context, path string, src []byte) error {
	if err := csyntax.Check(ctx, src); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
