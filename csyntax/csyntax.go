// Package csyntax reads generated C back with the tree-sitter C grammar. It
// checks that a rendered unit is well formed and recovers the type each
// declaration spells, so that printed declarators can be compared with the
// types they were printed from.
package csyntax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// ErrSyntax is matched by every error reporting malformed C.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates the first malformed construct in a source file.
type SyntaxError struct {
	Line    uint32 // 1-based
	Column  uint32 // 1-based
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error near %q", e.Line, e.Column, e.Snippet)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// parse returns the tree of src. The caller closes the tree.
func parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing C: %w", err)
	}
	return tree, nil
}

// Check reports a *SyntaxError when src is not well-formed C.
func Check(ctx context.Context, src []byte) error {
	tree, err := parse(ctx, src)
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	start := bad.StartPoint()
	snippet := bad.Content(src)
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	return &SyntaxError{Line: start.Row + 1, Column: start.Column + 1, Snippet: snippet}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
