// Package pretty is a small box/break pretty printer.
//
// Callers describe a document with words, breaks and boxes. Rendering happens
// in two passes: every node is first measured as if it were printed on one
// line, then the document is walked once and each break is turned into either
// blanks or a newline. A consistent box breaks all of its breaks or none of
// them; an inconsistent box decides break by break. Output depends only on the
// document and the configured width.
package pretty

import (
	"strings"
	"unicode/utf8"
)

const (
	// INDENT is the nesting step used by generated C.
	INDENT = 2
	// DefaultWidth is the line width used when none is configured.
	DefaultWidth = 80
)

// infinite is the measured width of anything containing a hard break.
const infinite = 1 << 30

// Print is implemented by everything that can render itself into a document.
type Print interface {
	PrintTo(p *Printer)
}

type nodeKind int

const (
	textNode nodeKind = iota
	breakNode
	boxNode
)

type node struct {
	kind nodeKind

	text string // textNode

	blanks int  // breakNode: spaces when not broken
	hard   bool // breakNode: always a newline

	offset     int // breakNode, boxNode: extra indentation
	consistent bool
	children   []*node

	flat int // width when printed on one line
}

// Printer accumulates a document. The zero value is not usable; use NewPrinter.
type Printer struct {
	width int
	root  *node
	stack []*node
}

// NewPrinter returns an empty document rendered at the given line width.
func NewPrinter(width int) *Printer {
	if width <= 0 {
		width = DefaultWidth
	}
	root := &node{kind: boxNode}
	return &Printer{width: width, root: root, stack: []*node{root}}
}

// Width returns the configured line width.
func (p *Printer) Width() int { return p.width }

func (p *Printer) top() *node { return p.stack[len(p.stack)-1] }

func (p *Printer) push(n *node) {
	top := p.top()
	top.children = append(top.children, n)
}

// Word emits literal text. Text never contains a newline; use Hardbreak.
func (p *Printer) Word(s string) {
	if strings.ContainsRune(s, '\n') {
		panic("pretty: Word called with a newline in " + quote(s))
	}
	if s == "" {
		return
	}
	p.push(&node{kind: textNode, text: s})
}

// Space is a soft break rendered as one blank when the line fits.
func (p *Printer) Space() { p.Break(1, 0) }

// Zerobreak is a soft break that disappears when the line fits.
func (p *Printer) Zerobreak() { p.Break(0, 0) }

// Break emits a soft break. When broken the new line is indented offset
// columns past the enclosing box's indentation.
func (p *Printer) Break(blanks, offset int) {
	p.push(&node{kind: breakNode, blanks: blanks, offset: offset})
}

// Hardbreak always ends the line.
func (p *Printer) Hardbreak() {
	p.push(&node{kind: breakNode, hard: true})
}

// IBox runs f inside an inconsistent box indented indent columns.
func (p *Printer) IBox(indent int, f func(p *Printer)) { p.box(indent, false, f) }

// CBox runs f inside a consistent box indented indent columns.
func (p *Printer) CBox(indent int, f func(p *Printer)) { p.box(indent, true, f) }

func (p *Printer) box(indent int, consistent bool, f func(p *Printer)) {
	b := &node{kind: boxNode, offset: indent, consistent: consistent}
	p.push(b)
	p.stack = append(p.stack, b)
	defer func() { p.stack = p.stack[:len(p.stack)-1] }()
	f(p)
}

// Print renders n into the document.
func (p *Printer) Print(n Print) { n.PrintTo(p) }

// String renders the document accumulated so far.
func (p *Printer) String() string {
	if len(p.stack) != 1 {
		panic("pretty: String called inside an open box")
	}
	measure(p.root)
	r := &renderer{width: p.width}
	r.box(p.root, 0)
	return r.out.String()
}

// Render prints every node into a fresh document of the given width.
func Render(width int, nodes ...Print) string {
	p := NewPrinter(width)
	for _, n := range nodes {
		n.PrintTo(p)
	}
	return p.String()
}

func measure(n *node) int {
	switch n.kind {
	case textNode:
		n.flat = utf8.RuneCountInString(n.text)
	case breakNode:
		if n.hard {
			n.flat = infinite
		} else {
			n.flat = n.blanks
		}
	case boxNode:
		n.flat = 0
		for _, c := range n.children {
			n.flat = add(n.flat, measure(c))
		}
	}
	return n.flat
}

func add(a, b int) int {
	if a >= infinite || b >= infinite || a+b >= infinite {
		return infinite
	}
	return a + b
}

type renderer struct {
	width int
	out   strings.Builder

	col        int // column including pending indentation and blanks
	lineIndent int // indentation of the current line
	pending    int // spaces owed before the next word
}

func (r *renderer) box(b *node, trail int) {
	indent := r.lineIndent + b.offset
	broken := b.consistent && r.col+add(b.flat, trail) > r.width
	for i, c := range b.children {
		switch c.kind {
		case textNode:
			r.word(c.text)
		case boxNode:
			r.box(c, following(b, i, trail))
		case breakNode:
			switch {
			case c.hard, broken:
				r.newline(indent + c.offset)
			case !b.consistent && r.col+add(c.blanks, following(b, i, trail)) > r.width:
				r.newline(indent + c.offset)
			default:
				r.pending += c.blanks
				r.col += c.blanks
			}
		}
	}
}

// following returns the width printed after child i of b before the next
// chance to break.
func following(b *node, i, trail int) int {
	w := 0
	for _, c := range b.children[i+1:] {
		if c.kind == breakNode {
			return w
		}
		w = add(w, c.flat)
	}
	return add(w, trail)
}

func (r *renderer) word(s string) {
	if r.pending > 0 {
		r.out.WriteString(strings.Repeat(" ", r.pending))
		r.pending = 0
	}
	r.out.WriteString(s)
	r.col += utf8.RuneCountInString(s)
}

func (r *renderer) newline(indent int) {
	if indent < 0 {
		indent = 0
	}
	r.out.WriteByte('\n')
	r.lineIndent = indent
	r.pending = indent
	r.col = indent
}

func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\n", `\n`) + "\""
}
