package ast

import (
	"strings"

	"github.com/thiremani/cgen/pretty"
	"github.com/thiremani/cgen/types"
)

// Helper is a macro emitted in the preamble of every unit that uses it.
type Helper struct {
	Name   string
	Doc    []string // lines of the doc comment
	Params []string
	Body   string
}

// Utos casts an unsigned value to the signed type of the same width,
// wrapping values above the signed maximum.
var Utos = Helper{
	Name: "__rust_utos",
	Doc: []string{
		"cast from unsigned to signed",
		"example: `__rust_utos(uint32_t, int32_t, x, INT32_MAX)`",
	},
	Params: []string{"u", "s", "v", "m"},
	Body:   "((v) <= (m) ? ((s)v) : ((s)((u)(v) - (u)(m) - 1)))",
}

const helperBanner = "/* Some helper macros for the generated code */"

// Module is the translation unit of a ModuleCtx: includes, helper macros,
// declarations and function definitions, printed in that order.
type Module struct {
	mx       *ModuleCtx
	file     string
	includes []string
	helpers  []Helper
	decls    []CDecl
	funcs    []CFunc
}

// SetFile names the generated file in the header comment.
func (m *Module) SetFile(name string) { m.file = name }

func (m *Module) File() string { return m.file }

// Include adds #include <header> once.
func (m *Module) Include(header string) {
	for _, h := range m.includes {
		if h == header {
			return
		}
	}
	m.includes = append(m.includes, header)
}

// IncludeFor adds the header that declares prim, if any.
func (m *Module) IncludeFor(prim types.Prim) {
	if h := prim.Header(); h != "" {
		m.Include(h)
	}
}

// Helper adds a helper macro once, by name.
func (m *Module) Helper(h Helper) {
	if !types.IsIdentifier(h.Name) {
		panic("ast: Helper: " + h.Name + " is not an identifier")
	}
	for _, have := range m.helpers {
		if have.Name == h.Name {
			return
		}
	}
	m.helpers = append(m.helpers, h)
}

// PushDecl appends a file-scope declaration.
func (m *Module) PushDecl(d CDecl) {
	m.mx.ownsDecl("PushDecl", d)
	m.decls = append(m.decls, d)
}

// PushFunc appends a function definition; its prototype is emitted ahead of
// all definitions.
func (m *Module) PushFunc(f CFunc) {
	m.mx.ownsFunc("PushFunc", f)
	m.funcs = append(m.funcs, f)
}

func (m *Module) Decls() []CDecl { return append([]CDecl(nil), m.decls...) }

func (m *Module) Funcs() []CFunc { return append([]CFunc(nil), m.funcs...) }

// Render returns the text of the unit at the given line width.
func (m *Module) Render(width int) string { return pretty.Render(width, m) }

func (m *Module) PrintTo(p *pretty.Printer) {
	var sections []func(p *pretty.Printer)

	if m.file != "" || len(m.includes) > 0 {
		sections = append(sections, func(p *pretty.Printer) {
			var lines []string
			if m.file != "" {
				lines = append(lines, "// file: "+m.file)
			}
			for _, h := range m.includes {
				lines = append(lines, "#include <"+h+">")
			}
			printLines(p, lines)
		})
	}
	if len(m.helpers) > 0 {
		sections = append(sections, func(p *pretty.Printer) { p.Word(helperBanner) })
		for _, h := range m.helpers {
			sections = append(sections, h.PrintTo)
		}
	}
	if len(m.decls) > 0 {
		sections = append(sections, func(p *pretty.Printer) {
			for i, d := range m.decls {
				if i > 0 {
					p.Hardbreak()
				}
				d.PrintTo(p)
			}
		})
	}
	if len(m.funcs) > 0 {
		sections = append(sections, func(p *pretty.Printer) {
			for i, f := range m.funcs {
				if i > 0 {
					p.Hardbreak()
				}
				f.PrintDecl(p)
			}
		})
		for _, f := range m.funcs {
			sections = append(sections, f.PrintTo)
		}
	}

	for i, section := range sections {
		if i > 0 {
			p.Hardbreak()
			p.Hardbreak()
		}
		section(p)
	}
	if len(sections) > 0 {
		p.Hardbreak()
	}
}

// PrintTo prints the doc comment and the #define of h.
func (h Helper) PrintTo(p *pretty.Printer) {
	var lines []string
	for i, d := range h.Doc {
		if i == 0 {
			lines = append(lines, "/** "+d)
		} else {
			lines = append(lines, "  * "+d)
		}
	}
	if len(h.Doc) > 0 {
		lines = append(lines, "  */")
	}
	head := "#define " + h.Name
	if h.Params != nil {
		head += "(" + strings.Join(h.Params, ", ") + ")"
	}
	lines = append(lines, head+" \\", "    "+h.Body)
	printLines(p, lines)
}

func printLines(p *pretty.Printer, lines []string) {
	for i, l := range lines {
		if i > 0 {
			p.Hardbreak()
		}
		p.Word(l)
	}
}

// UtosCall returns __rust_utos(u, s, v, S_MAX), converting v from the
// unsigned type u to the signed type s of the same width, and registers the
// helper and its header with the module.
func (mx *ModuleCtx) UtosCall(u, s types.Prim, v CExpr) CExpr {
	if !u.IsInteger() || u.IsSigned() || !s.IsSigned() || s.MaxMacro() == "" || u.Bits() != s.Bits() {
		panic("ast: UtosCall: cannot convert " + u.String() + " to " + s.String())
	}
	mx.ownsExpr("UtosCall", v)
	m := mx.Module()
	m.Helper(Utos)
	m.IncludeFor(s)
	return mx.Call(
		mx.Value(Name(Utos.Name)),
		mx.Raw(u.String()),
		mx.Raw(s.String()),
		v,
		mx.Value(Name(s.MaxMacro())),
	)
}
