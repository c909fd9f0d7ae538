package ast

import (
	"fmt"

	"github.com/thiremani/cgen/pretty"
	"github.com/thiremani/cgen/types"
)

// Param is one named parameter of a function definition.
type Param struct {
	Ty   CTy
	Name CValue
}

// CFunc is a handle to a C function definition.
type CFunc struct {
	mx *ModuleCtx
	id uint32
}

type funcNode struct {
	name     string
	ret      CTy
	params   []Param
	variadic bool
	body     []CStmt
}

// IsValid reports whether f was returned by a constructor.
func (f CFunc) IsValid() bool { return f.mx != nil && f.id != 0 }

func (f CFunc) node() funcNode {
	if !f.IsValid() {
		panic("ast: use of invalid function handle")
	}
	return f.mx.funcs[f.id]
}

// Function returns the definition of name(params) returning ret with the
// given body.
func (mx *ModuleCtx) Function(ret CTy, name string, params []Param, variadic bool, body ...CStmt) CFunc {
	if !types.IsIdentifier(name) {
		panic(fmt.Sprintf("ast: Function: %q is not an identifier", name))
	}
	mx.ownsTy("Function", ret)
	if k := ret.Kind(); k == FuncKind || k == ArrayKind {
		panic(fmt.Sprintf("ast: Function: %s cannot return %s type", name, k))
	}
	if variadic && len(params) == 0 {
		panic(fmt.Sprintf("ast: Function: variadic %s needs a named parameter", name))
	}
	for _, p := range params {
		mx.ownsTy("Function", p.Ty)
		if !p.Name.IsIdent() {
			panic(fmt.Sprintf("ast: Function: parameter %q of %s is not an identifier", p.Name.String(), name))
		}
	}
	for _, s := range body {
		mx.ownsStmt("Function", s)
	}
	return mx.allocFunc(funcNode{
		name:     name,
		ret:      ret,
		params:   append([]Param(nil), params...),
		variadic: variadic,
		body:     append([]CStmt(nil), body...),
	})
}

func (f CFunc) Name() string { return f.node().name }

func (f CFunc) Ret() CTy { return f.node().ret }

func (f CFunc) Params() []Param { return append([]Param(nil), f.node().params...) }

func (f CFunc) Variadic() bool { return f.node().variadic }

func (f CFunc) Body() []CStmt { return append([]CStmt(nil), f.node().body...) }

// Signature spells the declarator of the function with its parameter names,
// e.g. "int64_t foo(uint8_t _0, uint16_t _1)".
func (f CFunc) Signature() string {
	n := f.node()
	tys := make([]CTy, len(n.params))
	names := make([]CValue, len(n.params))
	for i, p := range n.params {
		tys[i], names[i] = p.Ty, p.Name
	}
	base, decl := declarator(n.ret, n.name+paramList(tys, names, n.variadic), false)
	return spell(base, decl)
}

// PrintDecl prints the prototype of f.
func (f CFunc) PrintDecl(p *pretty.Printer) {
	p.Word(f.Signature() + ";")
}

// PrintTo prints the definition of f. A body that fits stays on the
// signature's line; otherwise the braces and each statement get their own
// lines. An empty body prints as "{}".
func (f CFunc) PrintTo(p *pretty.Printer) {
	n := f.node()
	if len(n.body) == 0 {
		p.Word(f.Signature() + " {}")
		return
	}
	p.CBox(0, func(p *pretty.Printer) {
		p.Word(f.Signature())
		p.Space()
		p.Word("{")
		for _, s := range n.body {
			p.Break(1, pretty.INDENT)
			s.PrintTo(p)
		}
		p.Space()
		p.Word("}")
	})
}

// Prototype adapts f so that printing it emits the prototype.
func (f CFunc) Prototype() pretty.Print { return prototype(f) }

type prototype CFunc

func (pr prototype) PrintTo(p *pretty.Printer) { CFunc(pr).PrintDecl(p) }
