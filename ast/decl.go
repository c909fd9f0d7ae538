package ast

import (
	"fmt"

	"github.com/thiremani/cgen/pretty"
)

type DeclKind int

const (
	InvalidDecl DeclKind = iota
	// VarDecl declares a name with a type and an optional initializer:
	//
	//	int foo;       // ty name
	//	int foo = bar; // ty name = expr
	VarDecl
)

// CDecl is a handle to a C declaration.
type CDecl struct {
	mx *ModuleCtx
	id uint32
}

type declNode struct {
	kind DeclKind
	name CValue
	ty   CTy
	init CExpr
}

// IsValid reports whether d was returned by a constructor.
func (d CDecl) IsValid() bool { return d.mx != nil && d.id != 0 }

func (d CDecl) node() declNode {
	if !d.IsValid() {
		panic("ast: use of invalid declaration handle")
	}
	return d.mx.decls[d.id]
}

func (d CDecl) Kind() DeclKind {
	if !d.IsValid() {
		return InvalidDecl
	}
	return d.node().kind
}

// Var declares name with type ty. Pass the zero CExpr for no initializer.
func (mx *ModuleCtx) Var(name CValue, ty CTy, init CExpr) CDecl {
	if !name.IsIdent() {
		panic(fmt.Sprintf("ast: Var: name %q is not an identifier", name.String()))
	}
	mx.ownsTy("Var", ty)
	if init.IsValid() {
		mx.ownsExpr("Var", init)
		if k := ty.Kind(); k == FuncKind {
			panic(fmt.Sprintf("ast: Var: %s cannot have an initializer", name.Ident()))
		}
	} else if init.mx != nil {
		panic("ast: Var: invalid initializer handle")
	}
	return mx.allocDecl(declNode{kind: VarDecl, name: name, ty: ty, init: init})
}

func (d CDecl) Name() CValue { return d.node().name }

func (d CDecl) Ty() CTy { return d.node().ty }

// Init returns the initializer and whether there is one.
func (d CDecl) Init() (CExpr, bool) {
	init := d.node().init
	return init, init.IsValid()
}

func (d CDecl) String() string { return pretty.Render(1<<20, d) }

func (d CDecl) PrintTo(p *pretty.Printer) {
	n := d.node()
	switch n.kind {
	case VarDecl:
		p.IBox(pretty.INDENT, func(p *pretty.Printer) {
			PrintDeclarator(p, n.ty, n.name)
			if n.init.IsValid() {
				p.Word(" =")
				p.Space()
				n.init.PrintTo(p)
			}
			p.Word(";")
		})
	}
}
