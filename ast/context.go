// Package ast holds the C syntax tree built by the backend and the printing
// of that tree into C source text.
//
// Every node lives in the arena of one ModuleCtx. Constructors on ModuleCtx
// return small handles (CTy, CExpr, CDecl, CStmt, CFunc) that carry an index
// into that arena; they can be copied and stored freely and stay valid for as
// long as the context is reachable. Nodes are never mutated or freed one by
// one.
//
// Constructors check only that a node is well formed. A malformed request is
// a bug in the caller and panics with the name of the constructor.
package ast

import "fmt"

// ModuleCtx owns all nodes of one translation unit. It is not safe for
// concurrent use; build each unit with its own context.
type ModuleCtx struct {
	tys   []tyNode
	exprs []exprNode
	decls []declNode
	stmts []stmtNode
	funcs []funcNode

	module *Module
}

// NewModuleCtx returns an empty context. Index 0 of every store is reserved
// so that zero handles are never valid.
func NewModuleCtx() *ModuleCtx {
	return &ModuleCtx{
		tys:   make([]tyNode, 1, 32),
		exprs: make([]exprNode, 1, 64),
		decls: make([]declNode, 1, 16),
		stmts: make([]stmtNode, 1, 32),
		funcs: make([]funcNode, 1, 8),
	}
}

// Len reports how many nodes the arena holds.
func (mx *ModuleCtx) Len() int {
	return len(mx.tys) + len(mx.exprs) + len(mx.decls) + len(mx.stmts) + len(mx.funcs) - 5
}

// Module returns the translation unit assembled in this context.
func (mx *ModuleCtx) Module() *Module {
	if mx.module == nil {
		mx.module = &Module{mx: mx}
	}
	return mx.module
}

// owns panics unless a handle was allocated by mx.
func (mx *ModuleCtx) owns(op string, owner *ModuleCtx, valid bool, what string) {
	if !valid {
		panic(fmt.Sprintf("ast: %s: invalid %s handle", op, what))
	}
	if owner != mx {
		panic(fmt.Sprintf("ast: %s: %s handle belongs to another module context", op, what))
	}
}

func (mx *ModuleCtx) ownsTy(op string, t CTy)     { mx.owns(op, t.mx, t.IsValid(), "type") }
func (mx *ModuleCtx) ownsExpr(op string, e CExpr) { mx.owns(op, e.mx, e.IsValid(), "expression") }
func (mx *ModuleCtx) ownsDecl(op string, d CDecl) { mx.owns(op, d.mx, d.IsValid(), "declaration") }
func (mx *ModuleCtx) ownsStmt(op string, s CStmt) { mx.owns(op, s.mx, s.IsValid(), "statement") }
func (mx *ModuleCtx) ownsFunc(op string, f CFunc) { mx.owns(op, f.mx, f.IsValid(), "function") }

func (mx *ModuleCtx) allocTy(n tyNode) CTy {
	mx.tys = append(mx.tys, n)
	return CTy{mx: mx, id: uint32(len(mx.tys) - 1)}
}

func (mx *ModuleCtx) allocExpr(n exprNode) CExpr {
	mx.exprs = append(mx.exprs, n)
	return CExpr{mx: mx, id: uint32(len(mx.exprs) - 1)}
}

func (mx *ModuleCtx) allocDecl(n declNode) CDecl {
	mx.decls = append(mx.decls, n)
	return CDecl{mx: mx, id: uint32(len(mx.decls) - 1)}
}

func (mx *ModuleCtx) allocStmt(n stmtNode) CStmt {
	mx.stmts = append(mx.stmts, n)
	return CStmt{mx: mx, id: uint32(len(mx.stmts) - 1)}
}

func (mx *ModuleCtx) allocFunc(n funcNode) CFunc {
	mx.funcs = append(mx.funcs, n)
	return CFunc{mx: mx, id: uint32(len(mx.funcs) - 1)}
}
