package ast

import "github.com/thiremani/cgen/pretty"

type StmtKind int

const (
	InvalidStmt StmtKind = iota
	CompoundStmt
	ExprStmt
	DeclStmt
	ReturnStmt
)

// CStmt is a handle to a C statement.
type CStmt struct {
	mx *ModuleCtx
	id uint32
}

type stmtNode struct {
	kind  StmtKind
	stmts []CStmt
	expr  CExpr
	decl  CDecl
}

// IsValid reports whether s was returned by a constructor.
func (s CStmt) IsValid() bool { return s.mx != nil && s.id != 0 }

func (s CStmt) node() stmtNode {
	if !s.IsValid() {
		panic("ast: use of invalid statement handle")
	}
	return s.mx.stmts[s.id]
}

func (s CStmt) Kind() StmtKind {
	if !s.IsValid() {
		return InvalidStmt
	}
	return s.node().kind
}

// Compound returns { stmts... }.
func (mx *ModuleCtx) Compound(stmts ...CStmt) CStmt {
	for _, s := range stmts {
		mx.ownsStmt("Compound", s)
	}
	return mx.allocStmt(stmtNode{kind: CompoundStmt, stmts: append([]CStmt(nil), stmts...)})
}

// ExprStmt returns e;.
func (mx *ModuleCtx) ExprStmt(e CExpr) CStmt {
	mx.ownsExpr("ExprStmt", e)
	return mx.allocStmt(stmtNode{kind: ExprStmt, expr: e})
}

// DeclStmt returns a block-scope declaration.
func (mx *ModuleCtx) DeclStmt(d CDecl) CStmt {
	mx.ownsDecl("DeclStmt", d)
	return mx.allocStmt(stmtNode{kind: DeclStmt, decl: d})
}

// Return returns "return e;", or "return;" for the zero CExpr.
func (mx *ModuleCtx) Return(e CExpr) CStmt {
	if e.IsValid() {
		mx.ownsExpr("Return", e)
	} else if e.mx != nil {
		panic("ast: Return: invalid expression handle")
	}
	return mx.allocStmt(stmtNode{kind: ReturnStmt, expr: e})
}

// Stmts returns the statements of a compound statement.
func (s CStmt) Stmts() []CStmt { return append([]CStmt(nil), s.node().stmts...) }

// Expr returns the expression of an expression or return statement.
func (s CStmt) Expr() CExpr { return s.node().expr }

// Decl returns the declaration of a declaration statement.
func (s CStmt) Decl() CDecl { return s.node().decl }

func (s CStmt) String() string { return pretty.Render(1<<20, s) }

func (s CStmt) PrintTo(p *pretty.Printer) {
	n := s.node()
	switch n.kind {
	case CompoundStmt:
		printBlock(p, n.stmts)
	case ExprStmt:
		p.IBox(pretty.INDENT, func(p *pretty.Printer) {
			n.expr.PrintTo(p)
			p.Word(";")
		})
	case DeclStmt:
		n.decl.PrintTo(p)
	case ReturnStmt:
		if !n.expr.IsValid() {
			p.Word("return;")
			return
		}
		p.IBox(pretty.INDENT, func(p *pretty.Printer) {
			p.Word("return")
			p.Space()
			n.expr.PrintTo(p)
			p.Word(";")
		})
	}
}

// printBlock prints "{ a; b; }" on one line when it fits and otherwise one
// statement per line, indented.
func printBlock(p *pretty.Printer, stmts []CStmt) {
	if len(stmts) == 0 {
		p.Word("{}")
		return
	}
	p.CBox(0, func(p *pretty.Printer) {
		p.Word("{")
		for _, s := range stmts {
			p.Break(1, pretty.INDENT)
			s.PrintTo(p)
		}
		p.Space()
		p.Word("}")
	})
}
