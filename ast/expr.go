package ast

import (
	"fmt"
	"math"
	"strconv"

	"github.com/thiremani/cgen/pretty"
	"github.com/thiremani/cgen/token"
	"github.com/thiremani/cgen/types"
)

type ValueKind int

const (
	InvalidValue ValueKind = iota
	ScalarValue
	LocalValue
	FuncValue
	NameValue
)

// CValue is a value usable as an operand: an integer constant, a numbered
// local (_0, _1, ...) or a named function or object. It is a plain value,
// not an arena node.
type CValue struct {
	kind   ValueKind
	scalar int64
	local  int
	name   string
}

// Scalar returns the integer constant v.
func Scalar(v int64) CValue { return CValue{kind: ScalarValue, scalar: v} }

// Local returns the numbered local _n.
func Local(n int) CValue {
	if n < 0 {
		panic(fmt.Sprintf("ast: Local: negative index %d", n))
	}
	return CValue{kind: LocalValue, local: n}
}

// Func returns a reference to the function called name.
func Func(name string) CValue {
	if !types.IsIdentifier(name) {
		panic(fmt.Sprintf("ast: Func: %q is not an identifier", name))
	}
	return CValue{kind: FuncValue, name: name}
}

// Name returns a reference to the object or macro called name.
func Name(name string) CValue {
	if !types.IsIdentifier(name) {
		panic(fmt.Sprintf("ast: Name: %q is not an identifier", name))
	}
	return CValue{kind: NameValue, name: name}
}

func (v CValue) Kind() ValueKind { return v.kind }

// IsIdent reports whether v denotes a plain identifier.
func (v CValue) IsIdent() bool {
	switch v.kind {
	case LocalValue, FuncValue, NameValue:
		return true
	}
	return false
}

// Ident is the identifier v denotes, or "" when v is not one.
func (v CValue) Ident() string {
	switch v.kind {
	case LocalValue:
		return "_" + strconv.Itoa(v.local)
	case FuncValue, NameValue:
		return v.name
	}
	return ""
}

// Int is the value of a scalar constant.
func (v CValue) Int() int64 { return v.scalar }

func (v CValue) String() string {
	if v.kind == ScalarValue {
		if v.scalar == math.MinInt64 {
			// -9223372036854775808 is a negated constant no signed type holds.
			return "(-9223372036854775807 - 1)"
		}
		return strconv.FormatInt(v.scalar, 10)
	}
	return v.Ident()
}

func (v CValue) PrintTo(p *pretty.Printer) { p.Word(v.String()) }

// negative reports whether v prints with a leading minus sign.
func (v CValue) negative() bool {
	return v.kind == ScalarValue && v.scalar < 0 && v.scalar != math.MinInt64
}

type ExprKind int

const (
	InvalidExpr ExprKind = iota
	RawExpr
	ValueExpr
	BinaryExpr
	UnaryExpr
	CastExpr
	CallExpr
	MemberExpr
	IndexExpr
)

// CExpr is a handle to a C expression. The zero CExpr means "no expression".
type CExpr struct {
	mx *ModuleCtx
	id uint32
}

type exprNode struct {
	kind  ExprKind
	raw   string
	value CValue
	op    token.TokenType
	x, y  CExpr // operands; callee, object and array are x
	ty    CTy
	args  []CExpr
	field string
	arrow bool
}

// IsValid reports whether e was returned by a constructor.
func (e CExpr) IsValid() bool { return e.mx != nil && e.id != 0 }

func (e CExpr) node() exprNode {
	if !e.IsValid() {
		panic("ast: use of invalid expression handle")
	}
	return e.mx.exprs[e.id]
}

func (e CExpr) Kind() ExprKind {
	if !e.IsValid() {
		return InvalidExpr
	}
	return e.node().kind
}

// Raw returns text emitted verbatim. The text is treated as a primary
// expression and never parenthesised.
func (mx *ModuleCtx) Raw(text string) CExpr {
	if text == "" {
		panic("ast: Raw: empty text")
	}
	return mx.allocExpr(exprNode{kind: RawExpr, raw: text})
}

// Value returns the expression naming v.
func (mx *ModuleCtx) Value(v CValue) CExpr {
	if v.kind == InvalidValue {
		panic("ast: Value: invalid value")
	}
	return mx.allocExpr(exprNode{kind: ValueExpr, value: v})
}

// Binary returns x op y.
func (mx *ModuleCtx) Binary(x CExpr, op token.TokenType, y CExpr) CExpr {
	mx.ownsExpr("Binary", x)
	mx.ownsExpr("Binary", y)
	if !op.IsBinary() {
		panic(fmt.Sprintf("ast: Binary: %s is not a binary operator", op))
	}
	return mx.allocExpr(exprNode{kind: BinaryExpr, op: op, x: x, y: y})
}

// Unary returns op x for one of - + ! ~ * &.
func (mx *ModuleCtx) Unary(op token.TokenType, x CExpr) CExpr {
	mx.ownsExpr("Unary", x)
	if !op.IsUnary() {
		panic(fmt.Sprintf("ast: Unary: %s is not a unary operator", op))
	}
	return mx.allocExpr(exprNode{kind: UnaryExpr, op: op, x: x})
}

// Cast returns (ty) x.
func (mx *ModuleCtx) Cast(ty CTy, x CExpr) CExpr {
	mx.ownsTy("Cast", ty)
	mx.ownsExpr("Cast", x)
	if k := ty.Kind(); k == FuncKind || k == ArrayKind {
		panic(fmt.Sprintf("ast: Cast: cannot cast to %s type", k))
	}
	return mx.allocExpr(exprNode{kind: CastExpr, ty: ty, x: x})
}

// Call returns callee(args...).
func (mx *ModuleCtx) Call(callee CExpr, args ...CExpr) CExpr {
	mx.ownsExpr("Call", callee)
	for _, a := range args {
		mx.ownsExpr("Call", a)
	}
	return mx.allocExpr(exprNode{kind: CallExpr, x: callee, args: append([]CExpr(nil), args...)})
}

// Member returns x.field, or x->field when arrow is set.
func (mx *ModuleCtx) Member(x CExpr, field string, arrow bool) CExpr {
	mx.ownsExpr("Member", x)
	if !types.IsIdentifier(field) {
		panic(fmt.Sprintf("ast: Member: %q is not an identifier", field))
	}
	return mx.allocExpr(exprNode{kind: MemberExpr, x: x, field: field, arrow: arrow})
}

// Index returns x[i].
func (mx *ModuleCtx) Index(x, i CExpr) CExpr {
	mx.ownsExpr("Index", x)
	mx.ownsExpr("Index", i)
	return mx.allocExpr(exprNode{kind: IndexExpr, x: x, y: i})
}

// Value is the value of a ValueExpr.
func (e CExpr) Value() CValue { return e.node().value }

// Op is the operator of a binary or unary expression.
func (e CExpr) Op() token.TokenType { return e.node().op }

// Operands returns the sub-expressions of e in source order.
func (e CExpr) Operands() []CExpr {
	n := e.node()
	switch n.kind {
	case BinaryExpr, IndexExpr:
		return []CExpr{n.x, n.y}
	case UnaryExpr, CastExpr, MemberExpr:
		return []CExpr{n.x}
	case CallExpr:
		return append([]CExpr{n.x}, n.args...)
	}
	return nil
}

// precedence is the binding strength of e's outermost operator.
func (e CExpr) precedence() int {
	n := e.node()
	switch n.kind {
	case BinaryExpr:
		return n.op.BinaryPrec()
	case UnaryExpr, CastExpr:
		return token.UnaryPrec
	case ValueExpr:
		if n.value.negative() {
			return token.UnaryPrec
		}
	}
	return token.PostfixPrec
}

// String renders e on one line.
func (e CExpr) String() string { return pretty.Render(1<<20, e) }

func (e CExpr) PrintTo(p *pretty.Printer) { e.print(p, token.LowestPrec) }

func (e CExpr) print(p *pretty.Printer, min int) {
	if e.precedence() < min {
		p.Word("(")
		defer p.Word(")")
	}
	n := e.node()
	switch n.kind {
	case RawExpr:
		p.Word(n.raw)
	case ValueExpr:
		n.value.PrintTo(p)
	case BinaryExpr:
		prec := n.op.BinaryPrec()
		left, right := prec, prec+1
		if n.op.RightAssoc() {
			left, right = prec+1, prec
		}
		p.IBox(pretty.INDENT, func(p *pretty.Printer) {
			n.x.print(p, left)
			p.Word(" " + n.op.String())
			p.Space()
			n.y.print(p, right)
		})
	case UnaryExpr:
		p.Word(n.op.String())
		if clashes(n.op, n.x) {
			p.Word("(")
			n.x.print(p, token.LowestPrec)
			p.Word(")")
			return
		}
		n.x.print(p, token.UnaryPrec)
	case CastExpr:
		p.Word("(" + n.ty.String() + ") ")
		n.x.print(p, token.UnaryPrec)
	case CallExpr:
		n.x.print(p, token.PostfixPrec)
		p.Word("(")
		p.IBox(pretty.INDENT, func(p *pretty.Printer) {
			for i, a := range n.args {
				if i > 0 {
					p.Word(",")
					p.Space()
				}
				a.print(p, token.AssignPrec)
			}
		})
		p.Word(")")
	case MemberExpr:
		n.x.print(p, token.PostfixPrec)
		if n.arrow {
			p.Word("->")
		} else {
			p.Word(".")
		}
		p.Word(n.field)
	case IndexExpr:
		n.x.print(p, token.PostfixPrec)
		p.Word("[")
		n.y.print(p, token.LowestPrec)
		p.Word("]")
	}
}

// clashes reports whether printing op directly before x would fuse into a
// different token, as in "- -x" becoming "--x".
func clashes(op token.TokenType, x CExpr) bool {
	first := op.String()[0]
	n := x.node()
	switch n.kind {
	case UnaryExpr:
		return n.op.String()[0] == first
	case ValueExpr:
		return first == '-' && n.value.negative()
	}
	return false
}
