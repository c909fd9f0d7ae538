package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thiremani/cgen/pretty"
	"github.com/thiremani/cgen/types"
)

type Kind int

const (
	InvalidKind Kind = iota
	PrimKind
	NamedKind
	PtrKind
	ArrayKind
	FuncKind
)

var kindNames = [...]string{
	InvalidKind: "invalid",
	PrimKind:    "prim",
	NamedKind:   "named",
	PtrKind:     "ptr",
	ArrayKind:   "array",
	FuncKind:    "func",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// CTy is a handle to a C type.
type CTy struct {
	mx *ModuleCtx
	id uint32
}

type tyNode struct {
	kind     Kind
	prim     types.Prim
	name     string
	elem     CTy // pointee, array element or return type
	length   int // array length, -1 when unsized
	params   []CTy
	variadic bool
}

// IsValid reports whether t was returned by a constructor.
func (t CTy) IsValid() bool { return t.mx != nil && t.id != 0 }

func (t CTy) node() tyNode {
	if !t.IsValid() {
		panic("ast: use of invalid type handle")
	}
	return t.mx.tys[t.id]
}

func (t CTy) Kind() Kind {
	if !t.IsValid() {
		return InvalidKind
	}
	return t.node().kind
}

// Prim is the scalar of a PrimKind type.
func (t CTy) Prim() types.Prim { return t.node().prim }

// Name is the spelling of a NamedKind type.
func (t CTy) Name() string { return t.node().name }

// Elem is the pointee of a pointer or the element of an array.
func (t CTy) Elem() CTy {
	n := t.node()
	if n.kind != PtrKind && n.kind != ArrayKind {
		panic(fmt.Sprintf("ast: Elem of %s type", n.kind))
	}
	return n.elem
}

// Len is the length of an array type, -1 when it is unsized.
func (t CTy) Len() int { return t.node().length }

// Ret is the return type of a function type.
func (t CTy) Ret() CTy {
	n := t.node()
	if n.kind != FuncKind {
		panic(fmt.Sprintf("ast: Ret of %s type", n.kind))
	}
	return n.elem
}

// Params returns the parameter types of a function type.
func (t CTy) Params() []CTy {
	return append([]CTy(nil), t.node().params...)
}

// Variadic reports whether a function type ends in "...".
func (t CTy) Variadic() bool { return t.node().variadic }

// String spells t as an abstract declarator, e.g. "int (*)[4]".
func (t CTy) String() string { return Declarator(t, "") }

// PrintTo prints t as an abstract declarator.
func (t CTy) PrintTo(p *pretty.Printer) { p.Word(t.String()) }

// Prim returns the scalar type p.
func (mx *ModuleCtx) Prim(p types.Prim) CTy {
	if !p.IsValid() {
		panic(fmt.Sprintf("ast: Prim: unknown scalar %d", int(p)))
	}
	return mx.allocTy(tyNode{kind: PrimKind, prim: p})
}

// Named returns a type referred to by name: a typedef name such as
// "my_int_t" or a tag such as "struct node".
func (mx *ModuleCtx) Named(name string) CTy {
	if !isTypeName(name) {
		panic(fmt.Sprintf("ast: Named: %q is not a type name", name))
	}
	return mx.allocTy(tyNode{kind: NamedKind, name: name})
}

func isTypeName(name string) bool {
	fields := strings.Fields(name)
	switch {
	case len(fields) == 1:
		return types.IsIdentifier(fields[0]) && strings.Join(fields, " ") == name
	case len(fields) == 2:
		switch fields[0] {
		case "struct", "union", "enum":
			return types.IsIdentifier(fields[1]) && strings.Join(fields, " ") == name
		}
	}
	return false
}

// Ptr returns pointer-to-elem.
func (mx *ModuleCtx) Ptr(elem CTy) CTy {
	mx.ownsTy("Ptr", elem)
	return mx.allocTy(tyNode{kind: PtrKind, elem: elem})
}

// Array returns array-of-elem with n elements; n < 0 gives an unsized array.
func (mx *ModuleCtx) Array(elem CTy, n int) CTy {
	mx.ownsTy("Array", elem)
	if elem.Kind() == FuncKind {
		panic("ast: Array: element cannot be a function type")
	}
	if n < 0 {
		n = -1
	}
	return mx.allocTy(tyNode{kind: ArrayKind, elem: elem, length: n})
}

// FuncType returns the type of a function taking params and returning ret.
func (mx *ModuleCtx) FuncType(ret CTy, params []CTy, variadic bool) CTy {
	mx.ownsTy("FuncType", ret)
	if k := ret.Kind(); k == FuncKind || k == ArrayKind {
		panic(fmt.Sprintf("ast: FuncType: cannot return %s type", k))
	}
	for _, p := range params {
		mx.ownsTy("FuncType", p)
	}
	if variadic && len(params) == 0 {
		panic("ast: FuncType: variadic function needs a named parameter")
	}
	return mx.allocTy(tyNode{
		kind:     FuncKind,
		elem:     ret,
		params:   append([]CTy(nil), params...),
		variadic: variadic,
	})
}

// TypeEqual reports whether a and b spell the same C type. Handles are not
// deduplicated, so structurally equal types may have different handles.
func TypeEqual(a, b CTy) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	cmp := typeComparer(a.Kind())
	return cmp(a, b)
}

func typeComparer(k Kind) func(a, b CTy) bool {
	switch k {
	case InvalidKind:
		return func(a, b CTy) bool { return true }
	case PrimKind:
		return func(a, b CTy) bool { return a.Prim() == b.Prim() }
	case NamedKind:
		return func(a, b CTy) bool { return a.Name() == b.Name() }
	case PtrKind:
		return eqPtr
	case ArrayKind:
		return eqArray
	case FuncKind:
		return eqFunc
	default:
		return func(a, b CTy) bool { panic(fmt.Sprintf("TypeEqual: unhandled kind %v", k)) }
	}
}

func eqPtr(a, b CTy) bool { return TypeEqual(a.Elem(), b.Elem()) }

func eqArray(a, b CTy) bool {
	return a.Len() == b.Len() && TypeEqual(a.Elem(), b.Elem())
}

func eqFunc(a, b CTy) bool {
	ap, bp := a.node().params, b.node().params
	if len(ap) != len(bp) || a.Variadic() != b.Variadic() {
		return false
	}
	for i := range ap {
		if !TypeEqual(ap[i], bp[i]) {
			return false
		}
	}
	return TypeEqual(a.Ret(), b.Ret())
}
