package ast

import (
	"strconv"
	"strings"

	"github.com/thiremani/cgen/pretty"
)

// Declarator spells a declaration of name with type t, e.g.
//
//	Declarator(ptr(array(int, 4)), "p")        == "int (*p)[4]"
//	Declarator(ptr(func([int]) int), "f")      == "int (*f)(int)"
//	Declarator(array(ptr(int), 3), "a")        == "int *a[3]"
//
// An empty name gives the abstract declarator used for casts and parameters.
func Declarator(t CTy, name string) string {
	base, decl := declarator(t, name, false)
	return spell(base, decl)
}

// PrintDeclarator prints the declarator of name with type t as one word.
func PrintDeclarator(p *pretty.Printer, t CTy, name CValue) {
	p.Word(Declarator(t, name.Ident()))
}

// declarator wraps inner in the type constructors of t, working outward from
// the name, and returns the base type left at the bottom. ptr reports whether
// the layer last added around inner was a pointer: [] and () bind tighter
// than *, so an array or function layer around a pointer needs parentheses.
func declarator(t CTy, inner string, ptr bool) (CTy, string) {
	switch t.Kind() {
	case PtrKind:
		return declarator(t.Elem(), "*"+inner, true)
	case ArrayKind:
		return declarator(t.Elem(), group(inner, ptr)+arraySuffix(t.Len()), false)
	case FuncKind:
		return declarator(t.Ret(), group(inner, ptr)+paramList(t.node().params, nil, t.Variadic()), false)
	default:
		return t, inner
	}
}

func group(inner string, ptr bool) string {
	if ptr {
		return "(" + inner + ")"
	}
	return inner
}

func arraySuffix(n int) string {
	if n < 0 {
		return "[]"
	}
	return "[" + strconv.Itoa(n) + "]"
}

// paramList spells "(a, b, ...)". names may be nil for abstract parameters.
func paramList(params []CTy, names []CValue, variadic bool) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		name := ""
		if names != nil {
			name = names[i].Ident()
		}
		sb.WriteString(Declarator(p, name))
	}
	if variadic {
		sb.WriteString(", ...")
	}
	sb.WriteByte(')')
	return sb.String()
}

func spell(base CTy, decl string) string {
	var b string
	switch base.Kind() {
	case PrimKind:
		b = base.Prim().String()
	case NamedKind:
		b = base.Name()
	default:
		panic("ast: declarator without a base type")
	}
	if decl == "" {
		return b
	}
	return b + " " + decl
}
