package csyntax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

type Kind int

const (
	Base Kind = iota
	Pointer
	Array
	Function
)

// Type is the type a declarator spells, independent of how it was written.
type Type struct {
	Kind     Kind
	Name     string  // Base: the specifier text, e.g. "unsigned int"
	Len      string  // Array: the size expression, "" when unsized
	Elem     *Type   // pointee, array element or return type
	Params   []*Type // Function
	Variadic bool    // Function
}

// String spells t as nested constructors, e.g. "ptr(array[4](int))".
func (t *Type) String() string {
	switch t.Kind {
	case Pointer:
		return "ptr(" + t.Elem.String() + ")"
	case Array:
		return "array[" + t.Len + "](" + t.Elem.String() + ")"
	case Function:
		params := make([]string, 0, len(t.Params)+1)
		for _, p := range t.Params {
			params = append(params, p.String())
		}
		if t.Variadic {
			params = append(params, "...")
		}
		return "func(" + strings.Join(params, ", ") + ")(" + t.Elem.String() + ")"
	}
	return t.Name
}

// Decl is one declared name and its type. Function definitions are included.
type Decl struct {
	Name string
	Type *Type
}

func (d Decl) String() string { return d.Name + ": " + d.Type.String() }

// Declarations returns the file-scope declarations of src in order, one Decl
// per declarator.
func Declarations(ctx context.Context, src []byte) ([]Decl, error) {
	if err := Check(ctx, src); err != nil {
		return nil, err
	}
	tree, err := parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	r := reader{src: src}
	root := tree.RootNode()
	var decls []Decl
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch t := n.Type(); {
		case t == "declaration":
			base := r.base(n)
			for j := 0; j < int(n.NamedChildCount()); j++ {
				if d := n.NamedChild(j); declarators[d.Type()] {
					decls = append(decls, r.declarator(d, base))
				}
			}
		case t == "function_definition":
			decls = append(decls, r.declarator(n.ChildByFieldName("declarator"), r.base(n)))
		case t == "expression_statement":
			d, err := r.expression(n)
			if err != nil {
				return nil, err
			}
			decls = append(decls, d)
		case t == "type_definition", t == "comment", strings.HasPrefix(t, "preproc_"):
		default:
			return nil, r.notDeclaration(n)
		}
	}
	return decls, nil
}

// ErrNotDeclaration is returned for file-scope code that declares nothing.
var ErrNotDeclaration = errors.New("not a declaration")

func (r reader) notDeclaration(n *sitter.Node) error {
	start := n.StartPoint()
	text := n.Content(r.src)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return fmt.Errorf("%w: %d:%d: %q", ErrNotDeclaration, start.Row+1, start.Column+1, text)
}

// declarators are the node types that can fill a declaration's declarator
// field.
var declarators = map[string]bool{
	"identifier":               true,
	"init_declarator":          true,
	"pointer_declarator":       true,
	"array_declarator":         true,
	"function_declarator":      true,
	"parenthesized_declarator": true,
}

type reader struct {
	src []byte
}

func (r reader) base(n *sitter.Node) *Type {
	spec := n.ChildByFieldName("type")
	if spec == nil {
		return &Type{Kind: Base, Name: "int"}
	}
	return &Type{Kind: Base, Name: strings.Join(strings.Fields(spec.Content(r.src)), " ")}
}

// declarator peels n from the outside in. Each layer applies to the type
// accumulated so far: in "(*p)[4]" the array layer is outermost, so the
// name's type is pointer to array of base.
func (r reader) declarator(n *sitter.Node, ty *Type) Decl {
	for n != nil {
		switch n.Type() {
		case "identifier", "field_identifier", "type_identifier":
			return Decl{Name: n.Content(r.src), Type: ty}
		case "init_declarator":
			n = n.ChildByFieldName("declarator")
		case "parenthesized_declarator", "abstract_parenthesized_declarator":
			n = firstNamed(n)
		case "pointer_declarator", "abstract_pointer_declarator":
			ty = &Type{Kind: Pointer, Elem: ty}
			n = n.ChildByFieldName("declarator")
		case "array_declarator", "abstract_array_declarator":
			length := ""
			if size := n.ChildByFieldName("size"); size != nil {
				length = size.Content(r.src)
			}
			ty = &Type{Kind: Array, Len: length, Elem: ty}
			n = n.ChildByFieldName("declarator")
		case "function_declarator", "abstract_function_declarator":
			ty = r.function(n.ChildByFieldName("parameters"), ty)
			n = n.ChildByFieldName("declarator")
		default:
			panic(fmt.Sprintf("csyntax: unexpected declarator node %s", n.Type()))
		}
	}
	return Decl{Type: ty}
}

func (r reader) function(params *sitter.Node, ret *Type) *Type {
	fn := &Type{Kind: Function, Elem: ret}
	if params == nil {
		return fn
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "parameter_declaration":
			d := r.declarator(p.ChildByFieldName("declarator"), r.base(p))
			fn.Params = append(fn.Params, d.Type)
		case "variadic_parameter":
			fn.Variadic = true
		}
	}
	return fn
}

// The grammar does not track typedef names, so "my_t (*v)[2];" parses as a
// call of my_t subscripted by 2, and "my_t *p;" can parse as a product.
// expression reads such a statement back as the declaration it spells. The
// expression nodes nest the way the declarator nodes would: the left spine
// ends at the type name, and every layer above it wraps the type.
func (r reader) expression(n *sitter.Node) (Decl, error) {
	e := firstNamed(n)
	if e != nil && e.Type() == "assignment_expression" {
		e = e.ChildByFieldName("left")
	}
	name := r.typeName(e)
	if name == "" {
		return Decl{}, r.notDeclaration(n)
	}
	ty := &Type{Kind: Base, Name: name}
	typed := false
	for e != nil {
		switch e.Type() {
		case "identifier":
			if !typed {
				return Decl{}, r.notDeclaration(n)
			}
			return Decl{Name: e.Content(r.src), Type: ty}, nil
		case "binary_expression":
			// my_t * D
			if typed || r.operator(e) != "*" {
				return Decl{}, r.notDeclaration(n)
			}
			typed = true
			ty = &Type{Kind: Pointer, Elem: ty}
			e = e.ChildByFieldName("right")
		case "pointer_expression":
			if r.operator(e) != "*" {
				return Decl{}, r.notDeclaration(n)
			}
			ty = &Type{Kind: Pointer, Elem: ty}
			e = e.ChildByFieldName("argument")
		case "parenthesized_expression":
			e = firstNamed(e)
		case "subscript_expression":
			ty = &Type{Kind: Array, Len: e.ChildByFieldName("index").Content(r.src), Elem: ty}
			e = e.ChildByFieldName("argument")
		case "call_expression":
			f, args := e.ChildByFieldName("function"), e.ChildByFieldName("arguments")
			if !typed && f.Type() == "identifier" {
				// my_t (D)
				if args.NamedChildCount() != 1 {
					return Decl{}, r.notDeclaration(n)
				}
				typed = true
				e = args.NamedChild(0)
				continue
			}
			fn := &Type{Kind: Function, Elem: ty}
			for i := 0; i < int(args.NamedChildCount()); i++ {
				p := args.NamedChild(i)
				if p.Type() != "identifier" {
					return Decl{}, r.notDeclaration(n)
				}
				fn.Params = append(fn.Params, &Type{Kind: Base, Name: p.Content(r.src)})
			}
			ty = fn
			e = f
		default:
			return Decl{}, r.notDeclaration(n)
		}
	}
	return Decl{}, r.notDeclaration(n)
}

// typeName follows the left spine of a declaration-shaped expression down to
// the type name. It returns "" when e has no such spine.
func (r reader) typeName(e *sitter.Node) string {
	for e != nil {
		switch e.Type() {
		case "binary_expression":
			left := e.ChildByFieldName("left")
			if r.operator(e) != "*" || left.Type() != "identifier" {
				return ""
			}
			return left.Content(r.src)
		case "subscript_expression":
			e = e.ChildByFieldName("argument")
		case "call_expression":
			f := e.ChildByFieldName("function")
			if f.Type() == "identifier" {
				return f.Content(r.src)
			}
			e = f
		default:
			return ""
		}
	}
	return ""
}

func (r reader) operator(e *sitter.Node) string {
	if op := e.ChildByFieldName("operator"); op != nil {
		return op.Content(r.src)
	}
	return ""
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}
