package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thiremani/cgen/ast"
	"github.com/thiremani/cgen/lexer"
	"github.com/thiremani/cgen/types"
)

// ErrParse is returned when a unit description has notation errors.
var ErrParse = errors.New("parse error")

// Unit is a unit description: the contents of one generated C file.
//
//	file: basic_math.c
//	includes: [stdint.h]
//	decls:
//	  - {name: counter, type: int, init: "0"}
//	funcs:
//	  - name: foo
//	    ret: int64_t
//	    params: [{name: _0, type: uint8_t}]
//	    body:
//	      - decl: {name: _3, type: int64_t, init: "cast(int64_t, _0)"}
//	      - return: _3
//	checks: |
//	  CHECK: int64_t foo(uint8_t _0)
type Unit struct {
	File     string     `yaml:"file"`
	Includes []string   `yaml:"includes"`
	Helpers  []string   `yaml:"helpers"`
	Decls    []DeclSpec `yaml:"decls"`
	Funcs    []FuncSpec `yaml:"funcs"`
	Checks   string     `yaml:"checks"`
}

type DeclSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Init string `yaml:"init"`
}

type ParamSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type FuncSpec struct {
	Name     string      `yaml:"name"`
	Ret      string      `yaml:"ret"`
	Params   []ParamSpec `yaml:"params"`
	Variadic bool        `yaml:"variadic"`
	Body     []StmtSpec  `yaml:"body"`
}

type StmtKind int

const (
	ExprStmt StmtKind = iota + 1
	DeclStmt
	ReturnStmt
	BlockStmt
)

// StmtSpec is one statement: a single-key mapping, one of
//
//	expr: "f(x)"
//	decl: {name: x, type: int, init: "1"}
//	return: x      # or "return:" with no value
//	block: [...]
type StmtSpec struct {
	Kind  StmtKind
	Expr  string
	Decl  DeclSpec
	Block []StmtSpec

	line int
}

func (s *StmtSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: statement must be a mapping with one key", value.Line)
	}
	key, body := value.Content[0], value.Content[1]
	s.line = key.Line
	switch key.Value {
	case "expr":
		s.Kind = ExprStmt
		return body.Decode(&s.Expr)
	case "return":
		s.Kind = ReturnStmt
		if body.Tag == "!!null" {
			return nil
		}
		return body.Decode(&s.Expr)
	case "decl":
		s.Kind = DeclStmt
		return decodeStrict(body, &s.Decl)
	case "block":
		s.Kind = BlockStmt
		return body.Decode(&s.Block)
	}
	return fmt.Errorf("line %d: unknown statement %q", key.Line, key.Value)
}

// decodeStrict decodes a node, rejecting unknown fields.
func decodeStrict(node *yaml.Node, out any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// ParseUnit decodes a unit description.
func ParseUnit(data []byte) (*Unit, error) {
	u := &Unit{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(u); err != nil {
		return nil, fmt.Errorf("decoding unit: %w", err)
	}
	return u, nil
}

// LoadUnit reads and decodes the unit description at path.
func LoadUnit(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit: %w", err)
	}
	u, err := ParseUnit(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

var helpers = map[string]ast.Helper{
	"utos": ast.Utos,
}

// Build assembles the unit in mx. All notation errors are reported together,
// wrapped in ErrParse.
func (u *Unit) Build(mx *ast.ModuleCtx) (*ast.Module, error) {
	b := &builder{mx: mx}
	m := mx.Module()
	m.SetFile(u.File)
	for _, h := range u.Includes {
		m.Include(h)
	}
	for _, name := range u.Helpers {
		h, ok := helpers[name]
		if !ok {
			b.errorf("helpers", "unknown helper %q", name)
			continue
		}
		m.Helper(h)
	}
	for i, d := range u.Decls {
		if decl, ok := b.decl(fmt.Sprintf("decls[%d]", i), d); ok {
			m.PushDecl(decl)
		}
	}
	for _, f := range u.Funcs {
		if fn, ok := b.function(f); ok {
			m.PushFunc(fn)
		}
	}

	if len(b.errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrParse, strings.Join(b.errors, "\n"))
	}
	return m, nil
}

type builder struct {
	mx     *ast.ModuleCtx
	errors []string
}

func (b *builder) errorf(where, format string, args ...any) {
	b.errors = append(b.errors, where+": "+fmt.Sprintf(format, args...))
}

func (b *builder) collect(where string, errs []string) bool {
	for _, e := range errs {
		b.errors = append(b.errors, where+": "+e)
	}
	return len(errs) == 0
}

func (b *builder) ty(where, src string) (ast.CTy, bool) {
	if strings.TrimSpace(src) == "" {
		b.errorf(where, "missing type")
		return ast.CTy{}, false
	}
	t, errs := ParseType(b.mx, src)
	return t, b.collect(where, errs)
}

func (b *builder) expr(where, src string) (ast.CExpr, bool) {
	e, errs := ParseExpr(b.mx, src)
	return e, b.collect(where, errs)
}

// name parses a declared name: a numbered local or a plain identifier.
func (b *builder) name(where, src string) (ast.CValue, bool) {
	p := New(lexer.New(src), b.mx)
	e := p.ParseExpression()
	if !b.collect(where, p.Errors()) {
		return ast.CValue{}, false
	}
	if e.Kind() != ast.ValueExpr || !e.Value().IsIdent() {
		b.errorf(where, "%q is not a name", src)
		return ast.CValue{}, false
	}
	return e.Value(), true
}

func (b *builder) decl(where string, d DeclSpec) (ast.CDecl, bool) {
	name, ok := b.name(where+".name", d.Name)
	ty, tyOK := b.ty(where+".type", d.Type)
	if !ok || !tyOK {
		return ast.CDecl{}, false
	}
	var init ast.CExpr
	if d.Init != "" {
		if ty.Kind() == ast.FuncKind {
			b.errorf(where, "function %s cannot have an initializer", d.Name)
			return ast.CDecl{}, false
		}
		if init, ok = b.expr(where+".init", d.Init); !ok {
			return ast.CDecl{}, false
		}
	}
	return b.mx.Var(name, ty, init), true
}

func (b *builder) function(f FuncSpec) (ast.CFunc, bool) {
	where := "funcs." + f.Name
	if !types.IsIdentifier(f.Name) {
		b.errorf("funcs", "%q is not a function name", f.Name)
		return ast.CFunc{}, false
	}
	retSrc := f.Ret
	if retSrc == "" {
		retSrc = "void"
	}
	ret, ok := b.ty(where+".ret", retSrc)
	if ok {
		if k := ret.Kind(); k == ast.FuncKind || k == ast.ArrayKind {
			b.errorf(where, "cannot return %s type %s", k, ret)
			ok = false
		}
	}

	params := make([]ast.Param, 0, len(f.Params))
	for i, ps := range f.Params {
		pw := fmt.Sprintf("%s.params[%d]", where, i)
		name, nameOK := b.name(pw+".name", ps.Name)
		ty, tyOK := b.ty(pw+".type", ps.Type)
		ok = ok && nameOK && tyOK
		params = append(params, ast.Param{Ty: ty, Name: name})
	}
	if f.Variadic && len(f.Params) == 0 {
		b.errorf(where, "variadic function needs a named parameter")
		ok = false
	}

	body, bodyOK := b.stmts(where+".body", f.Body)
	if !ok || !bodyOK {
		return ast.CFunc{}, false
	}
	return b.mx.Function(ret, f.Name, params, f.Variadic, body...), true
}

func (b *builder) stmts(where string, specs []StmtSpec) ([]ast.CStmt, bool) {
	out := make([]ast.CStmt, 0, len(specs))
	ok := true
	for i, s := range specs {
		st, sOK := b.stmt(fmt.Sprintf("%s[%d]", where, i), s)
		ok = ok && sOK
		out = append(out, st)
	}
	return out, ok
}

func (b *builder) stmt(where string, s StmtSpec) (ast.CStmt, bool) {
	if s.line > 0 {
		where = fmt.Sprintf("%s (line %d)", where, s.line)
	}
	switch s.Kind {
	case ExprStmt:
		e, ok := b.expr(where, s.Expr)
		if !ok {
			return ast.CStmt{}, false
		}
		return b.mx.ExprStmt(e), true
	case ReturnStmt:
		if s.Expr == "" {
			return b.mx.Return(ast.CExpr{}), true
		}
		e, ok := b.expr(where, s.Expr)
		if !ok {
			return ast.CStmt{}, false
		}
		return b.mx.Return(e), true
	case DeclStmt:
		d, ok := b.decl(where, s.Decl)
		if !ok {
			return ast.CStmt{}, false
		}
		return b.mx.DeclStmt(d), true
	case BlockStmt:
		body, ok := b.stmts(where, s.Block)
		if !ok {
			return ast.CStmt{}, false
		}
		return b.mx.Compound(body...), true
	}
	b.errorf(where, "empty statement")
	return ast.CStmt{}, false
}
