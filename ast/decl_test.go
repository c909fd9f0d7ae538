package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/cgen/pretty"
	"github.com/thiremani/cgen/token"
	"github.com/thiremani/cgen/types"
)

func TestVarDecl(t *testing.T) {
	mx := NewModuleCtx()
	i32 := mx.Prim(types.Int)

	tests := []struct {
		name  string
		decl  CDecl
		width int
		want  string
	}{
		{"Init", mx.Var(Name("x"), i32, mx.Value(Scalar(42))), 80, "int x = 42;"},
		{"NoInit", mx.Var(Name("x"), i32, CExpr{}), 80, "int x;"},
		{"InitExactFit", mx.Var(Name("x"), i32, mx.Value(Scalar(42))), 11, "int x = 42;"},
		{"InitBreaks", mx.Var(Name("x"), i32, mx.Value(Scalar(42))), 10, "int x =\n  42;"},
		{"Local", mx.Var(Local(3), mx.Prim(types.Int64), mx.Value(Local(0))), 80, "int64_t _3 = _0;"},
		{"PtrToArray", mx.Var(Name("p"), mx.Ptr(mx.Array(i32, 4)), CExpr{}), 80, "int (*p)[4];"},
		{"FuncPrototype", mx.Var(Func("f"), mx.FuncType(i32, []CTy{i32}, false), CExpr{}), 80, "int f(int);"},
		{
			"LongInitBreaksOnce",
			mx.Var(Name("total"), i32, mx.Binary(mx.Value(Name("first_operand")), token.ADD, mx.Value(Name("second_operand")))),
			40,
			"int total =\n  first_operand + second_operand;",
		},
		{
			"LongInitBreaksTwice",
			mx.Var(Name("total"), i32, mx.Binary(mx.Value(Name("first_operand")), token.ADD, mx.Value(Name("second_operand")))),
			20,
			"int total =\n  first_operand +\n    second_operand;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pretty.Render(tt.width, tt.decl))
		})
	}
}

func TestVarDeclDeterministic(t *testing.T) {
	mx := NewModuleCtx()
	d := mx.Var(Local(0), mx.Ptr(mx.FuncType(mx.Prim(types.Void), nil, false)), mx.Value(Func("abort")))
	first := pretty.Render(12, d)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, pretty.Render(12, d))
	}
	assert.Equal(t, "void (*_0)() = abort;", d.String())
}

func TestVarDeclAccessors(t *testing.T) {
	mx := NewModuleCtx()
	init := mx.Value(Scalar(1))
	d := mx.Var(Name("x"), mx.Prim(types.Int), init)

	assert.Equal(t, VarDecl, d.Kind())
	assert.Equal(t, Name("x"), d.Name())
	assert.Equal(t, PrimKind, d.Ty().Kind())
	got, ok := d.Init()
	assert.True(t, ok)
	assert.Equal(t, init, got)

	_, ok = mx.Var(Name("y"), mx.Prim(types.Int), CExpr{}).Init()
	assert.False(t, ok)
	assert.Equal(t, InvalidDecl, CDecl{}.Kind())
}

func TestVarDeclPanics(t *testing.T) {
	mx := NewModuleCtx()
	i32 := mx.Prim(types.Int)
	one := mx.Value(Scalar(1))

	assert.PanicsWithValue(t, `ast: Var: name "1" is not an identifier`, func() {
		mx.Var(Scalar(1), i32, CExpr{})
	})
	assert.PanicsWithValue(t, "ast: Var: f cannot have an initializer", func() {
		mx.Var(Func("f"), mx.FuncType(i32, nil, false), one)
	})
	assert.PanicsWithValue(t, "ast: Var: invalid type handle", func() {
		mx.Var(Name("x"), CTy{}, CExpr{})
	})
	assert.PanicsWithValue(t, "ast: Var: invalid initializer handle", func() {
		mx.Var(Name("x"), i32, CExpr{mx: mx})
	})
	assert.PanicsWithValue(t, "ast: Var: expression handle belongs to another module context", func() {
		other := NewModuleCtx()
		other.Var(Name("x"), other.Prim(types.Int), one)
	})
}

func TestStmt(t *testing.T) {
	mx := NewModuleCtx()
	x := mx.Value(Name("x"))

	tests := []struct {
		name  string
		stmt  CStmt
		width int
		want  string
	}{
		{"Return", mx.Return(mx.Value(Scalar(0))), 80, "return 0;"},
		{"ReturnVoid", mx.Return(CExpr{}), 80, "return;"},
		{"Expr", mx.ExprStmt(mx.Binary(x, token.ASSIGN, mx.Value(Scalar(1)))), 80, "x = 1;"},
		{"Decl", mx.DeclStmt(mx.Var(Name("y"), mx.Prim(types.Int), x)), 80, "int y = x;"},
		{"EmptyBlock", mx.Compound(), 80, "{}"},
		{"BlockFits", mx.Compound(mx.ExprStmt(mx.Call(mx.Value(Func("f")))), mx.Return(CExpr{})), 80, "{ f(); return; }"},
		{"BlockBreaks", mx.Compound(mx.ExprStmt(mx.Call(mx.Value(Func("f")))), mx.Return(CExpr{})), 12, "{\n  f();\n  return;\n}"},
		{
			"NestedBlock",
			mx.Compound(mx.Compound(mx.Return(mx.Value(Scalar(1)))), mx.Return(mx.Value(Scalar(2)))),
			16,
			"{\n  { return 1; }\n  return 2;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pretty.Render(tt.width, tt.stmt))
		})
	}
}

func TestFunction(t *testing.T) {
	mx := NewModuleCtx()
	i32 := mx.Prim(types.Int32)
	params := []Param{{Ty: mx.Prim(types.Uint8), Name: Local(0)}, {Ty: mx.Ptr(mx.Prim(types.Char)), Name: Name("s")}}

	main := mx.Function(i32, "main", nil, false, mx.Return(mx.Value(Scalar(0))))
	assert.Equal(t, "int32_t main()", main.Signature())
	assert.Equal(t, "int32_t main();", pretty.Render(80, main.Prototype()))
	assert.Equal(t, "int32_t main() { return 0; }", pretty.Render(80, main))
	assert.Equal(t, "int32_t main()\n{\n  return 0;\n}", pretty.Render(20, main))

	logf := mx.Function(mx.Prim(types.Void), "logf", params, true)
	assert.Equal(t, "void logf(uint8_t _0, char *s, ...)", logf.Signature())
	assert.Equal(t, "void logf(uint8_t _0, char *s, ...) {}", pretty.Render(80, logf))

	getter := mx.Function(mx.Ptr(mx.Array(i32, 4)), "table", nil, false)
	assert.Equal(t, "int32_t (*table())[4]", getter.Signature())

	assert.Equal(t, "main", main.Name())
	assert.Len(t, logf.Params(), 2)
	assert.True(t, logf.Variadic())
	assert.Len(t, main.Body(), 1)

	assert.PanicsWithValue(t, `ast: Function: "int" is not an identifier`, func() {
		mx.Function(i32, "int", nil, false)
	})
	assert.PanicsWithValue(t, "ast: Function: f cannot return array type", func() {
		mx.Function(mx.Array(i32, 2), "f", nil, false)
	})
	assert.PanicsWithValue(t, "ast: Function: variadic f needs a named parameter", func() {
		mx.Function(i32, "f", nil, true)
	})
	assert.PanicsWithValue(t, `ast: Function: parameter "7" of f is not an identifier`, func() {
		mx.Function(i32, "f", []Param{{Ty: i32, Name: Scalar(7)}}, false)
	})
}
