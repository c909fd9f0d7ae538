package parser

import (
	"strconv"
	"strings"

	"github.com/thiremani/cgen/ast"
	"github.com/thiremani/cgen/token"
	"github.com/thiremani/cgen/types"
)

// Type notation, read left to right:
//
//	*T                pointer to T
//	[N]T  []T         array of N T, unsized array of T
//	func(A, B, ...) R function taking A and B returning R (void when R is omitted)
//	uint32_t  unsigned long  size_t  struct node  my_t
//
// so "*[4]int" is the type C spells "int (*)[4]".

// scalarWords can be combined into multi-word C scalar names.
var scalarWords = map[string]bool{
	"unsigned": true,
	"signed":   true,
	"short":    true,
	"long":     true,
	"int":      true,
	"char":     true,
}

func (p *Parser) parseType() ast.CTy {
	switch p.curToken.Type {
	case token.MUL:
		p.nextToken()
		elem := p.parseType()
		if !elem.IsValid() {
			return ast.CTy{}
		}
		return p.mx.Ptr(elem)
	case token.LBRACK:
		return p.parseArrayType()
	case token.FUNC:
		return p.parseFuncType()
	case token.IDENT:
		return p.parseNamedType()
	}
	p.errorf(p.curToken, "expected a type, got %s", p.curToken)
	return ast.CTy{}
}

func (p *Parser) parseArrayType() ast.CTy {
	start := p.curToken
	n := -1
	if p.peekTokenIs(token.INT) {
		p.nextToken()
		v, err := strconv.ParseInt(p.curToken.Literal, 0, 32)
		if err != nil || v < 0 {
			p.errorf(p.curToken, "invalid array length %q", p.curToken.Literal)
			return ast.CTy{}
		}
		n = int(v)
	}
	if !p.expectPeek(token.RBRACK) {
		return ast.CTy{}
	}
	p.nextToken()
	elem := p.parseType()
	if !elem.IsValid() {
		return ast.CTy{}
	}
	if elem.Kind() == ast.FuncKind {
		p.errorf(start, "array element cannot be a function type")
		return ast.CTy{}
	}
	return p.mx.Array(elem, n)
}

func (p *Parser) parseFuncType() ast.CTy {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return ast.CTy{}
	}

	params := []ast.CTy{}
	variadic := false
	ok := true
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			if p.curTokenIs(token.ELLIPSIS) {
				variadic = true
				break
			}
			param := p.parseType()
			ok = ok && param.IsValid()
			params = append(params, param)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RPAREN) {
			return ast.CTy{}
		}
	}

	var ret ast.CTy
	if startsType(p.peekToken.Type) {
		p.nextToken()
		ret = p.parseType()
	} else {
		ret = p.mx.Prim(types.Void)
	}
	if !ok || !ret.IsValid() {
		return ast.CTy{}
	}

	switch {
	case variadic && len(params) == 0:
		p.errorf(start, "variadic function type needs a named parameter")
	case ret.Kind() == ast.FuncKind || ret.Kind() == ast.ArrayKind:
		p.errorf(start, "function cannot return %s type %s", ret.Kind(), ret)
	default:
		return p.mx.FuncType(ret, params, variadic)
	}
	return ast.CTy{}
}

func startsType(t token.TokenType) bool {
	switch t {
	case token.MUL, token.LBRACK, token.FUNC, token.IDENT:
		return true
	}
	return false
}

// parsePrimName reads a scalar name, joining multi-word names such as
// "unsigned long long". curToken is left on the last word.
func (p *Parser) parsePrimName() (types.Prim, bool) {
	if !p.curTokenIs(token.IDENT) {
		return 0, false
	}
	words := []string{p.curToken.Literal}
	if scalarWords[p.curToken.Literal] {
		for p.peekTokenIs(token.IDENT) && scalarWords[p.peekToken.Literal] {
			p.nextToken()
			words = append(words, p.curToken.Literal)
		}
	}
	prim, ok := types.LookupPrim(strings.Join(words, " "))
	if !ok {
		return 0, false
	}
	p.mx.Module().IncludeFor(prim)
	return prim, true
}

func (p *Parser) parseNamedType() ast.CTy {
	start := p.curToken
	switch start.Literal {
	case "struct", "union", "enum":
		if !p.expectPeek(token.IDENT) {
			return ast.CTy{}
		}
		if !types.IsIdentifier(p.curToken.Literal) {
			p.errorf(p.curToken, "%q is a C keyword", p.curToken.Literal)
			return ast.CTy{}
		}
		return p.mx.Named(start.Literal + " " + p.curToken.Literal)
	}

	if scalarWords[start.Literal] || types.IsReserved(start.Literal) {
		prim, ok := p.parsePrimName()
		if !ok {
			p.errorf(start, "unknown scalar type starting at %q", start.Literal)
			return ast.CTy{}
		}
		return p.mx.Prim(prim)
	}
	if prim, ok := types.LookupPrim(start.Literal); ok {
		p.mx.Module().IncludeFor(prim)
		return p.mx.Prim(prim)
	}
	if !types.IsIdentifier(start.Literal) {
		p.errorf(start, "%q is not a type name", start.Literal)
		return ast.CTy{}
	}
	return p.mx.Named(start.Literal)
}
