// Package parser reads the unit-description notation into nodes of an
// ast.ModuleCtx: C types spelled Go-style and C expressions, plus YAML unit
// files that assemble them into a translation unit.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/thiremani/cgen/ast"
	"github.com/thiremani/cgen/lexer"
	"github.com/thiremani/cgen/token"
	"github.com/thiremani/cgen/types"
)

type (
	prefixParseFn func() ast.CExpr
	infixParseFn  func(ast.CExpr) ast.CExpr
)

// Parser turns tokens into arena nodes. Errors are collected rather than
// returned; a failed sub-parse yields a zero handle and parsing carries on.
type Parser struct {
	l      *lexer.Lexer
	mx     *ast.ModuleCtx
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer, mx *ast.ModuleCtx) *Parser {
	p := &Parser{
		l:      l,
		mx:     mx,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseRaw)
	p.registerPrefix(token.CHAR, p.parseRaw)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.CAST, p.parseCast)
	p.registerPrefix(token.UTOS, p.parseUtos)
	for _, op := range []token.TokenType{token.SUB, token.ADD, token.NOT, token.TILDE, token.MUL, token.AND} {
		p.registerPrefix(op, p.parsePrefixExpression)
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, op := range []token.TokenType{
		token.ASSIGN, token.LOR, token.LAND, token.OR, token.XOR, token.AND,
		token.EQL, token.NEQ, token.LSS, token.GTR, token.LEQ, token.GEQ,
		token.SHL, token.SHR, token.ADD, token.SUB, token.MUL, token.QUO, token.REM,
	} {
		p.registerInfix(op, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACK, p.parseIndexExpression)
	p.registerInfix(token.PERIOD, p.parseMemberExpression)
	p.registerInfix(token.ARROW, p.parseMemberExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// ParseExpr parses src as one expression.
func ParseExpr(mx *ast.ModuleCtx, src string) (ast.CExpr, []string) {
	p := New(lexer.New(src), mx)
	e := p.ParseExpression()
	return e, p.Errors()
}

// ParseType parses src as one type.
func ParseType(mx *ast.ModuleCtx, src string) (ast.CTy, []string) {
	p := New(lexer.New(src), mx)
	t := p.ParseType()
	return t, p.Errors()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	msg := fmt.Sprintf("%d:%d: ", tok.Line, tok.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorf(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorf(tok, "no prefix parse function for %s found", tok)
}

// ParseExpression parses the whole input as one expression.
func (p *Parser) ParseExpression() ast.CExpr {
	e := p.parseExpression(token.LowestPrec)
	p.expectEnd()
	return e
}

// ParseType parses the whole input as one type.
func (p *Parser) ParseType() ast.CTy {
	t := p.parseType()
	p.expectEnd()
	return t
}

func (p *Parser) expectEnd() {
	if len(p.errors) == 0 && !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s after end of input", p.peekToken)
	}
}

func (p *Parser) parseExpression(precedence int) ast.CExpr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return ast.CExpr{}
	}
	leftExp := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	return precedenceOf(p.peekToken.Type)
}

func (p *Parser) curPrecedence() int {
	return precedenceOf(p.curToken.Type)
}

func precedenceOf(t token.TokenType) int {
	switch t {
	case token.LPAREN, token.LBRACK, token.PERIOD, token.ARROW:
		return token.PostfixPrec
	}
	return t.BinaryPrec()
}

var localName = regexp.MustCompile(`^_(0|[1-9][0-9]*)$`)

func (p *Parser) parseIdentifier() ast.CExpr {
	name := p.curToken.Literal
	if m := localName.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return p.mx.Value(ast.Local(n))
		}
	}
	if !types.IsIdentifier(name) {
		p.errorf(p.curToken, "%q is a C keyword", name)
		return ast.CExpr{}
	}
	if p.peekTokenIs(token.LPAREN) {
		return p.mx.Value(ast.Func(name))
	}
	return p.mx.Value(ast.Name(name))
}

// parseIntegerLiteral keeps literals with a C suffix verbatim.
func (p *Parser) parseIntegerLiteral() ast.CExpr {
	lit := p.curToken.Literal
	value, err := strconv.ParseInt(lit, 0, 64)
	if err == nil {
		return p.mx.Value(ast.Scalar(value))
	}
	if body := strings.TrimRight(lit, "uUlL"); body != lit && body != "" {
		if _, err := strconv.ParseUint(body, 0, 64); err == nil {
			return p.mx.Raw(lit)
		}
	}
	p.errorf(p.curToken, "could not parse %q as integer", lit)
	return ast.CExpr{}
}

func (p *Parser) parseRaw() ast.CExpr {
	return p.mx.Raw(p.curToken.Literal)
}

func (p *Parser) parsePrefixExpression() ast.CExpr {
	op := p.curToken
	if op.Type == token.SUB && p.peekTokenIs(token.INT) {
		if v, err := strconv.ParseInt("-"+p.peekToken.Literal, 0, 64); err == nil {
			p.nextToken()
			return p.mx.Value(ast.Scalar(v))
		}
	}

	p.nextToken()
	right := p.parseExpression(token.UnaryPrec)
	if !right.IsValid() {
		return ast.CExpr{}
	}
	return p.mx.Unary(op.Type, right)
}

func (p *Parser) parseInfixExpression(left ast.CExpr) ast.CExpr {
	op := p.curToken
	precedence := p.curPrecedence()
	if op.Type.RightAssoc() {
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if !left.IsValid() || !right.IsValid() {
		return ast.CExpr{}
	}
	return p.mx.Binary(left, op.Type, right)
}

func (p *Parser) parseGroupedExpression() ast.CExpr {
	p.nextToken()

	exp := p.parseExpression(token.LowestPrec)

	if !p.expectPeek(token.RPAREN) {
		return ast.CExpr{}
	}

	return exp
}

func (p *Parser) parseCallExpression(function ast.CExpr) ast.CExpr {
	args := p.parseExpressionList(token.RPAREN)
	if !function.IsValid() || args == nil {
		return ast.CExpr{}
	}
	return p.mx.Call(function, args...)
}

// parseExpressionList parses "a, b)" after the opening delimiter. It returns
// nil on error and an empty slice for an empty list.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.CExpr {
	args := []ast.CExpr{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return args
	}

	ok := true
	p.nextToken()
	for {
		arg := p.parseExpression(token.LowestPrec)
		ok = ok && arg.IsValid()
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}

	if !p.expectPeek(end) || !ok {
		return nil
	}
	return args
}

func (p *Parser) parseIndexExpression(left ast.CExpr) ast.CExpr {
	p.nextToken()
	index := p.parseExpression(token.LowestPrec)
	if !p.expectPeek(token.RBRACK) || !left.IsValid() || !index.IsValid() {
		return ast.CExpr{}
	}
	return p.mx.Index(left, index)
}

func (p *Parser) parseMemberExpression(left ast.CExpr) ast.CExpr {
	arrow := p.curTokenIs(token.ARROW)
	if !p.expectPeek(token.IDENT) {
		return ast.CExpr{}
	}
	field := p.curToken.Literal
	if !types.IsIdentifier(field) {
		p.errorf(p.curToken, "%q is a C keyword", field)
		return ast.CExpr{}
	}
	if !left.IsValid() {
		return ast.CExpr{}
	}
	return p.mx.Member(left, field, arrow)
}

// parseCast parses cast(T, x).
func (p *Parser) parseCast() ast.CExpr {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return ast.CExpr{}
	}
	p.nextToken()
	ty := p.parseType()
	if !p.expectPeek(token.COMMA) {
		return ast.CExpr{}
	}
	p.nextToken()
	x := p.parseExpression(token.LowestPrec)
	if !p.expectPeek(token.RPAREN) || !ty.IsValid() || !x.IsValid() {
		return ast.CExpr{}
	}
	if k := ty.Kind(); k == ast.FuncKind || k == ast.ArrayKind {
		p.errorf(start, "cannot cast to %s type %s", k, ty)
		return ast.CExpr{}
	}
	return p.mx.Cast(ty, x)
}

// parseUtos parses utos(U, S, x), the wrapping conversion from the unsigned
// scalar U to the signed scalar S.
func (p *Parser) parseUtos() ast.CExpr {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return ast.CExpr{}
	}
	var prims [2]types.Prim
	for i := range prims {
		p.nextToken()
		prim, ok := p.parsePrimName()
		if !ok {
			p.errorf(p.curToken, "expected a fixed-width integer type, got %s", p.curToken)
			return ast.CExpr{}
		}
		prims[i] = prim
		if !p.expectPeek(token.COMMA) {
			return ast.CExpr{}
		}
	}
	p.nextToken()
	x := p.parseExpression(token.LowestPrec)
	if !p.expectPeek(token.RPAREN) || !x.IsValid() {
		return ast.CExpr{}
	}
	u, s := prims[0], prims[1]
	if u.IsSigned() || !s.IsSigned() || u.Bits() != s.Bits() || s.MaxMacro() == "" {
		p.errorf(start, "utos cannot convert %s to %s", u, s)
		return ast.CExpr{}
	}
	return p.mx.UtosCall(u, s, x)
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
