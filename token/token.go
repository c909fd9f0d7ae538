package token

import "strconv"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	literal_beg
	// Identifiers + literals
	IDENT  // add, foobar, _0, INT64_MAX
	INT    // 1343456
	STRING // "abc"
	CHAR   // 'a'
	literal_end

	operator_beg
	// Operators and delimiters
	ASSIGN // =
	NOT    // !
	TILDE  // ~

	ADD // +
	SUB // -
	MUL // *
	QUO // /
	REM // %

	AND  // &
	OR   // |
	XOR  // ^
	SHL  // <<
	SHR  // >>
	LAND // &&
	LOR  // ||

	LPAREN   // (
	LBRACK   // [
	LBRACE   // {
	COMMA    // ,
	PERIOD   // .
	ARROW    // ->
	ELLIPSIS // ...

	RPAREN // )
	RBRACK // ]
	RBRACE // }
	operator_end

	comparison_beg
	EQL // ==
	LSS // <
	GTR // >

	NEQ // !=
	LEQ // <=
	GEQ // >=
	comparison_end

	keyword_beg
	FUNC // func
	CAST // cast
	UTOS // utos
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	STRING: "STRING",
	CHAR:   "CHAR",

	ASSIGN: "=",
	NOT:    "!",
	TILDE:  "~",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	REM: "%",

	AND:  "&",
	OR:   "|",
	XOR:  "^",
	SHL:  "<<",
	SHR:  ">>",
	LAND: "&&",
	LOR:  "||",

	LPAREN:   "(",
	LBRACK:   "[",
	LBRACE:   "{",
	COMMA:    ",",
	PERIOD:   ".",
	ARROW:    "->",
	ELLIPSIS: "...",

	RPAREN: ")",
	RBRACK: "]",
	RBRACE: "}",

	EQL: "==",
	LSS: "<",
	GTR: ">",

	NEQ: "!=",
	LEQ: "<=",
	GEQ: ">=",

	FUNC: "func",
	CAST: "cast",
	UTOS: "utos",
}

var keywords = map[string]TokenType{
	"func": FUNC,
	"cast": CAST,
	"utos": UTOS,
}

// LookupIdent maps an identifier to its keyword type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) IsComparison() bool {
	return t.Type.IsComparison()
}

func (t Token) String() string {
	if t.Type.IsLiteral() {
		return t.Type.String() + "(" + t.Literal + ")"
	}
	return t.Type.String()
}

func (tokenType TokenType) IsLiteral() bool {
	return literal_beg < tokenType && tokenType < literal_end
}

func (tokenType TokenType) IsComparison() bool {
	return comparison_beg < tokenType && tokenType < comparison_end
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}

// C expression precedence levels, loosest first.
const (
	LowestPrec = iota
	AssignPrec
	LorPrec
	LandPrec
	OrPrec
	XorPrec
	AndPrec
	EqualityPrec
	RelationalPrec
	ShiftPrec
	AdditivePrec
	MultiplicativePrec
	UnaryPrec
	PostfixPrec
)

var binaryPrec = map[TokenType]int{
	ASSIGN: AssignPrec,
	LOR:    LorPrec,
	LAND:   LandPrec,
	OR:     OrPrec,
	XOR:    XorPrec,
	AND:    AndPrec,
	EQL:    EqualityPrec,
	NEQ:    EqualityPrec,
	LSS:    RelationalPrec,
	GTR:    RelationalPrec,
	LEQ:    RelationalPrec,
	GEQ:    RelationalPrec,
	SHL:    ShiftPrec,
	SHR:    ShiftPrec,
	ADD:    AdditivePrec,
	SUB:    AdditivePrec,
	MUL:    MultiplicativePrec,
	QUO:    MultiplicativePrec,
	REM:    MultiplicativePrec,
}

// BinaryPrec is the C precedence of a binary operator, or LowestPrec when
// tokenType is not one.
func (tokenType TokenType) BinaryPrec() int {
	return binaryPrec[tokenType]
}

// IsBinary reports whether tokenType is a C binary operator.
func (tokenType TokenType) IsBinary() bool {
	_, ok := binaryPrec[tokenType]
	return ok
}

// IsUnary reports whether tokenType is a C prefix operator.
func (tokenType TokenType) IsUnary() bool {
	switch tokenType {
	case SUB, ADD, NOT, TILDE, MUL, AND:
		return true
	}
	return false
}

// RightAssoc reports whether a binary operator groups right to left.
func (tokenType TokenType) RightAssoc() bool {
	return tokenType == ASSIGN
}
