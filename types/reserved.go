package types

// C11 keywords plus the spellings the generated code relies on as macros.
var reservedWords = []string{
	"auto",
	"break",
	"case",
	"char",
	"const",
	"continue",
	"default",
	"do",
	"double",
	"else",
	"enum",
	"extern",
	"float",
	"for",
	"goto",
	"if",
	"inline",
	"int",
	"long",
	"register",
	"restrict",
	"return",
	"short",
	"signed",
	"sizeof",
	"static",
	"struct",
	"switch",
	"typedef",
	"union",
	"unsigned",
	"void",
	"volatile",
	"while",
	"_Alignas",
	"_Alignof",
	"_Atomic",
	"_Bool",
	"_Complex",
	"_Generic",
	"_Imaginary",
	"_Noreturn",
	"_Static_assert",
	"_Thread_local",
}

var reservedSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(reservedWords))
	for _, w := range reservedWords {
		m[w] = struct{}{}
	}
	return m
}()

// ReservedWords returns a copy of the C keywords.
func ReservedWords() []string {
	return append([]string(nil), reservedWords...)
}

// IsReserved reports whether name is a C keyword.
func IsReserved(name string) bool {
	_, ok := reservedSet[name]
	return ok
}

// IsIdentifier reports whether name can be declared in C: a letter or
// underscore followed by letters, digits or underscores, and not a keyword.
func IsIdentifier(name string) bool {
	if name == "" || IsReserved(name) {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
