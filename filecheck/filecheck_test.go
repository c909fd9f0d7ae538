package filecheck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rendered = `int32_t main();
int64_t foo(uint8_t _0);

int32_t main() { return 0; }

int64_t foo(uint8_t _0)
{
  int64_t _3 = __rust_utos(uint64_t, int64_t, (int64_t) _0, INT64_MAX);
  return _3;
}
`

func TestParse(t *testing.T) {
	ds, err := Parse("// CHECK-LABEL: int64_t foo(\nnot a check\n  CHECK-NEXT:   {  \nCHECK-NOT: goto\n")
	require.NoError(t, err)
	require.Len(t, ds, 3)

	assert.Equal(t, Label, ds[0].Kind)
	assert.Equal(t, "int64_t foo(", ds[0].Pattern)
	assert.Equal(t, 1, ds[0].Line)
	assert.Equal(t, Next, ds[1].Kind)
	assert.Equal(t, "{", ds[1].Pattern)
	assert.Equal(t, 3, ds[1].Line)
	assert.Equal(t, "CHECK-NOT", ds[2].Kind.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		checks string
		want   string
	}{
		{"Empty", "CHECK:   \n", "line 1: empty CHECK pattern"},
		{"NextFirst", "CHECK-NEXT: x\n", "line 1: CHECK-NEXT cannot be the first check"},
		{"Unterminated", "CHECK: a {{b\n", "line 1: unterminated {{"},
		{"BadRegex", "\nCHECK: {{(}}\n", "line 2: error parsing regexp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.checks)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCheck))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunPasses(t *testing.T) {
	tests := []struct {
		name   string
		checks string
	}{
		{"Plain", "CHECK: return 0;"},
		{"Ordered", "CHECK: main\nCHECK: foo\nCHECK: main() {\nCHECK: return _3;"},
		{"SameLine", "CHECK: int32_t\nCHECK: main"},
		{"Next", "CHECK-LABEL: int64_t foo(uint8_t _0)\nCHECK: int64_t foo\nCHECK-NEXT: {\nCHECK-NEXT: int64_t _3"},
		{"Regex", "CHECK: int64_t _{{[0-9]+}} = __rust_utos({{.*}}INT64_MAX);"},
		{"Blanks", "CHECK: return   0;"},
		{"NotBetween", "CHECK: main();\nCHECK-NOT: return\nCHECK: foo(uint8_t _0);"},
		{"NotAtEnd", "CHECK: return _3;\nCHECK-NOT: _3"},
		{"NoDirectives", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Run(tt.checks, rendered))
		})
	}
}

func TestRunFails(t *testing.T) {
	tests := []struct {
		name   string
		checks string
		is     error
		want   string
	}{
		{"Missing", "CHECK: goto", ErrNoMatch, "check line 1: CHECK: goto"},
		{"OutOfOrder", "CHECK: foo(uint8_t _0)\nCHECK: int32_t main();", ErrNoMatch, "check line 2"},
		{"NextTooFar", "CHECK: int32_t main();\nCHECK-NEXT: return 0;", ErrNoMatch, "found on line 4, want line 2"},
		{"NextSameLine", "CHECK: int32_t\nCHECK-NEXT: main();", ErrNoMatch, "found on line 1, want line 2"},
		{"NoSpaceInsideWord", "CHECK: int 32_t", ErrNoMatch, "CHECK: int 32_t"},
		{"Forbidden", "CHECK: main();\nCHECK-NOT: uint8_t\nCHECK: return 0;", ErrForbidden, "check line 2: CHECK-NOT: uint8_t: found on line 2"},
		{"ForbiddenAtEnd", "CHECK: main() {\nCHECK-NOT: INT64_MAX", ErrForbidden, "found on line 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(tt.checks, rendered)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMatchStaysOnLine(t *testing.T) {
	input := "int foo;\nint bar;\nint baz;\n"

	tests := []struct {
		name   string
		checks string
		is     error
	}{
		{"NegatedClass", "CHECK: foo{{[^z]*}}bar", ErrNoMatch},
		{"Whitespace", `CHECK: foo;{{\s+}}int`, ErrNoMatch},
		{"ForbiddenAcrossLines", "CHECK: int foo;\nCHECK-NOT: foo{{[^z]*}}bar\nCHECK: baz", nil},
		{"NextAfterMatch", "CHECK: int bar\nCHECK-NEXT: baz", nil},
		{"NextFromEndOfLine", "CHECK: foo;\nCHECK-NEXT: bar", nil},
		{"NextSkipsLine", "CHECK: foo\nCHECK-NEXT: baz", ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(tt.checks, input)
			if tt.is == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is))
		})
	}
}

func TestBlessedChecks(t *testing.T) {
	checks := `CHECK-LABEL: int32_t main()
CHECK: return 0;
CHECK-LABEL: int64_t foo(uint8_t _0)
CHECK-NEXT: {
CHECK-NEXT: int64_t _3 = __rust_utos({{.*}}INT64_MAX);
CHECK-NOT: int32_t _3
`
	assert.NoError(t, Run(checks, rendered))
}
