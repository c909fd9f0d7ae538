package pretty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type words []string

func (w words) PrintTo(p *Printer) {
	p.CBox(0, func(p *Printer) {
		for i, s := range w {
			if i > 0 {
				p.Space()
			}
			p.Word(s)
		}
	})
}

func assignment(p *Printer) {
	p.IBox(INDENT, func(p *Printer) {
		p.Word("int x =")
		p.Space()
		p.Word("42")
		p.Word(";")
	})
}

func TestBreaks(t *testing.T) {
	tests := []struct {
		name  string
		width int
		build func(p *Printer)
		want  string
	}{
		{
			name:  "WordsOnly",
			width: 80,
			build: func(p *Printer) { p.Word("hello"); p.Word(" world") },
			want:  "hello world",
		},
		{
			name:  "SpaceFits",
			width: 80,
			build: assignment,
			want:  "int x = 42;",
		},
		{
			name:  "SpaceExactFit",
			width: 11,
			build: assignment,
			want:  "int x = 42;",
		},
		{
			name:  "SpaceYields",
			width: 10,
			build: assignment,
			want:  "int x =\n  42;",
		},
		{
			name:  "ConsistentBreaksAll",
			width: 3,
			build: func(p *Printer) { words{"a", "b", "c"}.PrintTo(p) },
			want:  "a\nb\nc",
		},
		{
			name:  "InconsistentBreaksLazily",
			width: 3,
			build: func(p *Printer) {
				p.IBox(0, func(p *Printer) {
					p.Word("a")
					p.Space()
					p.Word("b")
					p.Space()
					p.Word("c")
				})
			},
			want: "a b\nc",
		},
		{
			name:  "HardbreakBreaksEnclosingBox",
			width: 80,
			build: func(p *Printer) {
				p.CBox(0, func(p *Printer) {
					p.Word("x")
					p.Space()
					p.Word("y")
					p.Hardbreak()
					p.Word("z")
				})
			},
			want: "x\ny\nz",
		},
		{
			name:  "ZerobreakVanishes",
			width: 80,
			build: func(p *Printer) {
				p.IBox(INDENT, func(p *Printer) {
					p.Word("f(")
					p.Zerobreak()
					p.Word("a)")
				})
			},
			want: "f(a)",
		},
		{
			name:  "BlankLineHasNoTrailingSpaces",
			width: 80,
			build: func(p *Printer) {
				p.CBox(INDENT, func(p *Printer) {
					p.Word("a")
					p.Hardbreak()
					p.Hardbreak()
					p.Word("b")
				})
			},
			want: "a\n\n  b",
		},
		{
			name:  "NestedIndentFollowsLine",
			width: 10,
			build: func(p *Printer) {
				p.CBox(0, func(p *Printer) {
					p.Word("f()")
					p.Space()
					p.Word("{")
					p.Break(1, INDENT)
					assignment(p)
					p.Space()
					p.Word("}")
				})
			},
			want: "f()\n{\n  int x =\n    42;\n}",
		},
		{
			name:  "TrailingTextCountsTowardFit",
			width: 9,
			build: func(p *Printer) {
				p.IBox(INDENT, func(p *Printer) {
					p.Word("a =")
					p.Space()
					p.IBox(0, func(p *Printer) { p.Word("bcd") })
					p.Word(");")
				})
			},
			want: "a = bcd);",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPrinter(tc.width)
			tc.build(p)
			assert.Equal(t, tc.want, p.String())
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := words{"alpha", "beta", "gamma", "delta"}
	first := Render(12, doc)
	second := Render(12, doc)
	require.Equal(t, first, second)
	require.Equal(t, "alpha\nbeta\ngamma\ndelta", first)
	require.Equal(t, "alpha beta gamma delta", Render(80, doc))
}

func TestDefaultWidth(t *testing.T) {
	require.Equal(t, DefaultWidth, NewPrinter(0).Width())
	require.Equal(t, 40, NewPrinter(40).Width())
}

func TestWordRejectsNewline(t *testing.T) {
	p := NewPrinter(80)
	require.Panics(t, func() { p.Word("a\nb") })
}
