// Package filecheck matches rendered text against CHECK directives:
//
//	CHECK-LABEL: int64_t foo(
//	CHECK: return {{[0-9]+}};
//	CHECK-NEXT: }
//	CHECK-NOT: goto
//
// Literal text matches itself with runs of blanks matching any run of blanks.
// {{re}} embeds a regular expression. A match never spans lines.
package filecheck

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrInvalidCheck = errors.New("invalid check")
	ErrNoMatch      = errors.New("no match")
	ErrForbidden    = errors.New("forbidden match")
)

type Kind int

const (
	Check Kind = iota
	Next
	Not
	Label
)

var kindNames = map[string]Kind{
	"CHECK":       Check,
	"CHECK-NEXT":  Next,
	"CHECK-NOT":   Not,
	"CHECK-LABEL": Label,
}

var kindStrings = [...]string{
	Check: "CHECK",
	Next:  "CHECK-NEXT",
	Not:   "CHECK-NOT",
	Label: "CHECK-LABEL",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Directive is one parsed check line.
type Directive struct {
	Kind    Kind
	Pattern string
	Line    int // line in the check text, 1-based

	re *regexp.Regexp
}

var directiveRe = regexp.MustCompile(`^\s*(?://+\s*)?(CHECK(?:-NEXT|-NOT|-LABEL)?):(.*)$`)

// Parse reads the directives in checks. Lines without a directive are
// ignored.
func Parse(checks string) ([]Directive, error) {
	var out []Directive
	for i, line := range strings.Split(checks, "\n") {
		m := directiveRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := Directive{Kind: kindNames[m[1]], Pattern: strings.TrimSpace(m[2]), Line: i + 1}
		if d.Pattern == "" {
			return nil, fmt.Errorf("%w: line %d: empty %s pattern", ErrInvalidCheck, d.Line, d.Kind)
		}
		if d.Kind == Next && len(out) == 0 {
			return nil, fmt.Errorf("%w: line %d: CHECK-NEXT cannot be the first check", ErrInvalidCheck, d.Line)
		}
		re, err := compile(d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCheck, d.Line, err)
		}
		d.re = re
		out = append(out, d)
	}
	return out, nil
}

func compile(pat string) (*regexp.Regexp, error) {
	var sb strings.Builder
	for {
		i := strings.Index(pat, "{{")
		if i < 0 {
			sb.WriteString(literal(pat))
			break
		}
		j := strings.Index(pat[i+2:], "}}")
		if j < 0 {
			return nil, fmt.Errorf("unterminated {{ in %q", pat)
		}
		sb.WriteString(literal(pat[:i]))
		sb.WriteString("(?:" + pat[i+2:i+2+j] + ")")
		pat = pat[i+2+j+2:]
	}
	return regexp.Compile(sb.String())
}

func literal(s string) string {
	var sb strings.Builder
	blank := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !blank {
				sb.WriteString(`[ \t]+`)
			}
			blank = true
			continue
		}
		blank = false
		sb.WriteString(regexp.QuoteMeta(string(r)))
	}
	return sb.String()
}

// Run parses checks and matches them against input.
func Run(checks, input string) error {
	ds, err := Parse(checks)
	if err != nil {
		return err
	}
	return Match(ds, input)
}

// Match applies the directives to input in order. Positive directives match
// after the end of the previous match; CHECK-NEXT must match on the line
// right after the one the previous match ended on. CHECK-NOT forbids its pattern between the surrounding
// positive matches.
func Match(ds []Directive, input string) error {
	m := matcher{input: input, lines: lineStarts(input), prevLine: -1}
	var nots []Directive
	for _, d := range ds {
		if d.Kind == Not {
			nots = append(nots, d)
			continue
		}
		start, end, err := m.find(d)
		if err != nil {
			return err
		}
		if err := m.forbid(nots, m.pos, start); err != nil {
			return err
		}
		nots = nil
		m.pos = end
		m.prevLine = m.lineOf(end)
	}
	return m.forbid(nots, m.pos, len(input))
}

type matcher struct {
	input    string
	lines    []int
	pos      int
	prevLine int
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the 0-based line holding byte offset off.
func (m *matcher) lineOf(off int) int {
	return sort.Search(len(m.lines), func(i int) bool { return m.lines[i] > off }) - 1
}

// search returns the first match of re in input[from:to] that lies on a
// single line.
func (m *matcher) search(re *regexp.Regexp, from, to int) (int, int, bool) {
	for {
		eol := to
		if i := strings.IndexByte(m.input[from:to], '\n'); i >= 0 {
			eol = from + i
		}
		if loc := re.FindStringIndex(m.input[from:eol]); loc != nil {
			return from + loc[0], from + loc[1], true
		}
		if eol == to {
			return 0, 0, false
		}
		from = eol + 1
	}
}

func (m *matcher) find(d Directive) (int, int, error) {
	start, end, ok := m.search(d.re, m.pos, len(m.input))
	if !ok {
		return 0, 0, fmt.Errorf("%w: check line %d: %s: %s", ErrNoMatch, d.Line, d.Kind, d.Pattern)
	}
	if d.Kind == Next {
		if got := m.lineOf(start); got != m.prevLine+1 {
			return 0, 0, fmt.Errorf("%w: check line %d: CHECK-NEXT: %s: found on line %d, want line %d",
				ErrNoMatch, d.Line, d.Pattern, got+1, m.prevLine+2)
		}
	}
	return start, end, nil
}

func (m *matcher) forbid(nots []Directive, from, to int) error {
	for _, d := range nots {
		if start, _, ok := m.search(d.re, from, to); ok {
			return fmt.Errorf("%w: check line %d: CHECK-NOT: %s: found on line %d",
				ErrForbidden, d.Line, d.Pattern, m.lineOf(start)+1)
		}
	}
	return nil
}
