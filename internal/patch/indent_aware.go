package patch

import (
	"strings"

	"github.com/catfewd/cratepatch/internal/targets"
)

// IndentAware finds the binding by scanning every line for the anchor call
// and carries over whatever indentation the file uses at that point.
type IndentAware struct{}

func (IndentAware) Name() string { return "indent-aware" }

// Match accepts only the binding form of the anchor. Rewriting anything
// else into an assignment would leave the surrounding expression chain
// unparsable, so other forms fall through to the exhausted report.
func (IndentAware) Match(f *File, t targets.Target) (Anchor, bool) {
	for i := 0; i+1 < f.Len(); i++ {
		text := f.Text(i)
		if !strings.Contains(text, t.AnchorCall) {
			continue
		}
		trimmed := strings.TrimLeft(text, " \t")
		if !strings.HasPrefix(trimmed, "let "+t.Var+" ") || !strings.HasSuffix(text, t.AnchorCall) {
			continue
		}
		if !continuesAnchor(t, f.Text(i+1)) {
			continue
		}
		return Anchor{Line: i, Cont: i + 1, Indent: indentOf(text)}, true
	}
	return Anchor{}, false
}

// Patch rewrites the binding at the inferred depth and indents the marker
// one level deeper, where the continuation sat.
func (IndentAware) Patch(f *File, t targets.Target, a Anchor) {
	f.SetText(a.Line, a.Indent+t.Assign())
	f.SetText(a.Cont, a.Indent+indentUnit(a.Indent)+marker)
}

// indentUnit picks the single-level step for a prefix: a tab when the file
// indents with tabs, four spaces otherwise.
func indentUnit(indent string) string {
	if indent == "" || strings.Contains(indent, "\t") {
		return "\t"
	}
	return "    "
}
