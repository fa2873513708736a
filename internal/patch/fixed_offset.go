package patch

import (
	"strings"

	"github.com/catfewd/cratepatch/internal/targets"
)

// FixedOffset rewrites the anchor at the exact line offset recorded for the
// target. Cheapest check, only valid while upstream keeps the layout the
// offset was recorded against.
type FixedOffset struct{}

func (FixedOffset) Name() string { return "fixed-offset" }

// Match requires the recorded line to be the known binding in its known
// indentation, with the continuation on the following line. Any deviation
// hands the file to a later strategy instead of guessing.
func (FixedOffset) Match(f *File, t targets.Target) (Anchor, bool) {
	i := t.AnchorLine
	if i < 0 || i+1 >= f.Len() {
		return Anchor{}, false
	}
	text := f.Text(i)
	if indentOf(text) != "\t\t" || !strings.HasSuffix(text, t.AnchorCall) {
		return Anchor{}, false
	}
	if !strings.HasPrefix(strings.TrimLeft(text, " \t"), "let "+t.Var+" ") {
		return Anchor{}, false
	}
	if !continuesAnchor(t, f.Text(i+1)) {
		return Anchor{}, false
	}
	return Anchor{Line: i, Cont: i + 1, Indent: "\t\t"}, true
}

// Patch overwrites both lines in the recorded layout: the binding at two
// tabs, the marker one level deeper where the continuation sat. The method
// chain after the anchor keeps parsing because comments are whitespace.
func (FixedOffset) Patch(f *File, t targets.Target, a Anchor) {
	f.SetText(a.Line, "\t\t"+t.Assign())
	f.SetText(a.Cont, "\t\t\t"+marker)
}
