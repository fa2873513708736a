package patch

import "github.com/catfewd/cratepatch/internal/targets"

// ContentReplace matches one of the known two-line layouts verbatim, where
// the call sits on its own line below the binding, and collapses both lines
// into a single expression.
type ContentReplace struct{}

func (ContentReplace) Name() string { return "content-replace" }

func (ContentReplace) Match(f *File, t targets.Target) (Anchor, bool) {
	for _, pair := range t.IndentPairs {
		call, cont := pair[0]+t.AnchorCall, pair[1]+t.AnchorCont
		for i := 0; i+1 < f.Len(); i++ {
			if f.Text(i) == call && f.Text(i+1) == cont {
				return Anchor{Line: i, Cont: i + 1, Indent: pair[0]}, true
			}
		}
	}
	return Anchor{}, false
}

// Patch collapses the anchor pair into the replacement expression at the
// call line's indentation. The binding stays on the line above and any
// method chain below keeps parsing, one line shorter.
func (ContentReplace) Patch(f *File, t targets.Target, a Anchor) {
	f.Collapse(a.Line, a.Indent+t.Expr()+" "+marker)
}
