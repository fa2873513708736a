package patch

import (
	"strings"

	"github.com/catfewd/cratepatch/internal/targets"
)

// marker tags every replacement line so a patched file is never matched a
// second time.
const marker = "// patched"

// Anchor is a located patch site: the line holding the fallible call, its
// continuation line, and the indentation carried by the call line.
type Anchor struct {
	Line   int
	Cont   int
	Indent string
}

// AlreadyPatched reports whether a previous run's replacement is present,
// identified by the replacement expression for the target path. Upstream
// never hardcodes that path itself.
func AlreadyPatched(f *File, t targets.Target) (int, bool) {
	expr := t.Expr()
	for i := 0; i < f.Len(); i++ {
		if strings.Contains(f.Text(i), expr) {
			return i, true
		}
	}
	return 0, false
}

// FindCall returns the first line containing the anchor call substring.
func FindCall(f *File, t targets.Target) (int, bool) {
	for i := 0; i < f.Len(); i++ {
		if strings.Contains(f.Text(i), t.AnchorCall) {
			return i, true
		}
	}
	return 0, false
}

// ClosestKeyword returns the first line containing one of the target's
// diagnostic keywords. Reported when the anchor itself is missing so drift
// in the upstream file can be triaged from the log alone.
func ClosestKeyword(f *File, t targets.Target) (int, string, bool) {
	for i := 0; i < f.Len(); i++ {
		text := f.Text(i)
		for _, kw := range t.Keywords {
			if strings.Contains(text, kw) {
				return i, text, true
			}
		}
	}
	return 0, "", false
}

// continuesAnchor reports whether a line payload is the expected anchor
// continuation. Only the shape up to the opening parenthesis must match,
// so drift in the message text does not break the scan.
func continuesAnchor(t targets.Target, text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t"), contPrefix(t.AnchorCont))
}

// contPrefix cuts the continuation down to its shape, e.g. `.expect(`.
func contPrefix(cont string) string {
	if i := strings.Index(cont, "("); i != -1 {
		return cont[:i+1]
	}
	return cont
}

// indentOf returns the leading whitespace of a line payload.
func indentOf(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return text[:i]
		}
	}
	return text
}
