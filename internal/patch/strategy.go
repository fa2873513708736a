// Package patch locates a known anchor inside a cached crate source file
// and rewrites it in place. Strategies are tried in a fixed order and the
// first one whose precondition holds performs the whole rewrite; a file
// already carrying the replacement is recognized and left untouched.
package patch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/catfewd/cratepatch/internal/targets"
)

var (
	// ErrAnchorNotFound means the file no longer contains the anchor in
	// any recognizable form, usually after an upstream layout change.
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrStrategyExhausted means the anchor text exists but no strategy
	// considered the surrounding layout safe to rewrite.
	ErrStrategyExhausted = errors.New("no strategy matched")
)

// Strategy is one way of locating and rewriting the anchor. Match must not
// modify the buffer; Patch is only called after Match reports true.
type Strategy interface {
	Name() string
	Match(f *File, t targets.Target) (Anchor, bool)
	Patch(f *File, t targets.Target, a Anchor)
}

// DefaultChain returns the strategies in attempt order: the exact-offset
// fast path, then the known layout variants, then the indentation-inferring
// scan. Exactly one strategy ever rewrites a file.
func DefaultChain() []Strategy {
	return []Strategy{FixedOffset{}, ContentReplace{}, IndentAware{}}
}

// Result records what Apply did to the buffer.
type Result struct {
	Strategy       string // empty when no rewrite happened
	Line           int    // 0-based line of the rewrite, or of the existing marker
	AlreadyPatched bool
}

// Apply runs the strategy chain against f. The buffer is only modified on
// success; the caller decides when to write it back.
func Apply(f *File, t targets.Target) (*Result, error) {
	if line, ok := AlreadyPatched(f, t); ok {
		return &Result{Line: line, AlreadyPatched: true}, nil
	}

	for _, s := range DefaultChain() {
		if a, ok := s.Match(f, t); ok {
			s.Patch(f, t, a)
			return &Result{Strategy: s.Name(), Line: a.Line}, nil
		}
	}

	if i, ok := FindCall(f, t); ok {
		return nil, fmt.Errorf("line %d contains %q but its surroundings are unexpected: %w",
			i+1, t.AnchorCall, ErrStrategyExhausted)
	}
	if i, text, ok := ClosestKeyword(f, t); ok {
		return nil, fmt.Errorf("closest match at line %d: %s: %w",
			i+1, strings.TrimSpace(text), ErrAnchorNotFound)
	}
	return nil, ErrAnchorNotFound
}
