// Package locator finds the cached copy of a crate source file under the
// cargo registry and, when several versions sit side by side, picks one
// deterministically.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/projectdiscovery/gologger"
	fileutil "github.com/projectdiscovery/utils/file"

	"github.com/catfewd/cratepatch/internal/targets"
)

// ErrNotFound means no cached copy of the crate matched the pattern. The
// caller decides whether that aborts the run or skips it.
var ErrNotFound = errors.New("no cached crate source found")

// DefaultRoot returns the cargo registry source root for the current user,
// ~/.cargo/registry/src.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cargo", "registry", "src"), nil
}

// Locator matches crate files below a registry source root. The patterns
// are compiled once at construction and reused for every directory level.
type Locator struct {
	root     string
	crateDir glob.Glob   // matches <crate>-* directory names
	segs     []glob.Glob // file path segments inside the crate directory
	display  string      // human-readable pattern for messages
}

// New compiles the match patterns for one target below root.
func New(root string, t targets.Target) (*Locator, error) {
	crateDir, err := glob.Compile(t.Crate + "-*")
	if err != nil {
		return nil, fmt.Errorf("bad crate pattern for %s: %w", t.Name, err)
	}
	segs := make([]glob.Glob, 0, len(t.FilePath))
	for _, seg := range t.FilePath {
		g, err := glob.Compile(seg)
		if err != nil {
			return nil, fmt.Errorf("bad path segment %q: %w", seg, err)
		}
		segs = append(segs, g)
	}
	display := filepath.Join(append([]string{root, "*", t.Crate + "-*"}, t.FilePath...)...)
	return &Locator{root: root, crateDir: crateDir, segs: segs, display: display}, nil
}

// Pattern returns the search pattern in display form.
func (l *Locator) Pattern() string {
	return l.display
}

// Find returns the candidate to patch for t. The registry keeps one
// directory per cached version, so several matches are normal; the highest
// version wins (see Select). Crates that merely share the name prefix are
// rejected because their directory suffix is not a version.
func (l *Locator) Find(t targets.Target) (Candidate, error) {
	if !fileutil.FolderExists(l.root) {
		return Candidate{}, fmt.Errorf("registry root %s does not exist: %w", l.root, ErrNotFound)
	}
	indexes, err := os.ReadDir(l.root)
	if err != nil {
		return Candidate{}, fmt.Errorf("cannot read registry root %s: %w", l.root, err)
	}

	var candidates []Candidate
	for _, index := range indexes {
		if !index.IsDir() {
			continue
		}
		indexDir := filepath.Join(l.root, index.Name())
		crates, err := os.ReadDir(indexDir)
		if err != nil {
			continue
		}
		for _, crate := range crates {
			if !crate.IsDir() || !l.crateDir.Match(crate.Name()) {
				continue
			}
			path, ok := l.matchFile(filepath.Join(indexDir, crate.Name()))
			if !ok {
				continue
			}
			if c, ok := newCandidate(path, t.Crate, crate.Name()); ok {
				candidates = append(candidates, c)
			}
		}
	}

	if len(candidates) == 0 {
		l.reportSiblings(indexes, t)
		return Candidate{}, fmt.Errorf("%s: %w", l.display, ErrNotFound)
	}
	if len(candidates) > 1 {
		gologger.Verbose().Msgf("%d cached copies match, preferring the newest version", len(candidates))
	}
	return Select(candidates), nil
}

// matchFile descends the relative segments below dir and returns the first
// existing file whose every segment matches.
func (l *Locator) matchFile(dir string) (string, bool) {
	paths := []string{dir}
	for _, g := range l.segs {
		var next []string
		for _, p := range paths {
			entries, err := os.ReadDir(p)
			if err != nil {
				continue
			}
			for _, e := range entries {
				if g.Match(e.Name()) {
					next = append(next, filepath.Join(p, e.Name()))
				}
			}
		}
		paths = next
	}
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, true
		}
	}
	return "", false
}

// reportSiblings lists what actually sits under each registry index, which
// is usually enough to see from the log why nothing matched.
func (l *Locator) reportSiblings(indexes []os.DirEntry, t targets.Target) {
	for _, index := range indexes {
		if !index.IsDir() {
			continue
		}
		indexDir := filepath.Join(l.root, index.Name())
		entries, err := os.ReadDir(indexDir)
		if err != nil {
			continue
		}
		var near []string
		for _, e := range entries {
			if e.IsDir() && strings.Contains(e.Name(), t.Crate) {
				near = append(near, e.Name())
			}
		}
		if len(near) > 0 {
			gologger.Verbose().Msgf("%s contains: %s", indexDir, strings.Join(near, ", "))
		} else {
			gologger.Verbose().Msgf("%s: %d crates cached, none matching %s-*", indexDir, len(entries), t.Crate)
		}
	}
}
