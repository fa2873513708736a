package locator

import (
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Candidate is one cached copy of the target file.
type Candidate struct {
	Path    string          // absolute path of the file to patch
	Dir     string          // crate directory name, e.g. ort-sys-2.0.0-rc.4
	Version *semver.Version // parsed from the directory suffix
	modTime time.Time
}

// newCandidate parses the version suffix of the crate directory name.
// Registry directories are always <name>-<version>, so a suffix that does
// not parse belongs to a different crate sharing the name prefix.
func newCandidate(path, crate, dir string) (Candidate, bool) {
	v, err := semver.NewVersion(strings.TrimPrefix(dir, crate+"-"))
	if err != nil {
		return Candidate{}, false
	}
	c := Candidate{Path: path, Dir: dir, Version: v}
	if info, err := os.Stat(path); err == nil {
		c.modTime = info.ModTime()
	}
	return c, true
}

// Select picks the candidate to patch: highest version first, ties broken
// by newest file and then by path, so repeated runs over the same cache
// always pick the same file.
func Select(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.prefer(best) {
			best = c
		}
	}
	return best
}

// prefer reports whether c wins over best.
func (c Candidate) prefer(best Candidate) bool {
	switch {
	case c.Version == nil:
		return false
	case best.Version == nil:
		return true
	case !c.Version.Equal(best.Version):
		return c.Version.GreaterThan(best.Version)
	}
	if !c.modTime.Equal(best.modTime) {
		return c.modTime.After(best.modTime)
	}
	return c.Path < best.Path
}
