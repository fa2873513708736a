// Package targets provides a registry of crates that cratepatch knows how
// to patch. Each target couples a crate's cached file with the anchor to
// find in it and the replacement to write.
package targets

import (
	"fmt"
	"sort"
)

// Target describes one patchable crate file: where it lives inside the
// cargo registry cache, what fragment marks the patch site, and what the
// site is rewritten to.
type Target struct {
	Name        string      // registry key, usually the crate name
	Description string      // one-line summary for the target listing
	Crate       string      // crate directory prefix, e.g. "ort-sys" matches ort-sys-2.0.0/
	FilePath    []string    // path segments of the file inside the crate directory
	AnchorCall  string      // the fallible call that opens the anchor
	AnchorCont  string      // continuation expected on the following line
	AnchorLine  int         // 0-based line of the call in the pristine upstream file
	IndentPairs [][2]string // known (call, continuation) indentation layouts
	Keywords    []string    // partial-match hints reported when the anchor is missing
	Var         string      // variable the replacement expression is bound to
	ReplacePath string      // hardcoded path written into the file
	RuntimeDir  string      // directory the patched code expects to exist at runtime
}

// Expr returns the replacement expression for the hardcoded path.
func (t Target) Expr() string {
	return `std::path::PathBuf::from("` + t.ReplacePath + `")`
}

// Assign returns the full binding statement written by offset-based
// strategies.
func (t Target) Assign() string {
	return "let " + t.Var + " = " + t.Expr()
}

var registry = map[string]Target{}

// Register adds a target to the registry.
func Register(t Target) {
	registry[t.Name] = t
}

// Get returns a target by name.
func Get(name string) (Target, error) {
	t, ok := registry[name]
	if !ok {
		return Target{}, fmt.Errorf("unknown patch target: %s", name)
	}
	return t, nil
}

// List returns all registered targets sorted alphabetically.
func List() []Target {
	list := make([]Target, 0, len(registry))
	for _, t := range registry {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
