package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/catfewd/cratepatch/internal/locator"
	"github.com/catfewd/cratepatch/internal/patch"
	"github.com/catfewd/cratepatch/internal/targets"
)

// upstream is the cached build script fixture, trimmed down with the anchor
// pulled forward to line 3.
const upstream = "fn main() {\n" +
	"\tlet a = 1;\n" +
	"\tlet bin_extract_dir =\n" +
	"\t\tinternal::dirs::cache_dir()\n" +
	"\t\t\t.expect(\"could not determine cache directory\")\n" +
	"\t\t\t.join(\"dfbin\");\n" +
	"}\n"

const patched = "fn main() {\n" +
	"\tlet a = 1;\n" +
	"\tlet bin_extract_dir =\n" +
	"\t\tstd::path::PathBuf::from(\"/tmp/ort-cache\") // patched\n" +
	"\t\t\t.join(\"dfbin\");\n" +
	"}\n"

// register adds a per-test target whose runtime dir stays inside the test's
// temp space instead of /tmp/ort-cache.
func register(t *testing.T, runtimeDir string) string {
	t.Helper()
	name := t.Name()
	targets.Register(targets.Target{
		Name:       name,
		Crate:      "ort-sys",
		FilePath:   []string{"build", "main.rs"},
		AnchorCall: "internal::dirs::cache_dir()",
		AnchorCont: `.expect("could not determine cache directory")`,
		AnchorLine: 3,
		IndentPairs: [][2]string{
			{"\t\t", "\t\t\t"},
		},
		Keywords:    []string{"bin_extract_dir", "cache_dir"},
		Var:         "bin_extract_dir",
		ReplacePath: "/tmp/ort-cache",
		RuntimeDir:  runtimeDir,
	})
	return name
}

// writeCrate caches one copy of the crate below root and returns the file
// path.
func writeCrate(t *testing.T, root, content string) string {
	t.Helper()
	dir := filepath.Join(root, "index.crates.io-6f17d22bba15001f", "ort-sys-2.0.0", "build")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunPatchesEndToEnd(t *testing.T) {
	root := t.TempDir()
	path := writeCrate(t, root, upstream)
	runtime := filepath.Join(t.TempDir(), "ort-cache")
	name := register(t, runtime)

	out, err := Run(Options{Target: name, Root: root, NoFetch: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Skipped || out.DryRun {
		t.Fatalf("Run = %+v, want a real patch", out)
	}
	if out.Candidate.Path != path {
		t.Errorf("Candidate.Path = %s, want %s", out.Candidate.Path, path)
	}
	if out.Result.Strategy != "content-replace" || out.Result.Line != 3 {
		t.Errorf("Result = %+v, want content-replace at line 3", out.Result)
	}
	if got := readBack(t, path); got != patched {
		t.Errorf("patched file =\n%s\nwant:\n%s", got, patched)
	}
	if info, err := os.Stat(runtime); err != nil || !info.IsDir() {
		t.Errorf("runtime dir %s missing after patch: %v", runtime, err)
	}
}

func TestRunSecondInvocationIsNoop(t *testing.T) {
	root := t.TempDir()
	path := writeCrate(t, root, upstream)
	runtime := filepath.Join(t.TempDir(), "ort-cache")
	name := register(t, runtime)
	opts := Options{Target: name, Root: root, NoFetch: true}

	if _, err := Run(opts); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first := readBack(t, path)

	// A tmp cleaner between builds removes the runtime dir; the no-op run
	// has to put it back.
	if err := os.RemoveAll(runtime); err != nil {
		t.Fatal(err)
	}

	out, err := Run(opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if out.Result == nil || !out.Result.AlreadyPatched {
		t.Fatalf("second Run = %+v, want AlreadyPatched", out)
	}
	if got := readBack(t, path); got != first {
		t.Error("second Run changed the file")
	}
	if info, err := os.Stat(runtime); err != nil || !info.IsDir() {
		t.Errorf("runtime dir %s not restored on the no-op run: %v", runtime, err)
	}
}

func TestRunSkipsWhenNotCached(t *testing.T) {
	runtime := filepath.Join(t.TempDir(), "ort-cache")
	name := register(t, runtime)

	out, err := Run(Options{Target: name, Root: t.TempDir(), NoFetch: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Skipped {
		t.Fatalf("Run = %+v, want Skipped", out)
	}
	if _, err := os.Stat(runtime); !os.IsNotExist(err) {
		t.Errorf("runtime dir %s created on a skipped run", runtime)
	}
}

func TestRunStrictFailsWhenNotCached(t *testing.T) {
	name := register(t, filepath.Join(t.TempDir(), "ort-cache"))

	_, err := Run(Options{Target: name, Root: t.TempDir(), NoFetch: true, Strict: true})
	if !errors.Is(err, locator.ErrNotFound) {
		t.Fatalf("Run = %v, want ErrNotFound", err)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	path := writeCrate(t, root, upstream)
	runtime := filepath.Join(t.TempDir(), "ort-cache")
	name := register(t, runtime)

	out, err := Run(Options{Target: name, Root: root, NoFetch: true, DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.DryRun || out.Result.Strategy != "content-replace" {
		t.Fatalf("Run = %+v, want a dry-run match", out)
	}
	if got := readBack(t, path); got != upstream {
		t.Error("dry run modified the file")
	}
	if _, err := os.Stat(runtime); !os.IsNotExist(err) {
		t.Errorf("runtime dir %s created on a dry run", runtime)
	}
}

func TestRunAnchorMissing(t *testing.T) {
	root := t.TempDir()
	content := "fn main() {\n}\n"
	path := writeCrate(t, root, content)
	name := register(t, filepath.Join(t.TempDir(), "ort-cache"))

	_, err := Run(Options{Target: name, Root: root, NoFetch: true})
	if !errors.Is(err, patch.ErrAnchorNotFound) {
		t.Fatalf("Run = %v, want ErrAnchorNotFound", err)
	}
	if got := readBack(t, path); got != content {
		t.Error("failed run modified the file")
	}
}

func TestRunUnknownTarget(t *testing.T) {
	if _, err := Run(Options{Target: "openssl-sys", NoFetch: true}); err == nil {
		t.Fatal("Run succeeded for an unregistered target")
	}
}

func TestReportCodes(t *testing.T) {
	tests := []struct {
		name string
		out  *Outcome
		err  error
		want int
	}{
		{"patched", &Outcome{Result: &patch.Result{Strategy: "fixed-offset"}}, nil, 0},
		{"already patched", &Outcome{Result: &patch.Result{AlreadyPatched: true}}, nil, 0},
		{"skipped", &Outcome{Skipped: true}, nil, 0},
		{"dry run", &Outcome{DryRun: true, Result: &patch.Result{Strategy: "indent-aware"}}, nil, 0},
		{"not cached, strict", nil, fmt.Errorf("pattern: %w", locator.ErrNotFound), 1},
		{"anchor missing", nil, fmt.Errorf("closest match at line 12: %w", patch.ErrAnchorNotFound), 1},
		{"no safe rewrite", nil, fmt.Errorf("line 97: %w", patch.ErrStrategyExhausted), 1},
		{"other failure", nil, errors.New("could not write"), 1},
	}

	for _, tt := range tests {
		if got := Report(tt.out, tt.err); got != tt.want {
			t.Errorf("%s: Report = %d, want %d", tt.name, got, tt.want)
		}
	}
}
