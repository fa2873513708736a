package patch

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.rs")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadTempFile(t *testing.T, content string) *File {
	t.Helper()
	f, err := LoadFile(writeTempFile(t, content))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestRoundTripKeepsBytes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"lf", "a\nb\nc\n"},
		{"crlf", "a\r\nb\r\nc\r\n"},
		{"mixed", "a\r\nb\nc\r\n"},
		{"no trailing newline", "a\nb\nc"},
		{"single unterminated line", "lonely"},
		{"blank lines", "a\n\n\nb\n"},
	}

	for _, tt := range tests {
		f := loadTempFile(t, tt.content)
		if got := f.Content(); got != tt.content {
			t.Errorf("%s: Content() = %q, want %q", tt.name, got, tt.content)
		}
		if err := f.WriteBack(); err != nil {
			t.Fatalf("%s: WriteBack: %v", tt.name, err)
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != tt.content {
			t.Errorf("%s: file on disk = %q, want %q", tt.name, data, tt.content)
		}
	}
}

func TestTextStripsTerminator(t *testing.T) {
	f := loadTempFile(t, "plain\nwindows\r\nlast")

	tests := []struct {
		line int
		text string
		eol  string
	}{
		{0, "plain", "\n"},
		{1, "windows", "\r\n"},
		{2, "last", ""},
	}

	for _, tt := range tests {
		if got := f.Text(tt.line); got != tt.text {
			t.Errorf("Text(%d) = %q, want %q", tt.line, got, tt.text)
		}
		if got := f.EOL(tt.line); got != tt.eol {
			t.Errorf("EOL(%d) = %q, want %q", tt.line, got, tt.eol)
		}
	}
}

func TestSetTextKeepsTerminator(t *testing.T) {
	f := loadTempFile(t, "a\r\nb\n")
	f.SetText(0, "replaced")

	if got := f.Content(); got != "replaced\r\nb\n" {
		t.Errorf("Content() = %q, want %q", got, "replaced\r\nb\n")
	}
}

func TestCollapseDropsOneLine(t *testing.T) {
	f := loadTempFile(t, "a\nb\nc\n")
	f.Collapse(0, "ab")

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if got := f.Content(); got != "ab\nc\n" {
		t.Errorf("Content() = %q, want %q", got, "ab\nc\n")
	}
}

func TestCollapseAtUnterminatedEnd(t *testing.T) {
	f := loadTempFile(t, "a\nb\nc")
	f.Collapse(1, "bc")

	if got := f.Content(); got != "a\nbc" {
		t.Errorf("Content() = %q, want %q", got, "a\nbc")
	}
}
