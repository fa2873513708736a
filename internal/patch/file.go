package patch

import (
	"fmt"
	"os"
	"strings"
)

// File is a target file loaded fully into memory as raw lines. Every line
// keeps its original terminator, so an unmodified buffer writes back byte
// for byte and a failed patch never leaves a half-written file behind.
type File struct {
	Path  string
	lines []string
	mode  os.FileMode
}

// LoadFile reads path into a line buffer.
func LoadFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return &File{Path: path, lines: splitLines(string(data)), mode: info.Mode().Perm()}, nil
}

// splitLines splits after every newline, keeping terminators. A trailing
// fragment without a newline stays as the final line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Len returns the number of physical lines.
func (f *File) Len() int {
	return len(f.lines)
}

// Text returns line i without its terminator.
func (f *File) Text(i int) string {
	line := strings.TrimSuffix(f.lines[i], "\n")
	return strings.TrimSuffix(line, "\r")
}

// EOL returns the terminator of line i, empty for an unterminated final line.
func (f *File) EOL(i int) string {
	return f.lines[i][len(f.Text(i)):]
}

// SetText replaces the payload of line i, keeping its terminator.
func (f *File) SetText(i int, text string) {
	f.lines[i] = text + f.EOL(i)
}

// Collapse replaces lines i and i+1 with a single line. The second line's
// terminator survives, so patching at the end of an unterminated file does
// not grow a trailing newline.
func (f *File) Collapse(i int, text string) {
	f.lines[i] = text + f.EOL(i+1)
	f.lines = append(f.lines[:i+1], f.lines[i+2:]...)
}

// Content reassembles the buffer.
func (f *File) Content() string {
	return strings.Join(f.lines, "")
}

// WriteBack overwrites the file on disk with the current buffer, keeping
// the original permission bits.
func (f *File) WriteBack() error {
	if err := os.WriteFile(f.Path, []byte(f.Content()), f.mode); err != nil {
		return fmt.Errorf("could not write %s: %w", f.Path, err)
	}
	return nil
}
