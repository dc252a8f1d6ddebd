package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.hsh")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a: 1\r\nb: 2\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)

	if string(f.Content) != "a: 1\nb: 2\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Fatalf("expected FileHadBOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected FileNormalizedCRLF flag")
	}
}

func TestColumnAndLineOf(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("pos.hsh", []byte("ab\ncdef\n\nx")))

	cases := []struct {
		off  uint32
		col  uint32
		line uint32
	}{
		{0, 0, 1}, // a
		{1, 1, 1}, // b
		{3, 0, 2}, // c
		{6, 3, 2}, // f
		{8, 0, 3}, // пустая строка
		{9, 0, 4}, // x
	}
	for _, tc := range cases {
		if got := f.Column(tc.off); got != tc.col {
			t.Fatalf("Column(%d) = %d, want %d", tc.off, got, tc.col)
		}
		if got := f.LineOf(tc.off); got != tc.line {
			t.Fatalf("LineOf(%d) = %d, want %d", tc.off, got, tc.line)
		}
	}
}

func TestResolveIsOneBased(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("res.hsh", []byte("ab\ncdef\n"))

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 7})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("start = %d:%d, want 2:1", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 5 {
		t.Fatalf("end = %d:%d, want 2:5", end.Line, end.Col)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("lines.hsh", []byte("first\nsecond\nthird")))

	cases := []struct {
		n    uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.n); got != tc.want {
			t.Fatalf("GetLine(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("text.hsh", []byte("key: value"))
	f := fs.Get(id)

	if got := f.Text(Span{File: id, Start: 0, End: 3}); got != "key" {
		t.Fatalf("Text = %q, want key", got)
	}
	if got := f.Text(Span{File: id, Start: 5, End: 99}); got != "" {
		t.Fatalf("out-of-range span must yield empty text, got %q", got)
	}
}

func TestSpanCoverAndLen(t *testing.T) {
	a := Span{Start: 2, End: 5}
	b := Span{Start: 8, End: 10}

	c := a.Cover(b)
	if c.Start != 2 || c.End != 10 {
		t.Fatalf("Cover = [%d,%d), want [2,10)", c.Start, c.End)
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Fatalf("zero-length span must be empty")
	}
}

func TestGetLatestTracksNewestVersion(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("same.hsh", []byte("v1"))
	second := fs.AddVirtual("same.hsh", []byte("v2"))

	id, ok := fs.GetLatest("same.hsh")
	if !ok || id != second {
		t.Fatalf("GetLatest must return the newest FileID, got %d ok=%v", id, ok)
	}
	if string(fs.Get(id).Content) != "v2" {
		t.Fatalf("latest version content mismatch")
	}
}

func TestHashChangesWithContent(t *testing.T) {
	fs := NewFileSet()
	a := fs.Get(fs.AddVirtual("a.hsh", []byte("one")))
	b := fs.Get(fs.AddVirtual("b.hsh", []byte("two")))
	if a.Hash == b.Hash {
		t.Fatalf("different content must hash differently")
	}
}
