package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Sheet One":  "sheet-one",
		"  Data_2 ":  "data-2",
		"Résumé!":    "rsum",
		"***":        "sheet",
		"Already-ok": "already-ok",
	}
	for in, want := range cases {
		if got := Slug(in, "sheet"); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first, bumped := UniquePath(dir, "scores", ".md")
	if bumped || first != filepath.Join(dir, "scores.md") {
		t.Fatalf("first = %s bumped=%v", first, bumped)
	}
	if err := WriteAtomic(first, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	second, bumped := UniquePath(dir, "scores", ".md")
	if !bumped || second != filepath.Join(dir, "scores__2.md") {
		t.Fatalf("second = %s bumped=%v", second, bumped)
	}
	if err := os.WriteFile(second, []byte("y"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	third, _ := UniquePath(dir, "scores", ".md")
	if third != filepath.Join(dir, "scores__3.md") {
		t.Fatalf("third = %s", third)
	}
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "marker.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "reports", "deep")
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := FindUp(nested, "marker.json")
	if err != nil || got != root {
		t.Fatalf("FindUp = %s, %v", got, err)
	}
	if _, err := FindUp(nested, "absent.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing marker err = %v", err)
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := WriteAtomic(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteAtomic(path, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}

	blocked := filepath.Join(dir, "blocked.md")
	if err := os.Mkdir(blocked+".tmp", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := WriteAtomic(blocked, []byte("x")); err == nil {
		t.Fatalf("expected error when the temp path is a directory")
	}
}

func TestJSONIndent(t *testing.T) {
	b, err := JSONIndent(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("JSONIndent: %v", err)
	}
	if string(b) != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("got %q", b)
	}
}
