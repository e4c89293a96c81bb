package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFile_CreatesParent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "out.md")
	if err := SafeWriteFile(p, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "hello" {
		t.Fatalf("read back = %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"May":          "may",
		" Blue-Collar": "blue-collar",
		"admin.":       "admin",
		"":             "all",
		"***":          "all",
		"Q1 2024":      "q1-2024",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := UniquePath(dir, "may", ".md")
	if filepath.Base(first) != "may.md" {
		t.Fatalf("first = %s", first)
	}
	if err := os.WriteFile(first, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := UniquePath(dir, "may", ".md")
	if filepath.Base(second) != "may__2.md" {
		t.Fatalf("second = %s", second)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"rows\": 3\n}\n" {
		t.Fatalf("got %q", b)
	}
}
