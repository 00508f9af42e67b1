package lesson

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("02-order.yaml", sampleYAML)
	write("01-alphabet.json", sampleJSON)
	write("03-broken.json", `{"exercises": "nope"}`)
	write("notes.txt", "not a lesson")
	if err := os.Mkdir(filepath.Join(dir, "drafts"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	if entries[0].Err != nil || entries[0].Name() != "First letters" {
		t.Errorf("entry 0 = %q, err %v", entries[0].Name(), entries[0].Err)
	}
	if entries[1].Err != nil || entries[1].Name() != "alphabet-1" {
		t.Errorf("entry 1 = %q, err %v", entries[1].Name(), entries[1].Err)
	}
	if entries[2].Err == nil || entries[2].Lesson != nil {
		t.Error("broken lesson should carry its load error")
	}
	if entries[2].Name() != "03-broken" {
		t.Errorf("broken entry name = %q", entries[2].Name())
	}
}

func TestScanDir_Missing(t *testing.T) {
	if _, err := ScanDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for a missing dir")
	}
}

func TestIsLessonFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.json": true,
		"a.YML":  true,
		"a.yaml": true,
		"a.md":   false,
		"a":      false,
	} {
		if got := IsLessonFile(path); got != want {
			t.Errorf("IsLessonFile(%q) = %v, want %v", path, got, want)
		}
	}
}
