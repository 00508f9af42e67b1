package lesson

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one lesson file found by ScanDir. Err is set when the file
// could not be loaded; Lesson is nil then.
type Entry struct {
	Path   string
	Lesson *Lesson
	Err    error
}

// Name returns the lesson title, its id, or the file name, whichever is
// set first.
func (e Entry) Name() string {
	if e.Lesson != nil {
		if e.Lesson.Title != "" {
			return e.Lesson.Title
		}
		if e.Lesson.ID != "" {
			return e.Lesson.ID
		}
	}
	return strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
}

// IsLessonFile reports whether path has a lesson document extension.
func IsLessonFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ScanDir loads every lesson document directly inside dir, sorted by file
// name. A file that fails to load is returned with its error so callers
// can list it as broken.
func ScanDir(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read lesson dir: %w", err)
	}

	var out []Entry
	for _, item := range items {
		if item.IsDir() || !IsLessonFile(item.Name()) {
			continue
		}
		path := filepath.Join(dir, item.Name())
		l, err := LoadFile(path)
		out = append(out, Entry{Path: path, Lesson: l, Err: err})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
