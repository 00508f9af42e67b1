package lesson

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/hayer/internal/exercise"
)

const sampleJSON = `{
  "id": "alphabet-1",
  "title": "First letters",
  "exercises": [
    {"id": "intro-a", "kind": "char_intro", "prompt": "Ա ա"},
    {"id": "mcq-a", "kind": "translate_mcq", "xp": 10,
     "options": [{"text": "a", "is_correct": true}, {"text": "b"}]},
    {"id": "type-a", "kind": "letter_typing", "expected_answer": "ա", "xp": 5}
  ]
}`

const sampleYAML = `
id: alphabet-1
exercises:
  - id: rec-b
    kind: letter_recognition
    xp: 10
    config:
      choices: [ա, բ, գ]
      correctIndex: 1
  - id: order-1
    kind: sentence_order
    config:
      tokens: [Ես, եմ, ուսանող]
      solution: [Ես, ուսանող, եմ]
`

func TestLoad_JSON(t *testing.T) {
	l, err := Load(strings.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.ID != "alphabet-1" || l.Title != "First letters" {
		t.Errorf("lesson header = %q %q", l.ID, l.Title)
	}
	if len(l.Exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(l.Exercises))
	}
	if l.Exercises[1].Kind != exercise.KindTranslateMCQ || !l.Exercises[1].Options[0].IsCorrect {
		t.Errorf("mcq decoded as %+v", l.Exercises[1])
	}
	if ex := l.Find("type-a"); ex == nil || ex.XP != 5 {
		t.Errorf("Find(type-a) = %+v", ex)
	}
	if l.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
}

func TestLoad_YAMLDecodesConfigAsJSON(t *testing.T) {
	l, err := Load(strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := l.Exercises[0].Config
	if _, ok := cfg["correctIndex"].(float64); !ok {
		t.Errorf("correctIndex decoded as %T, want float64", cfg["correctIndex"])
	}
	if _, ok := cfg["choices"].([]any); !ok {
		t.Errorf("choices decoded as %T, want []any", cfg["choices"])
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"malformed json", `{"id": `, FormatJSON},
		{"no exercises", `{"id": "x", "exercises": []}`, FormatJSON},
		{"missing id", `{"exercises": [{"id": "a", "kind": "char_intro"}]}`, FormatJSON},
		{"exercise without kind", `{"id": "x", "exercises": [{"id": "a"}]}`, FormatJSON},
		{"negative xp", `{"id": "x", "exercises": [{"id": "a", "kind": "char_intro", "xp": -1}]}`, FormatJSON},
		{"option without text", `{"id": "x", "exercises": [{"id": "a", "kind": "true_false", "options": [{"is_correct": true}]}]}`, FormatJSON},
		{"malformed yaml", "id: [unclosed", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc), tt.format)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(l.Exercises) != 2 {
		t.Errorf("exercises = %d, want 2", len(l.Exercises))
	}

	if _, err := LoadFile(filepath.Join(dir, "nope.json")); err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("missing file err = %v, want I/O error", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":      FormatJSON,
		"a.yaml":      FormatYAML,
		"a.YML":       FormatYAML,
		"no-ext":      FormatJSON,
		"dir/x.y.yml": FormatYAML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestValidateExercise(t *testing.T) {
	if err := ValidateExercise(map[string]any{"id": "a", "kind": "true_false"}); err != nil {
		t.Errorf("valid exercise: %v", err)
	}
	if err := ValidateExercise(map[string]any{"kind": "true_false"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("exercise without id: err = %v", err)
	}
}
