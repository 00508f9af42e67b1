package home

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/lesson"
	"github.com/abhisek/hayer/internal/router"
	"github.com/abhisek/hayer/internal/screen"
	"github.com/abhisek/hayer/internal/screens/summary"
)

func testEntries() []lesson.Entry {
	return []lesson.Entry{
		{Path: "lessons/01.json", Lesson: &lesson.Lesson{
			ID:        "alphabet-1",
			Title:     "First letters",
			Exercises: []exercise.Exercise{{ID: "a"}, {ID: "b"}},
		}},
		{Path: "lessons/02.json", Err: errors.New("invalid lesson document")},
		{Path: "lessons/03.yaml", Lesson: &lesson.Lesson{ID: "greetings"}},
	}
}

func opener(opened *[]string) OpenFunc {
	return func(l *lesson.Lesson) screen.Screen {
		*opened = append(*opened, l.ID)
		return summary.New(&lesson.Summary{LessonID: l.ID})
	}
}

func TestHomeScreen_StartsLesson(t *testing.T) {
	var opened []string
	h := New(testEntries(), opener(&opened))

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	if len(opened) != 1 || opened[0] != "alphabet-1" {
		t.Errorf("opened = %v", opened)
	}
	if push.Screen.Title() != "Lesson Summary" {
		t.Errorf("pushed %q", push.Screen.Title())
	}
}

func TestHomeScreen_SkipsBrokenLesson(t *testing.T) {
	var opened []string
	h := New(testEntries(), opener(&opened))

	h.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	cmd()
	if len(opened) != 1 || opened[0] != "greetings" {
		t.Errorf("opened = %v, want [greetings]", opened)
	}
}

func TestHomeScreen_Exit(t *testing.T) {
	h := New(nil, nil)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestHomeScreen_View(t *testing.T) {
	h := New(testEntries(), nil)
	view := h.View(100, 30)
	for _, want := range []string{"First letters", "greetings", "2 lessons, 1 broken", "2 exercises"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := h.Title(); got != "Lessons" {
		t.Errorf("Title = %q", got)
	}
}

func TestHomeScreen_Empty(t *testing.T) {
	if view := New(nil, nil).View(100, 30); !strings.Contains(view, "No lesson files found") {
		t.Error("expected empty-dir notice")
	}
}
