package app

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hayer/internal/learner"
	"github.com/abhisek/hayer/internal/router"
	"github.com/abhisek/hayer/internal/screen"
)

type stubScreen struct {
	title   string
	escapes bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(width, height int) string { return s.title }
func (s *stubScreen) Title() string                 { return s.title }
func (s *stubScreen) HandlesEscape() bool           { return s.escapes }

var esc = tea.KeyPressMsg{Code: tea.KeyEscape}

func TestAppModel_EscPopsScreens(t *testing.T) {
	base := &stubScreen{title: "base"}
	m := newAppModel(base, learner.State{})
	m.router.Push(&stubScreen{title: "top"})

	_, cmd := m.Update(esc)
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestAppModel_EscForwardedToHandler(t *testing.T) {
	top := &stubScreen{title: "lesson", escapes: true}
	m := newAppModel(&stubScreen{title: "base"}, learner.State{})
	m.router.Push(top)

	m.Update(esc)
	if len(top.got) != 1 {
		t.Fatalf("escape handler got %d messages, want 1", len(top.got))
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(&stubScreen{}, learner.State{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_LearnerChanges(t *testing.T) {
	m := newAppModel(&stubScreen{title: "x"}, learner.State{HeartsCurrent: 5, HeartsMax: 5})

	updated, _ := m.Update(learnerChangedMsg(learner.State{HeartsCurrent: 3, HeartsMax: 5, XP: 40}))
	got := updated.(AppModel).learner
	if got.HeartsCurrent != 3 || got.XP != 40 {
		t.Errorf("learner = %+v", got)
	}
}

func TestAppModel_View(t *testing.T) {
	m := newAppModel(&stubScreen{title: "x"}, learner.State{HeartsCurrent: 5, HeartsMax: 5})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	v := updated.(AppModel).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}

func TestAppModel_PopAtRootQuits(t *testing.T) {
	m := newAppModel(&stubScreen{title: "summary"}, learner.State{})
	_, cmd := m.Update(router.PopScreenMsg{})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}

	m.router.Push(&stubScreen{title: "top"})
	m.Update(router.PopScreenMsg{})
	if m.router.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", m.router.Depth())
	}
}

func TestForwardChanges_NeverBlocksTheStore(t *testing.T) {
	mem := learner.NewMemory(5)
	release := make(chan struct{})
	got := make(chan learner.State, 10)
	stop := forwardChanges(mem, func(s learner.State) {
		<-release
		got <- s
	})
	defer stop()

	done := make(chan struct{})
	go func() {
		for range 5 {
			mem.AddXP(10)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("learner changes waited on a stalled send")
	}
	close(release)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-got:
			if s.XP == 50 {
				return
			}
		case <-deadline:
			t.Fatal("latest learner state was never forwarded")
		}
	}
}

func TestForwardChanges_StopIsIdempotent(t *testing.T) {
	mem := learner.NewMemory(5)
	stop := forwardChanges(mem, func(learner.State) {})
	stop()
	stop()
	mem.AddXP(1)
}
