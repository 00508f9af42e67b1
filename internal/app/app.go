// Package app runs the terminal lesson player.
package app

import (
	"fmt"
	"os"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/learner"
	"github.com/abhisek/hayer/internal/router"
	"github.com/abhisek/hayer/internal/screen"
	"github.com/abhisek/hayer/internal/ui/layout"
)

// learnerChangedMsg carries the learner state after a change.
type learnerChangedMsg learner.State

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	learner learner.State
	width   int
	height  int
}

// newAppModel creates a new AppModel showing initial.
func newAppModel(initial screen.Screen, state learner.State) AppModel {
	return AppModel{
		router:  router.New(initial),
		learner: state,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case learnerChangedMsg:
		m.learner = learner.State(msg)
		return m, nil

	case router.PopScreenMsg:
		if m.router.Depth() <= 1 {
			return m, tea.Quit
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); !ok || !eh.HandlesEscape() {
				if m.router.Depth() > 1 {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.learner.HeartsCurrent, m.learner.HeartsMax, m.learner.XP, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program on initial. The header follows learn
// through a subscription for as long as the program runs.
func Run(initial screen.Screen, learn learner.Store) error {
	p := tea.NewProgram(newAppModel(initial, learn.State()))

	stop := forwardChanges(learn, func(s learner.State) {
		p.Send(learnerChangedMsg(s))
	})
	defer stop()

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// forwardChanges calls send with the latest learner state after changes,
// from its own goroutine. The subscriber only raises a flag, so a change
// made under a caller's lock never waits on send; bursts of changes
// collapse into one send of the newest state.
func forwardChanges(learn learner.Store, send func(learner.State)) (stop func()) {
	changed := make(chan struct{}, 1)
	done := make(chan struct{})

	cancel := learn.Subscribe(func(learner.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-changed:
				send(learn.State())
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			close(done)
		})
	}
}
