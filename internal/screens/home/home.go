// Package home lists the lessons of a directory and starts the one the
// learner picks.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/lesson"
	"github.com/abhisek/hayer/internal/router"
	"github.com/abhisek/hayer/internal/screen"
	"github.com/abhisek/hayer/internal/ui/components"
	"github.com/abhisek/hayer/internal/ui/layout"
	"github.com/abhisek/hayer/internal/ui/theme"
)

const (
	titleFull    = "Հ · Ա · Յ · Ե · Ր"
	titleCompact = "HAYER"
)

// OpenFunc builds the screen that runs l.
type OpenFunc func(l *lesson.Lesson) screen.Screen

// HomeScreen is the lesson picker.
type HomeScreen struct {
	entries []lesson.Entry
	menu    components.Menu
	broken  int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen for entries. Entries that failed to load are
// listed but cannot be started.
func New(entries []lesson.Entry, open OpenFunc) *HomeScreen {
	h := &HomeScreen{entries: entries}

	items := make([]components.MenuItem, 0, len(entries)+1)
	for _, e := range entries {
		item := components.MenuItem{Label: e.Name()}
		if e.Err != nil {
			h.broken++
			item.Disabled = true
			item.Detail = e.Err.Error()
		} else {
			l := e.Lesson
			item.Detail = fmt.Sprintf("%d exercises", len(l.Exercises))
			item.Action = func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: open(l)}
				}
			}
		}
		items = append(items, item)
	}
	items = append(items, components.MenuItem{
		Label:  "Exit",
		Action: func() tea.Cmd { return tea.Quit },
	})

	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Lessons"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Start"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height) || width < layout.MinWidth+20
	cw := components.ContentWidth(width)

	title := titleFull
	if compact {
		title = titleCompact
	}

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render(title))

	stats := fmt.Sprintf("%d lessons", len(h.entries)-h.broken)
	if h.broken > 0 {
		stats += fmt.Sprintf(", %d broken", h.broken)
	}
	sections = append(sections, components.Card(stats, cw))

	if len(h.entries) == 0 {
		sections = append(sections, theme.Hint.Render("No lesson files found"))
	}
	sections = append(sections, h.menu.View(cw-4))

	if item, ok := h.menu.Current(); ok && item.Detail != "" {
		sections = append(sections, theme.Hint.Render(item.Detail))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
