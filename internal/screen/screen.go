// Package screen defines what the router needs from a terminal screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hayer/internal/ui/layout"
)

// Screen is one page of the player: the lesson picker, a running lesson
// or its summary. The app draws the header and footer around View.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area only.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that list their keys in the
// footer.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}
