package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hayer/internal/ui/theme"
)

// Tiles lets the learner assemble an answer from letter or word tiles.
// Each tile can be used once.
type Tiles struct {
	Items  []string
	Picked []int
	Cursor int

	// Sep joins picked tiles in the preview: "" for letters, " " for words.
	Sep string

	used   []bool
	locked bool
}

// NewTiles creates a tile tray.
func NewTiles(items []string, sep string) Tiles {
	return Tiles{Items: items, Sep: sep, used: make([]bool, len(items))}
}

// Update handles tile navigation: left/right move, space picks the tile
// under the cursor, number keys pick directly and backspace undoes.
func (t Tiles) Update(msg tea.Msg) (Tiles, tea.Cmd) {
	if t.locked {
		return t, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return t, nil
	}

	key := kmsg.String()
	switch key {
	case "left", "h":
		if t.Cursor > 0 {
			t.Cursor--
		}
	case "right", "l":
		if t.Cursor < len(t.Items)-1 {
			t.Cursor++
		}
	case "space":
		t.pick(t.Cursor)
	case "backspace":
		if n := len(t.Picked); n > 0 {
			t.used[t.Picked[n-1]] = false
			t.Picked = t.Picked[:n-1]
		}
	default:
		if n, ok := digit(key); ok && n >= 1 && n <= len(t.Items) {
			t.Cursor = n - 1
			t.pick(t.Cursor)
		}
	}
	return t, nil
}

func (t *Tiles) pick(i int) {
	if i < 0 || i >= len(t.Items) || t.used[i] {
		return
	}
	t.used[i] = true
	t.Picked = append(t.Picked, i)
}

// Sequence returns the picked tile indices in pick order.
func (t Tiles) Sequence() []int {
	return append([]int(nil), t.Picked...)
}

// Answer returns the picked tiles joined with Sep.
func (t Tiles) Answer() string {
	parts := make([]string, len(t.Picked))
	for i, p := range t.Picked {
		parts[i] = t.Items[p]
	}
	return strings.Join(parts, t.Sep)
}

// Lock stops accepting input.
func (t *Tiles) Lock() { t.locked = true }

// View renders the assembled answer above the tray.
func (t Tiles) View() string {
	answer := t.Answer()
	if answer == "" {
		answer = theme.Hint.Render("pick tiles…")
	} else {
		answer = theme.Body.Bold(true).Render(answer)
	}

	tiles := make([]string, len(t.Items))
	for i, item := range t.Items {
		style := theme.Tile
		switch {
		case t.used[i]:
			style = theme.TileUsed
		case i == t.Cursor && !t.locked:
			style = theme.TileFocused
		}
		tiles[i] = style.Render(item)
	}

	return answer + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
