package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hayer/internal/ui/theme"
)

// ChoiceList is a single or multi-select list of choices. Indices always
// follow the authored choice order.
type ChoiceList struct {
	Options []string
	Multi   bool
	Cursor  int

	checked  []bool
	revealed bool
	correct  map[int]bool
}

// NewChoiceList creates a choice list with the cursor on the first option.
func NewChoiceList(options []string, multi bool) ChoiceList {
	return ChoiceList{
		Options: options,
		Multi:   multi,
		checked: make([]bool, len(options)),
	}
}

// Update moves the cursor and toggles choices. Number keys 1-9 jump to a
// choice; in multi mode they toggle it as space does.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.revealed {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space":
		if c.Multi {
			c.toggle(c.Cursor)
		}
	default:
		if n, ok := digit(key); ok && n >= 1 && n <= len(c.Options) {
			c.Cursor = n - 1
			if c.Multi {
				c.toggle(c.Cursor)
			}
		}
	}
	return c, nil
}

func (c *ChoiceList) toggle(i int) {
	if i >= 0 && i < len(c.checked) {
		c.checked[i] = !c.checked[i]
	}
}

// Selected returns the chosen indices: the checked ones in multi mode,
// otherwise the cursor.
func (c ChoiceList) Selected() []int {
	if !c.Multi {
		if len(c.Options) == 0 {
			return nil
		}
		return []int{c.Cursor}
	}
	var out []int
	for i, on := range c.checked {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// Reveal locks the list and marks the correct indices.
func (c *ChoiceList) Reveal(correct []int) {
	c.revealed = true
	c.correct = make(map[int]bool, len(correct))
	for _, i := range correct {
		c.correct[i] = true
	}
}

// View renders the list.
func (c ChoiceList) View() string {
	chosen := make(map[int]bool)
	for _, i := range c.Selected() {
		chosen[i] = true
	}

	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.revealed {
			prefix = "> "
		}
		box := ""
		if c.Multi {
			box = "[ ] "
			if c.checked[i] {
				box = "[x] "
			}
		}
		line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, box, opt)

		switch {
		case c.revealed && c.correct[i]:
			b.WriteString(theme.Correct.Render(line))
		case c.revealed && chosen[i]:
			b.WriteString(theme.Incorrect.Render(line))
		case c.revealed:
			b.WriteString(theme.Dim.Render(line))
		case i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// digit parses a single-digit key.
func digit(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}
