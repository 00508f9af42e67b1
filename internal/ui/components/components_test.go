package components

import (
	"slices"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	space     = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	backspace = tea.KeyPressMsg{Code: tea.KeyBackspace}
)

func TestChoiceList_Single(t *testing.T) {
	c := NewChoiceList([]string{"ա", "բ", "գ"}, false)
	if got := c.Selected(); !slices.Equal(got, []int{0}) {
		t.Fatalf("Selected = %v, want [0]", got)
	}

	c, _ = c.Update(keyPress('j'))
	c, _ = c.Update(keyPress('j'))
	c, _ = c.Update(keyPress('j'))
	if c.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", c.Cursor)
	}
	c, _ = c.Update(keyPress('1'))
	if got := c.Selected(); !slices.Equal(got, []int{0}) {
		t.Errorf("Selected = %v, want [0]", got)
	}
	c, _ = c.Update(keyPress('9'))
	if c.Cursor != 0 {
		t.Errorf("out-of-range digit moved the cursor to %d", c.Cursor)
	}
}

func TestChoiceList_Multi(t *testing.T) {
	c := NewChoiceList([]string{"ա", "բ", "գ"}, true)
	if len(c.Selected()) != 0 {
		t.Fatal("multi list should start empty")
	}

	c, _ = c.Update(space)
	c, _ = c.Update(keyPress('3'))
	c, _ = c.Update(keyPress('2'))
	c, _ = c.Update(keyPress('2'))
	if got := c.Selected(); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Selected = %v, want [0 2]", got)
	}
}

func TestChoiceList_RevealLocks(t *testing.T) {
	c := NewChoiceList([]string{"ա", "բ"}, false)
	c.Reveal([]int{1})
	c, _ = c.Update(keyPress('2'))
	if c.Cursor != 0 {
		t.Error("revealed list should ignore input")
	}
	if c.View() == "" {
		t.Error("expected a view")
	}
}

func TestTiles(t *testing.T) {
	tl := NewTiles([]string{"ա", "գ", "բ"}, "")

	tl, _ = tl.Update(keyPress('2'))
	tl, _ = tl.Update(keyPress('2'))
	if got := tl.Sequence(); !slices.Equal(got, []int{1}) {
		t.Fatalf("a tile was used twice: %v", got)
	}

	tl, _ = tl.Update(keyPress('h'))
	tl, _ = tl.Update(space)
	tl, _ = tl.Update(keyPress('l'))
	tl, _ = tl.Update(keyPress('l'))
	tl, _ = tl.Update(space)
	if got := tl.Answer(); got != "գաբ" {
		t.Errorf("Answer = %q, want %q", got, "գաբ")
	}

	tl, _ = tl.Update(backspace)
	if got := tl.Sequence(); !slices.Equal(got, []int{1, 0}) {
		t.Errorf("Sequence after undo = %v, want [1 0]", got)
	}

	tl.Lock()
	tl, _ = tl.Update(keyPress('3'))
	if len(tl.Sequence()) != 2 {
		t.Error("locked tiles should ignore input")
	}
}

func TestTiles_WordsJoinWithSpace(t *testing.T) {
	tl := NewTiles([]string{"ես", "եմ"}, " ")
	tl, _ = tl.Update(keyPress('1'))
	tl, _ = tl.Update(keyPress('2'))
	if got := tl.Answer(); got != "ես եմ" {
		t.Errorf("Answer = %q", got)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	picked := ""
	pick := func(name string) func() tea.Cmd {
		return func() tea.Cmd {
			picked = name
			return nil
		}
	}
	m := NewMenu([]MenuItem{
		{Label: "broken", Disabled: true},
		{Label: "alphabet", Action: pick("alphabet")},
		{Label: "also broken", Disabled: true},
		{Label: "greetings", Action: pick("greetings")},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item 1", m.Selected)
	}

	m, _ = m.Update(keyPress('k'))
	if m.Selected != 1 {
		t.Errorf("up past disabled items moved to %d", m.Selected)
	}

	m, _ = m.Update(keyPress('j'))
	if m.Selected != 3 {
		t.Errorf("Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(keyPress('j'))
	if m.Selected != 3 {
		t.Errorf("down at the end moved to %d", m.Selected)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "greetings" {
		t.Errorf("picked = %q, want greetings", picked)
	}
}

func TestMenu_Current(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "only", Disabled: true}})
	if _, ok := m.Current(); ok {
		t.Error("a disabled item is not current")
	}
	if !strings.Contains(m.View(20), "only") {
		t.Error("disabled items are still shown")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name  string
		bar   ProgressBar
		wants []string
	}{
		{"percent", NewProgressBar("Score", 0.8, true, 40), []string{"Score", "80%"}},
		{"clamped", NewProgressBar("", 1.7, true, 20), []string{"100%"}},
		{"pass mark", NewProgressBar("", 0.5, false, 20).WithMark(0.7), []string{"│"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := tt.bar.View()
			for _, want := range tt.wants {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q", want)
				}
			}
		})
	}
}
