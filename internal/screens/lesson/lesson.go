// Package lesson is the terminal screen that plays one lesson.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
	"github.com/abhisek/hayer/internal/learner"
	lsn "github.com/abhisek/hayer/internal/lesson"
	"github.com/abhisek/hayer/internal/router"
	"github.com/abhisek/hayer/internal/screen"
	"github.com/abhisek/hayer/internal/screens/summary"
	"github.com/abhisek/hayer/internal/ui/components"
	"github.com/abhisek/hayer/internal/ui/layout"
)

// LessonScreen implements screen.Screen for a running lesson.
type LessonScreen struct {
	runner *lsn.Runner
	engine *grading.Engine
	learn  learner.Store

	ex     *exercise.Exercise
	phase  phase
	resume phase

	choices components.ChoiceList
	input   components.TextInput
	tiles   components.Tiles
	match   pairCursor

	outcome  lsn.Outcome
	solution grading.Solution
	notice   string

	// pending holds recording jobs handed over by the runner; they are run
	// as commands so the UI never waits on the recorder.
	pending []func()
	lastAck atomic.Pointer[lsn.AckEvent]
}

// pairCursor is the cursor state of a match_pairs board.
type pairCursor struct {
	column int // 0 left, 1 right
	left   int
	right  int
	picked int // left item waiting for a partner, or -1
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.EscapeHandler = (*LessonScreen)(nil)

// New creates a LessonScreen for l. The runner's Learner, Dispatch and
// OnAck options are set by the screen; a caller's OnAck is still called.
func New(l *lsn.Lesson, learn learner.Store, opts lsn.Options) *LessonScreen {
	s := &LessonScreen{engine: opts.Engine, learn: learn}
	if s.engine == nil {
		s.engine = grading.Default
	}

	onAck := opts.OnAck
	opts.Engine = s.engine
	opts.Learner = learn
	opts.Dispatch = func(job func()) { s.pending = append(s.pending, job) }
	opts.OnAck = func(ev lsn.AckEvent) {
		s.lastAck.Store(&ev)
		if onAck != nil {
			onAck(ev)
		}
	}

	s.runner = lsn.NewRunner(l, opts)
	s.load()
	return s
}

// Runner returns the runner driving the screen.
func (s *LessonScreen) Runner() *lsn.Runner { return s.runner }

func (s *LessonScreen) Init() tea.Cmd {
	if s.ex == nil {
		return s.finish()
	}
	if s.ex.Kind.Typed() {
		return s.input.Init()
	}
	return nil
}

func (s *LessonScreen) Title() string {
	if t := s.runner.Lesson().Title; t != "" {
		return t
	}
	return "Lesson"
}

// HandlesEscape reports that Esc opens the quit dialog instead of leaving.
func (s *LessonScreen) HandlesEscape() bool { return true }

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End lesson"},
			{Key: "N", Description: "Keep going"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	if s.ex == nil {
		return nil
	}

	var hints []layout.KeyHint
	switch {
	case s.ex.Kind == exercise.KindCharIntro:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Continue"})
	case s.ex.Kind == exercise.KindMatchPairs:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Tab", Description: "Switch column"},
			layout.KeyHint{Key: "Enter", Description: "Pick"})
	case s.ex.Kind.Typed():
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check"})
	case s.ex.Kind.Ordered():
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Pick"},
			layout.KeyHint{Key: "Bksp", Description: "Undo"},
			layout.KeyHint{Key: "Enter", Description: "Check"})
	case s.choices.Multi:
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Toggle"},
			layout.KeyHint{Key: "Enter", Description: "Check"})
	default:
		hints = append(hints, layout.KeyHint{Key: "1-9", Description: "Answer"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Skip"},
		layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordedMsg:
		return s.handleRecorded()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	// Forward cursor blinks and the like to the text input.
	if s.phase == phaseAnswering && s.ex != nil && s.ex.Kind.Typed() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// load prepares the widgets for the active exercise.
func (s *LessonScreen) load() tea.Cmd {
	s.ex, _ = s.runner.Current()
	s.phase = phaseAnswering
	s.notice = ""
	s.outcome = lsn.Outcome{}
	s.solution = grading.Solution{}
	if s.ex == nil {
		return nil
	}

	switch {
	case s.ex.Kind == exercise.KindCharIntro:
	case s.ex.Kind == exercise.KindMatchPairs:
		s.match = pairCursor{picked: -1}
	case s.ex.Kind.Typed():
		s.input = components.NewTextInput("Type your answer...", 64)
		return s.input.Init()
	case s.ex.Kind.Ordered():
		sep := " "
		if s.ex.Kind == exercise.KindCharBuildWord {
			sep = ""
		}
		s.tiles = components.NewTiles(s.engine.Resolver().Sequence(s.ex).Items, sep)
	default:
		s.choices = components.NewChoiceList(answerkey.Choices(s.ex), grading.IsMulti(s.ex))
	}
	return nil
}

func (s *LessonScreen) handleRecorded() (screen.Screen, tea.Cmd) {
	ev := s.lastAck.Load()
	if ev != nil && ev.Err != nil && !ev.Stale {
		s.notice = "Answer not saved: " + ev.Err.Error()
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseQuitConfirm:
		switch key {
		case "y", "Y":
			return s, s.finish()
		case "n", "N", "esc":
			s.phase = s.resume
		}
		return s, nil

	case phaseFeedback:
		if key == "esc" {
			s.confirmQuit()
			return s, nil
		}
		return s.advance()
	}

	if s.ex == nil {
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit()
		return s, nil
	case "ctrl+s":
		return s.skip()
	}

	switch {
	case s.ex.Kind == exercise.KindCharIntro:
		if key == "enter" || key == "space" {
			return s.submit(exercise.Input{})
		}

	case s.ex.Kind == exercise.KindMatchPairs:
		return s.handleMatchKey(key)

	case s.ex.Kind.Typed():
		if key == "enter" {
			return s.submit(exercise.Input{Text: s.input.Value()})
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case s.ex.Kind.Ordered():
		if key == "enter" {
			return s.submit(exercise.Input{Sequence: s.tiles.Sequence(), Text: s.tiles.Answer()})
		}
		s.tiles, _ = s.tiles.Update(msg)

	default:
		if key == "enter" {
			return s.submit(exercise.Input{Selected: s.choices.Selected()})
		}
		s.choices, _ = s.choices.Update(msg)
		// Number keys answer single-choice exercises directly.
		if n, ok := digitKey(key); ok && !s.choices.Multi && n >= 1 && n <= len(s.choices.Options) {
			return s.submit(exercise.Input{Selected: s.choices.Selected()})
		}
	}
	return s, nil
}

func (s *LessonScreen) handleMatchKey(key string) (screen.Screen, tea.Cmd) {
	b := s.runner.Board()
	if b == nil || b.Len() == 0 {
		if key == "enter" {
			// Nothing to match: the runner reports the missing pairs.
			return s.submit(exercise.Input{})
		}
		return s, nil
	}

	m := &s.match
	cursor := &m.left
	if m.column == 1 {
		cursor = &m.right
	}

	switch key {
	case "up", "k":
		if *cursor > 0 {
			*cursor--
		}
	case "down", "j":
		if *cursor < b.Len()-1 {
			*cursor++
		}
	case "left", "h":
		m.column = 0
	case "right", "l":
		m.column = 1
	case "tab":
		m.column = 1 - m.column
	case "enter", "space":
		if m.column == 0 {
			if !b.LeftMatched(m.left) {
				m.picked = m.left
				m.column = 1
			}
			return s, nil
		}
		if m.picked < 0 {
			s.notice = "Pick a word on the left first"
			return s, nil
		}
		if b.RightMatched(m.right) {
			return s, nil
		}
		return s.submit(exercise.Input{Pair: &exercise.PairPick{Left: m.picked, Right: m.right}})
	}
	return s, nil
}

func (s *LessonScreen) submit(in exercise.Input) (screen.Screen, tea.Cmd) {
	out, err := s.runner.Submit(context.Background(), in)
	switch {
	case errors.Is(err, lsn.ErrNotCheckable):
		s.notice = s.incompleteHint()
		return s, nil
	case err != nil:
		s.notice = err.Error()
		return s, nil
	}

	if !out.Final {
		s.match.picked = -1
		s.match.column = 0
		if out.Result.IsCorrect {
			s.notice = "Matched!"
		} else {
			s.notice = "Not a pair, try again"
		}
		return s, nil
	}

	s.showFeedback(out)
	return s, s.flush()
}

func (s *LessonScreen) skip() (screen.Screen, tea.Cmd) {
	out, err := s.runner.Skip(context.Background())
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	s.showFeedback(out)
	return s, s.flush()
}

func (s *LessonScreen) showFeedback(out lsn.Outcome) {
	s.outcome = out
	s.phase = phaseFeedback
	s.notice = ""
	s.solution = s.engine.Solution(s.ex)

	switch {
	case s.ex.Kind == exercise.KindCharIntro, s.ex.Kind == exercise.KindMatchPairs:
	case s.ex.Kind.Typed():
		s.input.Submit(out.Result.IsCorrect)
	case s.ex.Kind.Ordered():
		s.tiles.Lock()
	default:
		s.choices.Reveal(s.solution.Indices)
	}
}

// flush turns the queued recording jobs into commands.
func (s *LessonScreen) flush() tea.Cmd {
	jobs := s.pending
	s.pending = nil

	cmds := make([]tea.Cmd, 0, len(jobs))
	for _, job := range jobs {
		cmds = append(cmds, func() tea.Msg {
			job()
			return recordedMsg{}
		})
	}
	return tea.Batch(cmds...)
}

func (s *LessonScreen) advance() (screen.Screen, tea.Cmd) {
	next, err := s.runner.Next()
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	if next == nil {
		return s, s.finish()
	}
	return s, s.load()
}

func (s *LessonScreen) confirmQuit() {
	s.resume = s.phase
	s.phase = phaseQuitConfirm
}

// finish hands over to the summary of the run so far.
func (s *LessonScreen) finish() tea.Cmd {
	sum := summary.New(s.runner.Summary())
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: sum}
	}
}

func (s *LessonScreen) incompleteHint() string {
	switch {
	case s.ex.Kind.Typed():
		return "Type an answer first"
	case s.ex.Kind.Ordered():
		return "Pick some tiles first"
	case s.choices.Multi:
		minSel, maxSel := grading.SelectionBounds(s.ex)
		switch {
		case maxSel == 0 || maxSel == len(s.choices.Options) && minSel < maxSel:
			return fmt.Sprintf("Select at least %d", minSel)
		case minSel == maxSel:
			return fmt.Sprintf("Select exactly %d", minSel)
		}
		return fmt.Sprintf("Select %d to %d", minSel, maxSel)
	}
	return "Pick an answer first"
}

func digitKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '0'), true
}
