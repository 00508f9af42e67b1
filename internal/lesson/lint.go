package lesson

import (
	"fmt"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/grading"
)

// Severity grades a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one content problem found by Lint.
type Finding struct {
	ExerciseID string        `json:"exercise_id"`
	Kind       exercise.Kind `json:"kind"`
	Severity   Severity      `json:"severity"`
	Message    string        `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", f.Severity, f.Kind, f.ExerciseID, f.Message)
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint reports exercises the grader cannot grade as authored, plus
// authoring data that grades but looks suspicious.
func Lint(l *Lesson, r *answerkey.Resolver) []Finding {
	if r == nil {
		r = answerkey.Default
	}

	var out []Finding
	seen := make(map[string]bool)
	for i := range l.Exercises {
		ex := &l.Exercises[i]
		add := func(sev Severity, format string, args ...any) {
			out = append(out, Finding{
				ExerciseID: ex.ID,
				Kind:       ex.Kind,
				Severity:   sev,
				Message:    fmt.Sprintf(format, args...),
			})
		}

		switch {
		case ex.ID == "":
			add(SeverityError, "missing exercise id (position %d)", i)
		case seen[ex.ID]:
			add(SeverityError, "duplicate exercise id")
		}
		seen[ex.ID] = true

		if ex.XP < 0 {
			add(SeverityWarning, "negative xp %d", ex.XP)
		}
		if !ex.Kind.Known() {
			add(SeverityError, "%s %q", grading.MsgUnsupportedKind, ex.Kind)
			continue
		}

		for _, msg := range lintExercise(r, ex) {
			add(msg.sev, "%s", msg.text)
		}
	}
	return out
}

type lintMsg struct {
	sev  Severity
	text string
}

// LintExercise checks one exercise.
func LintExercise(ex *exercise.Exercise, r *answerkey.Resolver) []Finding {
	return Lint(&Lesson{Exercises: []exercise.Exercise{*ex}}, r)
}

func lintExercise(r *answerkey.Resolver, ex *exercise.Exercise) []lintMsg {
	var out []lintMsg
	errf := func(format string, args ...any) {
		out = append(out, lintMsg{SeverityError, fmt.Sprintf(format, args...)})
	}
	warnf := func(format string, args ...any) {
		out = append(out, lintMsg{SeverityWarning, fmt.Sprintf(format, args...)})
	}

	switch {
	case ex.Kind == exercise.KindCharIntro:
		return nil

	case ex.Kind == exercise.KindMatchPairs:
		if len(answerkey.ResolvePairs(ex)) == 0 {
			errf("%s: no usable pairs", grading.MsgMissingAnswer)
		}
		return out

	case ex.Kind.Ordered():
		seq := r.Sequence(ex)
		if len(seq.Items) == 0 {
			errf("no tiles or tokens to order")
		}
		if !seq.HasSolution() && len(r.Resolve(ex).TextCandidates(nil)) == 0 {
			errf("%s", grading.MsgMissingAnswer)
		}
		return out
	}

	key := r.Resolve(ex)
	choices := answerkey.Choices(ex)

	if ex.Kind.Typed() {
		if len(key.TextCandidates(choices)) == 0 {
			errf("%s", grading.MsgMissingAnswer)
		}
		return out
	}

	if len(choices) == 0 {
		errf("no choices to select from")
	}
	if key.IsNone() {
		errf("%s", grading.MsgMissingAnswer)
		return out
	}
	if key.Ambiguous {
		warnf("%s may be 0-based or 1-based; set config.indexBase to 0 or 1", key.Source)
	}
	if key.Mode == answerkey.ByText && len(choices) > 0 && len(key.TextCandidates(choices)) > 0 {
		matched := false
		for _, c := range choices {
			if key.MatchesText(c) {
				matched = true
				break
			}
		}
		if !matched {
			errf("answer text from %s matches none of the choices", key.Source)
		}
	}
	if !grading.IsMulti(ex) && key.Mode == answerkey.ByIndex && len(key.Indices) > 1 {
		warnf("single-choice exercise has %d correct indices; only one can be selected", len(key.Indices))
	}
	return out
}
