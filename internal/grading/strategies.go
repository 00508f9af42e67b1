package grading

import (
	"slices"
	"strings"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/textnorm"
)

func gradeIntro(_ *answerkey.Resolver, _ *exercise.Exercise, _ exercise.Input) Verdict {
	return Verdict{Correct: true}
}

// gradeRecognition dispatches letter_recognition to the single or multi
// selection rule.
func gradeRecognition(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	if IsMulti(ex) {
		return gradeMultiSelect(r, ex, in)
	}
	return gradeSingleChoice(r, ex, in)
}

func gradeSingleChoice(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	sel := distinct(in.Selected)
	v := Verdict{Selected: sel}
	if len(sel) == 0 {
		v.Message = MsgNoSelection
		return v
	}

	choices := answerkey.Choices(ex)
	idx := sel[0]
	if idx < 0 || (len(choices) > 0 && idx >= len(choices)) {
		v.Message = MsgOutOfRange
		return v
	}
	if idx < len(choices) {
		v.Answer = choices[idx]
	}

	key := r.Resolve(ex)
	switch key.Mode {
	case answerkey.ByIndex:
		v.Correct = len(sel) == 1 && key.HasIndex(idx)
	case answerkey.ByText:
		v.Correct = len(sel) == 1 && idx < len(choices) && key.MatchesText(choices[idx])
	default:
		v.Message = MsgMissingAnswer
	}
	return v
}

func gradeMultiSelect(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	sel := distinct(in.Selected)
	slices.Sort(sel)
	v := Verdict{Selected: sel}

	choices := answerkey.Choices(ex)
	texts := make([]string, 0, len(sel))
	for _, i := range sel {
		if i >= 0 && i < len(choices) {
			texts = append(texts, choices[i])
		}
	}
	v.Answer = strings.Join(texts, ", ")

	key := r.Resolve(ex)
	if key.IsNone() {
		v.Message = MsgMissingAnswer
		return v
	}
	if len(sel) == 0 {
		v.Message = MsgNoSelection
		return v
	}

	switch key.Mode {
	case answerkey.ByIndex:
		v.Correct = len(key.Indices) > 0 && slices.Equal(sel, key.Indices)
	case answerkey.ByText:
		if len(texts) != len(sel) {
			v.Message = MsgOutOfRange
			return v
		}
		v.Correct = sameTextSet(texts, key.Texts)
	}
	return v
}

func gradeTyped(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	v := Verdict{Answer: in.Text}
	if textnorm.Normalize(in.Text) == "" {
		v.Message = MsgEmptyAnswer
		return v
	}

	key := r.Resolve(ex)
	candidates := key.TextCandidates(answerkey.Choices(ex))
	if len(candidates) == 0 {
		v.Message = MsgMissingAnswer
		return v
	}
	for _, c := range candidates {
		if textnorm.Equal(c, in.Text) {
			v.Correct = true
			break
		}
	}
	return v
}

func gradeBuildWord(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	picks := slices.Clone(in.Sequence)
	v := Verdict{Selected: picks}
	if len(picks) == 0 {
		v.Message = MsgNoSelection
		return v
	}

	seq := r.Sequence(ex)
	if !pickable(picks, len(seq.Items)) {
		v.Message = MsgOutOfRange
		return v
	}
	v.Answer = BuildWord(seq.Items, picks)

	switch {
	case len(seq.Indices) > 0:
		v.Correct = slices.Equal(picks, seq.Indices)
	case len(seq.Texts) > 0:
		v.Correct = samePositions(seq.Items, picks, seq.Texts)
	case seq.Word != "":
		v.Correct = textnorm.Equal(v.Answer, seq.Word)
	default:
		candidates := r.Resolve(ex).TextCandidates(nil)
		if len(candidates) == 0 {
			v.Message = MsgMissingAnswer
			return v
		}
		v.Correct = matchesAny(v.Answer, candidates)
	}
	return v
}

// gradeSentenceOrder accepts an ordered solution token list, then
// solutionIndices, then a whole-sentence text comparison.
func gradeSentenceOrder(r *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	picks := slices.Clone(in.Sequence)
	v := Verdict{Selected: picks}
	if len(picks) == 0 {
		v.Message = MsgNoSelection
		return v
	}

	seq := r.Sequence(ex)
	if !pickable(picks, len(seq.Items)) {
		v.Message = MsgOutOfRange
		return v
	}
	words := make([]string, 0, len(picks))
	for _, p := range picks {
		if p < len(seq.Items) {
			words = append(words, seq.Items[p])
		}
	}
	v.Answer = strings.Join(words, " ")

	switch {
	case len(seq.Texts) > 0:
		v.Correct = samePositions(seq.Items, picks, seq.Texts)
	case len(seq.Indices) > 0:
		v.Correct = slices.Equal(picks, seq.Indices)
	default:
		candidates := r.Resolve(ex).TextCandidates(nil)
		if len(candidates) == 0 {
			v.Message = MsgMissingAnswer
			return v
		}
		v.Correct = matchesAny(v.Answer, candidates)
	}
	return v
}

// gradePairPick grades one left/right pick against the authored pairs.
// Indices address the authored left and right columns.
func gradePairPick(_ *answerkey.Resolver, ex *exercise.Exercise, in exercise.Input) Verdict {
	pairs := answerkey.ResolvePairs(ex)
	if len(pairs) == 0 {
		return Verdict{Message: MsgMissingAnswer}
	}
	if in.Pair == nil {
		return Verdict{Message: MsgNoSelection}
	}

	l, rt := in.Pair.Left, in.Pair.Right
	v := Verdict{Selected: []int{l, rt}}
	if l < 0 || l >= len(pairs) || rt < 0 || rt >= len(pairs) {
		v.Message = MsgOutOfRange
		return v
	}
	v.Answer = pairs[l].Left + " = " + pairs[rt].Right
	v.Correct = textnorm.Equal(pairs[rt].Right, partnerOf(pairs, pairs[l].Left))
	return v
}

// partnerOf returns the authored right item of the first pair whose left
// side equals left after normalization.
func partnerOf(pairs []answerkey.Pair, left string) string {
	for _, p := range pairs {
		if textnorm.Equal(p.Left, left) {
			return p.Right
		}
	}
	return ""
}

// distinct returns sel without duplicates, keeping first-seen order.
func distinct(sel []int) []int {
	if len(sel) == 0 {
		return nil
	}
	out := make([]int, 0, len(sel))
	for _, s := range sel {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// pickable reports whether every pick addresses one of n items.
func pickable(picks []int, n int) bool {
	if n == 0 {
		return false
	}
	for _, p := range picks {
		if p < 0 || p >= n {
			return false
		}
	}
	return true
}

// samePositions compares the picked items to want position by position.
func samePositions(items []string, picks []int, want []string) bool {
	if len(picks) != len(want) {
		return false
	}
	for i, p := range picks {
		if !textnorm.Equal(items[p], want[i]) {
			return false
		}
	}
	return true
}

func sameTextSet(got, want []string) bool {
	norm := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if n := textnorm.Normalize(s); n != "" {
				out = append(out, n)
			}
		}
		slices.Sort(out)
		return slices.Compact(out)
	}
	g, w := norm(got), norm(want)
	return len(w) > 0 && slices.Equal(g, w)
}

func matchesAny(answer string, candidates []string) bool {
	for _, c := range candidates {
		if textnorm.Equal(answer, c) {
			return true
		}
	}
	return false
}
