package grading

import (
	"strings"

	"github.com/abhisek/hayer/internal/answerkey"
	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/textnorm"
)

var multiFlagKeys = []string{"multi", "multiple", "isMulti", "is_multi", "allowMultiple", "allow_multiple"}

// IsMulti reports whether ex is graded as a multi-select. multi_select
// always is; letter_recognition is when flagged multi or when its prompt
// asks to "select all".
func IsMulti(ex *exercise.Exercise) bool {
	if ex == nil {
		return false
	}
	switch ex.Kind {
	case exercise.KindMultiSelect:
		return true
	case exercise.KindLetterRecognition:
		for _, k := range multiFlagKeys {
			if b, ok := ex.Config[k].(bool); ok && b {
				return true
			}
		}
		if mode, ok := ex.Config["mode"].(string); ok && strings.EqualFold(mode, "multi") {
			return true
		}
		return strings.Contains(strings.ToLower(ex.Prompt), "select all")
	}
	return false
}

// SelectionBounds returns the inclusive number of choices a multi-select
// UI must allow before submission. Authored minSelect/maxSelect are
// clamped to [1, choice count]; max is 0 when the choice count is unknown
// and no bound was authored.
func SelectionBounds(ex *exercise.Exercise) (minSel, maxSel int) {
	if ex == nil {
		return 1, 0
	}
	n := len(answerkey.Choices(ex))
	minSel, maxSel = 1, n

	if v, ok := ex.Config.Get("minSelect", "min_select"); ok {
		if i, ok := toInt(v); ok && i > 1 {
			minSel = i
		}
	}
	if v, ok := ex.Config.Get("maxSelect", "max_select"); ok {
		if i, ok := toInt(v); ok && i > 0 && (n == 0 || i < n) {
			maxSel = i
		}
	}
	if n > 0 && minSel > n {
		minSel = n
	}
	if maxSel > 0 && maxSel < minSel {
		maxSel = minSel
	}
	return minSel, maxSel
}

// CanCheck reports whether in is complete enough to be submitted for ex.
// Skips are always allowed.
func CanCheck(ex *exercise.Exercise, in exercise.Input) bool {
	if ex == nil {
		return false
	}
	if in.Skip {
		return true
	}

	switch ex.Kind {
	case exercise.KindCharIntro:
		return true
	case exercise.KindLetterTyping, exercise.KindWordSpelling, exercise.KindFillBlank:
		return textnorm.Normalize(in.Text) != ""
	case exercise.KindCharBuildWord, exercise.KindSentenceOrder:
		return len(in.Sequence) > 0
	case exercise.KindMatchPairs:
		return in.Pair != nil
	}

	n := len(distinct(in.Selected))
	if IsMulti(ex) {
		minSel, maxSel := SelectionBounds(ex)
		return n >= minSel && (maxSel == 0 || n <= maxSel)
	}
	return n == 1
}

// BuildWord concatenates the picked tiles in pick order. Out-of-range picks
// are ignored.
func BuildWord(tiles []string, picks []int) string {
	var b strings.Builder
	for _, p := range picks {
		if p >= 0 && p < len(tiles) {
			b.WriteString(tiles[p])
		}
	}
	return b.String()
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	}
	return 0, false
}
