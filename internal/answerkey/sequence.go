package answerkey

import (
	"slices"
	"strings"

	"github.com/abhisek/hayer/internal/exercise"
)

// Sequence is the authored solution of an ordering or assembly exercise.
type Sequence struct {
	// Items are the tiles or tokens offered to the learner, as authored.
	Items []string

	// Indices is the authored order as indices into Items. Nil when the
	// exercise carries no valid solutionIndices.
	Indices []int

	// Texts is the authored order as item texts. Nil when absent.
	Texts []string

	// Word is a whole-answer solution authored as one string.
	Word string

	// Source names the field the solution was resolved from.
	Source string
}

// HasSolution reports whether any solution style was authored.
func (s Sequence) HasSolution() bool {
	return len(s.Indices) > 0 || len(s.Texts) > 0 || strings.TrimSpace(s.Word) != ""
}

var (
	tileKeys  = []string{"tiles", "letters", "chars", "pieces"}
	tokenKeys = []string{"tokens", "words", "pieces", "tiles"}

	solutionIndexKeys = []string{"solutionIndices", "solution_indices", "correctOrder", "correct_order"}
	solutionTextKeys  = []string{"solution", "solutionTokens", "solution_tokens"}
)

// ResolveSequence resolves the solution of ex with the Default resolver.
func ResolveSequence(ex *exercise.Exercise) Sequence {
	return Default.Sequence(ex)
}

// Sequence resolves the authored solution of a char_build_word or
// sentence_order exercise. Other kinds yield an empty Sequence.
func (r *Resolver) Sequence(ex *exercise.Exercise) Sequence {
	if ex == nil || !ex.Kind.Ordered() {
		return Sequence{}
	}

	itemKeys := tokenKeys
	if ex.Kind == exercise.KindCharBuildWord {
		itemKeys = tileKeys
	}

	var seq Sequence
	for _, k := range itemKeys {
		if texts, ok := asTexts(ex.Config[k]); ok && len(texts) > 0 {
			seq.Items = texts
			break
		}
	}

	for _, k := range solutionIndexKeys {
		raw, present := ex.Config.Get(k)
		if !present {
			continue
		}
		idx, ok := asInts(raw)
		if !ok || len(idx) == 0 || !inRange(idx, len(seq.Items)) {
			continue
		}
		seq.Indices = idx
		seq.Source = "config." + k
		break
	}

	for _, k := range solutionTextKeys {
		raw, present := ex.Config.Get(k)
		if !present {
			continue
		}
		if list, ok := asList(raw); ok {
			texts := make([]string, 0, len(list))
			for _, e := range list {
				texts = append(texts, itemText(e))
			}
			if len(texts) > 0 {
				seq.Texts = texts
				if seq.Source == "" {
					seq.Source = "config." + k
				}
				break
			}
			continue
		}
		if s, ok := asString(raw); ok && strings.TrimSpace(s) != "" {
			if ex.Kind == exercise.KindSentenceOrder {
				seq.Texts = strings.Fields(s)
			} else {
				seq.Word = s
			}
			if seq.Source == "" {
				seq.Source = "config." + k
			}
			break
		}
	}

	return seq
}

// inRange reports whether every index addresses one of n items. With no
// items authored any non-negative index is accepted.
func inRange(idx []int, n int) bool {
	for _, i := range idx {
		if i < 0 || (n > 0 && i >= n) {
			return false
		}
	}
	return true
}

// Pair is one authored left/right match.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// pairFieldNames lists the accepted left/right field names of an authored
// pair object, in priority order.
var pairFieldNames = [][2]string{
	{"left", "right"},
	{"a", "b"},
	{"term", "match"},
	{"source", "target"},
	{"from", "to"},
	{"word", "translation"},
	{"l", "r"},
}

// ResolvePairs returns the authored pairs of a match_pairs exercise.
// Malformed entries are skipped; an unusable config yields nil.
func ResolvePairs(ex *exercise.Exercise) []Pair {
	if ex == nil {
		return nil
	}
	raw, ok := ex.Config.Get("pairs", "matches")
	if !ok {
		return nil
	}

	if m, ok := raw.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var out []Pair
		for _, k := range keys {
			if right, ok := asString(m[k]); ok && strings.TrimSpace(k) != "" && strings.TrimSpace(right) != "" {
				out = append(out, Pair{Left: k, Right: right})
			}
		}
		return out
	}

	list, ok := asList(raw)
	if !ok {
		return nil
	}
	var out []Pair
	for _, e := range list {
		if p, ok := asPair(e); ok {
			out = append(out, p)
		}
	}
	return out
}

// asPair reads one pair from an object or a two-element array.
func asPair(v any) (Pair, bool) {
	if m, ok := v.(map[string]any); ok {
		for _, names := range pairFieldNames {
			l, lok := asString(m[names[0]])
			r, rok := asString(m[names[1]])
			if lok && rok && strings.TrimSpace(l) != "" && strings.TrimSpace(r) != "" {
				return Pair{Left: l, Right: r}, true
			}
		}
		return Pair{}, false
	}
	if list, ok := asList(v); ok && len(list) == 2 {
		l, lok := asString(list[0])
		r, rok := asString(list[1])
		if lok && rok && strings.TrimSpace(l) != "" && strings.TrimSpace(r) != "" {
			return Pair{Left: l, Right: r}, true
		}
	}
	return Pair{}, false
}
