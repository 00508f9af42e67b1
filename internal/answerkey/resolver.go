package answerkey

import (
	"strings"

	"github.com/abhisek/hayer/internal/exercise"
	"github.com/abhisek/hayer/internal/textnorm"
)

// indexKeys are the config fields holding 0-based correct indices, in
// priority order.
var indexKeys = []string{
	"correctIndices",
	"correct_indices",
	"correctIndex",
	"correct_index",
	"answerIndex",
	"answer_index",
	"correct_option",
	"correctOption",
}

// textKeys are the config fields holding correct answers as text, in
// priority order. Plural forms come first.
var textKeys = []string{
	"answers",
	"correctAnswers",
	"correct_answers",
	"answer",
	"correct",
	"correctAnswer",
	"correct_answer",
	"expected",
	"expectedAnswer",
}

// kindTextKeys are consulted after textKeys for the kinds whose authoring
// tools stored the target under a kind-specific name.
var kindTextKeys = map[exercise.Kind][]string{
	exercise.KindLetterTyping: {"letter", "char"},
	exercise.KindWordSpelling: {"word", "target"},
	exercise.KindFillBlank:    {"blank", "missing"},
}

// choiceKeys are the config fields holding the rendered choice list.
var choiceKeys = []string{"choices", "options", "items", "letters", "variants"}

// Resolver resolves answer keys. The zero value is not usable; use New.
type Resolver struct {
	legacyOneBasedAudio bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLegacyOneBasedAudio applies the 1-based reading of answerIndex on
// audio_choice_tts exercises whenever the value lies in [1, choiceCount],
// without requiring an explicit indexBase flag on the exercise.
func WithLegacyOneBasedAudio() Option {
	return func(r *Resolver) { r.legacyOneBasedAudio = true }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Default is the shared resolver used by the package-level functions.
var Default = New()

// Resolve resolves ex with the Default resolver.
func Resolve(ex *exercise.Exercise) Key {
	return Default.Resolve(ex)
}

// Choices returns the ordered choice texts that selected indices refer to.
func Choices(ex *exercise.Exercise) []string {
	if ex == nil {
		return nil
	}
	if len(ex.Options) > 0 {
		out := make([]string, len(ex.Options))
		for i, o := range ex.Options {
			out[i] = o.Text
		}
		return out
	}
	for _, k := range choiceKeys {
		texts, ok := asTexts(ex.Config[k])
		if ok && len(texts) > 0 && !allBlank(texts) {
			return texts
		}
	}
	if ex.Kind == exercise.KindTrueFalse {
		return []string{"True", "False"}
	}
	return nil
}

// Resolve determines the answer key of ex. The first source that yields a
// non-empty key wins:
//  1. options with is_correct set
//  2. config index fields
//  3. config text fields
//  4. expected_answer as a JSON array
//  5. expected_answer as a plain value
//
// A nil exercise or one with nothing resolvable yields a None key.
func (r *Resolver) Resolve(ex *exercise.Exercise) Key {
	if ex == nil {
		return Key{}
	}

	if len(ex.Options) > 0 {
		var idx []int
		for i, o := range ex.Options {
			if o.IsCorrect {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			// Options are authoritative even when none is flagged.
			return Key{Source: "options"}
		}
		return byIndex(idx, "options")
	}

	choices := Choices(ex)

	if !ex.Kind.Typed() {
		if k, ok := r.fromIndexFields(ex, len(choices)); ok {
			return k
		}
	}

	if k, ok := fromTextFields(ex); ok {
		if ex.Kind == exercise.KindTrueFalse {
			return trueFalseKey(k, choices)
		}
		return k
	}

	return fromExpectedAnswer(ex, choices)
}

// fromIndexFields reads the first index field that yields at least one
// in-range index.
func (r *Resolver) fromIndexFields(ex *exercise.Exercise, n int) (Key, bool) {
	oneBased := isOneBased(ex.Config)
	for _, field := range indexKeys {
		raw, present := ex.Config.Get(field)
		if !present {
			continue
		}
		values, ok := asInts(raw)
		if !ok {
			continue
		}

		legacyAudio := ex.Kind == exercise.KindAudioChoiceTTS && field == "answerIndex"
		shift := oneBased || (legacyAudio && r.legacyOneBasedAudio)

		ambiguous := false
		idx := make([]int, 0, len(values))
		for _, v := range values {
			if legacyAudio && !oneBased && n > 1 && v >= 1 && v < n {
				ambiguous = true
			}
			switch {
			case shift && v >= 1 && (n == 0 || v <= n):
				v--
			case legacyAudio && n > 0 && v == n:
				// Only the 1-based reading is in range.
				v--
			}
			if v < 0 || (n > 0 && v >= n) {
				continue
			}
			idx = append(idx, v)
		}
		if len(idx) == 0 {
			continue
		}
		k := byIndex(idx, "config."+field)
		k.Ambiguous = ambiguous
		return k, true
	}
	return Key{}, false
}

// isOneBased reports whether the config declares its indices 1-based.
func isOneBased(cfg exercise.Config) bool {
	v, ok := cfg.Get("indexBase", "index_base")
	if !ok {
		return false
	}
	n, ok := asInt(v)
	return ok && n == 1
}

// fromTextFields reads the first text field that yields a non-blank candidate.
func fromTextFields(ex *exercise.Exercise) (Key, bool) {
	fields := textKeys
	if extra, ok := kindTextKeys[ex.Kind]; ok {
		fields = append(append([]string(nil), textKeys...), extra...)
	}
	for _, field := range fields {
		raw, present := ex.Config.Get(field)
		if !present {
			continue
		}
		if texts := nonBlank(asStrings(raw)); len(texts) > 0 {
			return byText(texts, "config."+field), true
		}
	}
	return Key{}, false
}

// fromExpectedAnswer implements steps 4 and 5 of the resolution order.
func fromExpectedAnswer(ex *exercise.Exercise, choices []string) Key {
	const source = "expected_answer"

	switch v := ex.ExpectedAnswer.(type) {
	case nil:
		return Key{}
	case []any, []string, []int:
		if k, ok := fromExpectedList(v, choices); ok {
			return k
		}
		return Key{}
	case string:
		if looksLikeJSONArray(v) {
			if list, ok := parseJSONArray(v); ok {
				if k, ok := fromExpectedList(list, choices); ok {
					return k
				}
				return Key{}
			}
			// Unparseable array text falls back to a plain string answer.
		}
		if strings.TrimSpace(v) == "" {
			return Key{}
		}
		return byText([]string{v}, source)
	default:
		if n, ok := asInt(v); ok && len(choices) > 0 && !ex.Kind.Typed() {
			if n >= 0 && n < len(choices) {
				return byIndex([]int{n}, source)
			}
			return Key{}
		}
		if s, ok := asString(v); ok && strings.TrimSpace(s) != "" {
			return byText([]string{s}, source)
		}
		return Key{}
	}
}

// fromExpectedList maps each element of an expected_answer array to the
// index of the matching choice. When every element maps, the key is
// ByIndex; otherwise the elements are kept as text candidates.
func fromExpectedList(v any, choices []string) (Key, bool) {
	const source = "expected_answer"

	list, ok := asList(v)
	if !ok || len(list) == 0 {
		return Key{}, false
	}

	texts := make([]string, 0, len(list))
	idx := make([]int, 0, len(list))
	mapped := 0
	for _, e := range list {
		if s, ok := e.(string); ok {
			if strings.TrimSpace(s) == "" {
				continue
			}
			texts = append(texts, s)
			if i := indexOfText(choices, s); i >= 0 {
				idx = append(idx, i)
				mapped++
			}
			continue
		}
		if n, ok := asInt(e); ok && n >= 0 && n < len(choices) {
			idx = append(idx, n)
			texts = append(texts, choices[n])
			mapped++
			continue
		}
		if s := itemText(e); strings.TrimSpace(s) != "" {
			texts = append(texts, s)
			if i := indexOfText(choices, s); i >= 0 {
				idx = append(idx, i)
				mapped++
			}
		}
	}

	if len(texts) == 0 {
		return Key{}, false
	}
	if len(choices) > 0 && mapped == len(texts) {
		return byIndex(idx, source), true
	}
	return byText(texts, source), true
}

// trueFalseKey maps boolean-ish text answers onto the True/False choices.
func trueFalseKey(k Key, choices []string) Key {
	if len(k.Texts) != 1 {
		return k
	}
	want := textnorm.Normalize(k.Texts[0])
	if i := indexOfText(choices, k.Texts[0]); i >= 0 {
		return byIndex([]int{i}, k.Source)
	}
	if len(choices) != 2 {
		return k
	}
	switch want {
	case "true", "yes", "1":
		return byIndex([]int{0}, k.Source)
	case "false", "no", "0":
		return byIndex([]int{1}, k.Source)
	}
	return k
}

// indexOfText returns the index of the first choice whose normalized text
// equals s, or -1.
func indexOfText(choices []string, s string) int {
	want := textnorm.Normalize(s)
	if want == "" {
		return -1
	}
	for i, c := range choices {
		if textnorm.Normalize(c) == want {
			return i
		}
	}
	return -1
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if textnorm.Normalize(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func allBlank(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}
