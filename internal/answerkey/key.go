// Package answerkey resolves the authoritative definition of correctness
// for one exercise from its DB-backed options, its legacy config bag or its
// expected_answer field.
package answerkey

import (
	"slices"

	"github.com/abhisek/hayer/internal/textnorm"
)

// Mode tags the variant held by a Key.
type Mode int

const (
	// None means no answer could be resolved. Grading always fails.
	None Mode = iota
	// ByIndex holds correct choice indices.
	ByIndex
	// ByText holds correct free-text candidates (pre-normalization).
	ByText
)

func (m Mode) String() string {
	switch m {
	case ByIndex:
		return "by_index"
	case ByText:
		return "by_text"
	default:
		return "none"
	}
}

// Key is the resolved answer key for one exercise.
type Key struct {
	Mode Mode

	// Indices is sorted and free of duplicates. Set only for ByIndex.
	Indices []int

	// Texts holds the raw candidates. Set only for ByText.
	Texts []string

	// Source names the field the key was resolved from, e.g. "options",
	// "config.correctIndex" or "expected_answer".
	Source string

	// Ambiguous is set when an index could be read as either 0-based or
	// 1-based. The key still holds the reading that was applied.
	Ambiguous bool
}

// IsNone reports whether no answer was resolved.
func (k Key) IsNone() bool {
	return k.Mode == None
}

// HasIndex reports whether i is a correct index.
func (k Key) HasIndex(i int) bool {
	if k.Mode != ByIndex {
		return false
	}
	_, found := slices.BinarySearch(k.Indices, i)
	return found
}

// MatchesText reports whether text equals any candidate after normalization.
// Empty normalized text never matches.
func (k Key) MatchesText(text string) bool {
	n := textnorm.Normalize(text)
	if n == "" {
		return false
	}
	for _, c := range k.Texts {
		if textnorm.Normalize(c) == n {
			return true
		}
	}
	return false
}

// TextCandidates returns the correct answers as text. ByIndex keys are
// projected through choices; out-of-range indices are dropped.
func (k Key) TextCandidates(choices []string) []string {
	switch k.Mode {
	case ByText:
		return k.Texts
	case ByIndex:
		out := make([]string, 0, len(k.Indices))
		for _, i := range k.Indices {
			if i >= 0 && i < len(choices) {
				out = append(out, choices[i])
			}
		}
		return out
	}
	return nil
}

func byIndex(indices []int, source string) Key {
	set := slices.Clone(indices)
	slices.Sort(set)
	set = slices.Compact(set)
	return Key{Mode: ByIndex, Indices: set, Source: source}
}

func byText(texts []string, source string) Key {
	return Key{Mode: ByText, Texts: texts, Source: source}
}
