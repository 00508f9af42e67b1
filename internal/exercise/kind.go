package exercise

// Kind selects the grading strategy for an exercise.
type Kind string

const (
	KindCharIntro         Kind = "char_intro"
	KindCharMCQSound      Kind = "char_mcq_sound"
	KindLetterRecognition Kind = "letter_recognition"
	KindCharBuildWord     Kind = "char_build_word"
	KindLetterTyping      Kind = "letter_typing"
	KindWordSpelling      Kind = "word_spelling"
	KindFillBlank         Kind = "fill_blank"
	KindTranslateMCQ      Kind = "translate_mcq"
	KindTrueFalse         Kind = "true_false"
	KindSentenceOrder     Kind = "sentence_order"
	KindMatchPairs        Kind = "match_pairs"
	KindAudioChoiceTTS    Kind = "audio_choice_tts"
	KindMultiSelect       Kind = "multi_select"
)

// AllKinds returns every supported kind in authoring order.
func AllKinds() []Kind {
	return []Kind{
		KindCharIntro,
		KindCharMCQSound,
		KindLetterRecognition,
		KindCharBuildWord,
		KindLetterTyping,
		KindWordSpelling,
		KindFillBlank,
		KindTranslateMCQ,
		KindTrueFalse,
		KindSentenceOrder,
		KindMatchPairs,
		KindAudioChoiceTTS,
		KindMultiSelect,
	}
}

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindCharIntro:
		return "New letter"
	case KindCharMCQSound:
		return "Which sound?"
	case KindLetterRecognition:
		return "Find the letter"
	case KindCharBuildWord:
		return "Build the word"
	case KindLetterTyping:
		return "Type the letter"
	case KindWordSpelling:
		return "Spell the word"
	case KindFillBlank:
		return "Fill in the blank"
	case KindTranslateMCQ:
		return "Translate"
	case KindTrueFalse:
		return "True or false"
	case KindSentenceOrder:
		return "Put in order"
	case KindMatchPairs:
		return "Match the pairs"
	case KindAudioChoiceTTS:
		return "Listen and choose"
	case KindMultiSelect:
		return "Select all"
	default:
		return string(k)
	}
}

// Typed reports whether the learner answers by typing free text.
func (k Kind) Typed() bool {
	switch k {
	case KindLetterTyping, KindWordSpelling, KindFillBlank:
		return true
	}
	return false
}

// Ordered reports whether the learner answers with an ordered list of
// tile or token indices.
func (k Kind) Ordered() bool {
	return k == KindCharBuildWord || k == KindSentenceOrder
}
