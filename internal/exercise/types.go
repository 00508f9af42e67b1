package exercise

// Exercise is one content unit served to the learner. It is fetched
// read-only per lesson and never mutated by grading.
type Exercise struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Prompt string `json:"prompt,omitempty"`

	// ExpectedAnswer is the legacy answer field. Depending on the kind and
	// authoring era it holds a plain string, a JSON-encoded array string,
	// a number or an already decoded array.
	ExpectedAnswer any `json:"expected_answer,omitempty"`

	// Options is the DB-backed answer representation. When non-empty it
	// takes priority over anything in Config.
	Options []Option `json:"options,omitempty"`

	// Config is the schema-less authoring bag (choices, tokens, tiles,
	// pairs, correctIndex, ...). Field names vary by authoring tool revision.
	Config Config `json:"config,omitempty"`

	SentenceBefore string `json:"sentence_before,omitempty"`
	SentenceAfter  string `json:"sentence_after,omitempty"`

	// XP is the reward on success.
	XP int `json:"xp,omitempty"`
}

// Option is one DB-backed answer choice.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Config is the weakly typed authoring bag decoded from JSON or YAML.
type Config map[string]any

// Has reports whether key is present with a non-nil value.
func (c Config) Has(key string) bool {
	if c == nil {
		return false
	}
	v, ok := c[key]
	return ok && v != nil
}

// Get returns the raw value for the first present key.
func (c Config) Get(keys ...string) (any, bool) {
	for _, k := range keys {
		if c.Has(k) {
			return c[k], true
		}
	}
	return nil, false
}

// Input is one learner submission. Which field is meaningful depends on
// the exercise kind.
type Input struct {
	// Selected holds chosen choice indices for single and multi-select kinds.
	Selected []int `json:"selected,omitempty"`

	// Text is the typed answer for typed-answer kinds.
	Text string `json:"text,omitempty"`

	// Sequence is the ordered list of picked tile or token indices.
	Sequence []int `json:"sequence,omitempty"`

	// Pair is one left/right pick on a match-pairs board.
	Pair *PairPick `json:"pair,omitempty"`

	// Skip marks the submission as a skip.
	Skip bool `json:"skip,omitempty"`
}

// PairPick selects one left and one right item on a match-pairs board.
type PairPick struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// AttemptResult is the immutable outcome of grading one submission.
type AttemptResult struct {
	ExerciseID      string `json:"exercise_id,omitempty"`
	Kind            Kind   `json:"kind,omitempty"`
	IsCorrect       bool   `json:"is_correct"`
	Skipped         bool   `json:"skipped"`
	SelectedIndices []int  `json:"selected_indices"`
	AnswerText      string `json:"answer_text,omitempty"`
	Message         string `json:"message,omitempty"`

	// XP is the reward earned by this attempt: the exercise XP when
	// correct, zero otherwise.
	XP int `json:"xp"`
}
