package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records one graded exercise attempt.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("event_id").
			Unique().
			Comment("UUID assigned when the attempt was recorded"),
		field.String("session_id").
			Comment("Lesson run the attempt belongs to"),
		field.String("lesson_id").
			Comment("Lesson the exercise was served from"),
		field.String("exercise_id").
			Comment("Exercise that was attempted"),
		field.String("kind").
			Comment("Exercise kind, e.g. translate_mcq"),
		field.Bool("correct").
			Comment("Whether the attempt was graded correct"),
		field.Bool("skipped").
			Comment("Whether the learner skipped the exercise"),
		field.String("answer_text").
			Optional().
			Comment("What the learner answered, as display text"),
		field.JSON("selected_indices", []int{}).
			Optional().
			Comment("Selected choice or tile indices"),
		field.Int64("time_ms").
			Comment("Milliseconds spent on the exercise"),
		field.Int("xp").
			Comment("XP earned by the attempt"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id"),
		index.Fields("exercise_id"),
		index.Fields("kind"),
	}
}
