package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LearnerSnapshot stores the learner state (token, hearts, XP) so that it
// survives restarts without replaying every attempt.
type LearnerSnapshot struct {
	ent.Schema
}

func (LearnerSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Comment("Last attempt sequence applied to the state"),
		field.Time("timestamp").
			Default(time.Now).
			Comment("When the state was saved"),
		field.JSON("state", map[string]any{}).
			Comment("Learner state as JSON"),
	}
}

func (LearnerSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
	}
}
