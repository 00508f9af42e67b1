package lesson

import (
	"slices"
	"testing"
)

func TestNextStreakMilestone(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{0, 5},
		{4, 5},
		{5, 10},
		{9, 10},
		{10, 15},
		{15, 20},
		{19, 20},
		{20, 25},
		{24, 25},
		{25, 30},
	}

	for _, tt := range tests {
		got := NextStreakMilestone(tt.current)
		if got != tt.want {
			t.Errorf("NextStreakMilestone(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestStreak(t *testing.T) {
	var s Streak
	var hits []int
	for range 11 {
		if m := s.Hit(); m != 0 {
			hits = append(hits, m)
		}
	}
	if !slices.Equal(hits, []int{5, 10}) {
		t.Errorf("milestones = %v, want [5 10]", hits)
	}

	s.Miss()
	if s.Current() != 0 || s.Best() != 11 {
		t.Errorf("after miss current=%d best=%d", s.Current(), s.Best())
	}
	for range 5 {
		s.Hit()
	}
	if got := s.Milestones(); !slices.Equal(got, []int{5, 10, 5}) {
		t.Errorf("Milestones = %v", got)
	}
}
