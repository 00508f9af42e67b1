package lesson

// BaseStreakMilestone is the first streak length worth celebrating.
const BaseStreakMilestone = 5

// NextStreakMilestone returns the next streak milestone above the current streak length.
func NextStreakMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 20, every 5.
	return ((current / 5) + 1) * 5
}

// Streak counts consecutive correct answers.
type Streak struct {
	current int
	best    int
	next    int
	reached []int
}

// Hit extends the streak. It returns the milestone reached by this answer,
// or 0.
func (s *Streak) Hit() int {
	if s.next == 0 {
		s.next = NextStreakMilestone(0)
	}
	s.current++
	if s.current > s.best {
		s.best = s.current
	}
	if s.current < s.next {
		return 0
	}
	m := s.next
	s.reached = append(s.reached, m)
	s.next = NextStreakMilestone(s.current)
	return m
}

// Miss breaks the streak.
func (s *Streak) Miss() {
	s.current = 0
	s.next = NextStreakMilestone(0)
}

// Current returns the running streak length.
func (s *Streak) Current() int { return s.current }

// Best returns the longest streak seen.
func (s *Streak) Best() int { return s.best }

// Milestones returns every milestone reached, in order.
func (s *Streak) Milestones() []int {
	return append([]int(nil), s.reached...)
}
