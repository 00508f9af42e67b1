package lesson

// recordedMsg is sent when a recording job has finished. The ack itself is
// read from the screen's last-ack slot.
type recordedMsg struct{}

// phase is what the lesson screen is showing.
type phase int

const (
	phaseAnswering phase = iota
	phaseFeedback
	phaseQuitConfirm
)
