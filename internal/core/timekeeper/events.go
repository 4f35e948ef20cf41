package timekeeper

import "time"

// Phase is the current part of the focus/break cycle.
type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// Next returns the phase that follows.
func (phase Phase) Next() Phase {
	if phase == PhaseFocus {
		return PhaseBreak
	}
	return PhaseFocus
}

// EventType defines the type of Timer event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventTick            EventType = "tick"
	EventSessionComplete EventType = "session_complete"
)

// Event represents a Timer update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Ended is the phase that just finished, set on EventSessionComplete.
	Ended Phase
	At    time.Time
}
