package model

import "time"

// PhaseDurations holds the length of each phase of the cycle.
type PhaseDurations struct {
	Focus time.Duration
	Break time.Duration
	// LongBreak is configurable but the cycle never enters it.
	LongBreak time.Duration
}

// TimerConfig contains runtime settings for the focus timer state machine.
type TimerConfig struct {
	Durations PhaseDurations

	TickInterval   time.Duration
	AutoStartDelay time.Duration
}
