// Package audio plays the short cue at the end of a session.
package audio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
)

// Player plays a cue.
type Player interface {
	Play() error
}

// Beeper plays a tone through the system speaker or sound server.
type Beeper struct {
	Frequency float64
	Duration  int // milliseconds
	Repeats   int

	mu      sync.Mutex
	enabled bool
	beep    func(frequency float64, duration int) error
}

// NewBeeper returns a Beeper with beeep's default tone, played twice.
func NewBeeper(enabled bool) *Beeper {
	return &Beeper{
		Frequency: beeep.DefaultFreq,
		Duration:  beeep.DefaultDuration,
		Repeats:   2,
		enabled:   enabled,
		beep:      beeep.Beep,
	}
}

// SetEnabled turns the cue on or off.
func (beeper *Beeper) SetEnabled(enabled bool) {
	beeper.mu.Lock()
	defer beeper.mu.Unlock()
	beeper.enabled = enabled
}

// Enabled reports whether Play makes a sound.
func (beeper *Beeper) Enabled() bool {
	beeper.mu.Lock()
	defer beeper.mu.Unlock()
	return beeper.enabled
}

// Play beeps Repeats times. It stops at the first failure.
func (beeper *Beeper) Play() error {
	beeper.mu.Lock()
	enabled, beep := beeper.enabled, beeper.beep
	beeper.mu.Unlock()
	if !enabled {
		return nil
	}

	repeats := beeper.Repeats
	if repeats <= 0 {
		repeats = 1
	}
	for i := 0; i < repeats; i++ {
		if err := beep(beeper.Frequency, beeper.Duration); err != nil {
			return fmt.Errorf("play cue: %w", err)
		}
	}
	return nil
}
