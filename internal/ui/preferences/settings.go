package preferences

import (
	"time"

	"focusclock/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Focus     time.Duration
	Break     time.Duration
	LongBreak time.Duration

	SoundEnabled        bool
	SystemNotifications model.Permission
}

// DefaultSettings returns default settings for FocusClock.
func DefaultSettings() Settings {
	return Settings{
		Focus:        25 * time.Minute,
		Break:        5 * time.Minute,
		LongBreak:    15 * time.Minute,
		SoundEnabled: true,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Durations: model.PhaseDurations{
			Focus:     settings.Focus,
			Break:     settings.Break,
			LongBreak: settings.LongBreak,
		},
		TickInterval:   time.Second,
		AutoStartDelay: time.Second,
	}
}

// FocusOptions lists the focus lengths offered by the selector, in minutes.
var FocusOptions = []int{5, 10, 15, 20, 25, 30, 45, 50, 60, 90}

// BreakOptions lists the break lengths offered by the selector, in minutes.
var BreakOptions = []int{1, 2, 3, 5, 10, 15, 20}

// LongBreakOptions lists the long break lengths offered by the selector, in minutes.
var LongBreakOptions = []int{10, 15, 20, 25, 30}
