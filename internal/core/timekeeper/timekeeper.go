package timekeeper

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"focusclock/internal/core/model"
)

// ErrInvalidDuration indicates a phase length that is not a positive number of minutes.
var ErrInvalidDuration = errors.New("invalid duration")

const (
	defaultFocus          = 25 * time.Minute
	defaultBreak          = 5 * time.Minute
	defaultLongBreak      = 15 * time.Minute
	defaultAutoStartDelay = time.Second
)

// Timer is the focus/break state machine. It is the single source of truth
// for the remaining time and the current phase.
type Timer struct {
	mu        sync.Mutex
	config    model.TimerConfig
	phase     Phase
	remaining int
	total     int
	running   bool
	started   bool
	completed int

	generation uint64
	stopCh     chan struct{}

	autoStart    *time.Timer
	autoStartSeq uint64

	events []chan Event
	closed bool
}

// New creates a Timer paused at the start of a focus session.
func New(config model.TimerConfig) *Timer {
	timer := &Timer{
		config: normalizeConfig(config),
		phase:  PhaseFocus,
	}
	timer.total = seconds(timer.config.Durations.Focus)
	timer.remaining = timer.total
	return timer
}

func normalizeConfig(config model.TimerConfig) model.TimerConfig {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.AutoStartDelay <= 0 {
		config.AutoStartDelay = defaultAutoStartDelay
	}
	if config.Durations.Focus <= 0 {
		config.Durations.Focus = defaultFocus
	}
	if config.Durations.Break <= 0 {
		config.Durations.Break = defaultBreak
	}
	if config.Durations.LongBreak <= 0 {
		config.Durations.LongBreak = defaultLongBreak
	}
	return config
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		close(ch)
		return ch
	}
	timer.events = append(timer.events, ch)
	return ch
}

// Snapshot returns the current state.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

// Durations returns the configured phase lengths.
func (timer *Timer) Durations() model.PhaseDurations {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.config.Durations
}

// Start begins the countdown. It is a no-op while already running and
// preempts a pending automatic start.
func (timer *Timer) Start() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed || timer.running {
		return
	}
	timer.cancelAutoStartLocked()
	timer.beginLocked()
	timer.emitStateLocked(time.Now())
}

// Pause stops the countdown and keeps the remaining time. A pending
// automatic start is cancelled as well.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	pending := timer.cancelAutoStartLocked()
	if !timer.running && !pending {
		return
	}
	timer.haltLocked()
	timer.emitStateLocked(time.Now())
}

// Reset returns to the start of a focus session and clears the completed count.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.cancelAutoStartLocked()
	timer.haltLocked()
	timer.phase = PhaseFocus
	timer.total = seconds(timer.config.Durations.Focus)
	timer.remaining = timer.total
	timer.completed = 0
	timer.started = false
	timer.emitStateLocked(time.Now())
}

// Skip completes the current session immediately.
func (timer *Timer) Skip() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.completeLocked(time.Now())
}

// SetFocusMinutes changes the focus length. When no session is running and
// the timer is in the focus phase the countdown is reset to the new length.
func (timer *Timer) SetFocusMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("focus minutes %d: %w", minutes, ErrInvalidDuration)
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.config.Durations.Focus = time.Duration(minutes) * time.Minute
	if !timer.running && timer.phase == PhaseFocus {
		timer.total = seconds(timer.config.Durations.Focus)
		timer.remaining = timer.total
		timer.emitStateLocked(time.Now())
	}
	return nil
}

// SetBreakMinutes changes the break length used from the next break on.
func (timer *Timer) SetBreakMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("break minutes %d: %w", minutes, ErrInvalidDuration)
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.config.Durations.Break = time.Duration(minutes) * time.Minute
	return nil
}

// SetLongBreakMinutes stores the long break length.
func (timer *Timer) SetLongBreakMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("long break minutes %d: %w", minutes, ErrInvalidDuration)
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.config.Durations.LongBreak = time.Duration(minutes) * time.Minute
	return nil
}

// Stop halts all timers and closes observers. The Timer is unusable afterwards.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	timer.cancelAutoStartLocked()
	timer.haltLocked()
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (timer *Timer) run(stop <-chan struct{}, generation uint64) {
	ticker := time.NewTicker(timer.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case tickTime := <-ticker.C:
			timer.handleTick(generation, tickTime)
		}
	}
}

func (timer *Timer) handleTick(generation uint64, now time.Time) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	// A tick already in flight when the run was stopped must not count.
	if !timer.running || generation != timer.generation {
		return
	}
	timer.advanceLocked(now)
}

func (timer *Timer) tick() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running {
		return
	}
	timer.advanceLocked(time.Now())
}

func (timer *Timer) advanceLocked(now time.Time) {
	if timer.remaining > 0 {
		timer.remaining--
	}
	timer.emitLocked(Event{
		Type:     EventTick,
		Snapshot: timer.snapshotLocked(),
		At:       now,
	})
	if timer.remaining == 0 {
		timer.completeLocked(now)
	}
}

func (timer *Timer) completeLocked(now time.Time) {
	ended := timer.phase
	timer.haltLocked()
	timer.cancelAutoStartLocked()

	timer.emitLocked(Event{
		Type:     EventSessionComplete,
		Snapshot: timer.snapshotLocked(),
		Ended:    ended,
		At:       now,
	})

	timer.phase = ended.Next()
	if ended == PhaseFocus {
		timer.completed++
		timer.total = seconds(timer.config.Durations.Break)
	} else {
		timer.total = seconds(timer.config.Durations.Focus)
	}
	timer.remaining = timer.total

	timer.scheduleAutoStartLocked()
	timer.emitStateLocked(now)
}

func (timer *Timer) scheduleAutoStartLocked() {
	timer.autoStartSeq++
	seq := timer.autoStartSeq
	timer.autoStart = time.AfterFunc(timer.config.AutoStartDelay, func() {
		timer.fireAutoStart(seq)
	})
}

func (timer *Timer) fireAutoStart(seq uint64) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed || timer.autoStart == nil || seq != timer.autoStartSeq {
		return
	}
	timer.autoStart = nil
	if timer.running {
		return
	}
	timer.beginLocked()
	timer.emitStateLocked(time.Now())
}

func (timer *Timer) cancelAutoStartLocked() bool {
	if timer.autoStart == nil {
		return false
	}
	timer.autoStart.Stop()
	timer.autoStart = nil
	return true
}

func (timer *Timer) beginLocked() {
	timer.running = true
	timer.started = true
	timer.generation++
	stop := make(chan struct{})
	timer.stopCh = stop
	go timer.run(stop, timer.generation)
}

func (timer *Timer) haltLocked() {
	if !timer.running {
		return
	}
	timer.running = false
	close(timer.stopCh)
	timer.stopCh = nil
}

func (timer *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:            timer.phase,
		Remaining:        timer.remaining,
		Total:            timer.total,
		Running:          timer.running,
		Started:          timer.started,
		AutoStartPending: timer.autoStart != nil,
		Completed:        timer.completed,
	}
}

func (timer *Timer) emitStateLocked(now time.Time) {
	timer.emitLocked(Event{
		Type:     EventStateChange,
		Snapshot: timer.snapshotLocked(),
		At:       now,
	})
}

func (timer *Timer) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func seconds(duration time.Duration) int {
	return int(duration / time.Second)
}
