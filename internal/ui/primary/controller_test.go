package primary

import (
	"errors"
	"sync"
	"testing"
	"time"

	"focusclock/internal/bus"
	"focusclock/internal/core/model"
	"focusclock/internal/core/timekeeper"
	"focusclock/internal/ui/notification"
	"focusclock/internal/ui/preferences"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	*bus.Bus

	mu   sync.Mutex
	sent []bus.Message
}

func (recorder *recordingBus) Publish(channel bus.Channel, payload any) {
	recorder.mu.Lock()
	recorder.sent = append(recorder.sent, bus.Message{Channel: channel, Payload: payload})
	recorder.mu.Unlock()
	recorder.Bus.Publish(channel, payload)
}

func (recorder *recordingBus) on(channel bus.Channel) []any {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	var payloads []any
	for _, message := range recorder.sent {
		if message.Channel == channel {
			payloads = append(payloads, message.Payload)
		}
	}
	return payloads
}

func (recorder *recordingBus) channels() []bus.Channel {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	channels := make([]bus.Channel, 0, len(recorder.sent))
	for _, message := range recorder.sent {
		channels = append(channels, message.Channel)
	}
	return channels
}

type fakeCue struct {
	mu      sync.Mutex
	plays   int
	enabled bool
	err     error
}

func (cue *fakeCue) Play() error {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	cue.plays++
	return cue.err
}

func (cue *fakeCue) SetEnabled(enabled bool) {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	cue.enabled = enabled
}

func (cue *fakeCue) count() int {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	return cue.plays
}

type fixture struct {
	controller *Controller
	timer      *timekeeper.Timer
	bus        *recordingBus
	cue        *fakeCue
	quits      int
}

func newFixture(t *testing.T, config model.TimerConfig) *fixture {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	timer := timekeeper.New(config)
	t.Cleanup(timer.Stop)
	recorder := &recordingBus{Bus: bus.New(256)}
	t.Cleanup(recorder.Close)

	f := &fixture{timer: timer, bus: recorder, cue: &fakeCue{}}
	notifier := notification.NewSystemNotifier(app, model.PermissionDenied)
	f.controller = NewController(app, timer, recorder, f.cue, notifier, preferences.DefaultSettings())
	f.controller.SetOnQuit(func() { f.quits++ })
	f.controller.Attach()
	return f
}

func manualConfig() model.TimerConfig {
	return model.TimerConfig{
		Durations:    model.PhaseDurations{Focus: 25 * time.Minute, Break: 5 * time.Minute},
		TickInterval: time.Hour,
	}
}

func TestNewControllerRendersInitialState(t *testing.T) {
	f := newFixture(t, manualConfig())

	assert.Equal(t, "25:00", f.controller.view.clock.Text)
	assert.True(t, f.controller.view.clock.TextStyle.Monospace)
	assert.False(t, f.controller.view.clock.TextStyle.Bold)
	assert.Equal(t, "Focus time", f.controller.view.label.Text)
	assert.Equal(t, 1.0, f.controller.view.progress.Value)
	assert.True(t, f.controller.view.startButton.Visible())
	assert.False(t, f.controller.view.pauseButton.Visible())
	assert.True(t, f.cue.enabled)
}

func TestStartButtonPublishesRunningUpdate(t *testing.T) {
	f := newFixture(t, manualConfig())

	test.Tap(f.controller.view.startButton)

	require.Eventually(t, func() bool {
		return len(f.bus.on(bus.ChannelCompanionUpdate)) > 0
	}, time.Second, 5*time.Millisecond)
	update := f.bus.on(bus.ChannelCompanionUpdate)[0].(model.Display)
	assert.Equal(t, model.Display{Time: "25:00", Label: "Focus time", Progress: 1, IsRunning: true, Started: true}, update)

	require.Eventually(t, func() bool {
		return f.controller.view.pauseButton.Visible()
	}, time.Second, 5*time.Millisecond)
}

func TestPausedUpdateCarriesIdleLabel(t *testing.T) {
	f := newFixture(t, manualConfig())
	f.timer.Start()
	f.timer.Pause()

	require.Eventually(t, func() bool {
		return len(f.bus.on(bus.ChannelCompanionUpdate)) == 2
	}, time.Second, 5*time.Millisecond)
	update := f.bus.on(bus.ChannelCompanionUpdate)[1].(model.Display)
	assert.Equal(t, idleLabel, update.Label)
	assert.False(t, update.IsRunning)
	assert.True(t, update.Started)
}

func TestGoMiniOpensCompanionAndMinimizes(t *testing.T) {
	f := newFixture(t, manualConfig())
	f.controller.Show()
	require.True(t, f.controller.Visible())

	test.Tap(f.controller.view.miniButton)

	assert.Equal(t, []bus.Channel{bus.ChannelCompanionOpen, bus.ChannelPrimaryMinimize}, f.bus.channels())
	open := f.bus.on(bus.ChannelCompanionOpen)[0].(model.Display)
	assert.Equal(t, "Focus time", open.Label)
	assert.Equal(t, "25:00", open.Time)
	require.Eventually(t, func() bool { return !f.controller.Visible() }, time.Second, 5*time.Millisecond)
}

func TestRemoteCommandsDriveTimer(t *testing.T) {
	f := newFixture(t, manualConfig())

	f.bus.Publish(bus.ChannelTimerStart, nil)
	require.Eventually(t, func() bool { return f.timer.Snapshot().Running }, time.Second, 5*time.Millisecond)

	f.bus.Publish(bus.ChannelTimerPause, nil)
	require.Eventually(t, func() bool { return !f.timer.Snapshot().Running }, time.Second, 5*time.Millisecond)

	f.bus.Publish(bus.ChannelTimerSkip, nil)
	require.Eventually(t, func() bool { return f.timer.Snapshot().Phase == timekeeper.PhaseBreak }, time.Second, 5*time.Millisecond)
}

func TestSkipPlaysCueAndNotifies(t *testing.T) {
	f := newFixture(t, manualConfig())
	f.cue.err = errors.New("no audio device")

	f.timer.Skip()

	require.Eventually(t, func() bool {
		return len(f.bus.on(bus.ChannelNotificationShow)) == 1 && f.cue.count() == 1
	}, time.Second, 5*time.Millisecond)
	notice := f.bus.on(bus.ChannelNotificationShow)[0].(model.NotificationPayload)
	assert.Equal(t, "Break time!", notice.Title)
	assert.Equal(t, "Time for a break. Stretch and relax!", notice.Message)
	assert.Equal(t, timekeeper.PhaseBreak, f.timer.Snapshot().Phase)
}

func TestOneMinuteCycle(t *testing.T) {
	f := newFixture(t, model.TimerConfig{
		Durations:      model.PhaseDurations{Focus: time.Minute, Break: time.Minute},
		TickInterval:   5 * time.Millisecond,
		AutoStartDelay: 50 * time.Millisecond,
	})

	f.timer.Start()

	require.Eventually(t, func() bool {
		return len(f.bus.on(bus.ChannelNotificationShow)) >= 2
	}, 5*time.Second, 10*time.Millisecond)
	notices := f.bus.on(bus.ChannelNotificationShow)
	assert.Equal(t, completionNotice(timekeeper.PhaseFocus), notices[0])
	assert.Equal(t, completionNotice(timekeeper.PhaseBreak), notices[1])
	assert.Equal(t, model.NotificationAlert, notices[1].(model.NotificationPayload).Kind)
	require.Eventually(t, func() bool { return f.cue.count() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestCloseCascadesToCompanion(t *testing.T) {
	f := newFixture(t, manualConfig())

	f.controller.Close()
	f.controller.Close()

	assert.Equal(t, []bus.Channel{bus.ChannelCompanionClose, bus.ChannelCompanionClose}, f.bus.channels())
	assert.Equal(t, 1, f.quits)
	assert.NotContains(t, f.bus.channels(), bus.ChannelNotificationDismiss)
}

func TestSettingsUpdateTimer(t *testing.T) {
	f := newFixture(t, manualConfig())
	settings := preferences.DefaultSettings()
	settings.Focus = 50 * time.Minute
	settings.Break = 10 * time.Minute
	settings.SoundEnabled = false
	settings.SystemNotifications = model.PermissionGranted

	f.controller.applySettings(settings)

	durations := f.timer.Durations()
	assert.Equal(t, 50*time.Minute, durations.Focus)
	assert.Equal(t, 10*time.Minute, durations.Break)
	assert.Equal(t, 3000, f.timer.Snapshot().Remaining)
	assert.False(t, f.cue.enabled)
	assert.Equal(t, model.PermissionGranted, f.controller.notifier.Permission())
}

func TestSettingsChangeKeepsRunningFocus(t *testing.T) {
	f := newFixture(t, manualConfig())
	f.timer.Start()
	settings := preferences.DefaultSettings()
	settings.SoundEnabled = false

	f.controller.applySettings(settings)

	assert.Equal(t, 1500, f.timer.Snapshot().Remaining)
	assert.True(t, f.timer.Snapshot().Running)
}

func TestOnSnapshotObservers(t *testing.T) {
	f := newFixture(t, manualConfig())
	var mu sync.Mutex
	var seen []timekeeper.Snapshot
	f.controller.OnSnapshot(func(snapshot timekeeper.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, snapshot)
	})

	f.timer.Start()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0].Running
	}, time.Second, 5*time.Millisecond)
}

func TestCompletionNotice(t *testing.T) {
	assert.Equal(t, model.NotificationPayload{
		Title:   "Focus time!",
		Message: "Break is over. Time to focus!",
		Kind:    model.NotificationAlert,
	}, completionNotice(timekeeper.PhaseBreak))
	assert.Equal(t, model.NotificationInfo, completionNotice(timekeeper.PhaseFocus).Kind)
}
