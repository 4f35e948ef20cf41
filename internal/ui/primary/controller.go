// Package primary runs the main timer window. It owns the focus/break timer
// and drives the companion and notification windows over the bus.
package primary

import (
	"log"
	"sync"
	"time"

	"focusclock/internal/bus"
	"focusclock/internal/core/model"
	"focusclock/internal/core/timekeeper"
	"focusclock/internal/ui/notification"
	"focusclock/internal/ui/preferences"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// idleLabel is shown by the companion whenever the timer is not counting down.
const idleLabel = "You'll have no breaks"

// Bus is the part of the message bus the primary window needs.
type Bus interface {
	Publish(channel bus.Channel, payload any)
	Subscribe(channel bus.Channel, handler bus.Handler) func()
}

// Cue is the end-of-session sound.
type Cue interface {
	Play() error
	SetEnabled(enabled bool)
}

// Controller owns the main window and the timer.
type Controller struct {
	app      fyne.App
	window   fyne.Window
	timer    *timekeeper.Timer
	bus      Bus
	cue      Cue
	notifier *notification.SystemNotifier
	panel    *preferences.Panel
	view     *view

	mu          sync.Mutex
	visible     bool
	observers   []func(timekeeper.Snapshot)
	onQuit      func()
	unsubscribe []func()
	quitOnce    sync.Once
}

// NewController builds the main window around timer. The window is not shown
// until Show is called.
func NewController(app fyne.App, timer *timekeeper.Timer, messageBus Bus, cue Cue, notifier *notification.SystemNotifier, settings preferences.Settings) *Controller {
	controller := &Controller{
		app:      app,
		timer:    timer,
		bus:      messageBus,
		cue:      cue,
		notifier: notifier,
	}
	cue.SetEnabled(settings.SoundEnabled)

	controller.panel = preferences.NewPanel(settings, controller.applySettings)
	controller.view = newView(controller.panel.Content())
	controller.view.startButton.OnTapped = timer.Start
	controller.view.pauseButton.OnTapped = timer.Pause
	controller.view.resetButton.OnTapped = timer.Reset
	controller.view.miniButton.OnTapped = controller.GoMini
	controller.view.render(timer.Snapshot())

	window := app.NewWindow("FocusClock")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetContent(controller.view.content())
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetFixedSize(true)
	window.SetCloseIntercept(controller.Close)
	controller.window = window

	return controller
}

// Attach starts the timer event loop and subscribes to the remote control
// channels.
func (controller *Controller) Attach() {
	events := controller.timer.Subscribe(64)
	go controller.dispatch(events)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.unsubscribe = append(controller.unsubscribe,
		controller.bus.Subscribe(bus.ChannelTimerStart, func(bus.Message) { controller.timer.Start() }),
		controller.bus.Subscribe(bus.ChannelTimerPause, func(bus.Message) { controller.timer.Pause() }),
		controller.bus.Subscribe(bus.ChannelTimerSkip, func(bus.Message) { controller.timer.Skip() }),
		controller.bus.Subscribe(bus.ChannelPrimaryMinimize, func(bus.Message) { fyne.Do(controller.Hide) }),
	)
}

// Timer returns the timer driven by this window.
func (controller *Controller) Timer() *timekeeper.Timer {
	return controller.timer
}

// OnSnapshot registers fn to run on the Fyne thread after every redraw.
func (controller *Controller) OnSnapshot(fn func(timekeeper.Snapshot)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.observers = append(controller.observers, fn)
}

// SetOnQuit replaces the default quit action, app.Quit.
func (controller *Controller) SetOnQuit(fn func()) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onQuit = fn
}

// Show brings the main window to the front.
func (controller *Controller) Show() {
	controller.setVisible(true)
	controller.window.Show()
	controller.window.RequestFocus()
}

// Hide removes the main window from the screen without closing it.
func (controller *Controller) Hide() {
	controller.setVisible(false)
	controller.window.Hide()
}

// Visible reports whether the main window is shown.
func (controller *Controller) Visible() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.visible
}

// GoMini opens the companion with the current state and minimizes the main
// window.
func (controller *Controller) GoMini() {
	controller.bus.Publish(bus.ChannelCompanionOpen, openDisplay(controller.timer.Snapshot()))
	controller.bus.Publish(bus.ChannelPrimaryMinimize, nil)
}

// Close closes the companion and quits. Popups are left to expire.
func (controller *Controller) Close() {
	controller.bus.Publish(bus.ChannelCompanionClose, nil)
	controller.quitOnce.Do(func() {
		controller.mu.Lock()
		unsubscribe := controller.unsubscribe
		controller.unsubscribe = nil
		onQuit := controller.onQuit
		controller.mu.Unlock()

		for _, cancel := range unsubscribe {
			cancel()
		}
		if onQuit != nil {
			onQuit()
			return
		}
		controller.app.Quit()
	})
}

// RequestNotificationPermission asks once, while the permission is undetermined,
// whether system notifications may be shown.
func (controller *Controller) RequestNotificationPermission() {
	controller.notifier.RequestPermission(func(reply func(bool)) {
		dialog.ShowConfirm("Notifications", "Show a system notification when a session ends?", func(allowed bool) {
			reply(allowed)
			settings := controller.panel.Settings()
			settings.SystemNotifications = controller.notifier.Permission()
			controller.panel.UpdateSettings(settings)
		}, controller.window)
	})
}

func (controller *Controller) dispatch(events <-chan timekeeper.Event) {
	for event := range events {
		if event.Type == timekeeper.EventSessionComplete {
			controller.completeSession(event.Ended)
			continue
		}
		snapshot := event.Snapshot
		controller.bus.Publish(bus.ChannelCompanionUpdate, updateDisplay(snapshot))
		fyne.Do(func() {
			controller.render(snapshot)
		})
	}
}

func (controller *Controller) render(snapshot timekeeper.Snapshot) {
	controller.view.render(snapshot)

	controller.mu.Lock()
	observers := append([]func(timekeeper.Snapshot){}, controller.observers...)
	controller.mu.Unlock()
	for _, observer := range observers {
		observer(snapshot)
	}
}

func (controller *Controller) completeSession(ended timekeeper.Phase) {
	go func() {
		if err := controller.cue.Play(); err != nil {
			log.Printf("audio cue: %v", err)
		}
	}()
	controller.bus.Publish(bus.ChannelNotificationShow, completionNotice(ended))
}

func (controller *Controller) applySettings(settings preferences.Settings) {
	durations := controller.timer.Durations()
	if settings.Focus != durations.Focus {
		if err := controller.timer.SetFocusMinutes(int(settings.Focus / time.Minute)); err != nil {
			log.Printf("settings: %v", err)
		}
	}
	if settings.Break != durations.Break {
		if err := controller.timer.SetBreakMinutes(int(settings.Break / time.Minute)); err != nil {
			log.Printf("settings: %v", err)
		}
	}
	if settings.LongBreak != durations.LongBreak {
		if err := controller.timer.SetLongBreakMinutes(int(settings.LongBreak / time.Minute)); err != nil {
			log.Printf("settings: %v", err)
		}
	}
	controller.cue.SetEnabled(settings.SoundEnabled)
	controller.notifier.SetPermission(settings.SystemNotifications)
}

func (controller *Controller) setVisible(visible bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.visible = visible
}

func openDisplay(snapshot timekeeper.Snapshot) model.Display {
	return model.Display{
		Time:      snapshot.Clock(),
		Label:     snapshot.Label(),
		Progress:  snapshot.Progress(),
		IsRunning: snapshot.Running,
		Started:   snapshot.Started,
	}
}

func updateDisplay(snapshot timekeeper.Snapshot) model.Display {
	display := openDisplay(snapshot)
	if !snapshot.Running {
		display.Label = idleLabel
	}
	return display
}

func completionNotice(ended timekeeper.Phase) model.NotificationPayload {
	if ended == timekeeper.PhaseFocus {
		return model.NotificationPayload{
			Title:   "Break time!",
			Message: "Time for a break. Stretch and relax!",
			Kind:    model.NotificationInfo,
		}
	}
	return model.NotificationPayload{
		Title:   "Focus time!",
		Message: "Break is over. Time to focus!",
		Kind:    model.NotificationAlert,
	}
}
