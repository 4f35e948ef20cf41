// Package notification shows short-lived popups at the top-right corner of
// the primary display.
package notification

import (
	"image/color"
	"log"
	"sync"
	"time"

	"focusclock/internal/bus"
	"focusclock/internal/core/model"
	"focusclock/internal/platform"
	"focusclock/internal/ui/slot"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
)

// DisplayDuration is how long a popup stays on screen.
const DisplayDuration = 5 * time.Second

const (
	popupWidth  = float32(300)
	popupHeight = float32(84)
	popupMargin = 16
)

// Used when the platform cannot report the work area.
var fallbackWorkArea = model.Rect{Width: 1920, Height: 1080}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Subscriber registers message handlers.
type Subscriber interface {
	Subscribe(channel bus.Channel, handler bus.Handler) func()
}

// Popup is one notification window.
type Popup struct {
	window  fyne.Window
	accent  *canvas.Rectangle
	title   *canvas.Text
	message *canvas.Text
	payload model.NotificationPayload
}

// Payload returns the delivered content.
func (popup *Popup) Payload() model.NotificationPayload {
	return popup.payload
}

// Controller keeps at most one popup visible.
type Controller struct {
	app       fyne.App
	placement platform.Placement
	system    *SystemNotifier
	duration  time.Duration

	popups slot.Slot[*Popup]

	mu           sync.Mutex
	dismissTimer *time.Timer
	showSeq      uint64
}

// NewController creates a controller. A zero duration means DisplayDuration.
func NewController(app fyne.App, placement platform.Placement, system *SystemNotifier, duration time.Duration) *Controller {
	if duration <= 0 {
		duration = DisplayDuration
	}
	return &Controller{
		app:       app,
		placement: placement,
		system:    system,
		duration:  duration,
	}
}

// Attach subscribes the controller to the show and dismiss channels.
func (controller *Controller) Attach(subscriber Subscriber) []func() {
	return []func(){
		subscriber.Subscribe(bus.ChannelNotificationShow, func(message bus.Message) {
			payload, ok := message.Payload.(model.NotificationPayload)
			if !ok {
				log.Printf("notification: ignoring %s payload %T", message.Channel, message.Payload)
				return
			}
			fyne.Do(func() {
				controller.Show(payload)
			})
		}),
		subscriber.Subscribe(bus.ChannelNotificationDismiss, func(bus.Message) {
			fyne.Do(controller.Dismiss)
		}),
	}
}

// Show replaces any visible popup with a new one and schedules its dismissal.
func (controller *Controller) Show(payload model.NotificationPayload) {
	controller.Dismiss()

	popup, _ := controller.popups.Acquire(func() *Popup {
		return newPopup(controller.app)
	})
	popup.window.SetOnClosed(func() {
		controller.popups.ReleaseIf(func(current *Popup) bool {
			return current == popup
		})
	})
	popup.window.Show()
	controller.placement.Pin(popup.window)
	controller.placement.MoveTo(popup.window, controller.anchor(popup.window))

	// Content is in place; deliver the payload.
	popup.deliver(payload)

	controller.mu.Lock()
	controller.showSeq++
	seq := controller.showSeq
	controller.dismissTimer = time.AfterFunc(controller.duration, func() {
		fyne.Do(func() {
			controller.expire(seq)
		})
	})
	controller.mu.Unlock()

	controller.system.Notify(payload)
}

// Dismiss closes the visible popup early.
func (controller *Controller) Dismiss() {
	controller.mu.Lock()
	if controller.dismissTimer != nil {
		controller.dismissTimer.Stop()
		controller.dismissTimer = nil
	}
	controller.showSeq++
	controller.mu.Unlock()

	popup, ok := controller.popups.Release()
	if !ok {
		return
	}
	popup.window.Close()
}

// Current returns the visible popup, if any.
func (controller *Controller) Current() (*Popup, bool) {
	return controller.popups.Get()
}

func (controller *Controller) expire(seq uint64) {
	controller.mu.Lock()
	stale := seq != controller.showSeq
	controller.mu.Unlock()
	if stale {
		return
	}
	controller.Dismiss()
}

func (controller *Controller) anchor(window fyne.Window) model.WindowPosition {
	area, ok := controller.placement.WorkArea()
	if !ok {
		area = fallbackWorkArea
	}
	scale := window.Canvas().Scale()
	if scale <= 0 {
		scale = 1
	}
	return model.WindowPosition{
		X: area.X + area.Width - int(popupWidth*scale) - popupMargin,
		Y: area.Y + popupMargin,
	}
}

func newPopup(app fyne.App) *Popup {
	var window fyne.Window
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	} else {
		window = app.NewWindow("FocusClock")
	}
	window.SetPadded(false)
	window.SetFixedSize(true)

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 24, A: 240})
	background.CornerRadius = 10

	accent := canvas.NewRectangle(kindColor(model.NotificationInfo))
	accent.SetMinSize(fyne.NewSize(4, popupHeight))

	title := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 15

	message := canvas.NewText("", color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	message.TextSize = 12

	text := container.NewVBox(layout.NewSpacer(), title, message, layout.NewSpacer())
	window.SetContent(container.NewStack(background, container.NewBorder(nil, nil, accent, nil, container.NewPadded(text))))
	window.Resize(fyne.NewSize(popupWidth, popupHeight))

	return &Popup{
		window:  window,
		accent:  accent,
		title:   title,
		message: message,
	}
}

func (popup *Popup) deliver(payload model.NotificationPayload) {
	popup.payload = payload
	popup.title.Text = payload.Title
	popup.title.Refresh()
	popup.message.Text = payload.Message
	popup.message.Refresh()
	popup.accent.FillColor = kindColor(payload.Kind)
	popup.accent.Refresh()
}

func kindColor(kind model.NotificationKind) color.Color {
	if kind == model.NotificationAlert {
		return color.NRGBA{R: 240, G: 140, B: 40, A: 255}
	}
	return color.NRGBA{R: 70, G: 150, B: 240, A: 255}
}
