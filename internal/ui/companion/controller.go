// Package companion manages the detachable mini window that mirrors the
// timer and sends remote commands back to the primary window.
package companion

import (
	"log"
	"sync"

	"focusclock/internal/bus"
	"focusclock/internal/core/model"
	"focusclock/internal/platform"
	"focusclock/internal/ui/slot"

	"fyne.io/fyne/v2"
)

// PositionStore loads and saves the window position.
type PositionStore interface {
	Load() (model.WindowPosition, error)
	Save(model.WindowPosition) error
}

// Publisher sends messages to other window contexts.
type Publisher interface {
	Publish(channel bus.Channel, payload any)
}

// Subscriber registers message handlers.
type Subscriber interface {
	Subscribe(channel bus.Channel, handler bus.Handler) func()
}

// Controller owns the single companion window.
type Controller struct {
	app       fyne.App
	placement platform.Placement
	store     PositionStore
	publisher Publisher

	windows slot.Slot[*Window]

	mu       sync.Mutex
	position model.WindowPosition
}

// NewController creates a controller; no window exists until Open.
func NewController(app fyne.App, placement platform.Placement, store PositionStore, publisher Publisher) *Controller {
	return &Controller{
		app:       app,
		placement: placement,
		store:     store,
		publisher: publisher,
		position:  model.DefaultWindowPosition(),
	}
}

// Attach subscribes the controller to its bus channels. UI work is
// marshalled onto the Fyne thread.
func (controller *Controller) Attach(subscriber Subscriber) []func() {
	return []func(){
		subscriber.Subscribe(bus.ChannelCompanionOpen, func(message bus.Message) {
			display, ok := message.Payload.(model.Display)
			if !ok {
				log.Printf("companion: ignoring %s payload %T", message.Channel, message.Payload)
				return
			}
			fyne.Do(func() {
				controller.Open(display)
			})
		}),
		subscriber.Subscribe(bus.ChannelCompanionUpdate, func(message bus.Message) {
			display, ok := message.Payload.(model.Display)
			if !ok {
				log.Printf("companion: ignoring %s payload %T", message.Channel, message.Payload)
				return
			}
			fyne.Do(func() {
				controller.Update(display)
			})
		}),
		subscriber.Subscribe(bus.ChannelCompanionClose, func(bus.Message) {
			fyne.Do(controller.Close)
		}),
	}
}

// Open shows the companion with display, creating it if needed. An existing
// window is brought to the front instead of being duplicated.
func (controller *Controller) Open(display model.Display) {
	mini, created := controller.windows.Acquire(func() *Window {
		return newWindow(controller.app, controller.handleCommand, controller.handleDrag)
	})

	mini.SetDisplay(display)
	if !created {
		mini.window.Show()
		mini.window.RequestFocus()
		return
	}

	mini.window.SetOnClosed(func() {
		controller.windows.ReleaseIf(func(current *Window) bool {
			return current == mini
		})
	})

	position := controller.loadPosition()
	mini.window.Show()
	controller.placement.Pin(mini.window)
	controller.placement.MoveTo(mini.window, position)
}

// Update pushes display to an open companion; it does nothing otherwise.
func (controller *Controller) Update(display model.Display) {
	mini, ok := controller.windows.Get()
	if !ok {
		return
	}
	mini.SetDisplay(display)
}

// Close persists the position one last time and destroys the window.
func (controller *Controller) Close() {
	mini, ok := controller.windows.Release()
	if !ok {
		return
	}
	controller.savePosition(controller.Position())
	mini.window.Close()
}

// IsOpen reports whether a companion window exists.
func (controller *Controller) IsOpen() bool {
	_, ok := controller.windows.Get()
	return ok
}

// Current returns the live window, if any.
func (controller *Controller) Current() (*Window, bool) {
	return controller.windows.Get()
}

// Position returns the last known window position.
func (controller *Controller) Position() model.WindowPosition {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.position
}

// MoveTo places the window at position and persists it.
func (controller *Controller) MoveTo(position model.WindowPosition) {
	controller.mu.Lock()
	controller.position = position
	controller.mu.Unlock()

	if mini, ok := controller.windows.Get(); ok {
		controller.placement.MoveTo(mini.window, position)
	}
	controller.savePosition(position)
}

// handleDrag moves the window by the cursor's distance from the grab point.
// Nothing is saved where the platform cannot move windows, so the stored
// position keeps matching the window.
func (controller *Controller) handleDrag(dx, dy float32) {
	if !controller.placement.Movable() {
		return
	}
	scale := float32(1)
	if mini, ok := controller.windows.Get(); ok {
		if canvasScale := mini.window.Canvas().Scale(); canvasScale > 0 {
			scale = canvasScale
		}
	}
	stepX := int(dx * scale)
	stepY := int(dy * scale)
	if stepX == 0 && stepY == 0 {
		return
	}
	controller.MoveTo(controller.Position().Offset(stepX, stepY))
}

func (controller *Controller) handleCommand(command Command) {
	switch command {
	case CommandStart:
		controller.publisher.Publish(bus.ChannelTimerStart, nil)
	case CommandPause:
		controller.publisher.Publish(bus.ChannelTimerPause, nil)
	case CommandSkip:
		controller.publisher.Publish(bus.ChannelTimerSkip, nil)
	case CommandClose:
		controller.publisher.Publish(bus.ChannelCompanionClose, nil)
	}
}

func (controller *Controller) loadPosition() model.WindowPosition {
	position, err := controller.store.Load()
	if err != nil {
		log.Printf("companion: load position: %v", err)
	}
	controller.mu.Lock()
	controller.position = position
	controller.mu.Unlock()
	return position
}

func (controller *Controller) savePosition(position model.WindowPosition) {
	if err := controller.store.Save(position); err != nil {
		log.Printf("companion: save position: %v", err)
	}
}
