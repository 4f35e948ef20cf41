package platform

import (
	"focusclock/internal/core/model"

	"fyne.io/fyne/v2"
)

// Placement controls native window attributes the toolkit has no API for.
type Placement interface {
	// Pin keeps the window above every other window, full-screen apps
	// included, and hides it from the task switcher.
	Pin(window fyne.Window)
	// MoveTo places the window's top-left corner on screen.
	MoveTo(window fyne.Window, position model.WindowPosition)
	// WorkArea reports the usable area of the primary display.
	WorkArea() (model.Rect, bool)
	// Movable reports whether MoveTo actually moves windows.
	Movable() bool
}

// NewPlacement returns the placement implementation for this platform.
func NewPlacement() Placement {
	return newPlacement()
}
