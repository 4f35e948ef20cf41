//go:build !windows

package platform

import (
	"focusclock/internal/core/model"

	"fyne.io/fyne/v2"
)

type noopPlacement struct{}

func newPlacement() Placement {
	return noopPlacement{}
}

func (noopPlacement) Pin(fyne.Window) {}

func (noopPlacement) MoveTo(fyne.Window, model.WindowPosition) {}

func (noopPlacement) Movable() bool { return false }

func (noopPlacement) WorkArea() (model.Rect, bool) {
	return model.Rect{}, false
}
