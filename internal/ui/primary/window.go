package primary

import (
	"fmt"
	"image/color"

	"focusclock/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	windowWidth  = float32(320)
	windowHeight = float32(800)
)

var (
	backgroundColor = color.NRGBA{R: 20, G: 20, B: 24, A: 255}
	clockColor      = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	focusColor      = color.NRGBA{R: 235, G: 90, B: 80, A: 255}
	breakColor      = color.NRGBA{R: 90, G: 190, B: 130, A: 255}
)

// view holds the widgets of the timer tab.
type view struct {
	clock       *canvas.Text
	label       *canvas.Text
	sessions    *widget.Label
	progress    *widget.ProgressBar
	startButton *widget.Button
	pauseButton *widget.Button
	resetButton *widget.Button
	miniButton  *widget.Button
	tabs        *container.AppTabs
}

func newView(settings fyne.CanvasObject) *view {
	clock := canvas.NewText("25:00", clockColor)
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Monospace: true}
	clock.TextSize = 64

	label := canvas.NewText("Focus time", focusColor)
	label.Alignment = fyne.TextAlignCenter
	label.TextSize = 18

	sessions := widget.NewLabelWithStyle("Sessions: 0", fyne.TextAlignCenter, fyne.TextStyle{})

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }
	progress.SetValue(1)

	v := &view{
		clock:       clock,
		label:       label,
		sessions:    sessions,
		progress:    progress,
		startButton: widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), nil),
		pauseButton: widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), nil),
		resetButton: widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), nil),
		miniButton:  widget.NewButtonWithIcon("Mini", theme.ViewRestoreIcon(), nil),
	}
	v.startButton.Importance = widget.HighImportance
	v.pauseButton.Hide()

	timerTab := container.NewVBox(
		layout.NewSpacer(),
		clock,
		label,
		container.NewPadded(progress),
		sessions,
		container.NewGridWithColumns(2, container.NewStack(v.startButton, v.pauseButton), v.resetButton),
		v.miniButton,
		layout.NewSpacer(),
	)

	v.tabs = container.NewAppTabs(
		container.NewTabItem("Focus", container.NewPadded(timerTab)),
		container.NewTabItem("Settings", container.NewPadded(settings)),
	)
	return v
}

func (v *view) content() fyne.CanvasObject {
	return container.NewStack(canvas.NewRectangle(backgroundColor), v.tabs)
}

// render draws snapshot. It must run on the Fyne thread.
func (v *view) render(snapshot timekeeper.Snapshot) {
	v.clock.Text = snapshot.Clock()
	v.clock.Refresh()

	v.label.Text = snapshot.Label()
	v.label.Color = focusColor
	if snapshot.Phase == timekeeper.PhaseBreak {
		v.label.Color = breakColor
	}
	v.label.Refresh()

	v.progress.SetValue(snapshot.Progress())
	v.sessions.SetText(fmt.Sprintf("Sessions: %d", snapshot.Completed))

	if snapshot.Running {
		v.startButton.Hide()
		v.pauseButton.Show()
	} else {
		v.pauseButton.Hide()
		v.startButton.Show()
	}
}
