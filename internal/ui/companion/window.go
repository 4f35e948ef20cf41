package companion

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"focusclock/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Command is a control clicked in the companion window.
type Command string

const (
	CommandStart Command = "start"
	CommandPause Command = "pause"
	CommandSkip  Command = "skip"
	CommandClose Command = "close"
)

const (
	windowWidth  = float32(100)
	windowHeight = float32(140)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the mini always-on-top timer display.
type Window struct {
	window      fyne.Window
	timeLabel   *canvas.Text
	phaseLabel  *canvas.Text
	playButton  *widget.Button
	pauseButton *widget.Button
	skipButton  *widget.Button
	closeButton *widget.Button
	handle      *dragSurface
	display     model.Display
}

func newWindow(app fyne.App, onCommand func(Command), onDrag func(dx, dy float32)) *Window {
	window := newFramelessWindow(app, "FocusClock mini")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)
	window.SetFixedSize(true)

	background := canvas.NewRectangle(color.NRGBA{R: 18, G: 18, B: 18, A: 235})
	background.CornerRadius = 12

	timeLabel := canvas.NewText("--:--", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true}
	timeLabel.TextSize = 22

	phaseLabel := canvas.NewText("", color.NRGBA{R: 170, G: 170, B: 170, A: 255})
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextSize = 10

	send := func(command Command) func() {
		return func() {
			if onCommand != nil {
				onCommand(command)
			}
		}
	}

	mini := &Window{
		window:     window,
		timeLabel:  timeLabel,
		phaseLabel: phaseLabel,
	}

	mini.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		mini.setRunningUnsafe(true)
		send(CommandStart)()
	})
	mini.pauseButton = widget.NewButtonWithIcon("", theme.MediaPauseIcon(), func() {
		mini.setRunningUnsafe(false)
		send(CommandPause)()
	})
	mini.skipButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), send(CommandSkip))
	mini.closeButton = widget.NewButtonWithIcon("", theme.WindowCloseIcon(), send(CommandClose))
	mini.closeButton.Importance = widget.LowImportance
	mini.pauseButton.Hide()

	controls := container.NewHBox(mini.playButton, mini.pauseButton, mini.skipButton)
	body := container.NewVBox(
		container.NewHBox(layoutSpacer(), mini.closeButton),
		timeLabel,
		phaseLabel,
		container.NewCenter(controls),
	)

	mini.handle = newDragSurface(onDrag)
	window.SetContent(container.NewStack(background, mini.handle, body))
	window.Resize(fyne.NewSize(windowWidth, windowHeight))

	return mini
}

// SetDisplay renders a new timer display.
func (mini *Window) SetDisplay(display model.Display) {
	mini.display = display
	mini.timeLabel.Text = formatTime(display)
	mini.timeLabel.Refresh()
	mini.phaseLabel.Text = display.Label
	mini.phaseLabel.Refresh()
	mini.setRunningUnsafe(display.IsRunning)
}

// Display returns the last rendered display.
func (mini *Window) Display() model.Display {
	return mini.display
}

// TimeText returns the rendered time label.
func (mini *Window) TimeText() string {
	return mini.timeLabel.Text
}

func (mini *Window) setRunningUnsafe(running bool) {
	if running {
		mini.playButton.Hide()
		mini.pauseButton.Show()
		return
	}
	mini.pauseButton.Hide()
	mini.playButton.Show()
}

// formatTime renders MM:SS once the cycle has started and "N mins" before.
func formatTime(display model.Display) string {
	if display.IsRunning || display.Started {
		return display.Time
	}
	minutesText, _, found := strings.Cut(display.Time, ":")
	if !found {
		return display.Time
	}
	minutes, err := strconv.Atoi(minutesText)
	if err != nil {
		return display.Time
	}
	return fmt.Sprintf("%d mins", minutes)
}

// newFramelessWindow prefers an undecorated splash window and creates a
// regular one only when the driver has no splash support.
func newFramelessWindow(app fyne.App, title string) fyne.Window {
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		return driver.CreateSplashWindow()
	}
	return app.NewWindow(title)
}

func layoutSpacer() fyne.CanvasObject {
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(windowWidth-40, 1))
	return spacer
}

// dragSurface turns drags on the window body into window moves. Drag
// positions are window relative, so the point grabbed on the first event stays
// put under the cursor while the window follows; the distance from it is the
// move still owed.
type dragSurface struct {
	widget.BaseWidget
	onDrag   func(dx, dy float32)
	grab     fyne.Position
	grabbing bool
}

func newDragSurface(onDrag func(dx, dy float32)) *dragSurface {
	surface := &dragSurface{onDrag: onDrag}
	surface.ExtendBaseWidget(surface)
	return surface
}

func (surface *dragSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (surface *dragSurface) Dragged(event *fyne.DragEvent) {
	if !surface.grabbing {
		surface.grab = fyne.NewPos(event.Position.X-event.Dragged.DX, event.Position.Y-event.Dragged.DY)
		surface.grabbing = true
	}
	if surface.onDrag != nil {
		surface.onDrag(event.Position.X-surface.grab.X, event.Position.Y-surface.grab.Y)
	}
}

func (surface *dragSurface) DragEnd() {
	surface.grabbing = false
}
