package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"focusclock/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Panel is the settings tab of the primary window. Every change is applied
// immediately through onChange; there is no save button.
type Panel struct {
	content       fyne.CanvasObject
	settings      Settings
	onChange      func(Settings)
	focus         *widget.Select
	breakLength   *widget.Select
	longBreak     *widget.Select
	sound         *widget.Check
	notifications *widget.Check
	updating      bool
}

// NewPanel builds the settings controls for settings.
func NewPanel(settings Settings, onChange func(Settings)) *Panel {
	panel := &Panel{settings: settings, onChange: onChange}

	panel.focus = widget.NewSelect(minuteOptions(FocusOptions), nil)
	panel.breakLength = widget.NewSelect(minuteOptions(BreakOptions), nil)
	panel.longBreak = widget.NewSelect(minuteOptions(LongBreakOptions), nil)
	panel.sound = widget.NewCheck("Play a sound when a session ends", nil)
	panel.notifications = widget.NewCheck("Show system notifications", nil)

	panel.UpdateSettings(settings)

	panel.focus.OnChanged = func(string) { panel.handleChange() }
	panel.breakLength.OnChanged = func(string) { panel.handleChange() }
	panel.longBreak.OnChanged = func(string) { panel.handleChange() }
	panel.sound.OnChanged = func(bool) { panel.handleChange() }
	panel.notifications.OnChanged = func(bool) { panel.handleChange() }

	panel.content = container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Focus", panel.focus),
			widget.NewFormItem("Break", panel.breakLength),
			widget.NewFormItem("Long break", panel.longBreak),
		),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		panel.sound,
		panel.notifications,
	)

	return panel
}

// Content returns the panel's canvas object.
func (panel *Panel) Content() fyne.CanvasObject {
	return panel.content
}

// Settings returns the values currently shown.
func (panel *Panel) Settings() Settings {
	return panel.settings
}

// UpdateSettings replaces panel values without reporting a change.
func (panel *Panel) UpdateSettings(settings Settings) {
	panel.updating = true
	defer func() { panel.updating = false }()

	panel.settings = settings
	panel.focus.SetSelected(minuteOption(settings.Focus))
	panel.breakLength.SetSelected(minuteOption(settings.Break))
	panel.longBreak.SetSelected(minuteOption(settings.LongBreak))
	panel.sound.SetChecked(settings.SoundEnabled)
	panel.notifications.SetChecked(settings.SystemNotifications == model.PermissionGranted)
}

func (panel *Panel) handleChange() {
	if panel.updating {
		return
	}
	settings := panel.settings

	if minutes, ok := parseMinutes(panel.focus.Selected); ok {
		settings.Focus = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parseMinutes(panel.breakLength.Selected); ok {
		settings.Break = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parseMinutes(panel.longBreak.Selected); ok {
		settings.LongBreak = time.Duration(minutes) * time.Minute
	}
	settings.SoundEnabled = panel.sound.Checked
	if panel.notifications.Checked {
		settings.SystemNotifications = model.PermissionGranted
	} else if settings.SystemNotifications == model.PermissionGranted {
		settings.SystemNotifications = model.PermissionDenied
	}

	if settings == panel.settings {
		return
	}
	panel.settings = settings
	if panel.onChange != nil {
		panel.onChange(settings)
	}
}

func minuteOptions(minutes []int) []string {
	options := make([]string, 0, len(minutes))
	for _, value := range minutes {
		options = append(options, fmt.Sprintf("%d min", value))
	}
	return options
}

func minuteOption(duration time.Duration) string {
	return fmt.Sprintf("%d min", int(duration/time.Minute))
}

func parseMinutes(option string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSuffix(option, " min"))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
