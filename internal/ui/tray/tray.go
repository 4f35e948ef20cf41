package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow   func()
	OnToggle func()
	OnSkip   func()
	OnMini   func()
	OnQuit   func()
}

// Icons are swapped with the running state.
type Icons struct {
	Running fyne.Resource
	Paused  fyne.Resource
}

// Manager handles system tray state. The menu is installed once; later
// changes edit its items and refresh it in place.
type Manager struct {
	app        desktop.App
	icons      Icons
	callbacks  Callbacks
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	running    bool
	status     string
}

// New creates a tray manager and installs its menu.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
		status:    "ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", call(&manager.callbacks.OnToggle))
	manager.menu = fyne.NewMenu("FocusClock",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", call(&manager.callbacks.OnShow)),
		manager.toggleItem,
		fyne.NewMenuItem("Skip session", call(&manager.callbacks.OnSkip)),
		fyne.NewMenuItem("Mini mode", call(&manager.callbacks.OnMini)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(&manager.callbacks.OnQuit)),
	)
	manager.updateLabels()

	if app != nil {
		app.SetSystemTrayMenu(manager.menu)
	}
	manager.updateIcon()
	return manager
}

// SetStatus updates the status line, e.g. "Focus time 12:34".
func (manager *Manager) SetStatus(status string) {
	if status == manager.status {
		return
	}
	manager.status = status
	manager.updateLabels()
	manager.menu.Refresh()
}

// SetRunning switches the toggle label and the tray icon.
func (manager *Manager) SetRunning(running bool) {
	if running == manager.running {
		return
	}
	manager.running = running
	manager.updateLabels()
	manager.menu.Refresh()
	manager.updateIcon()
}

// Menu returns the installed menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) updateLabels() {
	if manager.running {
		manager.toggleItem.Label = "Pause"
		manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.status)
		return
	}
	manager.toggleItem.Label = "Start"
	manager.statusItem.Label = fmt.Sprintf("Status: %s (paused)", manager.status)
}

func (manager *Manager) updateIcon() {
	if manager.app == nil {
		return
	}
	icon := manager.icons.Paused
	if manager.running {
		icon = manager.icons.Running
	}
	if icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func call(callback *func()) func() {
	return func() {
		if *callback != nil {
			(*callback)()
		}
	}
}
