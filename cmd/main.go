package main

import (
	"errors"
	"log"
	"os"

	"focusclock/internal/audio"
	"focusclock/internal/bus"
	"focusclock/internal/core/timekeeper"
	"focusclock/internal/platform"
	"focusclock/internal/storage"
	"focusclock/internal/ui/companion"
	"focusclock/internal/ui/notification"
	"focusclock/internal/ui/primary"
	"focusclock/internal/ui/tray"
	"focusclock/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "FocusClock"
	appID   = "com.focusclock.app"
)

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if err := platform.ActivateRunning(appName); err != nil {
				log.Printf("single instance: %v", err)
			}
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	dataDir, err := platform.NewService().AppDataDir(appName)
	if err != nil {
		log.Printf("data dir: %v", err)
		dataDir = os.TempDir()
	}
	settings, err := storage.LoadSettings(dataDir)
	if err != nil {
		log.Printf("settings: %v", err)
	}

	fyneApp := app.NewWithID(appID)
	runningIcon := resources.MustLogo(resources.LogoRunning)
	fyneApp.SetIcon(runningIcon)

	messageBus := bus.New(0)
	placement := platform.NewPlacement()
	timer := timekeeper.New(settings.TimerConfig())
	cue := audio.NewBeeper(settings.SoundEnabled)
	notifier := notification.NewSystemNotifier(fyneApp, settings.SystemNotifications)

	companionController := companion.NewController(fyneApp, placement, storage.NewPositionStore(dataDir), messageBus)
	companionController.Attach(messageBus)
	notificationController := notification.NewController(fyneApp, placement, notifier, notification.DisplayDuration)
	notificationController.Attach(messageBus)

	primaryController := primary.NewController(fyneApp, timer, messageBus, cue, notifier, settings)
	primaryController.SetOnQuit(func() {
		companionController.Close()
		timer.Stop()
		fyneApp.Quit()
	})
	primaryController.Attach()

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Icons{
			Running: runningIcon,
			Paused:  resources.MustLogo(resources.LogoPaused),
		}, tray.Callbacks{
			OnShow: primaryController.Show,
			OnToggle: func() {
				if timer.Snapshot().Running {
					timer.Pause()
					return
				}
				timer.Start()
			},
			OnSkip: timer.Skip,
			OnMini: primaryController.GoMini,
			OnQuit: primaryController.Close,
		})
		primaryController.OnSnapshot(func(snapshot timekeeper.Snapshot) {
			trayManager.SetRunning(snapshot.Running)
			trayManager.SetStatus(snapshot.Label() + " " + snapshot.Clock())
		})
	} else {
		log.Printf("system tray unsupported on this platform")
	}

	guard.OnActivate(func() {
		fyne.Do(primaryController.Show)
	})

	fyneApp.Lifecycle().SetOnStarted(primaryController.RequestNotificationPermission)
	fyneApp.Lifecycle().SetOnStopped(timer.Stop)

	primaryController.Show()
	fyneApp.Run()
}
