package notification

import (
	"sync"

	"focusclock/internal/core/model"

	"fyne.io/fyne/v2"
)

// SystemNotifier forwards payloads to the OS notification centre once the
// user allowed it.
type SystemNotifier struct {
	app fyne.App

	mu         sync.Mutex
	permission model.Permission
	requested  bool
}

// NewSystemNotifier starts from the configured permission.
func NewSystemNotifier(app fyne.App, permission model.Permission) *SystemNotifier {
	return &SystemNotifier{app: app, permission: permission}
}

// RequestPermission asks the user once, and only while the permission is
// undetermined. ask must call reply with the user's answer.
func (notifier *SystemNotifier) RequestPermission(ask func(reply func(allowed bool))) {
	notifier.mu.Lock()
	if notifier.requested || notifier.permission != model.PermissionUndetermined || ask == nil {
		notifier.mu.Unlock()
		return
	}
	notifier.requested = true
	notifier.mu.Unlock()

	ask(func(allowed bool) {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		if allowed {
			notifier.permission = model.PermissionGranted
			return
		}
		notifier.permission = model.PermissionDenied
	})
}

// Permission returns the current decision.
func (notifier *SystemNotifier) Permission() model.Permission {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.permission
}

// Notify sends payload; without permission it does nothing.
func (notifier *SystemNotifier) Notify(payload model.NotificationPayload) {
	if notifier == nil || notifier.Permission() != model.PermissionGranted {
		return
	}
	notifier.app.SendNotification(fyne.NewNotification(payload.Title, payload.Message))
}

// SetPermission records a decision made elsewhere, e.g. in settings.
func (notifier *SystemNotifier) SetPermission(permission model.Permission) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.permission = permission
}
