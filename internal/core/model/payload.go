package model

// Display is the companion window's view of the timer.
type Display struct {
	Time      string
	Label     string
	Progress  float64
	IsRunning bool
	Started   bool
}

// NotificationKind selects the popup accent.
type NotificationKind string

const (
	NotificationInfo  NotificationKind = "info"
	NotificationAlert NotificationKind = "alert"
)

// NotificationPayload is the content of one popup.
type NotificationPayload struct {
	Title   string
	Message string
	Kind    NotificationKind
}

// Permission is the user's decision about OS notifications.
type Permission string

const (
	PermissionUndetermined Permission = ""
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
)
