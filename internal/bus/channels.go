package bus

// Channel names a message stream between window contexts.
type Channel string

const (
	ChannelCompanionOpen   Channel = "companion.open"
	ChannelCompanionUpdate Channel = "companion.update"
	ChannelCompanionClose  Channel = "companion.close"

	ChannelTimerStart Channel = "timer.start"
	ChannelTimerPause Channel = "timer.pause"
	ChannelTimerSkip  Channel = "timer.skip"

	ChannelPrimaryMinimize Channel = "primary.minimize"

	ChannelNotificationShow    Channel = "notification.show"
	ChannelNotificationDismiss Channel = "notification.dismiss"
)
