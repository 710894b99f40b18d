package notification

import "go.uber.org/fx"

var Module = fx.Module("notification",
	fx.Provide(NewNATSConn),
	fx.Provide(
		fx.Annotate(NewEmailChannel, fx.ResultTags(`group:"notification_channels"`)),
		fx.Annotate(NewSlackChannel, fx.ResultTags(`group:"notification_channels"`)),
		fx.Annotate(NewNATSChannel, fx.ResultTags(`group:"notification_channels"`)),
	),
	fx.Provide(NewDispatcher),
)
