package notification

import (
	"github.com/smallbiznis/loanhub/internal/notification/directory"
	"github.com/smallbiznis/loanhub/internal/notification/sender"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(sender.New),
	fx.Provide(directory.New),
)
