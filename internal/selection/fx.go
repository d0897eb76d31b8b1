package selection

import (
	"github.com/smallbiznis/loanhub/internal/selection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("selection.service",
	fx.Provide(service.NewService),
)
