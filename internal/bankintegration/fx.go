package bankintegration

import (
	"github.com/smallbiznis/loanhub/internal/bankintegration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankintegration.service",
	fx.Provide(service.NewService),
)
