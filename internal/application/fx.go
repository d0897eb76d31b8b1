package application

import (
	"github.com/smallbiznis/loanhub/internal/application/service"
	"go.uber.org/fx"
)

var Module = fx.Module("application.service",
	fx.Provide(service.NewService),
)
