package audit

import (
	"github.com/smallbiznis/loanhub/internal/audit/repository"
	"github.com/smallbiznis/loanhub/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
