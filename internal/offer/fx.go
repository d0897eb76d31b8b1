package offer

import (
	"github.com/smallbiznis/loanhub/internal/offer/aggregator"
	"github.com/smallbiznis/loanhub/internal/offer/registry"
	"github.com/smallbiznis/loanhub/internal/offer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offer.service",
	fx.Provide(registry.New),
	fx.Provide(aggregator.New),
	fx.Provide(service.NewService),
)
