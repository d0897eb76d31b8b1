package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/loanhub/internal/application"
	"github.com/smallbiznis/loanhub/internal/audit"
	"github.com/smallbiznis/loanhub/internal/bankintegration"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/config"
	"github.com/smallbiznis/loanhub/internal/events"
	"github.com/smallbiznis/loanhub/internal/events/dispatcher"
	"github.com/smallbiznis/loanhub/internal/migration"
	"github.com/smallbiznis/loanhub/internal/notification"
	"github.com/smallbiznis/loanhub/internal/observability"
	"github.com/smallbiznis/loanhub/internal/offer"
	"github.com/smallbiznis/loanhub/internal/seed"
	"github.com/smallbiznis/loanhub/internal/selection"
	"github.com/smallbiznis/loanhub/internal/server"
	"github.com/smallbiznis/loanhub/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if !cfg.IsProduction() {
				return seed.EnsureDemoBank(conn)
			}
			return nil
		}),
		audit.Module,
		events.Module,
		dispatcher.Module,
		notification.Module,
		bankintegration.Module,
		offer.Module,
		application.Module,
		selection.Module,
		server.Module,
	)
	app.Run()
}
