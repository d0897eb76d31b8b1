// Package server exposes the HTTP API for offer search, selections,
// applications and bank integration administration.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
	auditdomain "github.com/smallbiznis/loanhub/internal/audit/domain"
	bankdomain "github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/config"
	"github.com/smallbiznis/loanhub/internal/observability/logger"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
	seldomain "github.com/smallbiznis/loanhub/internal/selection/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	searchRateLimit  = 30
	searchRateWindow = time.Minute
)

type Params struct {
	fx.In

	Cfg          config.Config
	Log          *zap.Logger
	Clock        clock.Clock
	Offers       offerdomain.Service
	Selections   seldomain.Service
	Applications appdomain.Service
	Banks        bankdomain.Service
	Audit        auditdomain.Service
}

type Server struct {
	cfg            config.Config
	log            *zap.Logger
	offerSvc       offerdomain.Service
	selectionSvc   seldomain.Service
	applicationSvc appdomain.Service
	bankSvc        bankdomain.Service
	auditSvc       auditdomain.Service
	searchLimiter  *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:            p.Cfg,
		log:            p.Log.Named("server"),
		offerSvc:       p.Offers,
		selectionSvc:   p.Selections,
		applicationSvc: p.Applications,
		bankSvc:        p.Banks,
		auditSvc:       p.Audit,
		searchLimiter:  newRateLimiter(searchRateLimit, searchRateWindow, p.Clock),
	}
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Logger:    log,
		SkipPaths: []string{"/healthz"},
	}))
	engine.Use(auditContextMiddleware())
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	{
		v1.POST("/offers/search", s.searchRateLimit(), s.SearchOffers)

		v1.POST("/selections", s.CreateSelection)
		v1.GET("/selections/:id", s.GetSelection)
		v1.POST("/selections/:id/recalculate", s.RecalculateSelection)
		v1.POST("/selections/:id/apply", s.ApplySelection)

		v1.GET("/applications", s.ListRecentApplications)
		v1.GET("/applications/:id", s.GetApplication)
		v1.POST("/applications/:id/cancel", s.CancelApplication)
		v1.POST("/applications/:id/status", s.UpdateApplicationStatus)

		v1.POST("/bank-integrations", s.CreateBankIntegration)
		v1.GET("/bank-integrations", s.ListBankIntegrations)
		v1.GET("/bank-integrations/:id", s.GetBankIntegration)
		v1.PATCH("/bank-integrations/:id", s.UpdateBankIntegration)

		v1.GET("/audit-logs", s.ListAuditLogs)
	}
}

func (s *Server) searchRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.searchLimiter.Allow(c.ClientIP()) {
			AbortWithError(c, &apiError{
				Status:  http.StatusTooManyRequests,
				Code:    "rate_limited",
				Message: "too many search requests",
			})
			return
		}
		c.Next()
	}
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Provide(NewEngine),
	fx.Invoke(func(s *Server, engine *gin.Engine) {
		s.RegisterRoutes(engine)
	}),
	fx.Invoke(RunHTTP),
)
