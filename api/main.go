package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"github.com/yoppiari/tumor-registry-sub011/audit"
	"github.com/yoppiari/tumor-registry-sub011/config"
	"github.com/yoppiari/tumor-registry-sub011/followups"
	"github.com/yoppiari/tumor-registry-sub011/logger"
	"github.com/yoppiari/tumor-registry-sub011/notifications"
	"github.com/yoppiari/tumor-registry-sub011/patients"
	"github.com/yoppiari/tumor-registry-sub011/quality"
	"github.com/yoppiari/tumor-registry-sub011/store"
)

func Start(e *echo.Echo, cfg *config.Config, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.HttpPort)); err != nil {
					fmt.Println(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, db *mongo.Database, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}

			// Lifecycle hooks run in topological order, so mongo indexes
			// are in place before the probe reports ready.
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: nil,
	})
}

// Dependencies is the provider graph of the registry service. The admin CLI
// reuses it to run one-shot commands against the same wiring.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.New,
			logger.NewProductionLogger,
			logger.Sugar,
			store.NewConfig,
			store.GetConnectionString,
			store.NewClient,
			store.NewDatabase,
			audit.NewLogRecorder,
			notifications.NewLogNotifier,
			patients.NewRepository,
			followups.NewRepository,
			followups.NewService,
			quality.NewRepository,
			quality.NewService,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func MainLoop() {
	opts := append(
		Dependencies(),
		fx.Invoke(SetReady),
		fx.Invoke(Start),
	)
	fx.New(opts...).Run()
}
