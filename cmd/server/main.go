package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/config"
	"github.com/goaltracker/internal/db"
	"github.com/goaltracker/internal/handler"
	"github.com/goaltracker/internal/logger"
	"github.com/goaltracker/internal/observability"
	"github.com/goaltracker/internal/router"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			provideLogger,
			provideDatabase,
			provideTracing,
			handler.NewAPI,
			provideRouter,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideLogger(cfg config.AppConfig) *zap.Logger {
	return logger.New(cfg.Env)
}

// provideDatabase 打开数据库并在停止时释放连接池
func provideDatabase(lc fx.Lifecycle, cfg config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	driver := "sqlite"
	if cfg.UsesPostgres() {
		driver = "postgres"
	}
	log.Info("database ready", zap.String("driver", driver))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(gdb)
		},
	})
	return gdb, nil
}

func provideTracing(lc fx.Lifecycle, cfg config.AppConfig, log *zap.Logger) (observability.ShutdownFunc, error) {
	shutdown, err := observability.InitTracing(log, cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return shutdown, nil
}

// provideRouter 依赖 tracing，确保 otelgin 创建时全局 TracerProvider 已就绪
func provideRouter(api *handler.API, cfg config.AppConfig, log *zap.Logger, _ observability.ShutdownFunc) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	return router.SetupRouter(api, cfg, log)
}

func startServer(lc fx.Lifecycle, cfg config.AppConfig, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting http server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping http server")
			return srv.Shutdown(ctx)
		},
	})
}
