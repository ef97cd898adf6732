package main

//	@title			Checklist API
//	@version		1.0
//	@description	Project checklists and inventories with per-project roles.
//	@schemes		http https
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				User JWT (e.g., "Bearer eyJhbGciOi...")

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/bootstrap"
	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/infra/cache"
	dbpkg "github.com/Coni63/checklist/internal/infra/db"
	"github.com/Coni63/checklist/internal/infra/mq"
	"github.com/Coni63/checklist/internal/modules/handler"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/modules/service"
	"github.com/Coni63/checklist/internal/pkg/tokens"
	"github.com/Coni63/checklist/internal/router"
	"github.com/Coni63/checklist/internal/telemetry"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	db := do.MustInvoke[*gorm.DB](inj)
	rdb := do.MustInvoke[*redis.Client](inj)

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
	} else if tp != nil {
		log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				log.Sugar().Errorw("failed to shutdown tracer", "err", err)
			}
		}()

		// plugins need the global tracer provider set above
		if err := dbpkg.RegisterOpenTelemetryPlugin(db); err != nil {
			log.Sugar().Warnw("failed to register GORM OpenTelemetry plugin, continuing without database tracing", "err", err)
		}
		if rdb != nil {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				log.Sugar().Warnw("failed to register Redis OpenTelemetry plugin, continuing without Redis tracing", "err", err)
			}
		}
	}

	gin.SetMode(cfg.App.Env)

	engine := router.NewRouter(router.RouterDeps{
		Config:            cfg,
		Log:               log,
		Tokens:            do.MustInvoke[*tokens.Service](inj),
		Users:             do.MustInvoke[repo.UserRepo](inj),
		Perms:             do.MustInvoke[service.PermissionService](inj),
		ProjectHandler:    do.MustInvoke[*handler.ProjectHandler](inj),
		PermissionHandler: do.MustInvoke[*handler.PermissionHandler](inj),
		TemplateHandler:   do.MustInvoke[*handler.TemplateHandler](inj),
		ChecklistHandler:  do.MustInvoke[*handler.ChecklistHandler](inj),
		CommentHandler:    do.MustInvoke[*handler.CommentHandler](inj),
		InventoryHandler:  do.MustInvoke[*handler.InventoryHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr,
			"redis", cfg.Redis.Enabled, "rabbitmq", cfg.RabbitMQ.Enabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}

	if err := do.MustInvoke[*mq.Publisher](inj).Close(); err != nil {
		log.Sugar().Warnw("close publisher", "err", err)
	}
	if conn := do.MustInvoke[*amqp.Connection](inj); conn != nil {
		_ = conn.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Sugar().Info("server exited")
}
