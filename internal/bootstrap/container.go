package bootstrap

import (
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/infra/cache"
	"github.com/Coni63/checklist/internal/infra/db"
	"github.com/Coni63/checklist/internal/infra/logger"
	"github.com/Coni63/checklist/internal/infra/mq"
	"github.com/Coni63/checklist/internal/infra/secret"
	"github.com/Coni63/checklist/internal/modules/handler"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/modules/service"
	"github.com/Coni63/checklist/internal/pkg/tokens"
	"github.com/Coni63/checklist/internal/pkg/utils"
)

const templateCachePrefix = "checklist:tpl:"

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := d.AutoMigrate(model.All()...); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		return d, nil
	})

	// Redis, only when enabled. A nil client disables the template cache.
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		return cache.New(cfg), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TemplateCache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		rdb := do.MustInvoke[*redis.Client](i)
		if rdb == nil {
			return nil, nil
		}
		ttl := time.Duration(cfg.Redis.TemplateTTLSec) * time.Second
		return cache.NewJSONCache(rdb, templateCachePrefix, ttl), nil
	})

	// RabbitMQ, only when enabled
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.RabbitMQ.Enabled {
			return nil, nil
		}
		return amqp.Dial(cfg.RabbitMQ.URL)
	})
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		if conn == nil {
			return nil, nil
		}
		return mq.NewPublisher(conn, cfg.RabbitMQ.Exchange, do.MustInvoke[*zap.Logger](i))
	})
	do.Provide(inj, func(i *do.Injector) (service.EventPublisher, error) {
		pub := do.MustInvoke[*mq.Publisher](i)
		if pub == nil {
			return nil, nil
		}
		return pub, nil
	})

	// field cipher
	do.Provide(inj, func(i *do.Injector) (*secret.Cipher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Crypto.FieldKey == "" {
			return nil, errors.New("crypto.fieldKey is required to store secret inventory values")
		}
		return secret.New(cfg.Crypto.FieldKey)
	})

	// tokens
	do.Provide(inj, func(i *do.Injector) (*tokens.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		key := cfg.Auth.JWTSecret
		if key == "" {
			var err error
			if key, err = utils.GenerateKey("jwt-"); err != nil {
				return nil, err
			}
			do.MustInvoke[*zap.Logger](i).Warn("auth.jwtSecret is empty, using a random secret; tokens will not survive a restart")
		}
		return tokens.New(key, time.Duration(cfg.Auth.TokenTTLSec)*time.Second, cfg.Auth.Issuer), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.PermissionRepo, error) {
		return repo.NewPermissionRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TemplateRepo, error) {
		return repo.NewTemplateRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ChecklistRepo, error) {
		return repo.NewChecklistRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CommentRepo, error) {
		return repo.NewCommentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.InventoryRepo, error) {
		return repo.NewInventoryRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.SyncRepo, error) {
		return repo.NewSyncRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.PermissionService, error) {
		return service.NewPermissionService(do.MustInvoke[repo.PermissionRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[service.PermissionService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CatalogService, error) {
		return service.NewCatalogService(
			do.MustInvoke[repo.TemplateRepo](i),
			do.MustInvoke[service.TemplateCache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SyncService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewSyncService(
			do.MustInvoke[repo.SyncRepo](i),
			do.MustInvoke[service.TemplateCache](i),
			do.MustInvoke[service.EventPublisher](i),
			cfg.RabbitMQ.RoutingKeys,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ChecklistService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewChecklistService(
			do.MustInvoke[repo.ChecklistRepo](i),
			do.MustInvoke[service.EventPublisher](i),
			cfg.RabbitMQ.RoutingKeys,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CommentService, error) {
		return service.NewCommentService(do.MustInvoke[repo.CommentRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.InventoryService, error) {
		return service.NewInventoryService(
			do.MustInvoke[repo.InventoryRepo](i),
			do.MustInvoke[*secret.Cipher](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[service.EventPublisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.PermissionHandler, error) {
		return handler.NewPermissionHandler(do.MustInvoke[service.PermissionService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TemplateHandler, error) {
		return handler.NewTemplateHandler(
			do.MustInvoke[service.CatalogService](i),
			do.MustInvoke[service.SyncService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ChecklistHandler, error) {
		return handler.NewChecklistHandler(do.MustInvoke[service.ChecklistService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CommentHandler, error) {
		return handler.NewCommentHandler(do.MustInvoke[service.CommentService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.InventoryHandler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return handler.NewInventoryHandler(do.MustInvoke[service.InventoryService](i), cfg.Inventory.MaxFileSizeBytes), nil
	})

	return inj
}
