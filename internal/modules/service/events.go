package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
)

// EventPublisher is satisfied by *mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, data interface{}) error
}

// TemplateCache is satisfied by *cache.JSONCache.
type TemplateCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context, keys ...string) error
}

type TaskStatusChangedEvent struct {
	ProjectID uuid.UUID        `json:"project_id"`
	StepID    uuid.UUID        `json:"step_id"`
	TaskID    uuid.UUID        `json:"task_id"`
	Status    model.TaskStatus `json:"status"`
	ActorID   uuid.UUID        `json:"actor_id"`
	At        time.Time        `json:"at"`
}

type StepAddedEvent struct {
	ProjectID  uuid.UUID `json:"project_id"`
	StepID     uuid.UUID `json:"step_id"`
	TemplateID uuid.UUID `json:"template_id"`
	Tasks      int       `json:"tasks"`
	ActorID    uuid.UUID `json:"actor_id"`
}

type InventoryAddedEvent struct {
	ProjectID   uuid.UUID `json:"project_id"`
	InventoryID uuid.UUID `json:"inventory_id"`
	TemplateID  uuid.UUID `json:"template_id"`
	Fields      int       `json:"fields"`
	ActorID     uuid.UUID `json:"actor_id"`
}

type TemplateSyncedEvent struct {
	repo.SyncReport
	ActorID uuid.UUID `json:"actor_id"`
}

// emitter publishes after the transaction has committed. A failed publish is
// logged and never fails the request.
type emitter struct {
	pub  EventPublisher
	keys config.MQRoutingKeys
	log  *zap.Logger
}

func (e emitter) emit(ctx context.Context, routingKey string, payload any) {
	if e.pub == nil || routingKey == "" {
		return
	}
	if err := e.pub.PublishJSON(ctx, routingKey, payload); err != nil {
		e.log.Sugar().Warnw("publish event failed", "routing_key", routingKey, "error", err)
	}
}
