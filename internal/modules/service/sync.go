package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

type EditStepTemplateTasksInput struct {
	TemplateID uuid.UUID
	Add        []TaskTemplateInput
	Remove     []uuid.UUID
	Sync       bool
	ActorID    uuid.UUID
}

// SyncService edits a step template's task set and propagates it to the
// steps of active projects.
type SyncService interface {
	// EditStepTemplateTasks applies additions and removals to the template. With
	// Sync set, removed tasks are deleted from in-scope steps before gap-fill runs.
	EditStepTemplateTasks(ctx context.Context, in EditStepTemplateTasksInput) (*repo.SyncReport, error)
	// Sync runs gap-fill only and records a TemplateSyncLog.
	Sync(ctx context.Context, templateID uuid.UUID, actorID uuid.UUID) (*repo.SyncReport, error)
}

type syncService struct {
	r      repo.SyncRepo
	cache  TemplateCache
	events emitter
	log    *zap.Logger
}

func NewSyncService(r repo.SyncRepo, cache TemplateCache, pub EventPublisher, keys config.MQRoutingKeys, log *zap.Logger) SyncService {
	return &syncService{
		r:      r,
		cache:  cache,
		events: emitter{pub: pub, keys: keys, log: log},
		log:    log,
	}
}

func (s *syncService) EditStepTemplateTasks(ctx context.Context, in EditStepTemplateTasksInput) (*repo.SyncReport, error) {
	if len(in.Add) == 0 && len(in.Remove) == 0 && !in.Sync {
		return nil, apperr.Invalid("nothing to change")
	}
	add, err := taskTemplates(in.Add)
	if err != nil {
		return nil, err
	}
	actor := in.ActorID
	report, err := s.r.ApplyStepTemplateEdit(ctx, in.TemplateID, repo.StepTemplateEdit{
		Add:     add,
		Remove:  in.Remove,
		Sync:    in.Sync,
		ActorID: &actor,
	})
	if err != nil {
		return nil, fmt.Errorf("edit step template: %w", err)
	}
	s.afterChange(ctx, report, actor, in.Sync)
	return report, nil
}

func (s *syncService) Sync(ctx context.Context, templateID uuid.UUID, actorID uuid.UUID) (*repo.SyncReport, error) {
	report, err := s.r.SyncStepTemplate(ctx, templateID, &actorID)
	if err != nil {
		return nil, fmt.Errorf("sync step template: %w", err)
	}
	s.afterChange(ctx, report, actorID, true)
	return report, nil
}

func (s *syncService) afterChange(ctx context.Context, report *repo.SyncReport, actorID uuid.UUID, synced bool) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, stepCatalogKey); err != nil {
			s.log.Sugar().Warnw("template cache invalidation failed", "key", stepCatalogKey, "error", err)
		}
	}
	if synced {
		s.events.emit(ctx, s.events.keys.TemplateSynced, TemplateSyncedEvent{SyncReport: *report, ActorID: actorID})
	}
}
