package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

const (
	stepCatalogKey      = "templates:steps"
	inventoryCatalogKey = "templates:inventories"
)

type TaskTemplateInput struct {
	Title    string `json:"title"`
	Order    int    `json:"order"`
	InfoText string `json:"info_text"`
	HelpURL  string `json:"help_url"`
	WorkURL  string `json:"work_url"`
	Inactive bool   `json:"inactive"`
}

type CreateStepTemplateInput struct {
	Title        string              `json:"title"`
	Icon         string              `json:"icon"`
	Description  string              `json:"description"`
	DefaultOrder int                 `json:"default_order"`
	Tasks        []TaskTemplateInput `json:"tasks"`
}

type TemplateFieldInput struct {
	GroupName  string          `json:"group_name"`
	GroupOrder int             `json:"group_order"`
	FieldName  string          `json:"field_name"`
	FieldOrder int             `json:"field_order"`
	FieldType  model.FieldType `json:"field_type"`
	IsSecret   bool            `json:"is_secret"`
	Inactive   bool            `json:"inactive"`
}

type CreateInventoryTemplateInput struct {
	Title        string               `json:"title"`
	Icon         string               `json:"icon"`
	Description  string               `json:"description"`
	DefaultOrder int                  `json:"default_order"`
	Fields       []TemplateFieldInput `json:"fields"`
}

// CatalogService serves the active template catalog, cached when a cache is configured.
// Writes invalidate the cached lists; single lookups always hit the database.
type CatalogService interface {
	// ActiveStepTemplates lists active step templates with their active tasks, by default_order.
	ActiveStepTemplates(ctx context.Context) ([]model.StepTemplate, error)
	// ActiveInventoryTemplates lists active inventory templates with their active fields.
	ActiveInventoryTemplates(ctx context.Context) ([]model.InventoryTemplate, error)
	// StepTemplate returns ErrNotFound when the template is missing, or inactive while mustBeActive is set.
	StepTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error)
	InventoryTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error)
	// CreateStepTemplate and CreateInventoryTemplate are staff operations.
	CreateStepTemplate(ctx context.Context, in CreateStepTemplateInput) (*model.StepTemplate, error)
	CreateInventoryTemplate(ctx context.Context, in CreateInventoryTemplateInput) (*model.InventoryTemplate, error)
}

type catalogService struct {
	r     repo.TemplateRepo
	cache TemplateCache
	log   *zap.Logger
}

func NewCatalogService(r repo.TemplateRepo, cache TemplateCache, log *zap.Logger) CatalogService {
	return &catalogService{r: r, cache: cache, log: log}
}

func (s *catalogService) ActiveStepTemplates(ctx context.Context) ([]model.StepTemplate, error) {
	var items []model.StepTemplate
	if s.cached(ctx, stepCatalogKey, &items) {
		return items, nil
	}
	items, err := s.r.ListActiveStepTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list step templates: %w", err)
	}
	s.store(ctx, stepCatalogKey, items)
	return items, nil
}

func (s *catalogService) ActiveInventoryTemplates(ctx context.Context) ([]model.InventoryTemplate, error) {
	var items []model.InventoryTemplate
	if s.cached(ctx, inventoryCatalogKey, &items) {
		return items, nil
	}
	items, err := s.r.ListActiveInventoryTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory templates: %w", err)
	}
	s.store(ctx, inventoryCatalogKey, items)
	return items, nil
}

func (s *catalogService) StepTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error) {
	return s.r.GetStepTemplate(ctx, id, mustBeActive)
}

func (s *catalogService) InventoryTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error) {
	return s.r.GetInventoryTemplate(ctx, id, mustBeActive)
}

func (s *catalogService) CreateStepTemplate(ctx context.Context, in CreateStepTemplateInput) (*model.StepTemplate, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("template title is empty")
	}
	tasks, err := taskTemplates(in.Tasks)
	if err != nil {
		return nil, err
	}
	t := &model.StepTemplate{
		Title:        title,
		Icon:         in.Icon,
		Description:  in.Description,
		DefaultOrder: in.DefaultOrder,
		IsActive:     true,
		Tasks:        tasks,
	}
	if err := s.r.CreateStepTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("create step template: %w", err)
	}
	s.invalidate(ctx, stepCatalogKey)
	return t, nil
}

func (s *catalogService) CreateInventoryTemplate(ctx context.Context, in CreateInventoryTemplateInput) (*model.InventoryTemplate, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("template title is empty")
	}
	fields := make([]model.TemplateField, 0, len(in.Fields))
	for i, f := range in.Fields {
		name := strings.TrimSpace(f.FieldName)
		if name == "" {
			return nil, apperr.Invalid("field %d has no name", i)
		}
		if f.FieldType == "" {
			f.FieldType = model.FieldText
		}
		if !f.FieldType.Valid() {
			return nil, apperr.Invalid("field %q has unknown type %q", name, f.FieldType)
		}
		fields = append(fields, model.TemplateField{
			GroupName:  f.GroupName,
			GroupOrder: f.GroupOrder,
			FieldName:  name,
			FieldOrder: f.FieldOrder,
			FieldType:  f.FieldType,
			IsSecret:   f.IsSecret,
			IsActive:   !f.Inactive,
		})
	}
	t := &model.InventoryTemplate{
		Title:        title,
		Icon:         in.Icon,
		Description:  in.Description,
		DefaultOrder: in.DefaultOrder,
		IsActive:     true,
		Fields:       fields,
	}
	if err := s.r.CreateInventoryTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("create inventory template: %w", err)
	}
	s.invalidate(ctx, inventoryCatalogKey)
	return t, nil
}

func taskTemplates(in []TaskTemplateInput) ([]model.TaskTemplate, error) {
	out := make([]model.TaskTemplate, 0, len(in))
	for i, t := range in {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			return nil, apperr.Invalid("task %d has no title", i)
		}
		out = append(out, model.TaskTemplate{
			Title:    title,
			Order:    t.Order,
			InfoText: t.InfoText,
			HelpURL:  t.HelpURL,
			WorkURL:  t.WorkURL,
			IsActive: !t.Inactive,
		})
	}
	return out, nil
}

// cached reports a hit. Cache errors degrade to a miss.
func (s *catalogService) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Sugar().Warnw("template cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *catalogService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.Sugar().Warnw("template cache write failed", "key", key, "error", err)
	}
}

func (s *catalogService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Sugar().Warnw("template cache invalidation failed", "keys", keys, "error", err)
	}
}
