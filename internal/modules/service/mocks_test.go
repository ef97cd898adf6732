package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
)

// MockPermissionRepo is a mock implementation of repo.PermissionRepo
type MockPermissionRepo struct {
	mock.Mock
}

func (m *MockPermissionRepo) Get(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (*model.ProjectPermission, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionRepo) ListForUser(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]model.ProjectPermission, error) {
	args := m.Called(ctx, userID, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionRepo) ProjectIDsForUser(ctx context.Context, userID uuid.UUID, level model.AccessLevel) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPermissionRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectPermission, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionRepo) Grant(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID, userID uuid.UUID) (*model.ProjectPermission, error) {
	args := m.Called(ctx, projectID, actorID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectPermission), args.Error(1)
}

// Mutate runs fn against the permission given as the first return value.
func (m *MockPermissionRepo) Mutate(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, fn func(p *model.ProjectPermission) error) (*model.ProjectPermission, error) {
	args := m.Called(ctx, projectID, permissionID, actorID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p := args.Get(0).(*model.ProjectPermission)
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, args.Error(1)
}

// Delete runs guard against the permission given as the second return value, when set.
func (m *MockPermissionRepo) Delete(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, guard func(p *model.ProjectPermission) error) error {
	args := m.Called(ctx, projectID, permissionID, actorID, guard)
	if p, ok := args.Get(1).(*model.ProjectPermission); ok && p != nil {
		if err := guard(p); err != nil {
			return err
		}
	}
	return args.Error(0)
}

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project, creatorID uuid.UUID) error {
	args := m.Called(ctx, p, creatorID)
	return args.Error(0)
}

func (m *MockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByIDs(ctx context.Context, ids []uuid.UUID, status string) ([]model.Project, error) {
	args := m.Called(ctx, ids, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepo) TaskCounts(ctx context.Context, projectID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockTemplateRepo is a mock implementation of repo.TemplateRepo
type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) ListActiveStepTemplates(ctx context.Context) ([]model.StepTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StepTemplate), args.Error(1)
}

func (m *MockTemplateRepo) ListActiveInventoryTemplates(ctx context.Context) ([]model.InventoryTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryTemplate), args.Error(1)
}

func (m *MockTemplateRepo) GetStepTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error) {
	args := m.Called(ctx, id, mustBeActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StepTemplate), args.Error(1)
}

func (m *MockTemplateRepo) GetInventoryTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error) {
	args := m.Called(ctx, id, mustBeActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryTemplate), args.Error(1)
}

func (m *MockTemplateRepo) CreateStepTemplate(ctx context.Context, t *model.StepTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepo) CreateInventoryTemplate(ctx context.Context, t *model.InventoryTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockChecklistRepo is a mock implementation of repo.ChecklistRepo
type MockChecklistRepo struct {
	mock.Mock
}

func (m *MockChecklistRepo) ListSteps(ctx context.Context, projectID uuid.UUID) ([]model.ProjectStep, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectStep), args.Error(1)
}

func (m *MockChecklistRepo) GetStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) (*model.ProjectStep, error) {
	args := m.Called(ctx, projectID, stepID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStep), args.Error(1)
}

func (m *MockChecklistRepo) AddStep(ctx context.Context, projectID uuid.UUID, templateID uuid.UUID, customTitle string) (*model.ProjectStep, int64, error) {
	args := m.Called(ctx, projectID, templateID, customTitle)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*model.ProjectStep), args.Get(1).(int64), args.Error(2)
}

func (m *MockChecklistRepo) ReorderSteps(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, ids)
	return args.Error(0)
}

func (m *MockChecklistRepo) UpdateStepHeader(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectStep, error) {
	args := m.Called(ctx, projectID, stepID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStep), args.Error(1)
}

func (m *MockChecklistRepo) DeleteStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) error {
	args := m.Called(ctx, projectID, stepID)
	return args.Error(0)
}

func (m *MockChecklistRepo) GetTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) (*model.ProjectTask, error) {
	args := m.Called(ctx, projectID, stepID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectTask), args.Error(1)
}

func (m *MockChecklistRepo) AddTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, title string) (*model.ProjectTask, error) {
	args := m.Called(ctx, projectID, stepID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectTask), args.Error(1)
}

func (m *MockChecklistRepo) ReorderTasks(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, stepID, ids)
	return args.Error(0)
}

// MutateTask runs fn against the task given as the first return value.
func (m *MockChecklistRepo) MutateTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID, fn func(t *model.ProjectTask) error) (*model.ProjectTask, error) {
	args := m.Called(ctx, projectID, stepID, taskID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	t := args.Get(0).(*model.ProjectTask)
	if err := fn(t); err != nil {
		return nil, err
	}
	return t, args.Error(1)
}

// DeleteTask runs guard against the task given in the second return value, when set.
func (m *MockChecklistRepo) DeleteTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID, guard func(t *model.ProjectTask) error) error {
	args := m.Called(ctx, projectID, stepID, taskID, guard)
	if t, ok := args.Get(1).(*model.ProjectTask); ok && t != nil {
		if err := guard(t); err != nil {
			return err
		}
	}
	return args.Error(0)
}

// MockCommentRepo is a mock implementation of repo.CommentRepo
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) List(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) ([]model.TaskComment, error) {
	args := m.Called(ctx, projectID, stepID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskComment), args.Error(1)
}

func (m *MockCommentRepo) Create(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, c *model.TaskComment) error {
	args := m.Called(ctx, projectID, stepID, c)
	return args.Error(0)
}

func (m *MockCommentRepo) Mutate(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, fn func(c *model.TaskComment) error) (*model.TaskComment, error) {
	args := m.Called(ctx, projectID, commentID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	c := args.Get(0).(*model.TaskComment)
	if err := fn(c); err != nil {
		return nil, err
	}
	return c, args.Error(1)
}

// SoftDelete runs guard against the comment and actor row given as the second and third return values.
func (m *MockCommentRepo) SoftDelete(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID, guard func(c *model.TaskComment, actor *model.ProjectPermission) error) error {
	args := m.Called(ctx, projectID, commentID, actorID, guard)
	c, _ := args.Get(1).(*model.TaskComment)
	actor, _ := args.Get(2).(*model.ProjectPermission)
	if c != nil {
		if err := guard(c, actor); err != nil {
			return err
		}
	}
	return args.Error(0)
}

// MockInventoryRepo is a mock implementation of repo.InventoryRepo
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventory, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectInventory), args.Error(1)
}

func (m *MockInventoryRepo) Get(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) (*model.ProjectInventory, error) {
	args := m.Called(ctx, projectID, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectInventory), args.Error(1)
}

func (m *MockInventoryRepo) Add(ctx context.Context, projectID uuid.UUID, templateID uuid.UUID, customTitle string) (*model.ProjectInventory, int64, error) {
	args := m.Called(ctx, projectID, templateID, customTitle)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*model.ProjectInventory), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryRepo) Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, ids)
	return args.Error(0)
}

func (m *MockInventoryRepo) UpdateHeader(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectInventory, error) {
	args := m.Called(ctx, projectID, inventoryID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectInventory), args.Error(1)
}

func (m *MockInventoryRepo) Delete(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) error {
	args := m.Called(ctx, projectID, inventoryID)
	return args.Error(0)
}

func (m *MockInventoryRepo) GetField(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fieldID uuid.UUID) (*model.InventoryField, error) {
	args := m.Called(ctx, projectID, inventoryID, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryField), args.Error(1)
}

// SaveFields runs fn against the inventory given as the first return value.
func (m *MockInventoryRepo) SaveFields(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fn func(inv *model.ProjectInventory) ([]*model.InventoryField, error)) error {
	args := m.Called(ctx, projectID, inventoryID, fn)
	if inv, ok := args.Get(0).(*model.ProjectInventory); ok && inv != nil {
		if _, err := fn(inv); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// MockSyncRepo is a mock implementation of repo.SyncRepo
type MockSyncRepo struct {
	mock.Mock
}

func (m *MockSyncRepo) ApplyStepTemplateEdit(ctx context.Context, templateID uuid.UUID, edit repo.StepTemplateEdit) (*repo.SyncReport, error) {
	args := m.Called(ctx, templateID, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.SyncReport), args.Error(1)
}

func (m *MockSyncRepo) SyncStepTemplate(ctx context.Context, templateID uuid.UUID, actorID *uuid.UUID) (*repo.SyncReport, error) {
	args := m.Called(ctx, templateID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.SyncReport), args.Error(1)
}

// MockPublisher is a mock implementation of EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, routingKey string, data interface{}) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

// MockCache is a mock implementation of TemplateCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, v any) error {
	args := m.Called(ctx, key, v)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
