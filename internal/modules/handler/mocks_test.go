package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Coni63/checklist/internal/middleware"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/modules/service"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withScope stands in for UserAuth and ProjectAccess.
func withScope(user *model.User, projectID uuid.UUID, roles model.Roles) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUser, user)
		if projectID != uuid.Nil {
			c.Set(middleware.CtxProjectID, projectID)
			c.Set(middleware.CtxRoles, roles)
		}
		c.Next()
	}
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, p *model.Project, creatorID uuid.UUID) error {
	args := m.Called(ctx, p, creatorID)
	return args.Error(0)
}

func (m *MockProjectService) List(ctx context.Context, in service.ListProjectsInput) ([]model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Summary(ctx context.Context, projectID uuid.UUID, userID uuid.UUID) (*service.ProjectSummary, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectSummary), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// MockPermissionService is a mock implementation of PermissionService
type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) Get(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (*model.ProjectPermission, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionService) GetMany(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]model.ProjectPermission, error) {
	args := m.Called(ctx, userID, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionService) ProjectsForUser(ctx context.Context, userID uuid.UUID, level model.AccessLevel) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPermissionService) Roles(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (model.Roles, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Roles), args.Error(1)
}

func (m *MockPermissionService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectPermission, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionService) Grant(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID, userID uuid.UUID) (*model.ProjectPermission, error) {
	args := m.Called(ctx, projectID, actorID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionService) ToggleRole(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID, role model.Role) (*model.ProjectPermission, error) {
	args := m.Called(ctx, projectID, permissionID, actorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectPermission), args.Error(1)
}

func (m *MockPermissionService) Revoke(ctx context.Context, projectID uuid.UUID, permissionID uuid.UUID, actorID uuid.UUID) error {
	args := m.Called(ctx, projectID, permissionID, actorID)
	return args.Error(0)
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ActiveStepTemplates(ctx context.Context) ([]model.StepTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StepTemplate), args.Error(1)
}

func (m *MockCatalogService) ActiveInventoryTemplates(ctx context.Context) ([]model.InventoryTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryTemplate), args.Error(1)
}

func (m *MockCatalogService) StepTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.StepTemplate, error) {
	args := m.Called(ctx, id, mustBeActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StepTemplate), args.Error(1)
}

func (m *MockCatalogService) InventoryTemplate(ctx context.Context, id uuid.UUID, mustBeActive bool) (*model.InventoryTemplate, error) {
	args := m.Called(ctx, id, mustBeActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryTemplate), args.Error(1)
}

func (m *MockCatalogService) CreateStepTemplate(ctx context.Context, in service.CreateStepTemplateInput) (*model.StepTemplate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StepTemplate), args.Error(1)
}

func (m *MockCatalogService) CreateInventoryTemplate(ctx context.Context, in service.CreateInventoryTemplateInput) (*model.InventoryTemplate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryTemplate), args.Error(1)
}

// MockSyncService is a mock implementation of SyncService
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) EditStepTemplateTasks(ctx context.Context, in service.EditStepTemplateTasksInput) (*repo.SyncReport, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.SyncReport), args.Error(1)
}

func (m *MockSyncService) Sync(ctx context.Context, templateID uuid.UUID, actorID uuid.UUID) (*repo.SyncReport, error) {
	args := m.Called(ctx, templateID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.SyncReport), args.Error(1)
}

// MockChecklistService is a mock implementation of ChecklistService
type MockChecklistService struct {
	mock.Mock
}

func (m *MockChecklistService) ListSteps(ctx context.Context, projectID uuid.UUID) ([]*service.StepView, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.StepView), args.Error(1)
}

func (m *MockChecklistService) GetStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) (*service.StepView, error) {
	args := m.Called(ctx, projectID, stepID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StepView), args.Error(1)
}

func (m *MockChecklistService) AddStep(ctx context.Context, in service.AddStepInput) (*service.AddStepOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AddStepOutput), args.Error(1)
}

func (m *MockChecklistService) ReorderSteps(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, ids)
	return args.Error(0)
}

func (m *MockChecklistService) UpdateStepHeader(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectStep, error) {
	args := m.Called(ctx, projectID, stepID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStep), args.Error(1)
}

func (m *MockChecklistService) DeleteStep(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID) error {
	args := m.Called(ctx, projectID, stepID)
	return args.Error(0)
}

func (m *MockChecklistService) AddTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, title string) (*model.ProjectTask, error) {
	args := m.Called(ctx, projectID, stepID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectTask), args.Error(1)
}

func (m *MockChecklistService) ReorderTasks(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, stepID, ids)
	return args.Error(0)
}

func (m *MockChecklistService) UpdateTaskStatus(ctx context.Context, in service.UpdateTaskStatusInput) (*model.ProjectTask, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectTask), args.Error(1)
}

func (m *MockChecklistService) DeleteTask(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) error {
	args := m.Called(ctx, projectID, stepID, taskID)
	return args.Error(0)
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) ([]model.TaskComment, error) {
	args := m.Called(ctx, projectID, stepID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskComment), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, in service.CreateCommentInput) (*model.TaskComment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskComment), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID, text string) (*model.TaskComment, error) {
	args := m.Called(ctx, projectID, commentID, actorID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TaskComment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID) error {
	args := m.Called(ctx, projectID, commentID, actorID)
	return args.Error(0)
}

// MockInventoryService is a mock implementation of InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventory, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectInventory), args.Error(1)
}

func (m *MockInventoryService) Add(ctx context.Context, in service.AddInventoryInput) (*service.AddInventoryOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AddInventoryOutput), args.Error(1)
}

func (m *MockInventoryService) Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, ids)
	return args.Error(0)
}

func (m *MockInventoryService) UpdateHeader(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectInventory, error) {
	args := m.Called(ctx, projectID, inventoryID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectInventory), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) error {
	args := m.Called(ctx, projectID, inventoryID)
	return args.Error(0)
}

func (m *MockInventoryService) BuildForm(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, roles model.Roles) (*service.InventoryForm, error) {
	args := m.Called(ctx, projectID, inventoryID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InventoryForm), args.Error(1)
}

func (m *MockInventoryService) SaveFieldValues(ctx context.Context, in service.SaveFieldsInput) (*service.SaveFieldsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveFieldsOutput), args.Error(1)
}

func (m *MockInventoryService) DownloadFile(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fieldID uuid.UUID, isAdmin bool) (*service.FileDownload, error) {
	args := m.Called(ctx, projectID, inventoryID, fieldID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileDownload), args.Error(1)
}
