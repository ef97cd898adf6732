package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/middleware"
	"github.com/Coni63/checklist/internal/modules/handler"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/pkg/tokens"
)

type RouterDeps struct {
	Config *config.Config
	Log    *zap.Logger
	Tokens *tokens.Service
	Users  middleware.UserLookup
	Perms  middleware.RoleResolver

	ProjectHandler    *handler.ProjectHandler
	PermissionHandler *handler.PermissionHandler
	TemplateHandler   *handler.TemplateHandler
	ChecklistHandler  *handler.ChecklistHandler
	CommentHandler    *handler.CommentHandler
	InventoryHandler  *handler.InventoryHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	if len(d.Config.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(d.Config.CORS.AllowedOrigins))
	}

	if d.Config.Metrics.Enabled {
		m := middleware.NewMetrics("checklist")
		r.Use(m.Middleware())
		r.GET(d.Config.Metrics.Path, gin.WrapH(m.Handler()))
	}

	// multipart bodies above this spill to disk
	r.MaxMultipartMemory = 2*d.Config.Inventory.MaxFileSizeBytes + 1<<20

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.UserAuth(d.Tokens, d.Users))

		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		read := middleware.ProjectAccess(d.Perms, model.RoleRead)
		edit := middleware.ProjectAccess(d.Perms, model.RoleEdit)
		admin := middleware.ProjectAccess(d.Perms, model.RoleAdmin)

		v1.GET("/projects", d.ProjectHandler.ListProjects)
		v1.POST("/projects", d.ProjectHandler.CreateProject)

		project := v1.Group("/projects/:project_id")
		{
			project.GET("", read, d.ProjectHandler.GetProject)
			project.PUT("", admin, d.ProjectHandler.UpdateProject)
			project.DELETE("", admin, d.ProjectHandler.DeleteProject)
			project.GET("/roles", read, d.ProjectHandler.GetRoles)

			perm := project.Group("/permissions", admin)
			{
				perm.GET("", d.PermissionHandler.ListPermissions)
				perm.POST("", d.PermissionHandler.Grant)
				perm.PUT("/:permission_id", d.PermissionHandler.ToggleRole)
				perm.DELETE("/:permission_id", d.PermissionHandler.Revoke)
			}

			steps := project.Group("/steps")
			{
				steps.GET("", read, d.ChecklistHandler.ListSteps)
				steps.POST("", admin, d.ChecklistHandler.AddStep)
				steps.PUT("/order", admin, d.ChecklistHandler.ReorderSteps)
				steps.GET("/:step_id", read, d.ChecklistHandler.GetStep)
				steps.PATCH("/:step_id", edit, d.ChecklistHandler.UpdateStep)
				steps.DELETE("/:step_id", admin, d.ChecklistHandler.DeleteStep)

				tasks := steps.Group("/:step_id/tasks")
				{
					tasks.POST("", edit, d.ChecklistHandler.AddTask)
					tasks.PUT("/order", edit, d.ChecklistHandler.ReorderTasks)
					tasks.PUT("/:task_id/status", edit, d.ChecklistHandler.UpdateTaskStatus)
					tasks.DELETE("/:task_id", edit, d.ChecklistHandler.DeleteTask)

					tasks.GET("/:task_id/comments", read, d.CommentHandler.ListComments)
					tasks.POST("/:task_id/comments", edit, d.CommentHandler.CreateComment)
				}
			}

			project.PUT("/comments/:comment_id", read, d.CommentHandler.UpdateComment)
			project.DELETE("/comments/:comment_id", edit, d.CommentHandler.DeleteComment)

			inv := project.Group("/inventories")
			{
				inv.GET("", read, d.InventoryHandler.ListInventories)
				inv.POST("", admin, d.InventoryHandler.AddInventory)
				inv.PUT("/order", admin, d.InventoryHandler.ReorderInventories)
				inv.PATCH("/:inventory_id", edit, d.InventoryHandler.UpdateInventory)
				inv.DELETE("/:inventory_id", admin, d.InventoryHandler.DeleteInventory)
				inv.GET("/:inventory_id/form", read, d.InventoryHandler.GetForm)
				inv.PUT("/:inventory_id/fields", edit, d.InventoryHandler.SaveFields)
				inv.GET("/:inventory_id/fields/:field_id/file", read, d.InventoryHandler.DownloadFile)
			}
		}

		tpl := v1.Group("/templates")
		{
			tpl.GET("/steps", d.TemplateHandler.ListStepTemplates)
			tpl.GET("/inventories", d.TemplateHandler.ListInventoryTemplates)
			tpl.GET("/steps/:template_id", d.TemplateHandler.GetStepTemplate)
			tpl.GET("/inventories/:template_id", d.TemplateHandler.GetInventoryTemplate)

			staff := tpl.Group("", middleware.RequireStaff())
			{
				staff.POST("/steps", d.TemplateHandler.CreateStepTemplate)
				staff.POST("/inventories", d.TemplateHandler.CreateInventoryTemplate)
				staff.PUT("/steps/:template_id/tasks", d.TemplateHandler.EditTemplateTasks)
				staff.POST("/steps/:template_id/sync", d.TemplateHandler.SyncTemplate)
			}
		}
	}
	return r
}
