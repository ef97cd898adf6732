package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/modules/service"
)

type TemplateHandler struct {
	catalog service.CatalogService
	sync    service.SyncService
}

func NewTemplateHandler(catalog service.CatalogService, sync service.SyncService) *TemplateHandler {
	return &TemplateHandler{catalog: catalog, sync: sync}
}

// ListStepTemplates godoc
//
//	@Summary		List step templates
//	@Description	Active step templates with their active tasks, by default_order
//	@Tags			template
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.StepTemplate}
//	@Router			/templates/steps [get]
func (h *TemplateHandler) ListStepTemplates(c *gin.Context) {
	out, err := h.catalog.ActiveStepTemplates(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// ListInventoryTemplates godoc
//
//	@Summary		List inventory templates
//	@Description	Active inventory templates with their active fields, by default_order
//	@Tags			template
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.InventoryTemplate}
//	@Router			/templates/inventories [get]
func (h *TemplateHandler) ListInventoryTemplates(c *gin.Context) {
	out, err := h.catalog.ActiveInventoryTemplates(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetStepTemplate godoc
//
//	@Summary		Get step template
//	@Description	Staff also see inactive templates
//	@Tags			template
//	@Produce		json
//	@Param			template_id	path	string	true	"Step template ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.StepTemplate}
//	@Router			/templates/steps/{template_id} [get]
func (h *TemplateHandler) GetStepTemplate(c *gin.Context) {
	ids, ok := pathIDs(c, "template_id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.catalog.StepTemplate(c.Request.Context(), ids[0], !user.IsStaff)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetInventoryTemplate godoc
//
//	@Summary		Get inventory template
//	@Description	Staff also see inactive templates
//	@Tags			template
//	@Produce		json
//	@Param			template_id	path	string	true	"Inventory template ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.InventoryTemplate}
//	@Router			/templates/inventories/{template_id} [get]
func (h *TemplateHandler) GetInventoryTemplate(c *gin.Context) {
	ids, ok := pathIDs(c, "template_id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.catalog.InventoryTemplate(c.Request.Context(), ids[0], !user.IsStaff)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// CreateStepTemplate godoc
//
//	@Summary		Create step template
//	@Description	Staff only
//	@Tags			template
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	service.CreateStepTemplateInput	true	"CreateStepTemplate payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.StepTemplate}
//	@Router			/templates/steps [post]
func (h *TemplateHandler) CreateStepTemplate(c *gin.Context) {
	req := service.CreateStepTemplateInput{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	out, err := h.catalog.CreateStepTemplate(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// CreateInventoryTemplate godoc
//
//	@Summary		Create inventory template
//	@Description	Staff only. Group names are stored upper-cased.
//	@Tags			template
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	service.CreateInventoryTemplateInput	true	"CreateInventoryTemplate payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.InventoryTemplate}
//	@Router			/templates/inventories [post]
func (h *TemplateHandler) CreateInventoryTemplate(c *gin.Context) {
	req := service.CreateInventoryTemplateInput{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	out, err := h.catalog.CreateInventoryTemplate(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

type EditTemplateTasksReq struct {
	Add    []service.TaskTemplateInput `json:"add"`
	Remove []string                    `json:"remove" example:"123e4567-e89b-12d3-a456-426614174000"`
	Sync   bool                        `json:"sync" example:"true"`
}

// EditTemplateTasks godoc
//
//	@Summary		Edit step template tasks
//	@Description	Staff only. Adds and removes task templates. With sync, steps of active projects drop the removed tasks and gain the missing ones.
//	@Tags			template
//	@Accept			json
//	@Produce		json
//	@Param			template_id	path	string							true	"Step template ID"	format(uuid)
//	@Param			payload		body	handler.EditTemplateTasksReq	true	"EditTemplateTasks payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=repo.SyncReport}
//	@Router			/templates/steps/{template_id}/tasks [put]
func (h *TemplateHandler) EditTemplateTasks(c *gin.Context) {
	req := EditTemplateTasksReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "template_id")
	if !ok {
		return
	}
	remove, err := IDListReq{IDs: req.Remove}.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task template id", err))
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.sync.EditStepTemplateTasks(c.Request.Context(), service.EditStepTemplateTasksInput{
		TemplateID: ids[0],
		Add:        req.Add,
		Remove:     remove,
		Sync:       req.Sync,
		ActorID:    user.ID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// SyncTemplate godoc
//
//	@Summary		Sync step template
//	@Description	Staff only. Appends missing active task templates to every step of an active project cloned from this template.
//	@Tags			template
//	@Produce		json
//	@Param			template_id	path	string	true	"Step template ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=repo.SyncReport}
//	@Router			/templates/steps/{template_id}/sync [post]
func (h *TemplateHandler) SyncTemplate(c *gin.Context) {
	ids, ok := pathIDs(c, "template_id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.sync.Sync(c.Request.Context(), ids[0], user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
