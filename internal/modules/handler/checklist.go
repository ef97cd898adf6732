package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/modules/service"
)

type ChecklistHandler struct {
	svc service.ChecklistService
}

func NewChecklistHandler(s service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{svc: s}
}

// ListSteps godoc
//
//	@Summary		List steps
//	@Description	Steps of the project in order, each with its tasks and progress
//	@Tags			step
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.StepView}
//	@Router			/projects/{project_id}/steps [get]
func (h *ChecklistHandler) ListSteps(c *gin.Context) {
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.ListSteps(c.Request.Context(), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type AddStepReq struct {
	TemplateID  string `json:"template_id" binding:"required,uuid" format:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	CustomTitle string `json:"custom_title" example:"Network setup, building B"`
}

// AddStep godoc
//
//	@Summary		Add step
//	@Description	Clone an active step template into the project, after the last step
//	@Tags			step
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.AddStepReq	true	"AddStep payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.AddStepOutput}
//	@Router			/projects/{project_id}/steps [post]
func (h *ChecklistHandler) AddStep(c *gin.Context) {
	req := AddStepReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	templateID := uuid.MustParse(req.TemplateID)
	user, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	out, err := h.svc.AddStep(c.Request.Context(), service.AddStepInput{
		ProjectID:   projectID,
		TemplateID:  templateID,
		CustomTitle: req.CustomTitle,
		ActorID:     user.ID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// ReorderSteps godoc
//
//	@Summary		Reorder steps
//	@Description	Set the step order. Ids from other projects are ignored.
//	@Tags			step
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.IDListReq	true	"New order"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/steps/order [put]
func (h *ChecklistHandler) ReorderSteps(c *gin.Context) {
	req := IDListReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, err := req.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid step id", err))
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.ReorderSteps(c.Request.Context(), projectID, ids); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// GetStep godoc
//
//	@Summary		Get step
//	@Tags			step
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			step_id		path	string	true	"Step ID"		format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.StepView}
//	@Router			/projects/{project_id}/steps/{step_id} [get]
func (h *ChecklistHandler) GetStep(c *gin.Context) {
	ids, ok := pathIDs(c, "step_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.GetStep(c.Request.Context(), projectID, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateStep godoc
//
//	@Summary		Update step header
//	@Tags			step
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			step_id		path	string				true	"Step ID"		format(uuid)
//	@Param			payload		body	handler.HeaderReq	true	"Header patch"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ProjectStep}
//	@Router			/projects/{project_id}/steps/{step_id} [patch]
func (h *ChecklistHandler) UpdateStep(c *gin.Context) {
	req := HeaderReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "step_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.UpdateStepHeader(c.Request.Context(), projectID, ids[0], repo.HeaderPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteStep godoc
//
//	@Summary		Delete step
//	@Description	Delete a step with its tasks and their comments
//	@Tags			step
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			step_id		path	string	true	"Step ID"		format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/steps/{step_id} [delete]
func (h *ChecklistHandler) DeleteStep(c *gin.Context) {
	ids, ok := pathIDs(c, "step_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteStep(c.Request.Context(), projectID, ids[0]); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

type AddTaskReq struct {
	Title string `json:"title" binding:"required" example:"Label the patch panel"`
}

// AddTask godoc
//
//	@Summary		Add task
//	@Description	Append a manually created task to the step
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			step_id		path	string				true	"Step ID"		format(uuid)
//	@Param			payload		body	handler.AddTaskReq	true	"AddTask payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectTask}
//	@Router			/projects/{project_id}/steps/{step_id}/tasks [post]
func (h *ChecklistHandler) AddTask(c *gin.Context) {
	req := AddTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "step_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.AddTask(c.Request.Context(), projectID, ids[0], req.Title)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// ReorderTasks godoc
//
//	@Summary		Reorder tasks
//	@Description	Set the task order within a step. Ids from other steps are ignored.
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			step_id		path	string				true	"Step ID"		format(uuid)
//	@Param			payload		body	handler.IDListReq	true	"New order"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/steps/{step_id}/tasks/order [put]
func (h *ChecklistHandler) ReorderTasks(c *gin.Context) {
	req := IDListReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	taskIDs, err := req.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task id", err))
		return
	}
	ids, ok := pathIDs(c, "step_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.ReorderTasks(c.Request.Context(), projectID, ids[0], taskIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

type UpdateTaskStatusReq struct {
	Status string `json:"status" binding:"required" example:"done"`
}

// UpdateTaskStatus godoc
//
//	@Summary		Update task status
//	@Description	Set done or na. Sending the current status puts the task back to pending.
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	format(uuid)
//	@Param			step_id		path	string						true	"Step ID"		format(uuid)
//	@Param			task_id		path	string						true	"Task ID"		format(uuid)
//	@Param			payload		body	handler.UpdateTaskStatusReq	true	"UpdateTaskStatus payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ProjectTask}
//	@Router			/projects/{project_id}/steps/{step_id}/tasks/{task_id}/status [put]
func (h *ChecklistHandler) UpdateTaskStatus(c *gin.Context) {
	req := UpdateTaskStatusReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "step_id", "task_id")
	if !ok {
		return
	}
	user, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	out, err := h.svc.UpdateTaskStatus(c.Request.Context(), service.UpdateTaskStatusInput{
		ProjectID: projectID,
		StepID:    ids[0],
		TaskID:    ids[1],
		Status:    model.TaskStatus(req.Status),
		ActorID:   user.ID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteTask godoc
//
//	@Summary		Delete task
//	@Description	Only manually created tasks can be deleted
//	@Tags			task
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			step_id		path	string	true	"Step ID"		format(uuid)
//	@Param			task_id		path	string	true	"Task ID"		format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/steps/{step_id}/tasks/{task_id} [delete]
func (h *ChecklistHandler) DeleteTask(c *gin.Context) {
	ids, ok := pathIDs(c, "step_id", "task_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), projectID, ids[0], ids[1]); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
