package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Coni63/checklist/internal/middleware"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type ListProjectsReq struct {
	Status string `form:"status" json:"status" example:"active"`
	Level  string `form:"level,default=read" json:"level" binding:"omitempty,oneof=read write admin" example:"read"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List the projects the caller can access at the given level. Status defaults to active; "all" disables the filter.
//	@Tags			project
//	@Produce		json
//	@Param			status	query	string	false	"active, completed, archived or all"
//	@Param			level	query	string	false	"read, write or admin (default read)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListProjectsInput{
		UserID: user.ID,
		Level:  model.AccessLevel(req.Level),
		Status: req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CreateProjectReq struct {
	Name        string `json:"name" binding:"required" example:"Office move"`
	Description string `json:"description" example:"Second floor, Q3"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project. The caller becomes its admin.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	project := model.Project{Name: req.Name, Description: req.Description}
	if err := h.svc.Create(c.Request.Context(), &project, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Project with completion percentage and the caller's roles
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectSummary}
//	@Router			/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.Summary(c.Request.Context(), projectID, user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type UpdateProjectReq struct {
	Name        *string `json:"name" example:"Office move"`
	Description *string `json:"description"`
	Status      *string `json:"status" example:"archived"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Update name, description or status. Omitted fields are left alone.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	in := service.UpdateProjectInput{ProjectID: projectID, Name: req.Name, Description: req.Description}
	if req.Status != nil {
		status := model.ProjectStatus(*req.Status)
		in.Status = &status
	}
	out, err := h.svc.Update(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project with its steps, inventories and permissions
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), projectID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// GetRoles godoc
//
//	@Summary		Get my roles
//	@Description	Roles the caller holds on the project
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]string}
//	@Router			/projects/{project_id}/roles [get]
func (h *ProjectHandler) GetRoles(c *gin.Context) {
	c.JSON(http.StatusOK, serializer.Response{Data: middleware.CurrentRoles(c)})
}
