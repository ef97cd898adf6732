package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/modules/service"
)

type PermissionHandler struct {
	svc service.PermissionService
}

func NewPermissionHandler(s service.PermissionService) *PermissionHandler {
	return &PermissionHandler{svc: s}
}

// ListPermissions godoc
//
//	@Summary		List permissions
//	@Description	Every permission row on the project, ordered by username
//	@Tags			permission
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.ProjectPermission}
//	@Router			/projects/{project_id}/permissions [get]
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.ListForProject(c.Request.Context(), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type GrantReq struct {
	UserID string `json:"user_id" binding:"required,uuid" format:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// Grant godoc
//
//	@Summary		Grant access
//	@Description	Add a user to the project with no roles. Roles are then toggled one by one.
//	@Tags			permission
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.GrantReq	true	"Grant payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectPermission}
//	@Router			/projects/{project_id}/permissions [post]
func (h *PermissionHandler) Grant(c *gin.Context) {
	req := GrantReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	userID := uuid.MustParse(req.UserID)
	actor, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	out, err := h.svc.Grant(c.Request.Context(), projectID, actor.ID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

type ToggleRoleReq struct {
	Role string `json:"role" binding:"required,oneof=read edit admin" example:"edit"`
}

// ToggleRole godoc
//
//	@Summary		Toggle role
//	@Description	Flip one role on another user's row. Granting a role grants the roles below it, revoking one revokes those above it.
//	@Tags			permission
//	@Accept			json
//	@Produce		json
//	@Param			project_id		path	string					true	"Project ID"	format(uuid)
//	@Param			permission_id	path	string					true	"Permission ID"	format(uuid)
//	@Param			payload			body	handler.ToggleRoleReq	true	"ToggleRole payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ProjectPermission}
//	@Router			/projects/{project_id}/permissions/{permission_id} [put]
func (h *PermissionHandler) ToggleRole(c *gin.Context) {
	req := ToggleRoleReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "permission_id")
	if !ok {
		return
	}
	actor, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	out, err := h.svc.ToggleRole(c.Request.Context(), projectID, ids[0], actor.ID, model.Role(req.Role))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// Revoke godoc
//
//	@Summary		Revoke access
//	@Description	Delete another user's permission row
//	@Tags			permission
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			permission_id	path	string	true	"Permission ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/permissions/{permission_id} [delete]
func (h *PermissionHandler) Revoke(c *gin.Context) {
	ids, ok := pathIDs(c, "permission_id")
	if !ok {
		return
	}
	actor, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.Revoke(c.Request.Context(), projectID, ids[0], actor.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
