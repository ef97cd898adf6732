package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/modules/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(s service.CommentService) *CommentHandler {
	return &CommentHandler{svc: s}
}

// ListComments godoc
//
//	@Summary		List comments
//	@Description	Comments on a task, oldest first. Deleted comments are left out.
//	@Tags			comment
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			step_id		path	string	true	"Step ID"		format(uuid)
//	@Param			task_id		path	string	true	"Task ID"		format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.TaskComment}
//	@Router			/projects/{project_id}/steps/{step_id}/tasks/{task_id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	ids, ok := pathIDs(c, "step_id", "task_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), projectID, ids[0], ids[1])
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CommentReq struct {
	Text string `json:"text" binding:"required" example:"Waiting on the vendor"`
}

// CreateComment godoc
//
//	@Summary		Create comment
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			step_id		path	string				true	"Step ID"		format(uuid)
//	@Param			task_id		path	string				true	"Task ID"		format(uuid)
//	@Param			payload		body	handler.CommentReq	true	"Comment payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.TaskComment}
//	@Router			/projects/{project_id}/steps/{step_id}/tasks/{task_id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	req := CommentReq{}
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

	out, err := h.svc.Create(c.Request.Context(), service.CreateCommentInput{
		ProjectID: projectID,
		StepID:    ids[0],
		TaskID:    ids[1],
		UserID:    user.ID,
		Text:      req.Text,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// UpdateComment godoc
//
//	@Summary		Update comment
//	@Description	Only the author can edit a comment
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			comment_id	path	string				true	"Comment ID"	format(uuid)
//	@Param			payload		body	handler.CommentReq	true	"Comment payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.TaskComment}
//	@Router			/projects/{project_id}/comments/{comment_id} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	req := CommentReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "comment_id")
	if !ok {
		return
	}
	user, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), projectID, ids[0], user.ID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteComment godoc
//
//	@Summary		Delete comment
//	@Description	The author or a project admin can delete a comment
//	@Tags			comment
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			comment_id	path	string	true	"Comment ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/comments/{comment_id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	ids, ok := pathIDs(c, "comment_id")
	if !ok {
		return
	}
	user, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), projectID, ids[0], user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
