package handler

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/middleware"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/modules/service"
)

// fieldKeyPrefix marks form keys that carry a field value: field_<field uuid>.
const fieldKeyPrefix = "field_"

type InventoryHandler struct {
	svc         service.InventoryService
	maxFileSize int64
}

func NewInventoryHandler(s service.InventoryService, maxFileSize int64) *InventoryHandler {
	return &InventoryHandler{svc: s, maxFileSize: maxFileSize}
}

// ListInventories godoc
//
//	@Summary		List inventories
//	@Tags			inventory
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.ProjectInventory}
//	@Router			/projects/{project_id}/inventories [get]
func (h *InventoryHandler) ListInventories(c *gin.Context) {
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type AddInventoryReq struct {
	TemplateID  string `json:"template_id" binding:"required,uuid" format:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	CustomTitle string `json:"custom_title" example:"Core switches"`
}

// AddInventory godoc
//
//	@Summary		Add inventory
//	@Description	Clone an active inventory template into the project with empty values
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.AddInventoryReq	true	"AddInventory payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.AddInventoryOutput}
//	@Router			/projects/{project_id}/inventories [post]
func (h *InventoryHandler) AddInventory(c *gin.Context) {
	req := AddInventoryReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	templateID := uuid.MustParse(req.TemplateID)
	user, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	out, err := h.svc.Add(c.Request.Context(), service.AddInventoryInput{
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

// ReorderInventories godoc
//
//	@Summary		Reorder inventories
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			payload		body	handler.IDListReq	true	"New order"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/inventories/order [put]
func (h *InventoryHandler) ReorderInventories(c *gin.Context) {
	req := IDListReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, err := req.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid inventory id", err))
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), projectID, ids); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// UpdateInventory godoc
//
//	@Summary		Update inventory header
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			project_id		path	string				true	"Project ID"	format(uuid)
//	@Param			inventory_id	path	string				true	"Inventory ID"	format(uuid)
//	@Param			payload			body	handler.HeaderReq	true	"Header patch"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ProjectInventory}
//	@Router			/projects/{project_id}/inventories/{inventory_id} [patch]
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	req := HeaderReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	ids, ok := pathIDs(c, "inventory_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.UpdateHeader(c.Request.Context(), projectID, ids[0], repo.HeaderPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteInventory godoc
//
//	@Summary		Delete inventory
//	@Tags			inventory
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			inventory_id	path	string	true	"Inventory ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{project_id}/inventories/{inventory_id} [delete]
func (h *InventoryHandler) DeleteInventory(c *gin.Context) {
	ids, ok := pathIDs(c, "inventory_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), projectID, ids[0]); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// GetForm godoc
//
//	@Summary		Get inventory form
//	@Description	Fields grouped for display. Secret values are masked unless the caller is a project admin.
//	@Tags			inventory
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			inventory_id	path	string	true	"Inventory ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.InventoryForm}
//	@Router			/projects/{project_id}/inventories/{inventory_id}/form [get]
func (h *InventoryHandler) GetForm(c *gin.Context) {
	ids, ok := pathIDs(c, "inventory_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	out, err := h.svc.BuildForm(c.Request.Context(), projectID, ids[0], middleware.CurrentRoles(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// SaveFields godoc
//
//	@Summary		Save field values
//	@Description	Form keys are field_<field id>. File fields are sent as multipart files. Blank values leave the stored value untouched.
//	@Tags			inventory
//	@Accept			multipart/form-data
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			inventory_id	path	string	true	"Inventory ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.SaveFieldsOutput}
//	@Router			/projects/{project_id}/inventories/{inventory_id}/fields [put]
func (h *InventoryHandler) SaveFields(c *gin.Context) {
	ids, ok := pathIDs(c, "inventory_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}
	values, err := h.readSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.SaveFieldValues(c.Request.Context(), service.SaveFieldsInput{
		ProjectID:   projectID,
		InventoryID: ids[0],
		Values:      values,
		IsAdmin:     middleware.CurrentRoles(c).Has(model.RoleAdmin),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// readSubmission collects field_<id> keys from a multipart or urlencoded body.
func (h *InventoryHandler) readSubmission(c *gin.Context) (map[uuid.UUID]service.FieldSubmission, error) {
	values := map[uuid.UUID]service.FieldSubmission{}

	var form map[string][]string
	var files map[string][]*multipart.FileHeader
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		form, files = mf.Value, mf.File
	} else {
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		form = c.Request.PostForm
	}

	for key, vs := range form {
		id, ok := fieldKey(key)
		if !ok || len(vs) == 0 {
			continue
		}
		values[id] = service.FieldSubmission{Value: vs[0]}
	}
	for key, fhs := range files {
		id, ok := fieldKey(key)
		if !ok || len(fhs) == 0 {
			continue
		}
		upload, err := h.readFile(fhs[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		sub := values[id]
		sub.File = upload
		values[id] = sub
	}
	return values, nil
}

// readFile reads at most one byte past the limit so the size check downstream still fires.
func (h *InventoryHandler) readFile(fh *multipart.FileHeader) (*service.FileUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxFileSize > 0 {
		r = io.LimitReader(f, h.maxFileSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &service.FileUpload{Filename: fh.Filename, Content: content}, nil
}

func fieldKey(key string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(key, fieldKeyPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// DownloadFile godoc
//
//	@Summary		Download file field
//	@Description	Secret files are served to project admins only
//	@Tags			inventory
//	@Produce		octet-stream
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			inventory_id	path	string	true	"Inventory ID"	format(uuid)
//	@Param			field_id		path	string	true	"Field ID"		format(uuid)
//	@Security		BearerAuth
//	@Success		200	{file}	binary
//	@Router			/projects/{project_id}/inventories/{inventory_id}/fields/{field_id}/file [get]
func (h *InventoryHandler) DownloadFile(c *gin.Context) {
	ids, ok := pathIDs(c, "inventory_id", "field_id")
	if !ok {
		return
	}
	_, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	isAdmin := middleware.CurrentRoles(c).Has(model.RoleAdmin)
	out, err := h.svc.DownloadFile(c.Request.Context(), projectID, ids[0], ids[1], isAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	c.Data(http.StatusOK, "application/octet-stream", out.Content)
}
