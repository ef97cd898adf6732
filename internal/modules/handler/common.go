package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/middleware"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/serializer"
)

// IDListReq carries a full ordering for a reorder endpoint.
type IDListReq struct {
	IDs []string `json:"ids" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
}

func (r IDListReq) parse() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HeaderReq patches a step or inventory header. Omitted fields are left alone.
type HeaderReq struct {
	Title       *string `json:"title" example:"Network setup"`
	Description *string `json:"description" example:"Everything the rack needs before go-live"`
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(serializer.FromError(err))
}

// pathIDs parses the named uuid path params, writing a 400 on the first bad one.
func pathIDs(c *gin.Context, names ...string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, err := uuid.Parse(c.Param(name))
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid "+name, err))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func currentUser(c *gin.Context) (*model.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return nil, false
	}
	return u, true
}

// projectScope returns the caller and the project resolved by middleware.ProjectAccess.
func projectScope(c *gin.Context) (*model.User, uuid.UUID, bool) {
	u, ok := currentUser(c)
	if !ok {
		return nil, uuid.Nil, false
	}
	projectID, ok := middleware.CurrentProjectID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found")))
		return nil, uuid.Nil, false
	}
	return u, projectID, true
}
