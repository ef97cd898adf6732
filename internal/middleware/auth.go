package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/serializer"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/tokens"
)

// Context keys set by the middlewares in this package.
const (
	CtxUser      = "user"
	CtxRoles     = "roles"
	CtxProjectID = "project_id"
)

// UserLookup is satisfied by repo.UserRepo.
type UserLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RoleResolver is satisfied by service.PermissionService.
type RoleResolver interface {
	Roles(ctx context.Context, userID uuid.UUID, projectID uuid.UUID) (model.Roles, error)
}

// UserAuth validates the bearer token and loads the user it names into the context.
func UserAuth(ts *tokens.Service, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		claims, err := ts.ValidateToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		user, err := users.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("user_id", user.ID.String()))
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// ProjectAccess resolves the caller's roles on :project_id and rejects the
// request unless they include role.
func ProjectAccess(perms RoleResolver, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.CheckLogin())
			return
		}
		projectID, err := uuid.Parse(c.Param("project_id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
			return
		}

		roles, err := perms.Roles(c.Request.Context(), user.ID, projectID)
		if err != nil {
			c.AbortWithStatusJSON(serializer.FromError(err))
			return
		}
		if !roles.Has(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.ForbiddenErr("missing "+string(role)+" role on project", nil))
			return
		}

		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("project_id", projectID.String()))
		}

		c.Set(CtxRoles, roles)
		c.Set(CtxProjectID, projectID)
		c.Next()
	}
}

// RequireStaff lets only staff users through.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.CheckLogin())
			return
		}
		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.ForbiddenErr("staff only", nil))
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok && u != nil
}

func CurrentRoles(c *gin.Context) model.Roles {
	v, _ := c.Get(CtxRoles)
	roles, _ := v.(model.Roles)
	return roles
}

func CurrentProjectID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxProjectID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
