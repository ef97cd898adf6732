package serializer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/pkg/apperr"
)

var log = zap.NewNop()

// SetLogger sets the logger used to report unexpected errors.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// TraceErrorResponse
type TrackedErrorResponse struct {
	Response
	TraceID string `json:"trace_id"`
}

// CheckLogin
func CheckLogin() Response {
	return Response{
		Code: http.StatusUnauthorized,
		Msg:  "please login first",
	}
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

func ForbiddenErr(msg string, err error) Response {
	if msg == "" {
		msg = "permission denied"
	}
	return Err(http.StatusForbidden, msg, err)
}

func NotFoundErr(msg string, err error) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(http.StatusNotFound, msg, err)
}

func ConflictErr(msg string, err error) Response {
	if msg == "" {
		msg = "conflict"
	}
	return Err(http.StatusConflict, msg, err)
}

// FromError maps a service error onto a status code and response body.
// Errors outside the apperr taxonomy are logged and reported as 500.
func FromError(err error) (int, Response) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, NotFoundErr(err.Error(), err)
	case errors.Is(err, apperr.ErrInvalidParameter):
		return http.StatusBadRequest, ParamErr(err.Error(), err)
	case errors.Is(err, apperr.ErrPermissionDenied):
		return http.StatusForbidden, ForbiddenErr(err.Error(), err)
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, ConflictErr(err.Error(), err)
	default:
		log.Error("unexpected error", zap.Error(err))
		return http.StatusInternalServerError, DBErr("", err)
	}
}
