package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/service"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

func TestCommentHandler_CreateComment(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	projectID := uuid.New()
	stepID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setup          func(*MockCommentService)
		expectedStatus int
	}{
		{
			name: "posted",
			body: `{"text":"Waiting on the vendor"}`,
			setup: func(svc *MockCommentService) {
				svc.On("Create", mock.Anything, service.CreateCommentInput{
					ProjectID: projectID,
					StepID:    stepID,
					TaskID:    taskID,
					UserID:    user.ID,
					Text:      "Waiting on the vendor",
				}).Return(&model.TaskComment{ID: uuid.New(), ProjectTaskID: taskID, UserID: user.ID, CommentText: "Waiting on the vendor"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "blank after trim",
			body: `{"text":"   "}`,
			setup: func(svc *MockCommentService) {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, apperr.Invalid("comment text is empty"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no text",
			body:           `{}`,
			setup:          func(svc *MockCommentService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockCommentService{}
			tt.setup(mockService)

			handler := NewCommentHandler(mockService)
			router := setupRouter()
			router.POST("/projects/:project_id/steps/:step_id/tasks/:task_id/comments",
				withScope(user, projectID, model.Roles{model.RoleRead}), handler.CreateComment)

			path := "/projects/" + projectID.String() + "/steps/" + stepID.String() + "/tasks/" + taskID.String() + "/comments"
			req := httptest.NewRequest("POST", path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCommentHandler_DeleteComment(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	projectID := uuid.New()
	commentID := uuid.New()

	tests := []struct {
		name           string
		setup          func(*MockCommentService)
		expectedStatus int
	}{
		{
			name: "author deletes",
			setup: func(svc *MockCommentService) {
				svc.On("Delete", mock.Anything, projectID, commentID, user.ID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not author nor admin",
			setup: func(svc *MockCommentService) {
				svc.On("Delete", mock.Anything, projectID, commentID, user.ID).Return(apperr.Denied("not the author"))
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockCommentService{}
			tt.setup(mockService)

			handler := NewCommentHandler(mockService)
			router := setupRouter()
			router.DELETE("/projects/:project_id/comments/:comment_id", withScope(user, projectID, model.Roles{model.RoleRead}), handler.DeleteComment)

			req := httptest.NewRequest("DELETE", "/projects/"+projectID.String()+"/comments/"+commentID.String(), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
