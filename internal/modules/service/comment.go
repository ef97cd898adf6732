package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

type CreateCommentInput struct {
	ProjectID uuid.UUID
	StepID    uuid.UUID
	TaskID    uuid.UUID
	UserID    uuid.UUID
	Text      string
}

// CommentService handles discussion on a task. Deleted comments are soft deleted
// and never listed.
type CommentService interface {
	// List returns comments oldest first.
	List(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) ([]model.TaskComment, error)
	Create(ctx context.Context, in CreateCommentInput) (*model.TaskComment, error)
	// Update is allowed for the author only.
	Update(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID, text string) (*model.TaskComment, error)
	// Delete is allowed for the author or a project admin.
	Delete(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID) error
}

type commentService struct{ r repo.CommentRepo }

func NewCommentService(r repo.CommentRepo) CommentService {
	return &commentService{r: r}
}

func (s *commentService) List(ctx context.Context, projectID uuid.UUID, stepID uuid.UUID, taskID uuid.UUID) ([]model.TaskComment, error) {
	return s.r.List(ctx, projectID, stepID, taskID)
}

func (s *commentService) Create(ctx context.Context, in CreateCommentInput) (*model.TaskComment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperr.Invalid("comment is empty")
	}
	c := &model.TaskComment{ProjectTaskID: in.TaskID, UserID: in.UserID, CommentText: text}
	if err := s.r.Create(ctx, in.ProjectID, in.StepID, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// Update lets only the author rewrite a comment.
func (s *commentService) Update(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID, text string) (*model.TaskComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Invalid("comment is empty")
	}
	c, err := s.r.Mutate(ctx, projectID, commentID, func(c *model.TaskComment) error {
		if c.UserID != actorID {
			return apperr.Denied("only the author can edit a comment")
		}
		c.CommentText = text
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// Delete is open to the author and to project admins.
func (s *commentService) Delete(ctx context.Context, projectID uuid.UUID, commentID uuid.UUID, actorID uuid.UUID) error {
	err := s.r.SoftDelete(ctx, projectID, commentID, actorID, func(c *model.TaskComment, actor *model.ProjectPermission) error {
		if c.UserID == actorID || actor.Roles().Has(model.RoleAdmin) {
			return nil
		}
		return apperr.Denied("only the author or an admin can delete a comment")
	})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
