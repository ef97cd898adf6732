package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProject(t *testing.T, db *gorm.DB, owner *model.User, name string) *model.Project {
	t.Helper()
	p := &model.Project{Name: name}
	require.NoError(t, repo.NewProjectRepo(db).Create(context.Background(), p, owner.ID))
	return p
}

func setProjectStatus(t *testing.T, db *gorm.DB, p *model.Project, status model.ProjectStatus) {
	t.Helper()
	require.NoError(t, db.Model(&model.Project{}).Where("id = ?", p.ID).Update("status", status).Error)
	p.Status = status
}

// seedStepTemplate creates an active template whose tasks are active and ordered as given.
func seedStepTemplate(t *testing.T, db *gorm.DB, title string, tasks ...string) *model.StepTemplate {
	t.Helper()
	tpl := &model.StepTemplate{Title: title, IsActive: true}
	for i, title := range tasks {
		tpl.Tasks = append(tpl.Tasks, model.TaskTemplate{Title: title, Order: i, IsActive: true})
	}
	require.NoError(t, db.Create(tpl).Error)
	return tpl
}

func seedInventoryTemplate(t *testing.T, db *gorm.DB, title string, fields ...model.TemplateField) *model.InventoryTemplate {
	t.Helper()
	tpl := &model.InventoryTemplate{Title: title, IsActive: true, Fields: fields}
	require.NoError(t, db.Create(tpl).Error)
	return tpl
}

func projectStatus(t *testing.T, db *gorm.DB, id uuid.UUID) model.ProjectStatus {
	t.Helper()
	var p model.Project
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.Status
}

func markDone(task *model.ProjectTask) error {
	task.Status = model.TaskDone
	return nil
}
