package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/testdb"
)

func taskTitles(t *testing.T, db *gorm.DB, stepID uuid.UUID) []string {
	t.Helper()
	var tasks []model.ProjectTask
	require.NoError(t, db.Where("project_step_id = ?", stepID).Order("sort_order ASC").Find(&tasks).Error)
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestSyncRepo_RemovalOnlyTouchesActiveProjects(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	live := seedProject(t, db, owner, "live")
	frozen := seedProject(t, db, owner, "frozen")
	tpl := seedStepTemplate(t, db, "Setup", "A", "B")
	checklist := repo.NewChecklistRepo(db)

	liveStep, _, err := checklist.AddStep(ctx, live.ID, tpl.ID, "")
	require.NoError(t, err)
	frozenStep, _, err := checklist.AddStep(ctx, frozen.ID, tpl.ID, "")
	require.NoError(t, err)
	setProjectStatus(t, db, frozen, model.ProjectArchived)

	// B is done in the live project; removal ignores status
	_, err = checklist.MutateTask(ctx, live.ID, liveStep.ID, liveStep.Tasks[1].ID, markDone)
	require.NoError(t, err)

	removed := tpl.Tasks[1].ID
	report, err := repo.NewSyncRepo(db).ApplyStepTemplateEdit(ctx, tpl.ID, repo.StepTemplateEdit{
		Remove:  []uuid.UUID{removed},
		Sync:    true,
		ActorID: &owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.TasksRemoved)
	assert.Equal(t, 1, report.StepsScanned)
	assert.Zero(t, report.TasksAdded)

	assert.Equal(t, []string{"A"}, taskTitles(t, db, liveStep.ID))
	assert.Equal(t, []string{"A", "B"}, taskTitles(t, db, frozenStep.ID))

	// the frozen copy is detached from the deleted template
	var kept model.ProjectTask
	require.NoError(t, db.First(&kept, "id = ?", frozenStep.Tasks[1].ID).Error)
	assert.Nil(t, kept.TaskTemplateID)

	var logs []model.TemplateSyncLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, tpl.ID, logs[0].StepTemplateID)
	require.NotNil(t, logs[0].TriggeredByID)
	assert.Equal(t, owner.ID, *logs[0].TriggeredByID)
}

func TestSyncRepo_AddAppendsAfterMaxOrder(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	p := seedProject(t, db, owner, "live")
	tpl := seedStepTemplate(t, db, "Setup", "A")
	checklist := repo.NewChecklistRepo(db)

	step, _, err := checklist.AddStep(ctx, p.ID, tpl.ID, "")
	require.NoError(t, err)
	_, err = checklist.AddTask(ctx, p.ID, step.ID, "Manual")
	require.NoError(t, err)

	report, err := repo.NewSyncRepo(db).ApplyStepTemplateEdit(ctx, tpl.ID, repo.StepTemplateEdit{
		Add: []model.TaskTemplate{
			{Title: "C", Order: 1, IsActive: true},
			{Title: "D", Order: 2, IsActive: true},
		},
		Sync: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TasksAdded)
	assert.Len(t, report.AddedTemplate, 2)
	assert.Equal(t, []string{"A", "Manual", "C", "D"}, taskTitles(t, db, step.ID))

	// nothing is missing any more
	again, err := repo.NewSyncRepo(db).SyncStepTemplate(ctx, tpl.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, again.TasksAdded)
	assert.Equal(t, 1, again.StepsScanned)
}

func TestSyncRepo_EditWithoutSync(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	p := seedProject(t, db, owner, "live")
	tpl := seedStepTemplate(t, db, "Setup", "A", "B")
	step, _, err := repo.NewChecklistRepo(db).AddStep(ctx, p.ID, tpl.ID, "")
	require.NoError(t, err)

	report, err := repo.NewSyncRepo(db).ApplyStepTemplateEdit(ctx, tpl.ID, repo.StepTemplateEdit{
		Add:    []model.TaskTemplate{{Title: "C", Order: 2, IsActive: true}},
		Remove: []uuid.UUID{tpl.Tasks[0].ID},
	})
	require.NoError(t, err)
	assert.Zero(t, report.TasksRemoved)
	assert.Zero(t, report.TasksAdded)

	assert.Equal(t, []string{"A", "B"}, taskTitles(t, db, step.ID))

	var templates []model.TaskTemplate
	require.NoError(t, db.Where("step_template_id = ?", tpl.ID).Order("sort_order").Find(&templates).Error)
	require.Len(t, templates, 2)
	assert.Equal(t, "B", templates[0].Title)
	assert.Equal(t, "C", templates[1].Title)

	var logs int64
	require.NoError(t, db.Model(&model.TemplateSyncLog{}).Count(&logs).Error)
	assert.Zero(t, logs)
}

func TestSyncRepo_GapFillSkipsInactiveTemplates(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	p := seedProject(t, db, owner, "live")
	tpl := seedStepTemplate(t, db, "Setup", "A")
	step, _, err := repo.NewChecklistRepo(db).AddStep(ctx, p.ID, tpl.ID, "")
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.TaskTemplate{StepTemplateID: tpl.ID, Title: "draft", Order: 1}).Error)
	require.NoError(t, db.Create(&model.TaskTemplate{StepTemplateID: tpl.ID, Title: "B", Order: 2, IsActive: true}).Error)

	report, err := repo.NewSyncRepo(db).SyncStepTemplate(ctx, tpl.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TasksAdded)
	assert.Equal(t, []string{"A", "B"}, taskTitles(t, db, step.ID))
}

func TestSyncRepo_UnknownTemplate(t *testing.T) {
	db := testdb.Open(t)
	_, err := repo.NewSyncRepo(db).SyncStepTemplate(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
