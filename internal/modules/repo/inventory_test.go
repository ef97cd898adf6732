package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/testdb"
)

func TestInventoryRepo_AddClonesActiveFields(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	p := seedProject(t, db, owner, "Website")
	tpl := seedInventoryTemplate(t, db, "Servers",
		model.TemplateField{GroupName: "network", GroupOrder: 1, FieldName: "Port", FieldOrder: 2, FieldType: model.FieldNumber, IsActive: true},
		model.TemplateField{GroupName: "network", GroupOrder: 1, FieldName: "Host", FieldOrder: 1, FieldType: model.FieldText, IsActive: true},
		model.TemplateField{GroupName: "access", GroupOrder: 0, FieldName: "Root password", FieldType: model.FieldPassword, IsSecret: true, IsActive: true},
		model.TemplateField{GroupName: "legacy", FieldName: "Old", FieldType: model.FieldText},
	)
	r := repo.NewInventoryRepo(db)

	inv, count, err := r.Add(ctx, p.ID, tpl.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 1, inv.Order)
	assert.Equal(t, "Servers", inv.Title)
	assert.Len(t, inv.Fields, 3)

	loaded, err := r.Get(ctx, p.ID, inv.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Fields, 3)
	assert.Equal(t, "Root password", loaded.Fields[0].FieldName)
	assert.Equal(t, "ACCESS", loaded.Fields[0].GroupName)
	assert.True(t, loaded.Fields[0].IsSecret())
	assert.Equal(t, "Host", loaded.Fields[1].FieldName)
	assert.Equal(t, "Port", loaded.Fields[2].FieldName)
	for _, f := range loaded.Fields {
		assert.False(t, f.HasValue())
	}

	second, count, err := r.Add(ctx, p.ID, tpl.ID, "Backup servers")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, "Backup servers", second.Title)
}

func TestInventoryRepo_SaveFields(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	p := seedProject(t, db, owner, "Website")
	tpl := seedInventoryTemplate(t, db, "Servers",
		model.TemplateField{GroupName: "network", FieldName: "Host", FieldType: model.FieldText, IsActive: true},
		model.TemplateField{GroupName: "network", FieldName: "Port", FieldOrder: 1, FieldType: model.FieldNumber, IsActive: true},
	)
	r := repo.NewInventoryRepo(db)
	inv, _, err := r.Add(ctx, p.ID, tpl.ID, "")
	require.NoError(t, err)

	port := 8080.0
	err = r.SaveFields(ctx, p.ID, inv.ID, func(inv *model.ProjectInventory) ([]*model.InventoryField, error) {
		host := &inv.Fields[0]
		host.TextValue = "db.internal"
		portField := &inv.Fields[1]
		portField.NumberValue = &port
		return []*model.InventoryField{host, portField}, nil
	})
	require.NoError(t, err)

	field, err := r.GetField(ctx, p.ID, inv.ID, inv.Fields[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 8080.0, field.Value())

	loaded, err := r.Get(ctx, p.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", loaded.Fields[0].Value())

	// a failing callback rolls everything back
	err = r.SaveFields(ctx, p.ID, inv.ID, func(inv *model.ProjectInventory) ([]*model.InventoryField, error) {
		return nil, apperr.Invalid("bad value")
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidParameter)

	_, err = r.GetField(ctx, p.ID, inv.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInventoryRepo_HeaderReorderDelete(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	owner := seedUser(t, db, "alice")
	p := seedProject(t, db, owner, "Website")
	tpl := seedInventoryTemplate(t, db, "Servers",
		model.TemplateField{GroupName: "network", FieldName: "Host", FieldType: model.FieldText, IsActive: true})
	r := repo.NewInventoryRepo(db)

	a, _, err := r.Add(ctx, p.ID, tpl.ID, "A")
	require.NoError(t, err)
	b, _, err := r.Add(ctx, p.ID, tpl.ID, "B")
	require.NoError(t, err)

	title := "Primary"
	updated, err := r.UpdateHeader(ctx, p.ID, a.ID, repo.HeaderPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Primary", updated.Title)

	require.NoError(t, r.Reorder(ctx, p.ID, []uuid.UUID{b.ID, a.ID}))
	items, err := r.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, "Primary", items[1].Title)

	require.NoError(t, r.Delete(ctx, p.ID, a.ID))
	assert.ErrorIs(t, r.Delete(ctx, p.ID, a.ID), apperr.ErrNotFound)
	var fields int64
	require.NoError(t, db.Model(&model.InventoryField{}).Where("inventory_id = ?", a.ID).Count(&fields).Error)
	assert.Zero(t, fields)
}
