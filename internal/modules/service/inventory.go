package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Coni63/checklist/internal/config"
	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/modules/repo"
	"github.com/Coni63/checklist/internal/pkg/apperr"
)

const (
	// MaskPlaceholder replaces a populated secret value for non-admins. It never varies with the value.
	MaskPlaceholder = "••••••"
	// DefaultGroupName labels fields without a group.
	DefaultGroupName = "Other"
	// DefaultFilename is served when a file was stored without a name.
	DefaultFilename = "attachment.txt"
)

type FieldView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Type        model.FieldType `json:"type"`
	Input       string          `json:"input"`
	Value       any             `json:"value"`
	Secret      bool            `json:"secret"`
	Masked      bool            `json:"masked"`
	Placeholder string          `json:"placeholder,omitempty"`
	Editable    bool            `json:"editable"`
	DownloadURL string          `json:"download_url,omitempty"`
	Filename    string          `json:"filename,omitempty"`
}

type FieldGroup struct {
	Name   string      `json:"name"`
	Order  int         `json:"order"`
	Fields []FieldView `json:"fields"`
}

type InventoryForm struct {
	Inventory *model.ProjectInventory `json:"inventory"`
	Groups    []FieldGroup            `json:"groups"`
}

type AddInventoryInput struct {
	ProjectID   uuid.UUID
	TemplateID  uuid.UUID
	CustomTitle string
	ActorID     uuid.UUID
}

type AddInventoryOutput struct {
	Inventory     *model.ProjectInventory `json:"inventory"`
	PreviousCount int64                   `json:"previous_count"`
}

type SaveFieldsInput struct {
	ProjectID   uuid.UUID
	InventoryID uuid.UUID
	Values      map[uuid.UUID]FieldSubmission
	IsAdmin     bool
}

type SaveFieldsOutput struct {
	Updated []uuid.UUID `json:"updated"`
}

type FileDownload struct {
	Filename string
	Content  []byte
}

// InventoryService manages project inventories and their typed field values.
type InventoryService interface {
	List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventory, error)
	// Add clones an active inventory template with empty values after the last inventory.
	Add(ctx context.Context, in AddInventoryInput) (*AddInventoryOutput, error)
	Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error
	UpdateHeader(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectInventory, error)
	Delete(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) error
	// BuildForm groups fields by group_order then field_order. Populated secrets are
	// masked for non-admins, and only callers with edit get editable fields.
	BuildForm(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, roles model.Roles) (*InventoryForm, error)
	// SaveFieldValues skips blank values and silently drops secret writes from non-admins.
	SaveFieldValues(ctx context.Context, in SaveFieldsInput) (*SaveFieldsOutput, error)
	// DownloadFile returns the decoded payload and its filename.
	DownloadFile(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fieldID uuid.UUID, isAdmin bool) (*FileDownload, error)
}

type inventoryService struct {
	r      repo.InventoryRepo
	kinds  map[model.FieldType]fieldKind
	events emitter
}

func NewInventoryService(r repo.InventoryRepo, cipher FieldCipher, cfg *config.Config, pub EventPublisher, log *zap.Logger) InventoryService {
	return &inventoryService{
		r:      r,
		kinds:  fieldKinds(cipher, cfg.Inventory.MaxFileSizeBytes),
		events: emitter{pub: pub, keys: cfg.RabbitMQ.RoutingKeys, log: log},
	}
}

func (s *inventoryService) List(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventory, error) {
	return s.r.List(ctx, projectID)
}

func (s *inventoryService) Add(ctx context.Context, in AddInventoryInput) (*AddInventoryOutput, error) {
	if in.TemplateID == uuid.Nil {
		return nil, apperr.Invalid("template id is empty")
	}
	inv, count, err := s.r.Add(ctx, in.ProjectID, in.TemplateID, in.CustomTitle)
	if err != nil {
		return nil, fmt.Errorf("add inventory: %w", err)
	}
	s.events.emit(ctx, s.events.keys.InventoryAdded, InventoryAddedEvent{
		ProjectID:   in.ProjectID,
		InventoryID: inv.ID,
		TemplateID:  in.TemplateID,
		Fields:      len(inv.Fields),
		ActorID:     in.ActorID,
	})
	return &AddInventoryOutput{Inventory: inv, PreviousCount: count}, nil
}

func (s *inventoryService) Reorder(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	if err := s.r.Reorder(ctx, projectID, ids); err != nil {
		return fmt.Errorf("reorder inventories: %w", err)
	}
	return nil
}

func (s *inventoryService) UpdateHeader(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, patch repo.HeaderPatch) (*model.ProjectInventory, error) {
	patch, err := cleanHeader(patch)
	if err != nil {
		return nil, err
	}
	return s.r.UpdateHeader(ctx, projectID, inventoryID, patch)
}

func (s *inventoryService) Delete(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID) error {
	if err := s.r.Delete(ctx, projectID, inventoryID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	return nil
}

// BuildForm renders the inventory's fields grouped by group name, in
// (group_order, field_order) order.
func (s *inventoryService) BuildForm(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, roles model.Roles) (*InventoryForm, error) {
	inv, err := s.r.Get(ctx, projectID, inventoryID)
	if err != nil {
		return nil, err
	}

	isAdmin := roles.Has(model.RoleAdmin)
	canEdit := roles.Has(model.RoleEdit)

	form := &InventoryForm{Inventory: inv, Groups: []FieldGroup{}}
	index := map[string]int{}
	for i := range inv.Fields {
		f := &inv.Fields[i]
		view, err := s.fieldView(projectID, f, isAdmin, canEdit)
		if err != nil {
			return nil, fmt.Errorf("render field %s: %w", f.FieldName, err)
		}

		name := strings.TrimSpace(f.GroupName)
		if name == "" {
			name = DefaultGroupName
		}
		pos, ok := index[name]
		if !ok {
			pos = len(form.Groups)
			index[name] = pos
			form.Groups = append(form.Groups, FieldGroup{Name: name, Order: f.GroupOrder})
		}
		form.Groups[pos].Fields = append(form.Groups[pos].Fields, view)
	}
	return form, nil
}

func (s *inventoryService) fieldView(projectID uuid.UUID, f *model.InventoryField, isAdmin bool, canEdit bool) (FieldView, error) {
	kind, err := s.kind(f)
	if err != nil {
		return FieldView{}, err
	}
	view := FieldView{
		ID:     f.ID,
		Name:   f.FieldName,
		Type:   f.FieldType,
		Input:  kind.input(),
		Secret: f.IsSecret(),
	}
	if view.Secret && f.HasValue() && !isAdmin {
		view.Masked = true
		view.Placeholder = MaskPlaceholder
		return view, nil
	}

	view.Editable = canEdit
	if view.Value, err = kind.display(f); err != nil {
		return FieldView{}, err
	}
	if f.FieldType == model.FieldFile && f.FileValue != "" {
		view.Filename = fileName(f)
		view.DownloadURL = fmt.Sprintf("/api/v1/projects/%s/inventories/%s/fields/%s/file", projectID, f.InventoryID, f.ID)
	}
	return view, nil
}

// SaveFieldValues stores every submitted value that is not blank. Secret
// fields submitted by a non-admin are dropped without error.
func (s *inventoryService) SaveFieldValues(ctx context.Context, in SaveFieldsInput) (*SaveFieldsOutput, error) {
	out := &SaveFieldsOutput{Updated: []uuid.UUID{}}
	err := s.r.SaveFields(ctx, in.ProjectID, in.InventoryID, func(inv *model.ProjectInventory) ([]*model.InventoryField, error) {
		var changed []*model.InventoryField
		for i := range inv.Fields {
			f := &inv.Fields[i]
			sub, ok := in.Values[f.ID]
			if !ok {
				continue
			}
			if f.IsSecret() && !in.IsAdmin {
				continue
			}
			kind, err := s.kind(f)
			if err != nil {
				return nil, err
			}
			updated, err := kind.store(f, sub)
			if err != nil {
				return nil, err
			}
			if updated {
				changed = append(changed, f)
				out.Updated = append(out.Updated, f.ID)
			}
		}
		return changed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("save fields: %w", err)
	}
	return out, nil
}

func (s *inventoryService) DownloadFile(ctx context.Context, projectID uuid.UUID, inventoryID uuid.UUID, fieldID uuid.UUID, isAdmin bool) (*FileDownload, error) {
	f, err := s.r.GetField(ctx, projectID, inventoryID, fieldID)
	if err != nil {
		return nil, err
	}
	if f.FieldType != model.FieldFile {
		return nil, apperr.Invalid("field %s is not a file", f.FieldName)
	}
	// a missing file reads the same for every role
	if f.FileValue == "" {
		return nil, apperr.NotFound("file")
	}
	if f.IsSecret() && !isAdmin {
		return nil, apperr.Denied("secret file")
	}
	content, err := base64.StdEncoding.DecodeString(f.FileValue)
	if err != nil {
		return nil, fmt.Errorf("decode file payload: %w", err)
	}
	return &FileDownload{Filename: fileName(f), Content: content}, nil
}

func (s *inventoryService) kind(f *model.InventoryField) (fieldKind, error) {
	kind, ok := s.kinds[f.FieldType]
	if !ok {
		return nil, fmt.Errorf("field %s has unknown type %q", f.FieldName, f.FieldType)
	}
	return kind, nil
}

func fileName(f *model.InventoryField) string {
	if f.TextValue != "" {
		return f.TextValue
	}
	return DefaultFilename
}
