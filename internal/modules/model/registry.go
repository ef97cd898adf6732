package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&ProjectPermission{},
		&StepTemplate{},
		&TaskTemplate{},
		&InventoryTemplate{},
		&TemplateField{},
		&ProjectStep{},
		&ProjectTask{},
		&TaskComment{},
		&ProjectInventory{},
		&InventoryField{},
		&TemplateSyncLog{},
	}
}
