// Package ordering rewrites the sort order of sibling rows without tripping
// the unique (parent, sort_order) constraint.
//
// Rows are first displaced to TempOffset+i, then given their final position
// starting at 1. The unique index is checked on every row write, so writing
// final values directly would collide whenever one row's target equals
// another row's current value.
//
// Concurrent reorders of the same scope are last-write-wins.
package ordering

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Coni63/checklist/internal/pkg/apperr"
)

const (
	// TempOffset is the first displaced value. Real orders stay far below it.
	TempOffset = 10000
	// Column is the order column shared by steps, tasks and inventories.
	Column = "sort_order"
)

// Scope restricts a reorder to the children of one parent, e.g. {"project_id": id}.
type Scope map[string]any

// Reorder assigns order position+1 to each id in ids that belongs to scope.
// Ids that are unknown or out of scope are skipped. It must be called with a
// transaction so both phases commit together.
func Reorder(tx *gorm.DB, model any, scope Scope, ids []uuid.UUID) (int, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return 0, apperr.Invalid("duplicate id %s in order list", id)
		}
		seen[id] = struct{}{}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var found []uuid.UUID
	if err := tx.Model(model).Where(map[string]any(scope)).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return 0, fmt.Errorf("load reorder scope: %w", err)
	}
	if len(found) == 0 {
		return 0, nil
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	// displace
	for i, id := range found {
		if err := tx.Model(model).Where("id = ?", id).Update(Column, TempOffset+i).Error; err != nil {
			return 0, apperr.FromDB("reorder displace", err)
		}
	}

	// commit
	for pos, id := range ids {
		if _, ok := known[id]; !ok {
			continue
		}
		if err := tx.Model(model).Where("id = ?", id).Update(Column, pos+1).Error; err != nil {
			return 0, apperr.FromDB("reorder commit", err)
		}
	}

	return len(found), nil
}

// Next returns MAX(sort_order)+1 within scope, or 1 when the scope is empty.
// Orders freed by deletions are never reused.
func Next(tx *gorm.DB, model any, scope Scope) (int, error) {
	var max int64
	if err := tx.Model(model).Where(map[string]any(scope)).Select("COALESCE(MAX(" + Column + "), 0)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("max order: %w", err)
	}
	return int(max) + 1, nil
}
