package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the entity is missing or lives under a different parent than the one supplied.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParameter means a caller supplied value failed validation.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrPermissionDenied means the actor lacks the role, or targets their own permission row.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict means a storage unique constraint fired.
	ErrConflict = errors.New("conflict")
)

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Invalid wraps ErrInvalidParameter with a message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidParameter)
}

// Denied wraps ErrPermissionDenied with a message.
func Denied(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrPermissionDenied)
}

// FromDB translates gorm errors into the taxonomy. Anything else is returned unchanged.
func FromDB(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", entity, ErrConflict)
	default:
		return err
	}
}
