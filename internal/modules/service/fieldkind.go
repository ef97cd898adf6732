package service

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Coni63/checklist/internal/modules/model"
	"github.com/Coni63/checklist/internal/pkg/apperr"
	"github.com/Coni63/checklist/internal/pkg/validator"
)

// DatetimeLayout is the accepted input format for datetime fields.
const DatetimeLayout = "2006-01-02T15:04:05"

// FieldCipher is satisfied by *secret.Cipher.
type FieldCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encoded string) (string, error)
}

type FileUpload struct {
	Filename string
	Content  []byte
}

// FieldSubmission is one submitted value. File fields read File, all others Value.
type FieldSubmission struct {
	Value string
	File  *FileUpload
}

// fieldKind is the behaviour attached to one field type: the input it
// renders as, how a stored value is shown, and how a submission is stored.
type fieldKind interface {
	input() string
	display(f *model.InventoryField) (any, error)
	// store writes the submission into f and reports whether anything changed.
	// Blank submissions are never written.
	store(f *model.InventoryField, sub FieldSubmission) (bool, error)
}

func fieldKinds(cipher FieldCipher, maxFileSize int64) map[model.FieldType]fieldKind {
	return map[model.FieldType]fieldKind{
		model.FieldText:     textKind{},
		model.FieldURL:      urlKind{},
		model.FieldNumber:   numberKind{},
		model.FieldFile:     fileKind{maxSize: maxFileSize},
		model.FieldPassword: passwordKind{cipher: cipher},
		model.FieldDatetime: datetimeKind{},
	}
}

type textKind struct{}

func (textKind) input() string { return "text" }

func (textKind) display(f *model.InventoryField) (any, error) { return f.TextValue, nil }

func (textKind) store(f *model.InventoryField, sub FieldSubmission) (bool, error) {
	v := strings.TrimSpace(sub.Value)
	if v == "" {
		return false, nil
	}
	f.TextValue = v
	return true, nil
}

type urlKind struct{ textKind }

func (urlKind) input() string { return "url" }

func (urlKind) store(f *model.InventoryField, sub FieldSubmission) (bool, error) {
	v := strings.TrimSpace(sub.Value)
	if v == "" {
		return false, nil
	}
	// http and https only, with a host
	if err := validator.Var(v, "http_url"); err != nil {
		return false, apperr.Invalid("%s: %q is not a valid URL", f.FieldName, v)
	}
	f.TextValue = v
	return true, nil
}

type numberKind struct{}

func (numberKind) input() string { return "number" }

func (numberKind) display(f *model.InventoryField) (any, error) {
	if f.NumberValue == nil {
		return nil, nil
	}
	return *f.NumberValue, nil
}

func (numberKind) store(f *model.InventoryField, sub FieldSubmission) (bool, error) {
	v := strings.TrimSpace(sub.Value)
	if v == "" {
		return false, nil
	}
	// "numeric" is plain decimal notation, so Inf and NaN never reach ParseFloat.
	if err := validator.Var(v, "numeric"); err != nil {
		return false, apperr.Invalid("%s: %q is not a number", f.FieldName, v)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return false, apperr.Invalid("%s: %q is not a finite number", f.FieldName, v)
	}
	f.NumberValue = &n
	return true, nil
}

// fileKind keeps the payload base64 encoded and the original filename in the text slot.
type fileKind struct{ maxSize int64 }

func (fileKind) input() string { return "file" }

func (fileKind) display(f *model.InventoryField) (any, error) { return nil, nil }

func (k fileKind) store(f *model.InventoryField, sub FieldSubmission) (bool, error) {
	if sub.File == nil || len(sub.File.Content) == 0 {
		return false, nil
	}
	if k.maxSize > 0 && int64(len(sub.File.Content)) > k.maxSize {
		return false, apperr.Invalid("%s: file exceeds %d bytes", f.FieldName, k.maxSize)
	}
	f.FileValue = base64.StdEncoding.EncodeToString(sub.File.Content)
	f.TextValue = sub.File.Filename
	return true, nil
}

type passwordKind struct{ cipher FieldCipher }

func (passwordKind) input() string { return "password" }

func (k passwordKind) display(f *model.InventoryField) (any, error) {
	if f.PasswordValue == "" {
		return "", nil
	}
	return k.cipher.Decrypt(f.PasswordValue)
}

func (k passwordKind) store(f *model.InventoryField, sub FieldSubmission) (bool, error) {
	if strings.TrimSpace(sub.Value) == "" {
		return false, nil
	}
	sealed, err := k.cipher.Encrypt(sub.Value)
	if err != nil {
		return false, err
	}
	f.PasswordValue = sealed
	return true, nil
}

type datetimeKind struct{}

func (datetimeKind) input() string { return "datetime-local" }

func (datetimeKind) display(f *model.InventoryField) (any, error) {
	if f.DatetimeValue == nil {
		return nil, nil
	}
	return f.DatetimeValue.Format(DatetimeLayout), nil
}

func (datetimeKind) store(f *model.InventoryField, sub FieldSubmission) (bool, error) {
	v := strings.TrimSpace(sub.Value)
	if v == "" {
		return false, nil
	}
	ts, err := time.Parse(DatetimeLayout, v)
	if err != nil {
		return false, apperr.Invalid("%s: %q does not match %s", f.FieldName, v, DatetimeLayout)
	}
	f.DatetimeValue = &ts
	return true, nil
}
