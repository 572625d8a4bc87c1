package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FieldError: kesalahan validasi domain pada satu field (mis. konfirmasi password).
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func Invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// FromFiberError mengubah error dari service (biasanya *fiber.Error)
// menjadi response JSON konsisten. Selain itu fallback ke 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	var fld *FieldError
	if errors.As(err, &fld) {
		return JsonValidationError(c, fld.Message, map[string][]string{fld.Field: {fld.Message}})
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, "Data tidak ditemukan")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return JsonError(c, fiber.StatusConflict, "Data sudah ada")
	}
	zap.S().Errorw("❌ unhandled error", "path", c.Path(), "err", err)
	return JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}
