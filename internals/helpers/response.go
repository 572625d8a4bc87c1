package helper

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator: instance validator bersama, nama field diambil dari tag json.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				name = f.Tag.Get("form")
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		validate = v
	})
	return validate
}

// fieldMessage mengubah error validasi menjadi pesan Indonesia
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_if":
		return fe.Field() + " wajib diisi."
	case "email":
		return "Format email tidak valid."
	case "min":
		if fe.Kind() == reflect.String {
			return fe.Field() + " harus minimal " + fe.Param() + " karakter."
		}
		return fe.Field() + " minimal " + fe.Param() + "."
	case "max":
		if fe.Kind() == reflect.String {
			return fe.Field() + " harus kurang dari " + fe.Param() + " karakter."
		}
		return fe.Field() + " maksimal " + fe.Param() + "."
	case "gt", "gte":
		return fe.Field() + " harus lebih dari " + fe.Param() + "."
	case "oneof":
		return fe.Field() + " harus salah satu dari " + fe.Param() + "."
	case "uuid", "uuid4":
		return fe.Field() + " harus UUID."
	case "datetime":
		return fe.Field() + " harus berformat " + fe.Param() + "."
	default:
		return "Format tidak valid."
	}
}

// ValidationErrors: map field → pesan. nil kalau err bukan validator.ValidationErrors.
func ValidationErrors(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
	}
	return out
}

// ValidateStruct: jalankan validator; kalau gagal langsung tulis 422 dan kembalikan false.
func ValidateStruct(c *fiber.Ctx, in any) (bool, error) {
	if err := Validator().Struct(in); err != nil {
		if fields := ValidationErrors(err); fields != nil {
			return false, JsonValidationError(c, "Validasi gagal", fields)
		}
		return false, JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	return true, nil
}

// BindAndValidate: BodyParser + ValidateStruct.
func BindAndValidate(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	return ValidateStruct(c, in)
}
