package helper

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCollectFiltersCanonicalQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		f := CollectFilters(c, "status", "type", "search")
		return c.JSON(f)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x?type=ktp&status=pending&search=+&page=2&junk=1", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	var f Filters
	require.NoError(t, sonic.Unmarshal(body, &f))
	assert.Equal(t, map[string]string{"status": "pending", "type": "ktp"}, f.Values)
	assert.Equal(t, "page=2&status=pending&type=ktp", f.Query)
}

func TestParseUUIDParamMalformedIsNotFound(t *testing.T) {
	app := fiber.New()
	app.Get("/c/:id", func(c *fiber.Ctx) error {
		id, err := ParseUUIDParam(c, "id")
		if err != nil {
			return FromFiberError(c, err)
		}
		return c.SendString(id.String())
	})

	for _, path := range []string{"/c/bukan-uuid", "/c/00000000-0000-0000-0000-000000000000"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/c/6f1c3b1e-8d55-4c43-9d0e-6b6a5b0f2a11", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestFromFiberErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"fiber", fiber.NewError(fiber.StatusForbidden, "no"), fiber.StatusForbidden},
		{"field", Invalid("password_confirmation", "Konfirmasi password tidak cocok"), fiber.StatusUnprocessableEntity},
		{"not found", gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, fiber.StatusConflict},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromFiberError(c, tt.err) })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}
