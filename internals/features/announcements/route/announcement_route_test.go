package route

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/announcements/model"
	authMw "pmb_backend/internals/middlewares/auth"
	"pmb_backend/internals/testkit"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func newApp(t *testing.T, db *gorm.DB, role string) *fiber.App {
	t.Helper()
	app := fiber.New()
	staff := testkit.CreateUser(t, db, role, "Staf "+role, nil)
	admin := app.Group("/admin", func(c *fiber.Ctx) error {
		authMw.SetPrincipal(c, &authMw.Principal{ID: staff.UserID, Kind: constants.KindStaff, Role: role})
		return c.Next()
	})
	AnnouncementAdminRoutes(admin, db)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	_ = sonic.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func TestAnnouncementLifecycle(t *testing.T) {
	db := testkit.NewDB(t)
	app := newApp(t, db, constants.RoleAdmin)

	code, _ := call(t, app, "POST", "/admin/announcements", `{"announcement_title":"Jadwal tes","announcement_content":"   "}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, env := call(t, app, "POST", "/admin/announcements",
		`{"announcement_title":"Jadwal tes","announcement_content":"Tes tulis 12 Januari","announcement_date":"2026-01-05"}`)
	require.Equal(t, fiber.StatusCreated, code)
	var created model.AnnouncementModel
	require.NoError(t, sonic.Unmarshal(env.Data, &created))
	assert.True(t, created.AnnouncementIsActive)
	require.NotNil(t, created.AnnouncementCreatedBy)
	id := created.AnnouncementID.String()

	code, env = call(t, app, "GET", "/admin/announcements?search=TULIS", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 1, env.Pagination.Total)

	code, _ = call(t, app, "POST", "/admin/announcements/"+id+"/toggle", "")
	require.Equal(t, fiber.StatusOK, code)
	_, env = call(t, app, "GET", "/admin/announcements?is_active=true", "")
	assert.EqualValues(t, 0, env.Pagination.Total)

	code, _ = call(t, app, "POST", "/admin/announcements/"+id+"/delete", `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = call(t, app, "POST", "/admin/announcements/"+id+"/delete", `{"confirm":true}`)
	require.Equal(t, fiber.StatusOK, code)

	code, _ = call(t, app, "GET", "/admin/announcements/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	var kept int64
	require.NoError(t, db.Unscoped().Model(&model.AnnouncementModel{}).Where("announcement_id = ?", id).Count(&kept).Error)
	assert.EqualValues(t, 1, kept, "hapus = soft delete")
}

func TestAnnouncementRequiresCapability(t *testing.T) {
	db := testkit.NewDB(t)
	app := newApp(t, db, constants.RoleFinance)

	code, _ := call(t, app, "GET", "/admin/announcements", "")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = call(t, app, "GET", "/admin/announcements/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusForbidden, code)
}
