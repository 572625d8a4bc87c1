package routes

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pmb_backend/internals/configs"
	"pmb_backend/internals/constants"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	authService "pmb_backend/internals/features/users/auth/service"
	oss "pmb_backend/internals/helpers/oss"
	"pmb_backend/internals/middlewares"
	"pmb_backend/internals/testkit"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testkit.NewDB(t)
	app := NewApp()
	middlewares.SetupMiddlewares(app, testConfig())
	SetupRoutes(app, db, Deps{Blob: oss.NewMemoryBlobService()})
	return app, db
}

func bearer(t *testing.T, id uuid.UUID, kind, role string) string {
	t.Helper()
	tok, _, err := authService.IssueToken(id, kind, role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, method, path, auth, body string, headers ...string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = sonic.Unmarshal(raw, &out)
	return resp, out
}

func TestHealth(t *testing.T) {
	app, db := newServer(t)

	resp, body := do(t, app, "GET", "/health", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	version, ok := body["version"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, version, "short")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	resp, body = do(t, app, "GET", "/health", "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}

func TestAdminGroupGuards(t *testing.T) {
	app, db := newServer(t)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	consultant := testkit.CreateUser(t, db, constants.RoleConsultant, "Rudi", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)

	resp, body := do(t, app, "GET", "/admin/candidates", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["error_code"])

	resp, _ = do(t, app, "GET", "/admin/candidates", bearer(t, cand.CandidateID, constants.KindCandidate, ""), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/admin/settings/programs", bearer(t, consultant.UserID, constants.KindStaff, constants.RoleConsultant), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	adminAuth := bearer(t, admin.UserID, constants.KindStaff, constants.RoleAdmin)
	resp, _ = do(t, app, "POST", "/admin/settings/programs", adminAuth, `{"program_code":"ti","program_name":"Teknik Informatika"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = do(t, app, "GET", "/admin/settings/programs", adminAuth, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)

	resp, _ = do(t, app, "POST", "/admin/settings/programs", adminAuth, `{"program_code":"SI","program_name":"Sistem Informasi"}`,
		"Origin", "https://evil-site.com", "Sec-Fetch-Site", "cross-site")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/admin/candidates/bukan-uuid", adminAuth, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPortalGroupGuards(t *testing.T) {
	app, db := newServer(t)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)

	resp, _ := do(t, app, "GET", "/portal/billings", bearer(t, admin.UserID, constants.KindStaff, constants.RoleAdmin), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	candAuth := bearer(t, cand.CandidateID, constants.KindCandidate, "")
	resp, _ = do(t, app, "GET", "/portal/billings", candAuth, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/portal/billings/"+uuid.NewString()+"/pay", candAuth, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, "gateway tidak dikonfigurasi")
}

func testConfig() configs.AppConfig {
	return configs.AppConfig{CorsAllowOrigins: []string{"http://localhost:5173"}, UploadDir: "./uploads", UploadMaxMB: 5}
}

func TestCommissionExportGuardsAndHeaders(t *testing.T) {
	app, db := newServer(t)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	finance := testkit.CreateUser(t, db, constants.RoleFinance, "Fina", nil)
	consultant := testkit.CreateUser(t, db, constants.RoleConsultant, "Rudi", nil)
	consultantAuth := bearer(t, consultant.UserID, constants.KindStaff, constants.RoleConsultant)

	resp, _ := do(t, app, "GET", "/admin/commissions/export", consultantAuth, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/admin/finance/billings", consultantAuth, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	staff := []struct {
		id   uuid.UUID
		role string
	}{
		{admin.UserID, constants.RoleAdmin},
		{finance.UserID, constants.RoleFinance},
	}
	for _, u := range staff {
		req := httptest.NewRequest("GET", "/admin/commissions/export", nil)
		req.Header.Set("Authorization", bearer(t, u.id, constants.KindStaff, u.role))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, u.role)

		assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/csv"))
		disp := resp.Header.Get(fiber.HeaderContentDisposition)
		assert.True(t, strings.HasPrefix(disp, "attachment; filename="), disp)
		assert.Contains(t, disp, "komisi-approved-")
		assert.True(t, strings.HasSuffix(disp, `.csv"`), disp)

		raw, _ := io.ReadAll(resp.Body)
		assert.True(t, strings.HasPrefix(string(raw), "\ufeff"), "BOM di awal file")
	}

	req := httptest.NewRequest("GET", "/admin/commissions/export?status=all", nil)
	req.Header.Set("Authorization", bearer(t, admin.UserID, constants.KindStaff, constants.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "komisi-semua-")

	resp, _ = do(t, app, "GET", "/admin/commissions/export?status=bogus", bearer(t, admin.UserID, constants.KindStaff, constants.RoleAdmin), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func uploadRequest(t *testing.T, auth, typeCode string, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("document_type", typeCode))
	part, err := w.CreateFormFile("file", "transkrip.pdf")
	require.NoError(t, err)
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), size)...)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/portal/documents/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", auth)
	return req
}

func TestUploadHonoursPerTypeLimitAboveDefault(t *testing.T) {
	app, db := newServer(t)
	require.NoError(t, db.Create(&documentModel.DocumentTypeModel{
		DocumentTypeCode:          "transkrip",
		DocumentTypeName:          "Transkrip Nilai",
		DocumentTypeMaxSizeMB:     10,
		DocumentTypeAcceptedMimes: "application/pdf",
		DocumentTypeSortOrder:     1,
		DocumentTypeIsActive:      true,
	}).Error)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	auth := bearer(t, cand.CandidateID, constants.KindCandidate, "")

	// 7MB: di atas UPLOAD_MAX_MB default, masih di bawah batas jenis dokumen
	resp, err := app.Test(uploadRequest(t, auth, "transkrip", 7<<20), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var doc documentModel.DocumentModel
	require.NoError(t, db.Where("document_candidate_id = ? AND document_type_code = ?", cand.CandidateID, "transkrip").Take(&doc).Error)
	assert.Greater(t, doc.DocumentSizeBytes, int64(7<<20))

	// 11MB: ditolak validasi jenis dokumen, bukan batas body
	resp, err = app.Test(uploadRequest(t, auth, "transkrip", 11<<20), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
