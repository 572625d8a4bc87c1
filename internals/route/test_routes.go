//go:build e2e

package routes

import (
	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	authService "pmb_backend/internals/features/users/auth/service"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testRoutes: backdoor untuk e2e browser test, hanya ada di build dengan tag e2e.
func testRoutes(app *fiber.App, db *gorm.DB) {
	zap.S().Warn("⚠️ route /test aktif (build e2e)")
	grp := app.Group("/test")

	// GET /test/login/:role → sesi untuk user aktif pertama dengan role tsb ("candidate" = kandidat).
	grp.Get("/login/:role", func(c *fiber.Ctx) error {
		role := c.Params("role")
		if role == constants.KindCandidate {
			var cand candidateModel.CandidateModel
			if err := db.Order("candidate_created_at ASC").Take(&cand).Error; err != nil {
				return helper.FromFiberError(c, err)
			}
			return issue(c, cand.CandidateID.String(), func() (string, error) {
				tok, exp, err := authService.IssueToken(cand.CandidateID, constants.KindCandidate, "")
				if err == nil {
					authService.SetSessionCookie(c, tok, exp)
				}
				return tok, err
			})
		}
		var u userModel.UserModel
		if err := db.Where("user_role = ? AND user_is_active = ?", role, true).
			Order("user_created_at ASC").Take(&u).Error; err != nil {
			return helper.FromFiberError(c, err)
		}
		return issue(c, u.UserID.String(), func() (string, error) {
			tok, exp, err := authService.IssueToken(u.UserID, constants.KindStaff, u.UserRole)
			if err == nil {
				authService.SetSessionCookie(c, tok, exp)
			}
			return tok, err
		})
	})

	grp.Get("/admin", authMw.AuthMiddleware(db), authMw.OnlyStaff(), func(c *fiber.Ctx) error {
		p := authMw.CurrentPrincipal(c)
		return helper.JsonOK(c, "ok", fiber.Map{"id": p.ID, "role": p.Role})
	})
	grp.Get("/portal", authMw.AuthMiddleware(db), authMw.OnlyCandidate(), func(c *fiber.Ctx) error {
		return helper.JsonOK(c, "ok", fiber.Map{"id": authMw.CurrentPrincipal(c).ID})
	})
	// target uji CSRF: handler kosong, penolakan terjadi di middleware
	grp.Post("/submit", func(c *fiber.Ctx) error {
		return helper.JsonOK(c, "ok", nil)
	})
}

func issue(c *fiber.Ctx, id string, fn func() (string, error)) error {
	tok, err := fn()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"id": id, "token": tok})
}
