package controller

import (
	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/users/auth/service"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthController struct {
	DB  *gorm.DB
	Svc *service.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Svc: service.NewAuthService(db)}
}

type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

// POST /login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}

	res, err := ac.Svc.Login(req.Identifier, req.Password)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	service.SetSessionCookie(c, res.Token, res.ExpiresAt)
	zap.S().Infow("🔐 login", "kind", res.Kind, "role", res.Role, "id", res.ID)
	return helper.JsonRedirect(c, "Login berhasil", res.Redirect, res)
}

// POST /logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	p := authMw.CurrentPrincipal(c)
	if p != nil && p.Token != "" {
		if err := service.Blacklist(ac.DB, p.Token, p.ExpiresAt); err != nil {
			return helper.FromFiberError(c, err)
		}
	}
	service.ClearSessionCookie(c)
	return helper.JsonRedirect(c, "Logout berhasil", "/login", nil)
}

// GET /me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	p := authMw.CurrentPrincipal(c)
	if p == nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if p.Kind == constants.KindStaff {
		var u userModel.UserModel
		if err := ac.DB.Where("user_id = ?", p.ID).Take(&u).Error; err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonOK(c, "ok", fiber.Map{
			"id":           u.UserID,
			"kind":         p.Kind,
			"name":         u.UserName,
			"email":        u.UserEmail,
			"role":         u.UserRole,
			"capabilities": constants.CapabilitiesOf(u.UserRole),
		})
	}

	var cand candidateModel.CandidateModel
	if err := ac.DB.Where("candidate_id = ?", p.ID).Take(&cand).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"id":                cand.CandidateID,
		"kind":              p.Kind,
		"name":              cand.CandidateName.String(),
		"email":             cand.CandidateEmail.String(),
		"status":            cand.CandidateStatus,
		"status_label":      candidateModel.StatusLabel(cand.CandidateStatus),
		"registration_step": cand.CandidateRegistrationStep,
	})
}
