package controller

import (
	"fmt"
	"strconv"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/candidates/dto"
	"pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/service"
	authService "pmb_backend/internals/features/users/auth/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegistrationController struct {
	Svc *service.RegistrationService
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{Svc: service.NewRegistrationService(db)}
}

// session: id kandidat dari token; staf tidak boleh mengisi wizard.
func session(c *fiber.Ctx) (*uuid.UUID, error) {
	p := authMw.CurrentPrincipal(c)
	if p == nil {
		return nil, nil
	}
	if p.IsStaff() {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.ErrOnlyCandidate)
	}
	id := p.ID
	return &id, nil
}

func nextStepURL(n int) string {
	return fmt.Sprintf("/register/step/%d", n+1)
}

// POST /register/step/:n
func (h *RegistrationController) Step(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("n"))
	if err != nil || n < model.StepAccount || n > model.StepSource {
		return helper.JsonError(c, fiber.StatusNotFound, "Langkah registrasi tidak dikenal")
	}
	sess, err := session(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	switch n {
	case model.StepAccount:
		return h.account(c, sess)
	case model.StepPersonal:
		var req dto.PersonalRequest
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
		cand, err := h.Svc.Personal(sess, req)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonRedirect(c, "Data pribadi tersimpan", nextStepURL(n), fiber.Map{"candidate_id": cand.CandidateID, "step": cand.CandidateRegistrationStep})
	case model.StepEducation:
		var req dto.EducationRequest
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
		cand, err := h.Svc.Education(sess, req)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonRedirect(c, "Data pendidikan tersimpan", nextStepURL(n), fiber.Map{"candidate_id": cand.CandidateID, "step": cand.CandidateRegistrationStep})
	default:
		var req dto.SourceRequest
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
		res, err := h.Svc.Complete(sess, req)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.JsonRedirect(c, "Registrasi berhasil", res.Redirect, res)
	}
}

func (h *RegistrationController) account(c *fiber.Ctx, sess *uuid.UUID) error {
	var req dto.AccountRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	cand, err := h.Svc.Account(sess, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	// langsung login supaya step 2-4 punya sesi kandidat
	if sess == nil || *sess != cand.CandidateID {
		token, exp, err := authService.IssueToken(cand.CandidateID, constants.KindCandidate, "")
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		authService.SetSessionCookie(c, token, exp)
		zap.S().Infow("📝 akun kandidat dibuat", "candidate", cand.CandidateID)
	}
	return helper.JsonRedirect(c, "Akun berhasil dibuat", nextStepURL(model.StepAccount), fiber.Map{
		"candidate_id": cand.CandidateID,
		"step":         cand.CandidateRegistrationStep,
	})
}

// GET /register/state
func (h *RegistrationController) State(c *fiber.Ctx) error {
	sess, err := session(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if sess == nil {
		return helper.JsonOK(c, "ok", fiber.Map{"step": 0, "next_step": model.StepAccount})
	}
	st, err := h.Svc.State(*sess)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", st)
}
