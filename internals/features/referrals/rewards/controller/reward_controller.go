package controller

import (
	"pmb_backend/internals/features/referrals/rewards/dto"
	"pmb_backend/internals/features/referrals/rewards/model"
	"pmb_backend/internals/features/referrals/rewards/service"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RewardController struct {
	Svc *service.RewardService
}

func NewRewardController(db *gorm.DB) *RewardController {
	return &RewardController{Svc: service.NewRewardService(db)}
}

// GET /admin/settings/rewards?referrer_type=&academic_year=
func (h *RewardController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "referrer_type", "academic_year")

	configs, err := h.Svc.ListConfigs(filters.Get("referrer_type"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	mgm, err := h.Svc.ListMGM(filters.Get("academic_year"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonList(c, "ok", fiber.Map{
		"reward_configs":     configs,
		"mgm_reward_configs": mgm,
		"reward_types":       model.RewardTypes,
		"trigger_events":     model.TriggerEvents,
	}, helper.Meta{Page: 1, PerPage: len(configs) + len(mgm), Total: int64(len(configs) + len(mgm)), TotalPages: 1}, filters)
}

// POST /admin/settings/rewards
func (h *RewardController) CreateConfig(c *fiber.Ctx) error {
	var req dto.RewardConfigRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateConfig(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Konfigurasi reward ditambahkan", row)
}

// POST /admin/settings/rewards/:id
func (h *RewardController) UpdateConfig(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.RewardConfigRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateConfig(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Konfigurasi reward diperbarui", row)
}

// POST /admin/settings/rewards/:id/toggle
func (h *RewardController) ToggleConfig(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleConfig(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status reward diperbarui", row)
}

// POST /admin/settings/rewards/mgm
func (h *RewardController) CreateMGM(c *fiber.Ctx) error {
	var req dto.MGMRewardConfigRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.CreateMGM(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Konfigurasi MGM ditambahkan", row)
}

// POST /admin/settings/rewards/mgm/:id
func (h *RewardController) UpdateMGM(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.MGMRewardConfigRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	row, err := h.Svc.UpdateMGM(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Konfigurasi MGM diperbarui", row)
}

// POST /admin/settings/rewards/mgm/:id/toggle
func (h *RewardController) ToggleMGM(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.ToggleMGM(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status MGM diperbarui", row)
}
