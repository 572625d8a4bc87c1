package controller

import (
	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/users/user/dto"
	"pmb_backend/internals/features/users/user/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	Svc *service.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{Svc: service.NewUserService(db)}
}

// GET /admin/settings/users?role=&search=&is_active=
func (h *UserController) List(c *fiber.Ctx) error {
	filters := helper.CollectFilters(c, "role", "search", "is_active")
	if r := filters.Get("role"); r != "" && !constants.IsValidRole(r) {
		return helper.JsonError(c, fiber.StatusBadRequest, "role tidak valid")
	}
	active, err := helper.ParseOptionalBool(filters.Get("is_active"), "is_active")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "name", "asc", helper.AdminOpts)

	rows, total, err := h.Svc.List(service.ListFilter{
		Role:     filters.Get("role"),
		Search:   filters.Get("search"),
		IsActive: active,
	}, p)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sups, err := h.Svc.Supervisors()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", fiber.Map{
		"items":       rows,
		"roles":       constants.AllRoles,
		"supervisors": sups,
	}, helper.BuildMeta(total, p), filters)
}

// GET /admin/settings/users/:id
func (h *UserController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	row, err := h.Svc.Get(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /admin/settings/users
func (h *UserController) Create(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	u, err := h.Svc.Create(req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Akun staf berhasil dibuat", u)
}

// POST /admin/settings/users/:id
func (h *UserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.StaffRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	u, err := h.Svc.Update(id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Akun staf diperbarui", u)
}

// POST /admin/settings/users/:id/toggle
func (h *UserController) Toggle(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	u, err := h.Svc.Toggle(id, authMw.CurrentPrincipal(c).ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	msg := "Akun staf dinonaktifkan"
	if u.UserIsActive {
		msg = "Akun staf diaktifkan"
	}
	return helper.JsonUpdated(c, msg, u)
}
