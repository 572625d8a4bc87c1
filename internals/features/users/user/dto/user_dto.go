package dto

import (
	"strings"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

// StaffRequest: create & update akun staf. Password wajib saat create, opsional saat update.
type StaffRequest struct {
	Name         string  `json:"user_name" form:"user_name" validate:"required,min=2,max=120"`
	Email        string  `json:"user_email" form:"user_email" validate:"required,email,max=255"`
	Phone        *string `json:"user_phone" form:"user_phone" validate:"omitempty,max=30"`
	Role         string  `json:"user_role" form:"user_role" validate:"required,oneof=admin supervisor consultant finance"`
	SupervisorID *string `json:"user_supervisor_id" form:"user_supervisor_id" validate:"omitempty,uuid"`
	Password     string  `json:"password" form:"password" validate:"omitempty,min=8,max=72"`
	IsActive     *bool   `json:"user_is_active" form:"user_is_active"`
}

func (r *StaffRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = helper.NormalizeEmail(r.Email)
	if r.Phone != nil {
		p := helper.NormalizePhone(*r.Phone)
		if p == "" {
			r.Phone = nil
		} else {
			r.Phone = &p
		}
	}
	// supervisor hanya berlaku untuk konsultan
	if r.Role != constants.RoleConsultant || (r.SupervisorID != nil && strings.TrimSpace(*r.SupervisorID) == "") {
		r.SupervisorID = nil
	}
}

func (r StaffRequest) ParsedSupervisorID() *uuid.UUID {
	if r.SupervisorID == nil {
		return nil
	}
	id, err := uuid.Parse(*r.SupervisorID)
	if err != nil {
		return nil
	}
	return &id
}

func (r StaffRequest) ApplyToModel(m *model.UserModel) {
	m.UserName = r.Name
	m.UserEmail = r.Email
	m.UserPhone = r.Phone
	m.UserRole = r.Role
	m.UserSupervisorID = r.ParsedSupervisorID()
	if r.IsActive != nil {
		m.UserIsActive = *r.IsActive
	}
}

// StaffResponse: tanpa password, plus nama supervisor & jumlah kandidat aktif.
type StaffResponse struct {
	model.UserModel
	SupervisorName  *string `json:"supervisor_name,omitempty"`
	ActiveCandidate int64   `json:"active_candidates"`
}
