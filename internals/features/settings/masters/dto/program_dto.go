package dto

import (
	"strings"

	"pmb_backend/internals/features/settings/masters/model"
)

type ProgramRequest struct {
	Code     string  `json:"program_code" form:"program_code" validate:"required,min=2,max=20"`
	Name     string  `json:"program_name" form:"program_name" validate:"required,min=2,max=150"`
	Faculty  *string `json:"program_faculty" form:"program_faculty" validate:"omitempty,max=150"`
	Degree   *string `json:"program_degree" form:"program_degree" validate:"omitempty,oneof=D3 D4 S1 S2 S3"`
	Quota    *int    `json:"program_quota" form:"program_quota" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"program_is_active" form:"program_is_active"`
}

func (r *ProgramRequest) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.Faculty = trimPtr(r.Faculty)
	r.Degree = trimPtr(r.Degree)
}

func (r ProgramRequest) ApplyToModel(m *model.ProgramModel) {
	m.ProgramCode = r.Code
	m.ProgramName = r.Name
	m.ProgramFaculty = r.Faculty
	m.ProgramDegree = r.Degree
	m.ProgramQuota = r.Quota
	m.ProgramIsActive = activeOr(r.IsActive, m.ProgramIsActive)
}
