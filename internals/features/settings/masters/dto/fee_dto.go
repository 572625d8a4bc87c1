package dto

import (
	"regexp"
	"strconv"
	"strings"

	billingModel "pmb_backend/internals/features/finance/billings/model"
	"pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

var academicYearRe = regexp.MustCompile(`^\d{4}/\d{4}$`)

type FeeRequest struct {
	Name         string  `json:"fee_name" form:"fee_name" validate:"required,min=2,max=150"`
	BillingType  string  `json:"fee_billing_type" form:"fee_billing_type" validate:"required,oneof=registration tuition dormitory uniform other"`
	ProgramID    *string `json:"fee_program_id" form:"fee_program_id" validate:"omitempty,uuid"`
	AcademicYear *string `json:"fee_academic_year" form:"fee_academic_year"`
	Amount       int64   `json:"fee_amount" form:"fee_amount" validate:"gt=0"`
	IsActive     *bool   `json:"fee_is_active" form:"fee_is_active"`
}

// Normalize: tahun akademik harus "2026/2027" dengan selisih satu tahun.
func (r *FeeRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ProgramID = trimPtr(r.ProgramID)
	r.AcademicYear = trimPtr(r.AcademicYear)
	if r.AcademicYear != nil {
		y := *r.AcademicYear
		if !academicYearRe.MatchString(y) || y[5:] != nextYear(y[:4]) {
			return helper.Invalid("fee_academic_year", "Format tahun akademik harus seperti 2026/2027")
		}
	}
	return nil
}

func nextYear(y string) string {
	n, _ := strconv.Atoi(y)
	return strconv.Itoa(n + 1)
}

func (r FeeRequest) ParsedProgramID() *uuid.UUID {
	if r.ProgramID == nil {
		return nil
	}
	id, err := uuid.Parse(*r.ProgramID)
	if err != nil {
		return nil
	}
	return &id
}

func (r FeeRequest) ApplyToModel(m *model.FeeModel) {
	m.FeeName = r.Name
	m.FeeBillingType = r.BillingType
	m.FeeProgramID = r.ParsedProgramID()
	m.FeeAcademicYear = r.AcademicYear
	m.FeeAmount = r.Amount
	m.FeeIsActive = activeOr(r.IsActive, m.FeeIsActive)
}

// FeeRow: baris list tarif dengan label jenis & nama prodi.
type FeeRow struct {
	model.FeeModel
	BillingTypeLabel string  `json:"billing_type_label"`
	ProgramName      *string `json:"program_name,omitempty"`
}

func NewFeeRow(f model.FeeModel, programName *string) FeeRow {
	return FeeRow{FeeModel: f, BillingTypeLabel: billingModel.BillingTypeLabel(f.FeeBillingType), ProgramName: programName}
}
