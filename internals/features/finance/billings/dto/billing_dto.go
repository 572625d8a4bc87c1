package dto

import (
	"strings"
	"time"

	"pmb_backend/internals/features/finance/billings/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

/* ===================== REQUEST ===================== */

type CreateBillingRequest struct {
	CandidateID string  `json:"candidate_id" form:"candidate_id" validate:"required,uuid"`
	Type        string  `json:"billing_type" form:"billing_type" validate:"required,oneof=registration tuition dormitory uniform other"`
	Amount      int64   `json:"billing_amount" form:"billing_amount" validate:"required,gt=0"`
	DueDate     string  `json:"billing_due_date" form:"billing_due_date"`
	Description *string `json:"billing_description" form:"billing_description" validate:"omitempty,max=1000"`
}

func (r CreateBillingRequest) ParsedCandidateID() uuid.UUID {
	id, _ := uuid.Parse(r.CandidateID)
	return id
}

// UpdateBillingRequest: kandidat tidak bisa dipindah, hanya isi tagihan.
type UpdateBillingRequest struct {
	Type        string  `json:"billing_type" form:"billing_type" validate:"required,oneof=registration tuition dormitory uniform other"`
	Amount      int64   `json:"billing_amount" form:"billing_amount" validate:"required,gt=0"`
	DueDate     string  `json:"billing_due_date" form:"billing_due_date"`
	Description *string `json:"billing_description" form:"billing_description" validate:"omitempty,max=1000"`
}

type CancelBillingRequest struct {
	Confirm bool `json:"confirm" form:"confirm"`
}

func parseDue(raw string) (*time.Time, error) {
	t, err := helper.ParseDate(raw)
	if err != nil {
		return nil, helper.Invalid("billing_due_date", "Format tanggal jatuh tempo harus YYYY-MM-DD")
	}
	return t, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (r CreateBillingRequest) ToModel() (*model.BillingModel, error) {
	due, err := parseDue(r.DueDate)
	if err != nil {
		return nil, err
	}
	return &model.BillingModel{
		BillingCandidateID: r.ParsedCandidateID(),
		BillingType:        r.Type,
		BillingAmount:      r.Amount,
		BillingDueDate:     due,
		BillingDescription: trimPtr(r.Description),
		BillingStatus:      model.BillingUnpaid,
	}, nil
}

func (r UpdateBillingRequest) Columns() (map[string]any, error) {
	due, err := parseDue(r.DueDate)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"billing_type":        r.Type,
		"billing_amount":      r.Amount,
		"billing_due_date":    due,
		"billing_description": trimPtr(r.Description),
	}, nil
}

/* ===================== RESPONSE ===================== */

type BillingRow struct {
	model.BillingModel
	CandidateName string `json:"candidate_name"`
	StatusLabel   string `json:"billing_status_label"`
	Editable      bool   `json:"editable"`
}

func NewBillingRow(b model.BillingModel, candidateName string) BillingRow {
	return BillingRow{
		BillingModel:  b,
		CandidateName: candidateName,
		StatusLabel:   model.BillingStatusLabel(b.BillingStatus),
		Editable:      b.IsEditable(),
	}
}

type CandidateSummary struct {
	CandidateID  uuid.UUID `json:"candidate_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Status       string    `json:"status"`
	AcademicYear *string   `json:"academic_year,omitempty"`
	ProgramName  *string   `json:"program_name,omitempty"`
	CampaignName *string   `json:"campaign_name,omitempty"`
}

// SuggestedAmount: nominal awal form per jenis tagihan, Source = fee|campaign.
type SuggestedAmount struct {
	Type   string `json:"billing_type"`
	Amount int64  `json:"amount"`
	Source string `json:"source"`
	Label  string `json:"label"`
}

type CreateForm struct {
	Candidate   CandidateSummary  `json:"candidate"`
	Suggestions []SuggestedAmount `json:"suggestions"`
	Existing    []BillingRow      `json:"existing_billings"`
	Types       []string          `json:"billing_types"`
}
