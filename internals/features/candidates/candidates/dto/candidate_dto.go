package dto

import (
	"time"

	"pmb_backend/internals/features/candidates/candidates/model"

	"github.com/google/uuid"
)

type StatusRequest struct {
	Status       string  `json:"status" form:"status" validate:"required,oneof=committed enrolled lost"`
	LostReasonID *string `json:"lost_reason_id" form:"lost_reason_id" validate:"omitempty,uuid"`
	LostNote     *string `json:"lost_note" form:"lost_note" validate:"omitempty,max=1000"`
}

func (r StatusRequest) ParsedLostReasonID() *uuid.UUID {
	if r.LostReasonID == nil || *r.LostReasonID == "" {
		return nil
	}
	id, err := uuid.Parse(*r.LostReasonID)
	if err != nil {
		return nil
	}
	return &id
}

type ReassignRequest struct {
	ConsultantID string `json:"consultant_id" form:"consultant_id" validate:"required,uuid"`
}

func (r ReassignRequest) ParsedConsultantID() uuid.UUID {
	id, _ := uuid.Parse(r.ConsultantID)
	return id
}

// CandidateListItem: baris daftar kandidat admin.
type CandidateListItem struct {
	CandidateID         uuid.UUID  `json:"candidate_id"`
	Name                string     `json:"candidate_name"`
	Email               string     `json:"candidate_email,omitempty"`
	Phone               string     `json:"candidate_phone,omitempty"`
	Status              string     `json:"candidate_status"`
	StatusLabel         string     `json:"candidate_status_label"`
	RegistrationStep    int        `json:"candidate_registration_step"`
	SourceType          *string    `json:"candidate_source_type,omitempty"`
	ProgramID           *uuid.UUID `json:"candidate_program_id,omitempty"`
	ProgramName         *string    `json:"program_name,omitempty"`
	ConsultantID        *uuid.UUID `json:"candidate_consultant_id,omitempty"`
	ConsultantName      *string    `json:"consultant_name,omitempty"`
	NextFollowupAt      *time.Time `json:"candidate_next_followup_at,omitempty"`
	LastContactAt       *time.Time `json:"candidate_last_contact_at,omitempty"`
	CandidateCreatedAt  time.Time  `json:"candidate_created_at"`
	CandidateRegistered *time.Time `json:"candidate_registered_at,omitempty"`
}

func ToListItem(m model.CandidateModel) CandidateListItem {
	return CandidateListItem{
		CandidateID:         m.CandidateID,
		Name:                m.CandidateName.String(),
		Email:               m.CandidateEmail.String(),
		Phone:               m.CandidatePhone.String(),
		Status:              m.CandidateStatus,
		StatusLabel:         model.StatusLabel(m.CandidateStatus),
		RegistrationStep:    m.CandidateRegistrationStep,
		SourceType:          m.CandidateSourceType,
		ProgramID:           m.CandidateProgramID,
		ConsultantID:        m.CandidateConsultantID,
		NextFollowupAt:      m.CandidateNextFollowupAt,
		LastContactAt:       m.CandidateLastContactAt,
		CandidateCreatedAt:  m.CandidateCreatedAt,
		CandidateRegistered: m.CandidateRegisteredAt,
	}
}
