package dto

import (
	"strings"

	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

const (
	MsgIdentifierRequired = "Email atau nomor HP wajib diisi"
	MsgPasswordMismatch   = "Konfirmasi password tidak cocok"
)

// Step 1: akun
type AccountRequest struct {
	Email                string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Phone                string `json:"phone" form:"phone" validate:"omitempty,max=30"`
	Password             string `json:"password" form:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required"`
}

func (r *AccountRequest) Normalize() error {
	r.Email = helper.NormalizeEmail(r.Email)
	r.Phone = helper.NormalizePhone(r.Phone)
	if r.Email == "" && r.Phone == "" {
		return helper.Invalid("email", MsgIdentifierRequired)
	}
	if r.Password != r.PasswordConfirmation {
		return helper.Invalid("password_confirmation", MsgPasswordMismatch)
	}
	return nil
}

// Step 2: data pribadi
type PersonalRequest struct {
	Name     string  `json:"name" form:"name" validate:"required,min=2,max=150"`
	Address  *string `json:"address" form:"address" validate:"omitempty,max=500"`
	City     *string `json:"city" form:"city" validate:"omitempty,max=100"`
	Province *string `json:"province" form:"province" validate:"omitempty,max=100"`
}

func (r *PersonalRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = trimPtr(r.Address)
	r.City = trimPtr(r.City)
	r.Province = trimPtr(r.Province)
}

// Step 3: pendidikan
type EducationRequest struct {
	HighSchool     string `json:"high_school" form:"high_school" validate:"required,max=200"`
	GraduationYear int    `json:"graduation_year" form:"graduation_year" validate:"required,gte=1980,lte=2100"`
	ProgramID      string `json:"program_id" form:"program_id" validate:"required,uuid"`
}

func (r EducationRequest) ParsedProgramID() uuid.UUID {
	id, _ := uuid.Parse(r.ProgramID)
	return id
}

// Step 4: sumber informasi
type SourceRequest struct {
	SourceType   string  `json:"source_type" form:"source_type" validate:"required,oneof=instagram google youtube tiktok friend_family teacher_alumni referral expo"`
	SourceDetail *string `json:"source_detail" form:"source_detail" validate:"omitempty,max=500"`
	CampaignID   *string `json:"campaign_id" form:"campaign_id" validate:"omitempty,uuid"`
	ReferralCode *string `json:"referral_code" form:"referral_code" validate:"omitempty,max=40"`
}

func (r *SourceRequest) Normalize() {
	r.SourceDetail = trimPtr(r.SourceDetail)
	r.CampaignID = trimPtr(r.CampaignID)
	r.ReferralCode = trimPtr(r.ReferralCode)
}

func (r SourceRequest) ParsedCampaignID() *uuid.UUID {
	if r.CampaignID == nil {
		return nil
	}
	id, err := uuid.Parse(*r.CampaignID)
	if err != nil {
		return nil
	}
	return &id
}

func (r SourceRequest) Detail() string {
	if r.SourceDetail == nil {
		return ""
	}
	return *r.SourceDetail
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// RegistrationState: isian tersimpan untuk melanjutkan wizard.
type RegistrationState struct {
	CandidateID    uuid.UUID  `json:"candidate_id"`
	Step           int        `json:"registration_step"`
	NextStep       int        `json:"next_step"`
	Status         string     `json:"status"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Name           string     `json:"name,omitempty"`
	Address        *string    `json:"address,omitempty"`
	City           *string    `json:"city,omitempty"`
	Province       *string    `json:"province,omitempty"`
	HighSchool     *string    `json:"high_school,omitempty"`
	GraduationYear *int       `json:"graduation_year,omitempty"`
	ProgramID      *uuid.UUID `json:"program_id,omitempty"`
	SourceType     *string    `json:"source_type,omitempty"`
	SourceDetail   *string    `json:"source_detail,omitempty"`
	CampaignID     *uuid.UUID `json:"campaign_id,omitempty"`
}
