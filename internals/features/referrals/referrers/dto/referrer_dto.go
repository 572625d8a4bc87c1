package dto

import (
	"strings"

	"pmb_backend/internals/features/referrals/referrers/model"
	helper "pmb_backend/internals/helpers"
)

/* ===================== REQUEST ===================== */

// ReferrerRequest dipakai untuk create dan edit (form modal lengkap).
type ReferrerRequest struct {
	Name              string  `json:"referrer_name" form:"referrer_name" validate:"required,min=2,max=150"`
	Type              string  `json:"referrer_type" form:"referrer_type" validate:"required,oneof=alumni teacher student partner staff"`
	Code              *string `json:"referrer_code" form:"referrer_code" validate:"omitempty,max=40"`
	Phone             *string `json:"referrer_phone" form:"referrer_phone" validate:"omitempty,max=30"`
	Email             *string `json:"referrer_email" form:"referrer_email" validate:"omitempty,email"`
	Institution       *string `json:"referrer_institution" form:"referrer_institution" validate:"omitempty,max=200"`
	PayoutMethod      string  `json:"referrer_payout_method" form:"referrer_payout_method" validate:"required,oneof=bank cash"`
	BankName          *string `json:"referrer_bank_name" form:"referrer_bank_name" validate:"omitempty,max=100"`
	BankAccountNumber *string `json:"referrer_bank_account_number" form:"referrer_bank_account_number" validate:"omitempty,max=50"`
	BankAccountName   *string `json:"referrer_bank_account_name" form:"referrer_bank_account_name" validate:"omitempty,max=150"`
	CommissionAmount  *int64  `json:"referrer_commission_amount" form:"referrer_commission_amount" validate:"omitempty,gte=0"`
	IsActive          *bool   `json:"referrer_is_active" form:"referrer_is_active"`
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

// Normalize: trim, kode referral upper-case, data bank dikosongkan untuk payout cash.
func (r *ReferrerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = trimPtr(r.Code)
	if r.Code != nil {
		up := strings.ToUpper(*r.Code)
		r.Code = &up
	}
	r.Phone = trimPtr(r.Phone)
	if r.Phone != nil {
		p := helper.NormalizePhone(*r.Phone)
		r.Phone = &p
	}
	r.Email = trimPtr(r.Email)
	if r.Email != nil {
		e := helper.NormalizeEmail(*r.Email)
		r.Email = &e
	}
	r.Institution = trimPtr(r.Institution)
	r.BankName = trimPtr(r.BankName)
	r.BankAccountNumber = trimPtr(r.BankAccountNumber)
	r.BankAccountName = trimPtr(r.BankAccountName)
	if r.PayoutMethod == model.PayoutCash {
		r.BankName, r.BankAccountNumber, r.BankAccountName = nil, nil, nil
	}
}

// CheckPayout: payout bank wajib lengkap data rekening.
func (r *ReferrerRequest) CheckPayout() error {
	if r.PayoutMethod != model.PayoutBank {
		return nil
	}
	switch {
	case r.BankName == nil:
		return helper.Invalid("referrer_bank_name", "Nama bank wajib diisi untuk pembayaran transfer")
	case r.BankAccountNumber == nil:
		return helper.Invalid("referrer_bank_account_number", "Nomor rekening wajib diisi untuk pembayaran transfer")
	case r.BankAccountName == nil:
		return helper.Invalid("referrer_bank_account_name", "Nama pemilik rekening wajib diisi untuk pembayaran transfer")
	}
	return nil
}

func (r ReferrerRequest) ToModel() *model.ReferrerModel {
	m := &model.ReferrerModel{ReferrerIsActive: true}
	r.ApplyToModel(m)
	return m
}

func (r ReferrerRequest) ApplyToModel(m *model.ReferrerModel) {
	m.ReferrerName = r.Name
	m.ReferrerType = r.Type
	m.ReferrerCode = r.Code
	m.ReferrerPhone = r.Phone
	m.ReferrerEmail = r.Email
	m.ReferrerInstitution = r.Institution
	m.ReferrerPayoutMethod = r.PayoutMethod
	m.ReferrerBankName = r.BankName
	m.ReferrerBankAccountNumber = r.BankAccountNumber
	m.ReferrerBankAccountName = r.BankAccountName
	m.ReferrerCommissionAmount = r.CommissionAmount
	if r.IsActive != nil {
		m.ReferrerIsActive = *r.IsActive
	}
}
