package dto

import (
	referrerDTO "pmb_backend/internals/features/referrals/referrers/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LinkClaimRequest: pilih referrer yang ada ATAU buat referrer baru.
type LinkClaimRequest struct {
	ReferrerID  *string                      `json:"referrer_id" validate:"omitempty,uuid"`
	NewReferrer *referrerDTO.ReferrerRequest `json:"new_referrer" validate:"omitempty"`
}

func (r LinkClaimRequest) Check() error {
	hasID := r.ReferrerID != nil && *r.ReferrerID != ""
	if hasID == (r.NewReferrer != nil) {
		return fiber.NewError(fiber.StatusBadRequest, "Pilih referrer yang ada atau isi referrer baru (salah satu)")
	}
	return nil
}

func (r LinkClaimRequest) ParsedReferrerID() *uuid.UUID {
	if r.ReferrerID == nil || *r.ReferrerID == "" {
		return nil
	}
	id, err := uuid.Parse(*r.ReferrerID)
	if err != nil {
		return nil
	}
	return &id
}

// InvalidClaimRequest: aksi destruktif, butuh konfirmasi eksplisit.
type InvalidClaimRequest struct {
	Confirm bool `json:"confirm" form:"confirm"`
}
