package dto

import (
	"strings"
	"time"

	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

const (
	ActionSave        = "save"
	ActionSaveAndNext = "save_and_next"
)

type LogInteractionRequest struct {
	Channel          string  `json:"channel" form:"channel" validate:"required,oneof=call whatsapp email campus_visit home_visit"`
	CategoryID       string  `json:"category_id" form:"category_id" validate:"required,uuid"`
	Obstacle         *string `json:"obstacle" form:"obstacle" validate:"omitempty,max=500"`
	Remarks          string  `json:"remarks" form:"remarks" validate:"required,max=5000"`
	NextFollowupDate string  `json:"next_followup_date" form:"next_followup_date"`
	Action           string  `json:"action" form:"action" validate:"omitempty,oneof=save save_and_next"`
}

func (r *LogInteractionRequest) Normalize() error {
	r.Remarks = strings.TrimSpace(r.Remarks)
	if r.Remarks == "" {
		return helper.Invalid("remarks", "Catatan wajib diisi")
	}
	if r.Obstacle != nil {
		o := strings.TrimSpace(*r.Obstacle)
		if o == "" {
			r.Obstacle = nil
		} else {
			r.Obstacle = &o
		}
	}
	if r.Action == "" {
		r.Action = ActionSave
	}
	return nil
}

func (r LogInteractionRequest) ParsedCategoryID() uuid.UUID {
	id, _ := uuid.Parse(r.CategoryID)
	return id
}

func (r LogInteractionRequest) FollowupDate() (*time.Time, error) {
	d, err := helper.ParseDate(r.NextFollowupDate)
	if err != nil {
		return nil, helper.Invalid("next_followup_date", "Format tanggal harus YYYY-MM-DD")
	}
	return d, nil
}

type SuggestionRequest struct {
	Body string `json:"body" form:"body" validate:"required,max=2000"`
}
