package dto

import (
	"strings"
	"time"

	"pmb_backend/internals/features/announcements/model"
	helper "pmb_backend/internals/helpers"

	"github.com/google/uuid"
)

type AnnouncementRequest struct {
	Title    string `json:"announcement_title" form:"announcement_title" validate:"required,min=3,max=200"`
	Content  string `json:"announcement_content" form:"announcement_content" validate:"required"`
	Date     string `json:"announcement_date" form:"announcement_date"`
	IsActive *bool  `json:"announcement_is_active" form:"announcement_is_active"`
}

type DeleteRequest struct {
	Confirm bool `json:"confirm" form:"confirm"`
}

// ToModel: tanggal kosong → hari ini (WIB).
func (r AnnouncementRequest) ToModel(by uuid.UUID, now time.Time) (*model.AnnouncementModel, error) {
	m := &model.AnnouncementModel{AnnouncementIsActive: true, AnnouncementCreatedBy: &by}
	if err := r.ApplyToModel(m, now); err != nil {
		return nil, err
	}
	return m, nil
}

func (r AnnouncementRequest) ApplyToModel(m *model.AnnouncementModel, now time.Time) error {
	content := strings.TrimSpace(r.Content)
	if content == "" {
		return helper.Invalid("announcement_content", "Isi pengumuman wajib diisi")
	}
	date, err := helper.ParseDate(r.Date)
	if err != nil {
		return helper.Invalid("announcement_date", "Format tanggal harus YYYY-MM-DD")
	}
	if date == nil {
		local := now.In(helper.Jakarta())
		d := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		date = &d
	}
	m.AnnouncementTitle = strings.TrimSpace(r.Title)
	m.AnnouncementContent = content
	m.AnnouncementDate = *date
	if r.IsActive != nil {
		m.AnnouncementIsActive = *r.IsActive
	}
	return nil
}
