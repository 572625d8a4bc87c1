package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnouncementModel: pengumuman yang tampil di dashboard portal kandidat.
type AnnouncementModel struct {
	AnnouncementID        uuid.UUID      `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementTitle     string         `gorm:"column:announcement_title;size:200;not null" json:"announcement_title"`
	AnnouncementContent   string         `gorm:"column:announcement_content;type:text;not null" json:"announcement_content"`
	AnnouncementDate      time.Time      `gorm:"column:announcement_date;type:date;not null;index" json:"announcement_date"`
	AnnouncementIsActive  bool           `gorm:"column:announcement_is_active;not null" json:"announcement_is_active"`
	AnnouncementCreatedBy *uuid.UUID     `gorm:"column:announcement_created_by;type:uuid" json:"announcement_created_by,omitempty"`
	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"-"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
