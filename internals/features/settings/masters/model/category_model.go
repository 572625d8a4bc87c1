package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionCategoryModel: kategori hasil interaksi (tertarik, minta info biaya, ...).
type InteractionCategoryModel struct {
	CategoryID        uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey" json:"category_id"`
	CategoryName      string    `gorm:"column:category_name;size:120;not null;uniqueIndex:uq_interaction_categories_name" json:"category_name"`
	CategorySortOrder int       `gorm:"column:category_sort_order;not null" json:"category_sort_order"`
	CategoryIsActive  bool      `gorm:"column:category_is_active;not null" json:"category_is_active"`
	CategoryCreatedAt time.Time `gorm:"column:category_created_at;autoCreateTime" json:"category_created_at"`
	CategoryUpdatedAt time.Time `gorm:"column:category_updated_at;autoUpdateTime" json:"category_updated_at"`
}

func (InteractionCategoryModel) TableName() string { return "interaction_categories" }

func (m *InteractionCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.CategoryID == uuid.Nil {
		m.CategoryID = uuid.New()
	}
	return nil
}

// LostReasonModel: alasan kandidat batal.
type LostReasonModel struct {
	LostReasonID        uuid.UUID `gorm:"column:lost_reason_id;type:uuid;primaryKey" json:"lost_reason_id"`
	LostReasonName      string    `gorm:"column:lost_reason_name;size:150;not null;uniqueIndex:uq_lost_reasons_name" json:"lost_reason_name"`
	LostReasonSortOrder int       `gorm:"column:lost_reason_sort_order;not null" json:"lost_reason_sort_order"`
	LostReasonIsActive  bool      `gorm:"column:lost_reason_is_active;not null" json:"lost_reason_is_active"`
	LostReasonCreatedAt time.Time `gorm:"column:lost_reason_created_at;autoCreateTime" json:"lost_reason_created_at"`
	LostReasonUpdatedAt time.Time `gorm:"column:lost_reason_updated_at;autoUpdateTime" json:"lost_reason_updated_at"`
}

func (LostReasonModel) TableName() string { return "lost_reasons" }

func (m *LostReasonModel) BeforeCreate(tx *gorm.DB) error {
	if m.LostReasonID == uuid.Nil {
		m.LostReasonID = uuid.New()
	}
	return nil
}
