package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgramModel: program studi (prodi) pilihan kandidat.
type ProgramModel struct {
	ProgramID        uuid.UUID `gorm:"column:program_id;type:uuid;primaryKey" json:"program_id"`
	ProgramCode      string    `gorm:"column:program_code;size:20;not null;uniqueIndex:uq_programs_code" json:"program_code"`
	ProgramName      string    `gorm:"column:program_name;size:150;not null" json:"program_name"`
	ProgramFaculty   *string   `gorm:"column:program_faculty;size:150" json:"program_faculty,omitempty"`
	ProgramDegree    *string   `gorm:"column:program_degree;size:10" json:"program_degree,omitempty"` // D3, S1, S2
	ProgramQuota     *int      `gorm:"column:program_quota" json:"program_quota,omitempty"`
	ProgramIsActive  bool      `gorm:"column:program_is_active;not null" json:"program_is_active"`
	ProgramCreatedAt time.Time `gorm:"column:program_created_at;autoCreateTime" json:"program_created_at"`
	ProgramUpdatedAt time.Time `gorm:"column:program_updated_at;autoUpdateTime" json:"program_updated_at"`
}

func (ProgramModel) TableName() string { return "programs" }

func (m *ProgramModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProgramID == uuid.Nil {
		m.ProgramID = uuid.New()
	}
	return nil
}
