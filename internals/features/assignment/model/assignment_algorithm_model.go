package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kode strategi
const (
	AlgoRoundRobin    = "round_robin"
	AlgoLeastWorkload = "least_workload"
	AlgoRandom        = "random"
)

// AssignmentAlgorithmModel: tepat satu baris aktif (dijaga partial unique index).
type AssignmentAlgorithmModel struct {
	AssignmentAlgorithmID          uuid.UUID `gorm:"column:assignment_algorithm_id;type:uuid;primaryKey" json:"assignment_algorithm_id"`
	AssignmentAlgorithmCode        string    `gorm:"column:assignment_algorithm_code;size:40;not null;uniqueIndex:uq_assignment_algorithms_code" json:"assignment_algorithm_code"`
	AssignmentAlgorithmName        string    `gorm:"column:assignment_algorithm_name;size:120;not null" json:"assignment_algorithm_name"`
	AssignmentAlgorithmDescription *string   `gorm:"column:assignment_algorithm_description;type:text" json:"assignment_algorithm_description,omitempty"`
	AssignmentAlgorithmIsActive    bool      `gorm:"column:assignment_algorithm_is_active;not null" json:"assignment_algorithm_is_active"`
	AssignmentAlgorithmCreatedAt   time.Time `gorm:"column:assignment_algorithm_created_at;autoCreateTime" json:"assignment_algorithm_created_at"`
	AssignmentAlgorithmUpdatedAt   time.Time `gorm:"column:assignment_algorithm_updated_at;autoUpdateTime" json:"assignment_algorithm_updated_at"`
}

func (AssignmentAlgorithmModel) TableName() string { return "assignment_algorithms" }

func (m *AssignmentAlgorithmModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentAlgorithmID == uuid.Nil {
		m.AssignmentAlgorithmID = uuid.New()
	}
	return nil
}
