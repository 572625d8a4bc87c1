package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel: akun staf PMB (admin, supervisor, konsultan, finance).
type UserModel struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserName     string    `gorm:"column:user_name;size:120;not null" json:"user_name"`
	UserEmail    string    `gorm:"column:user_email;size:255;not null;uniqueIndex:uq_users_email" json:"user_email"`
	UserPhone    *string   `gorm:"column:user_phone;size:30" json:"user_phone,omitempty"`
	UserPassword string    `gorm:"column:user_password;not null" json:"-"`
	UserRole     string    `gorm:"column:user_role;size:20;not null;index:idx_users_role" json:"user_role"`
	UserIsActive bool      `gorm:"column:user_is_active;not null" json:"user_is_active"`

	// konsultan → supervisor
	UserSupervisorID *uuid.UUID `gorm:"column:user_supervisor_id;type:uuid;index" json:"user_supervisor_id,omitempty"`

	// round robin: konsultan yang paling lama tidak menerima kandidat didahulukan
	UserLastAssignedAt *time.Time `gorm:"column:user_last_assigned_at" json:"user_last_assigned_at,omitempty"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"-"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
