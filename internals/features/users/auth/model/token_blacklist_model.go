package model

import (
	"time"
)

type TokenBlacklist struct {
	ID        uint      `gorm:"column:token_blacklist_id;primaryKey" json:"token_blacklist_id"`
	Token     string    `gorm:"column:token_blacklist_token;type:text;not null;uniqueIndex:uq_token_blacklist_token" json:"-"`
	ExpiredAt time.Time `gorm:"column:token_blacklist_expired_at;not null;index" json:"token_blacklist_expired_at"`
	CreatedAt time.Time `gorm:"column:token_blacklist_created_at;autoCreateTime" json:"token_blacklist_created_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
