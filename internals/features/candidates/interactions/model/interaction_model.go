package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- ENUM channel ------------------------------------------------------------
const (
	ChannelCall        = "call"
	ChannelWhatsapp    = "whatsapp"
	ChannelEmail       = "email"
	ChannelCampusVisit = "campus_visit"
	ChannelHomeVisit   = "home_visit"
	ChannelSystem      = "system"
)

// Channel yang boleh dipilih konsultan (system hanya dari aplikasi).
var ManualChannels = []string{ChannelCall, ChannelWhatsapp, ChannelEmail, ChannelCampusVisit, ChannelHomeVisit}

// InteractionModel: log kontak konsultan dengan kandidat. Entri channel system adalah
// jejak audit otomatis (registrasi, pengalihan, perubahan status) dan tidak bisa diubah.
type InteractionModel struct {
	InteractionID               uuid.UUID      `gorm:"column:interaction_id;type:uuid;primaryKey" json:"interaction_id"`
	InteractionCandidateID      uuid.UUID      `gorm:"column:interaction_candidate_id;type:uuid;not null;index" json:"interaction_candidate_id"`
	InteractionConsultantID     *uuid.UUID     `gorm:"column:interaction_consultant_id;type:uuid;index" json:"interaction_consultant_id,omitempty"`
	InteractionChannel          string         `gorm:"column:interaction_channel;size:20;not null" json:"interaction_channel"`
	InteractionCategoryID       *uuid.UUID     `gorm:"column:interaction_category_id;type:uuid" json:"interaction_category_id,omitempty"`
	InteractionObstacle         *string        `gorm:"column:interaction_obstacle;type:text" json:"interaction_obstacle,omitempty"`
	InteractionRemarks          string         `gorm:"column:interaction_remarks;type:text;not null" json:"interaction_remarks"`
	InteractionNextFollowupDate *time.Time     `gorm:"column:interaction_next_followup_date;type:date" json:"interaction_next_followup_date,omitempty"`
	InteractionMeta             datatypes.JSON `gorm:"column:interaction_meta" json:"interaction_meta,omitempty"`
	InteractionCreatedAt        time.Time      `gorm:"column:interaction_created_at;autoCreateTime;index" json:"interaction_created_at"`
}

func (InteractionModel) TableName() string { return "interactions" }

func (m *InteractionModel) BeforeCreate(tx *gorm.DB) error {
	if m.InteractionID == uuid.Nil {
		m.InteractionID = uuid.New()
	}
	return nil
}

func (m *InteractionModel) IsSystem() bool { return m.InteractionChannel == ChannelSystem }

// SuggestionModel: saran supervisor atas satu interaksi (maksimal satu per interaksi).
type SuggestionModel struct {
	SuggestionID            uuid.UUID  `gorm:"column:suggestion_id;type:uuid;primaryKey" json:"suggestion_id"`
	SuggestionInteractionID uuid.UUID  `gorm:"column:suggestion_interaction_id;type:uuid;not null;uniqueIndex:uq_suggestions_interaction" json:"suggestion_interaction_id"`
	SuggestionAuthorID      uuid.UUID  `gorm:"column:suggestion_author_id;type:uuid;not null" json:"suggestion_author_id"`
	SuggestionConsultantID  *uuid.UUID `gorm:"column:suggestion_consultant_id;type:uuid;index" json:"suggestion_consultant_id,omitempty"`
	SuggestionBody          string     `gorm:"column:suggestion_body;type:text;not null" json:"suggestion_body"`
	SuggestionReadAt        *time.Time `gorm:"column:suggestion_read_at" json:"suggestion_read_at,omitempty"`
	SuggestionCreatedAt     time.Time  `gorm:"column:suggestion_created_at;autoCreateTime" json:"suggestion_created_at"`
}

func (SuggestionModel) TableName() string { return "interaction_suggestions" }

func (m *SuggestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SuggestionID == uuid.Nil {
		m.SuggestionID = uuid.New()
	}
	return nil
}
