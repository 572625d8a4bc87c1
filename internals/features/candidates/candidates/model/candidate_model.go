package model

import (
	"time"

	"pmb_backend/internals/helpers/fieldcrypt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM status kandidat ----------------------------------------------------
const (
	StatusRegistered  = "registered"
	StatusProspecting = "prospecting"
	StatusCommitted   = "committed"
	StatusEnrolled    = "enrolled"
	StatusLost        = "lost"
)

var statusLabels = map[string]string{
	StatusRegistered:  "Registrasi Belum Lengkap",
	StatusProspecting: "Dalam Proses",
	StatusCommitted:   "Komitmen",
	StatusEnrolled:    "Terdaftar",
	StatusLost:        "Batal",
}

func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

func IsValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// IsTerminal: enrolled dan lost tidak bisa berubah lagi.
func IsTerminal(s string) bool {
	return s == StatusEnrolled || s == StatusLost
}

// Status "aktif" untuk hitungan beban kerja konsultan.
var ActiveStatuses = []string{StatusProspecting, StatusCommitted}

// --- ENUM sumber informasi ---------------------------------------------------
const (
	SourceInstagram     = "instagram"
	SourceGoogle        = "google"
	SourceYoutube       = "youtube"
	SourceTiktok        = "tiktok"
	SourceFriendFamily  = "friend_family"
	SourceTeacherAlumni = "teacher_alumni"
	SourceReferral      = "referral"
	SourceExpo          = "expo"
)

var SourceTypes = []string{
	SourceInstagram, SourceGoogle, SourceYoutube, SourceTiktok,
	SourceFriendFamily, SourceTeacherAlumni, SourceReferral, SourceExpo,
}

// IsReferralSource: sumber yang melahirkan klaim referral untuk diverifikasi admin.
func IsReferralSource(s string) bool {
	return s == SourceFriendFamily || s == SourceTeacherAlumni || s == SourceReferral
}

// Langkah wizard registrasi
const (
	StepAccount   = 1
	StepPersonal  = 2
	StepEducation = 3
	StepSource    = 4
)

// CandidateModel: calon mahasiswa. Nama, email, dan no HP terenkripsi;
// email & no HP hanya bisa dicari exact-match lewat blind index.
type CandidateModel struct {
	CandidateID uuid.UUID `gorm:"column:candidate_id;type:uuid;primaryKey" json:"candidate_id"`

	// identitas (terenkripsi)
	CandidateName       fieldcrypt.Sealed `gorm:"column:candidate_name" json:"candidate_name"`
	CandidateEmail      fieldcrypt.Sealed `gorm:"column:candidate_email" json:"candidate_email,omitempty"`
	CandidateEmailIndex *string           `gorm:"column:candidate_email_index;size:64;uniqueIndex:uq_candidates_email_index" json:"-"`
	CandidatePhone      fieldcrypt.Sealed `gorm:"column:candidate_phone" json:"candidate_phone,omitempty"`
	CandidatePhoneIndex *string           `gorm:"column:candidate_phone_index;size:64;uniqueIndex:uq_candidates_phone_index" json:"-"`
	CandidatePassword   string            `gorm:"column:candidate_password;not null" json:"-"`

	// data pribadi
	CandidateAddress  *string `gorm:"column:candidate_address;type:text" json:"candidate_address,omitempty"`
	CandidateCity     *string `gorm:"column:candidate_city;size:100" json:"candidate_city,omitempty"`
	CandidateProvince *string `gorm:"column:candidate_province;size:100" json:"candidate_province,omitempty"`

	// pendidikan
	CandidateHighSchool     *string    `gorm:"column:candidate_high_school;size:200" json:"candidate_high_school,omitempty"`
	CandidateGraduationYear *int       `gorm:"column:candidate_graduation_year" json:"candidate_graduation_year,omitempty"`
	CandidateProgramID      *uuid.UUID `gorm:"column:candidate_program_id;type:uuid;index" json:"candidate_program_id,omitempty"`

	// sumber
	CandidateSourceType   *string    `gorm:"column:candidate_source_type;size:30;index" json:"candidate_source_type,omitempty"`
	CandidateSourceDetail *string    `gorm:"column:candidate_source_detail;type:text" json:"candidate_source_detail,omitempty"`
	CandidateCampaignID   *uuid.UUID `gorm:"column:candidate_campaign_id;type:uuid;index" json:"candidate_campaign_id,omitempty"`
	CandidateReferrerID   *uuid.UUID `gorm:"column:candidate_referrer_id;type:uuid;index" json:"candidate_referrer_id,omitempty"`

	// siklus hidup
	CandidateStatus           string     `gorm:"column:candidate_status;size:20;not null;index" json:"candidate_status"`
	CandidateRegistrationStep int        `gorm:"column:candidate_registration_step;not null" json:"candidate_registration_step"`
	CandidateAcademicYear     *string    `gorm:"column:candidate_academic_year;size:9;index" json:"candidate_academic_year,omitempty"`
	CandidateLostReasonID     *uuid.UUID `gorm:"column:candidate_lost_reason_id;type:uuid" json:"candidate_lost_reason_id,omitempty"`
	CandidateLostNote         *string    `gorm:"column:candidate_lost_note;type:text" json:"candidate_lost_note,omitempty"`

	// penugasan
	CandidateConsultantID *uuid.UUID `gorm:"column:candidate_consultant_id;type:uuid;index" json:"candidate_consultant_id,omitempty"`
	CandidateSupervisorID *uuid.UUID `gorm:"column:candidate_supervisor_id;type:uuid;index" json:"candidate_supervisor_id,omitempty"`
	CandidateAssignedAt   *time.Time `gorm:"column:candidate_assigned_at" json:"candidate_assigned_at,omitempty"`

	// follow-up
	CandidateLastContactAt  *time.Time `gorm:"column:candidate_last_contact_at" json:"candidate_last_contact_at,omitempty"`
	CandidateNextFollowupAt *time.Time `gorm:"column:candidate_next_followup_at;type:date;index" json:"candidate_next_followup_at,omitempty"`

	// milestone
	CandidateRegisteredAt *time.Time `gorm:"column:candidate_registered_at" json:"candidate_registered_at,omitempty"`
	CandidateCommittedAt  *time.Time `gorm:"column:candidate_committed_at" json:"candidate_committed_at,omitempty"`
	CandidateEnrolledAt   *time.Time `gorm:"column:candidate_enrolled_at" json:"candidate_enrolled_at,omitempty"`
	CandidateLostAt       *time.Time `gorm:"column:candidate_lost_at" json:"candidate_lost_at,omitempty"`

	CandidateCreatedAt time.Time      `gorm:"column:candidate_created_at;autoCreateTime" json:"candidate_created_at"`
	CandidateUpdatedAt time.Time      `gorm:"column:candidate_updated_at;autoUpdateTime" json:"candidate_updated_at"`
	CandidateDeletedAt gorm.DeletedAt `gorm:"column:candidate_deleted_at;index" json:"-"`
}

func (CandidateModel) TableName() string {
	return "candidates"
}

func (m *CandidateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CandidateID == uuid.Nil {
		m.CandidateID = uuid.New()
	}
	if m.CandidateStatus == "" {
		m.CandidateStatus = StatusRegistered
	}
	return nil
}
