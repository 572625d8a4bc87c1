package service

import (
	"time"

	announcementModel "pmb_backend/internals/features/announcements/model"
	"pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	billingModel "pmb_backend/internals/features/finance/billings/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortalService struct {
	DB         *gorm.DB
	Candidates repository.CandidateRepository
	Now        func() time.Time
}

func NewPortalService(db *gorm.DB) *PortalService {
	return &PortalService{DB: db, Candidates: repository.NewCandidateRepository(), Now: time.Now}
}

type DocumentSummary struct {
	Required         int  `json:"required"`
	Uploaded         int  `json:"uploaded"`
	Approved         int  `json:"approved"`
	Rejected         int  `json:"rejected"`
	RequiredComplete bool `json:"required_complete"`
}

type PortalBilling struct {
	billingModel.BillingModel
	StatusLabel string `json:"billing_status_label"`
}

type Dashboard struct {
	CandidateID      uuid.UUID                             `json:"candidate_id"`
	Name             string                                `json:"name"`
	Status           string                                `json:"status"`
	StatusLabel      string                                `json:"status_label"`
	RegistrationStep int                                   `json:"registration_step"`
	Consultant       *PersonRef                            `json:"consultant,omitempty"`
	Documents        DocumentSummary                       `json:"documents"`
	Billings         []PortalBilling                       `json:"billings"`
	Announcements    []announcementModel.AnnouncementModel `json:"announcements"`
}

// Dashboard: ringkasan portal kandidat.
func (s *PortalService) Dashboard(candidateID uuid.UUID) (*Dashboard, error) {
	c, err := s.Candidates.FindByID(s.DB, candidateID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		CandidateID:      c.CandidateID,
		Name:             c.CandidateName.String(),
		Status:           c.CandidateStatus,
		StatusLabel:      model.StatusLabel(c.CandidateStatus),
		RegistrationStep: c.CandidateRegistrationStep,
		Billings:         []PortalBilling{},
		Announcements:    []announcementModel.AnnouncementModel{},
	}
	if d.Consultant, err = personRef(s.DB, c.CandidateConsultantID); err != nil {
		return nil, err
	}
	if d.Documents, err = s.documentSummary(c.CandidateID); err != nil {
		return nil, err
	}

	var bills []billingModel.BillingModel
	if err := s.DB.Where("billing_candidate_id = ? AND billing_status IN ?", c.CandidateID,
		[]string{billingModel.BillingUnpaid, billingModel.BillingPending}).
		Order("billing_created_at ASC").Find(&bills).Error; err != nil {
		return nil, err
	}
	for _, b := range bills {
		d.Billings = append(d.Billings, PortalBilling{BillingModel: b, StatusLabel: billingModel.BillingStatusLabel(b.BillingStatus)})
	}

	now := s.Now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	if err := s.DB.Where("announcement_is_active = ? AND announcement_date < ?", true, tomorrow).
		Order("announcement_date DESC").Limit(5).Find(&d.Announcements).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *PortalService) documentSummary(candidateID uuid.UUID) (DocumentSummary, error) {
	var out DocumentSummary
	var types []documentModel.DocumentTypeModel
	if err := s.DB.Where("document_type_is_active = ?", true).Find(&types).Error; err != nil {
		return out, err
	}
	var docs []documentModel.DocumentModel
	if err := s.DB.Where("document_candidate_id = ?", candidateID).Find(&docs).Error; err != nil {
		return out, err
	}
	byType := make(map[string]string, len(docs))
	for _, d := range docs {
		byType[d.DocumentTypeCode] = d.DocumentStatus
		out.Uploaded++
		switch d.DocumentStatus {
		case documentModel.DocApproved:
			out.Approved++
		case documentModel.DocRejected:
			out.Rejected++
		}
	}
	out.RequiredComplete = true
	for _, t := range types {
		if !t.DocumentTypeIsRequired {
			continue
		}
		out.Required++
		if st := byType[t.DocumentTypeCode]; st != documentModel.DocPending && st != documentModel.DocApproved {
			out.RequiredComplete = false
		}
	}
	return out, nil
}
