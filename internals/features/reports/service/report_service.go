// Package service: laporan read-only (funnel, kampanye, konsultan, referrer).
// Semua angka dihitung langsung dari tabel transaksi, tidak ada tabel agregat.
package service

import (
	"math"
	"strings"

	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	interactionModel "pmb_backend/internals/features/candidates/interactions/model"
	billingModel "pmb_backend/internals/features/finance/billings/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	userModel "pmb_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type Filter struct {
	CampaignID   *uuid.UUID
	ProgramID    *uuid.UUID
	AcademicYear string
}

func (s *ReportService) candidates(v repository.Viewer, f Filter) *gorm.DB {
	q := repository.Scope(s.DB.Model(&candidateModel.CandidateModel{}), v)
	if f.CampaignID != nil {
		q = q.Where("candidates.candidate_campaign_id = ?", *f.CampaignID)
	}
	if f.ProgramID != nil {
		q = q.Where("candidates.candidate_program_id = ?", *f.ProgramID)
	}
	if y := strings.TrimSpace(f.AcademicYear); y != "" {
		q = q.Where("candidates.candidate_academic_year = ?", y)
	}
	return q
}

// percent: dibulatkan satu desimal; pembagi nol → 0.
func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(whole)) / 10
}

/* =========================================================
   FUNNEL
========================================================= */

type Stage struct {
	Status  string  `json:"status"`
	Label   string  `json:"label"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type Funnel struct {
	Total          int64   `json:"total"`
	Stages         []Stage `json:"stages"`
	ConversionRate float64 `json:"conversion_rate"` // enrolled / total
}

var funnelOrder = []string{
	candidateModel.StatusRegistered,
	candidateModel.StatusProspecting,
	candidateModel.StatusCommitted,
	candidateModel.StatusEnrolled,
	candidateModel.StatusLost,
}

func (s *ReportService) Funnel(v repository.Viewer, f Filter) (*Funnel, error) {
	var rows []struct {
		Status string
		N      int64
	}
	if err := s.candidates(v, f).
		Select("candidates.candidate_status AS status, COUNT(*) AS n").
		Group("candidates.candidate_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	out := &Funnel{Stages: make([]Stage, 0, len(funnelOrder))}
	for _, r := range rows {
		counts[r.Status] = r.N
		out.Total += r.N
	}
	for _, st := range funnelOrder {
		out.Stages = append(out.Stages, Stage{
			Status:  st,
			Label:   candidateModel.StatusLabel(st),
			Count:   counts[st],
			Percent: percent(counts[st], out.Total),
		})
	}
	out.ConversionRate = percent(counts[candidateModel.StatusEnrolled], out.Total)
	return out, nil
}

/* =========================================================
   CAMPAIGNS (ROI)
========================================================= */

type CampaignRow struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	CampaignType string    `json:"campaign_type"`
	Candidates   int64     `json:"candidates"`
	Committed    int64     `json:"committed"`
	Enrolled     int64     `json:"enrolled"`
	Revenue      int64     `json:"revenue"`
	Budget       int64     `json:"budget"`
	ROI          *float64  `json:"roi,omitempty"` // (revenue - budget) / budget × 100
}

// statusTally: jumlah kandidat per status (committed = sudah komit atau sudah daftar ulang).
const statusTally = `COUNT(*) AS candidates,
	SUM(CASE WHEN candidates.candidate_status IN ('committed','enrolled') THEN 1 ELSE 0 END) AS committed,
	SUM(CASE WHEN candidates.candidate_status = 'enrolled' THEN 1 ELSE 0 END) AS enrolled`

func (s *ReportService) Campaigns(v repository.Viewer, f Filter) ([]CampaignRow, error) {
	var camps []masterModel.CampaignModel
	q := s.DB.Order("campaign_name ASC")
	if f.CampaignID != nil {
		q = q.Where("campaign_id = ?", *f.CampaignID)
	}
	if err := q.Find(&camps).Error; err != nil {
		return nil, err
	}

	type tally struct {
		CampaignID uuid.UUID
		Candidates int64
		Committed  int64
		Enrolled   int64
	}
	var tallies []tally
	if err := s.candidates(v, f).
		Select("candidates.candidate_campaign_id AS campaign_id, " + statusTally).
		Where("candidates.candidate_campaign_id IS NOT NULL").
		Group("candidates.candidate_campaign_id").
		Scan(&tallies).Error; err != nil {
		return nil, err
	}
	byCampaign := map[uuid.UUID]tally{}
	for _, t := range tallies {
		byCampaign[t.CampaignID] = t
	}

	var revenues []struct {
		CampaignID uuid.UUID
		Revenue    int64
	}
	if err := s.candidates(v, f).
		Select("candidates.candidate_campaign_id AS campaign_id, COALESCE(SUM(billings.billing_amount), 0) AS revenue").
		Joins("JOIN billings ON billings.billing_candidate_id = candidates.candidate_id").
		Where("candidates.candidate_campaign_id IS NOT NULL").
		Where("billings.billing_type = ? AND billings.billing_status = ?", billingModel.TypeRegistration, billingModel.BillingPaid).
		Group("candidates.candidate_campaign_id").
		Scan(&revenues).Error; err != nil {
		return nil, err
	}
	revenue := map[uuid.UUID]int64{}
	for _, r := range revenues {
		revenue[r.CampaignID] = r.Revenue
	}

	out := make([]CampaignRow, 0, len(camps))
	for _, c := range camps {
		t := byCampaign[c.CampaignID]
		row := CampaignRow{
			CampaignID:   c.CampaignID,
			CampaignName: c.CampaignName,
			CampaignType: c.CampaignType,
			Candidates:   t.Candidates,
			Committed:    t.Committed,
			Enrolled:     t.Enrolled,
			Revenue:      revenue[c.CampaignID],
			Budget:       c.CampaignBudget,
		}
		if c.CampaignBudget > 0 {
			roi := percent(row.Revenue-row.Budget, row.Budget)
			row.ROI = &roi
		}
		out = append(out, row)
	}
	return out, nil
}

/* =========================================================
   CONSULTANTS
========================================================= */

type ConsultantRow struct {
	UserID         uuid.UUID `json:"user_id"`
	UserName       string    `json:"user_name"`
	IsActive       bool      `json:"is_active"`
	Assigned       int64     `json:"assigned"`
	Active         int64     `json:"active"`
	Committed      int64     `json:"committed"`
	Enrolled       int64     `json:"enrolled"`
	Interactions   int64     `json:"interactions"`
	ConversionRate float64   `json:"conversion_rate"` // enrolled / assigned
}

func (s *ReportService) Consultants(v repository.Viewer, f Filter) ([]ConsultantRow, error) {
	uq := s.DB.Where("user_role = ?", constants.RoleConsultant)
	switch v.Role {
	case constants.RoleSupervisor:
		uq = uq.Where("user_supervisor_id = ?", v.UserID)
	case constants.RoleConsultant:
		uq = uq.Where("user_id = ?", v.UserID)
	}
	var users []userModel.UserModel
	if err := uq.Order("user_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []ConsultantRow{}, nil
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}

	type tally struct {
		ConsultantID uuid.UUID
		Candidates   int64
		Active       int64
		Committed    int64
		Enrolled     int64
	}
	var tallies []tally
	if err := s.candidates(v, f).
		Select("candidates.candidate_consultant_id AS consultant_id, "+statusTally+`,
			SUM(CASE WHEN candidates.candidate_status IN ? THEN 1 ELSE 0 END) AS active`, candidateModel.ActiveStatuses).
		Where("candidates.candidate_consultant_id IN ?", ids).
		Group("candidates.candidate_consultant_id").
		Scan(&tallies).Error; err != nil {
		return nil, err
	}
	byUser := map[uuid.UUID]tally{}
	for _, t := range tallies {
		byUser[t.ConsultantID] = t
	}

	var interactions []struct {
		ConsultantID uuid.UUID
		N            int64
	}
	if err := s.DB.Model(&interactionModel.InteractionModel{}).
		Select("interaction_consultant_id AS consultant_id, COUNT(*) AS n").
		Where("interaction_consultant_id IN ? AND interaction_channel <> ?", ids, interactionModel.ChannelSystem).
		Group("interaction_consultant_id").
		Scan(&interactions).Error; err != nil {
		return nil, err
	}
	logged := map[uuid.UUID]int64{}
	for _, i := range interactions {
		logged[i.ConsultantID] = i.N
	}

	out := make([]ConsultantRow, 0, len(users))
	for _, u := range users {
		t := byUser[u.UserID]
		out = append(out, ConsultantRow{
			UserID:         u.UserID,
			UserName:       u.UserName,
			IsActive:       u.UserIsActive,
			Assigned:       t.Candidates,
			Active:         t.Active,
			Committed:      t.Committed,
			Enrolled:       t.Enrolled,
			Interactions:   logged[u.UserID],
			ConversionRate: percent(t.Enrolled, t.Candidates),
		})
	}
	return out, nil
}

/* =========================================================
   REFERRERS
========================================================= */

type ReferrerRow struct {
	ReferrerID   uuid.UUID `json:"referrer_id"`
	ReferrerName string    `json:"referrer_name"`
	ReferrerType string    `json:"referrer_type"`
	Candidates   int64     `json:"candidates"`
	Enrolled     int64     `json:"enrolled"`
	Pending      int64     `json:"commission_pending"`
	Approved     int64     `json:"commission_approved"`
	Paid         int64     `json:"commission_paid"`
	Total        int64     `json:"commission_total"`
}

// Referrers: hanya referrer yang punya kandidat atau komisi.
func (s *ReportService) Referrers(v repository.Viewer, f Filter) ([]ReferrerRow, error) {
	type tally struct {
		ReferrerID uuid.UUID
		Candidates int64
		Committed  int64
		Enrolled   int64
	}
	var tallies []tally
	if err := s.candidates(v, f).
		Select("candidates.candidate_referrer_id AS referrer_id, " + statusTally).
		Where("candidates.candidate_referrer_id IS NOT NULL").
		Group("candidates.candidate_referrer_id").
		Scan(&tallies).Error; err != nil {
		return nil, err
	}

	var sums []struct {
		ReferrerID uuid.UUID
		Status     string
		Amount     int64
	}
	if err := s.DB.Model(&commissionModel.CommissionModel{}).
		Select("commission_referrer_id AS referrer_id, commission_status AS status, SUM(commission_amount) AS amount").
		Group("commission_referrer_id, commission_status").
		Scan(&sums).Error; err != nil {
		return nil, err
	}

	rows := map[uuid.UUID]*ReferrerRow{}
	get := func(id uuid.UUID) *ReferrerRow {
		r, ok := rows[id]
		if !ok {
			r = &ReferrerRow{ReferrerID: id}
			rows[id] = r
		}
		return r
	}
	for _, t := range tallies {
		r := get(t.ReferrerID)
		r.Candidates, r.Enrolled = t.Candidates, t.Enrolled
	}
	for _, sm := range sums {
		r := get(sm.ReferrerID)
		switch sm.Status {
		case commissionModel.CommissionPending:
			r.Pending = sm.Amount
		case commissionModel.CommissionApproved:
			r.Approved = sm.Amount
		case commissionModel.CommissionPaid:
			r.Paid = sm.Amount
		}
		r.Total += sm.Amount
	}
	if len(rows) == 0 {
		return []ReferrerRow{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	var refs []referrerModel.ReferrerModel
	if err := s.DB.Unscoped().Where("referrer_id IN ?", ids).Order("referrer_name ASC").Find(&refs).Error; err != nil {
		return nil, err
	}
	out := make([]ReferrerRow, 0, len(refs))
	for _, ref := range refs {
		r := rows[ref.ReferrerID]
		r.ReferrerName, r.ReferrerType = ref.ReferrerName, ref.ReferrerType
		out = append(out, *r)
	}
	return out, nil
}
