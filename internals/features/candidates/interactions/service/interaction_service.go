package service

import (
	"errors"
	"time"

	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/interactions/dto"
	"pmb_backend/internals/features/candidates/interactions/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	userModel "pmb_backend/internals/features/users/user/model"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSystemImmutable   = fiber.NewError(fiber.StatusUnprocessableEntity, "Interaksi sistem tidak bisa diberi saran")
	ErrSuggestionExists  = fiber.NewError(fiber.StatusConflict, "Interaksi ini sudah memiliki saran")
	ErrNotSuggestionUser = fiber.NewError(fiber.StatusForbidden, "Saran hanya bisa dibaca oleh konsultan yang bersangkutan")
	ErrInvalidCategory   = fiber.NewError(fiber.StatusUnprocessableEntity, "Kategori interaksi tidak valid")
)

type InteractionService struct {
	DB         *gorm.DB
	Candidates repository.CandidateRepository
	Now        func() time.Time
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{DB: db, Candidates: repository.NewCandidateRepository(), Now: time.Now}
}

// LogSystem: jejak audit otomatis (registrasi, pengalihan, perubahan status).
func LogSystem(tx *gorm.DB, candidateID uuid.UUID, consultantID *uuid.UUID, remarks string, meta map[string]any) (*model.InteractionModel, error) {
	row := &model.InteractionModel{
		InteractionCandidateID:  candidateID,
		InteractionConsultantID: consultantID,
		InteractionChannel:      model.ChannelSystem,
		InteractionRemarks:      remarks,
	}
	if len(meta) > 0 {
		b, err := sonic.Marshal(meta)
		if err != nil {
			return nil, err
		}
		row.InteractionMeta = datatypes.JSON(b)
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

/* =========================================================
   LOG
========================================================= */

type LogResult struct {
	Interaction *model.InteractionModel `json:"interaction"`
	Redirect    string                  `json:"redirect"`
	NextID      *uuid.UUID              `json:"next_candidate_id,omitempty"`
}

func (s *InteractionService) Log(v repository.Viewer, candidateID uuid.UUID, req dto.LogInteractionRequest) (*LogResult, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	followup, err := req.FollowupDate()
	if err != nil {
		return nil, err
	}

	var row *model.InteractionModel
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		cand, err := s.Candidates.FindVisible(tx, v, candidateID)
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&masterModel.InteractionCategoryModel{}).
			Where("category_id = ? AND category_is_active = ?", req.ParsedCategoryID(), true).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrInvalidCategory
		}

		catID := req.ParsedCategoryID()
		row = &model.InteractionModel{
			InteractionCandidateID:      cand.CandidateID,
			InteractionConsultantID:     &v.UserID,
			InteractionChannel:          req.Channel,
			InteractionCategoryID:       &catID,
			InteractionObstacle:         req.Obstacle,
			InteractionRemarks:          req.Remarks,
			InteractionNextFollowupDate: followup,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return tx.Model(&candidateModel.CandidateModel{}).
			Where("candidate_id = ?", cand.CandidateID).
			Updates(map[string]any{
				"candidate_last_contact_at":  s.Now(),
				"candidate_next_followup_at": followup,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	res := &LogResult{Interaction: row, Redirect: "/admin/candidates/" + candidateID.String()}
	if req.Action == dto.ActionSaveAndNext {
		next, err := s.NextInQueue(v, candidateID)
		if err != nil {
			return nil, err
		}
		if next != nil {
			res.NextID = next
			res.Redirect = "/admin/candidates/" + next.String()
		} else {
			res.Redirect = "/admin/candidates"
		}
	}
	return res, nil
}

// NextInQueue: antrian kerja konsultan. Belum pernah dihubungi dulu, lalu follow-up terdekat.
func (s *InteractionService) NextInQueue(v repository.Viewer, exclude uuid.UUID) (*uuid.UUID, error) {
	var c candidateModel.CandidateModel
	err := repository.Scope(s.DB.Model(&candidateModel.CandidateModel{}), v).
		Select("candidate_id").
		Where("candidate_id <> ? AND candidate_status IN ?", exclude, candidateModel.ActiveStatuses).
		Order("CASE WHEN candidate_last_contact_at IS NULL THEN 0 ELSE 1 END").
		Order("CASE WHEN candidate_next_followup_at IS NULL THEN 1 ELSE 0 END").
		Order("candidate_next_followup_at ASC").
		Order("candidate_created_at ASC").
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c.CandidateID, nil
}

/* =========================================================
   LIST
========================================================= */

type InteractionRow struct {
	model.InteractionModel
	ConsultantName *string                `json:"consultant_name,omitempty"`
	CategoryName   *string                `json:"category_name,omitempty"`
	Suggestion     *model.SuggestionModel `json:"suggestion,omitempty"`
}

func (s *InteractionService) List(v repository.Viewer, candidateID uuid.UUID) ([]InteractionRow, error) {
	if _, err := s.Candidates.FindVisible(s.DB, v, candidateID); err != nil {
		return nil, err
	}
	var items []model.InteractionModel
	if err := s.DB.Where("interaction_candidate_id = ?", candidateID).
		Order("interaction_created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]InteractionRow, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	userIDs := []uuid.UUID{}
	catIDs := []uuid.UUID{}
	for _, it := range items {
		ids = append(ids, it.InteractionID)
		if it.InteractionConsultantID != nil {
			userIDs = append(userIDs, *it.InteractionConsultantID)
		}
		if it.InteractionCategoryID != nil {
			catIDs = append(catIDs, *it.InteractionCategoryID)
		}
	}

	var sugs []model.SuggestionModel
	if err := s.DB.Where("suggestion_interaction_id IN ?", ids).Find(&sugs).Error; err != nil {
		return nil, err
	}
	sugBy := make(map[uuid.UUID]model.SuggestionModel, len(sugs))
	for _, sg := range sugs {
		sugBy[sg.SuggestionInteractionID] = sg
	}

	userNames := map[uuid.UUID]string{}
	if len(userIDs) > 0 {
		var users []userModel.UserModel
		if err := s.DB.Unscoped().Select("user_id", "user_name").Where("user_id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			userNames[u.UserID] = u.UserName
		}
	}
	catNames := map[uuid.UUID]string{}
	if len(catIDs) > 0 {
		var cats []masterModel.InteractionCategoryModel
		if err := s.DB.Select("category_id", "category_name").Where("category_id IN ?", catIDs).Find(&cats).Error; err != nil {
			return nil, err
		}
		for _, c := range cats {
			catNames[c.CategoryID] = c.CategoryName
		}
	}

	for _, it := range items {
		row := InteractionRow{InteractionModel: it}
		if it.InteractionConsultantID != nil {
			if n, ok := userNames[*it.InteractionConsultantID]; ok {
				row.ConsultantName = &n
			}
		}
		if it.InteractionCategoryID != nil {
			if n, ok := catNames[*it.InteractionCategoryID]; ok {
				row.CategoryName = &n
			}
		}
		if sg, ok := sugBy[it.InteractionID]; ok {
			row.Suggestion = &sg
		}
		out = append(out, row)
	}
	return out, nil
}

/* =========================================================
   SUGGESTIONS
========================================================= */

// Suggest: satu saran per interaksi; interaksi sistem tidak bisa diberi saran.
func (s *InteractionService) Suggest(v repository.Viewer, interactionID uuid.UUID, body string) (*model.SuggestionModel, error) {
	var it model.InteractionModel
	if err := s.DB.Where("interaction_id = ?", interactionID).Take(&it).Error; err != nil {
		return nil, err
	}
	if _, err := s.Candidates.FindVisible(s.DB, v, it.InteractionCandidateID); err != nil {
		return nil, err
	}
	if it.IsSystem() {
		return nil, ErrSystemImmutable
	}
	row := &model.SuggestionModel{
		SuggestionInteractionID: it.InteractionID,
		SuggestionAuthorID:      v.UserID,
		SuggestionConsultantID:  it.InteractionConsultantID,
		SuggestionBody:          body,
	}
	if err := s.DB.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSuggestionExists
		}
		return nil, err
	}
	return row, nil
}

// MarkRead: hanya konsultan pemilik interaksi. Idempoten.
func (s *InteractionService) MarkRead(userID, suggestionID uuid.UUID) (*model.SuggestionModel, error) {
	var sg model.SuggestionModel
	if err := s.DB.Where("suggestion_id = ?", suggestionID).Take(&sg).Error; err != nil {
		return nil, err
	}
	if sg.SuggestionConsultantID == nil || *sg.SuggestionConsultantID != userID {
		return nil, ErrNotSuggestionUser
	}
	if sg.SuggestionReadAt != nil {
		return &sg, nil
	}
	now := s.Now()
	if err := s.DB.Model(&sg).Update("suggestion_read_at", now).Error; err != nil {
		return nil, err
	}
	sg.SuggestionReadAt = &now
	return &sg, nil
}

func (s *InteractionService) UnreadCount(userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.Model(&model.SuggestionModel{}).
		Where("suggestion_consultant_id = ? AND suggestion_read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}
