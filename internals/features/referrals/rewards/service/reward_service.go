package service

import (
	"errors"

	"pmb_backend/internals/features/referrals/rewards/dto"
	"pmb_backend/internals/features/referrals/rewards/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateKey = fiber.NewError(fiber.StatusConflict, "Konfigurasi reward untuk kombinasi ini sudah ada")

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

/* ===================== RewardConfig ===================== */

func (s *RewardService) ListConfigs(referrerType string) ([]model.RewardConfigModel, error) {
	q := s.DB.Model(&model.RewardConfigModel{})
	if referrerType != "" {
		q = q.Where("reward_config_referrer_type = ?", referrerType)
	}
	var rows []model.RewardConfigModel
	err := q.Order("reward_config_referrer_type ASC, reward_config_trigger_event ASC").Find(&rows).Error
	return rows, err
}

func (s *RewardService) CreateConfig(req dto.RewardConfigRequest) (*model.RewardConfigModel, error) {
	m := &model.RewardConfigModel{RewardConfigIsActive: true}
	req.ApplyToModel(m)
	if err := s.DB.Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (s *RewardService) UpdateConfig(id uuid.UUID, req dto.RewardConfigRequest) (*model.RewardConfigModel, error) {
	var m model.RewardConfigModel
	if err := s.DB.Where("reward_config_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&m)
	if err := s.DB.Select("*").Omit("reward_config_id", "reward_config_created_at").Updates(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *RewardService) ToggleConfig(id uuid.UUID) (*model.RewardConfigModel, error) {
	var m model.RewardConfigModel
	if err := s.DB.Where("reward_config_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.RewardConfigIsActive = !m.RewardConfigIsActive
	return &m, s.DB.Model(&m).Update("reward_config_is_active", m.RewardConfigIsActive).Error
}

/* ===================== MGM ===================== */

func (s *RewardService) ListMGM(academicYear string) ([]model.MGMRewardConfigModel, error) {
	q := s.DB.Model(&model.MGMRewardConfigModel{})
	if academicYear != "" {
		q = q.Where("mgm_reward_config_academic_year = ?", academicYear)
	}
	var rows []model.MGMRewardConfigModel
	err := q.Order("mgm_reward_config_academic_year DESC, mgm_reward_config_trigger_event ASC").Find(&rows).Error
	return rows, err
}

func (s *RewardService) CreateMGM(req dto.MGMRewardConfigRequest) (*model.MGMRewardConfigModel, error) {
	if err := req.CheckAcademicYear(); err != nil {
		return nil, err
	}
	m := &model.MGMRewardConfigModel{MGMRewardConfigIsActive: true}
	req.ApplyToModel(m)
	if err := s.DB.Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (s *RewardService) UpdateMGM(id uuid.UUID, req dto.MGMRewardConfigRequest) (*model.MGMRewardConfigModel, error) {
	if err := req.CheckAcademicYear(); err != nil {
		return nil, err
	}
	var m model.MGMRewardConfigModel
	if err := s.DB.Where("mgm_reward_config_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&m)
	if err := s.DB.Select("*").Omit("mgm_reward_config_id", "mgm_reward_config_created_at").Updates(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *RewardService) ToggleMGM(id uuid.UUID) (*model.MGMRewardConfigModel, error) {
	var m model.MGMRewardConfigModel
	if err := s.DB.Where("mgm_reward_config_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.MGMRewardConfigIsActive = !m.MGMRewardConfigIsActive
	return &m, s.DB.Model(&m).Update("mgm_reward_config_is_active", m.MGMRewardConfigIsActive).Error
}
