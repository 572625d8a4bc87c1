package service

import (
	"pmb_backend/internals/features/settings/masters/dto"
	"pmb_backend/internals/features/settings/masters/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   INTERACTION CATEGORIES
========================================================= */

func (s *MasterService) ListCategories(active *bool) ([]model.InteractionCategoryModel, error) {
	q := s.DB.Model(&model.InteractionCategoryModel{})
	if active != nil {
		q = q.Where("category_is_active = ?", *active)
	}
	var rows []model.InteractionCategoryModel
	err := q.Order("category_sort_order ASC, category_name ASC").Find(&rows).Error
	return rows, err
}

// nextSort: urutan default = paling akhir.
func nextSort(tx *gorm.DB, m any, col string) (int, error) {
	var last int
	if err := tx.Model(m).Select("COALESCE(MAX(" + col + "), 0)").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (s *MasterService) CreateCategory(req dto.LookupRequest) (*model.InteractionCategoryModel, error) {
	req.Normalize()
	m := model.InteractionCategoryModel{CategoryName: req.Name, CategoryIsActive: activeOrTrue(req.IsActive)}
	if req.SortOrder != nil {
		m.CategorySortOrder = *req.SortOrder
	} else {
		n, err := nextSort(s.DB, &model.InteractionCategoryModel{}, "category_sort_order")
		if err != nil {
			return nil, err
		}
		m.CategorySortOrder = n
	}
	if err := s.DB.Create(&m).Error; err != nil {
		return nil, conflict(err, ErrNameTaken)
	}
	return &m, nil
}

func (s *MasterService) UpdateCategory(id uuid.UUID, req dto.LookupRequest) (*model.InteractionCategoryModel, error) {
	req.Normalize()
	var m model.InteractionCategoryModel
	if err := s.DB.Where("category_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.CategoryName = req.Name
	if req.SortOrder != nil {
		m.CategorySortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		m.CategoryIsActive = *req.IsActive
	}
	if err := s.DB.Select("*").Omit("category_id", "category_created_at").Updates(&m).Error; err != nil {
		return nil, conflict(err, ErrNameTaken)
	}
	return &m, nil
}

func (s *MasterService) ToggleCategory(id uuid.UUID) (*model.InteractionCategoryModel, error) {
	var m model.InteractionCategoryModel
	if err := s.DB.Where("category_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.CategoryIsActive = !m.CategoryIsActive
	if err := s.DB.Model(&m).Update("category_is_active", m.CategoryIsActive).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

/* =========================================================
   LOST REASONS
========================================================= */

func (s *MasterService) ListLostReasons(active *bool) ([]model.LostReasonModel, error) {
	q := s.DB.Model(&model.LostReasonModel{})
	if active != nil {
		q = q.Where("lost_reason_is_active = ?", *active)
	}
	var rows []model.LostReasonModel
	err := q.Order("lost_reason_sort_order ASC, lost_reason_name ASC").Find(&rows).Error
	return rows, err
}

func (s *MasterService) CreateLostReason(req dto.LookupRequest) (*model.LostReasonModel, error) {
	req.Normalize()
	m := model.LostReasonModel{LostReasonName: req.Name, LostReasonIsActive: activeOrTrue(req.IsActive)}
	if req.SortOrder != nil {
		m.LostReasonSortOrder = *req.SortOrder
	} else {
		n, err := nextSort(s.DB, &model.LostReasonModel{}, "lost_reason_sort_order")
		if err != nil {
			return nil, err
		}
		m.LostReasonSortOrder = n
	}
	if err := s.DB.Create(&m).Error; err != nil {
		return nil, conflict(err, ErrNameTaken)
	}
	return &m, nil
}

func (s *MasterService) UpdateLostReason(id uuid.UUID, req dto.LookupRequest) (*model.LostReasonModel, error) {
	req.Normalize()
	var m model.LostReasonModel
	if err := s.DB.Where("lost_reason_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.LostReasonName = req.Name
	if req.SortOrder != nil {
		m.LostReasonSortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		m.LostReasonIsActive = *req.IsActive
	}
	if err := s.DB.Select("*").Omit("lost_reason_id", "lost_reason_created_at").Updates(&m).Error; err != nil {
		return nil, conflict(err, ErrNameTaken)
	}
	return &m, nil
}

func (s *MasterService) ToggleLostReason(id uuid.UUID) (*model.LostReasonModel, error) {
	var m model.LostReasonModel
	if err := s.DB.Where("lost_reason_id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	m.LostReasonIsActive = !m.LostReasonIsActive
	if err := s.DB.Model(&m).Update("lost_reason_is_active", m.LostReasonIsActive).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func activeOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
