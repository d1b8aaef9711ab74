package repository

import (
	"errors"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/models"

	"gorm.io/gorm"
)

// PartnershipRepository 合作关系数据访问接口
type PartnershipRepository interface {
	Create(partnership *models.Partnership) error
	FindActive(restaurantID, supplierID string) (*models.Partnership, error)
}

// GormPartnershipRepository GORM 实现
type GormPartnershipRepository struct {
	db *gorm.DB
}

// NewPartnershipRepository 创建合作关系仓库
func NewPartnershipRepository(db *gorm.DB) *GormPartnershipRepository {
	return &GormPartnershipRepository{db: db}
}

// Create 创建合作关系
func (r *GormPartnershipRepository) Create(partnership *models.Partnership) error {
	return r.db.Create(partnership).Error
}

// FindActive 查询首个 ACTIVE 合作关系，不存在时返回 nil
func (r *GormPartnershipRepository) FindActive(restaurantID, supplierID string) (*models.Partnership, error) {
	if restaurantID == "" || supplierID == "" {
		return nil, nil
	}
	var partnership models.Partnership
	err := r.db.
		Where("restaurant_id = ? AND supplier_id = ? AND status = ?", restaurantID, supplierID, constants.PartnershipStatusActive).
		Order("id asc").
		First(&partnership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partnership, nil
}
