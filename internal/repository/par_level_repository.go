package repository

import (
	"errors"

	"github.com/parlevel-next/internal/models"

	"gorm.io/gorm"
)

// ParLevelRepository 常备模板数据访问接口
type ParLevelRepository interface {
	Create(parLevel *models.ParLevel, lines []models.ParLevelLine) error
	FindFirstByPair(restaurantID, supplierID string) (*models.ParLevel, error)
}

// GormParLevelRepository GORM 实现
type GormParLevelRepository struct {
	db *gorm.DB
}

// NewParLevelRepository 创建常备模板仓库
func NewParLevelRepository(db *gorm.DB) *GormParLevelRepository {
	return &GormParLevelRepository{db: db}
}

// Create 创建模板及模板行
func (r *GormParLevelRepository) Create(parLevel *models.ParLevel, lines []models.ParLevelLine) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(parLevel).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ParLevelID = parLevel.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindFirstByPair 获取餐厅与供应商之间主键最小的模板，行按主键排序并预加载商品
func (r *GormParLevelRepository) FindFirstByPair(restaurantID, supplierID string) (*models.ParLevel, error) {
	var parLevel models.ParLevel
	err := r.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("par_level_lines.id asc")
		}).
		Preload("Lines.CatalogItem").
		Where("restaurant_id = ? AND supplier_id = ?", restaurantID, supplierID).
		Order("id asc").
		First(&parLevel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &parLevel, nil
}
