package repository

import (
	"errors"
	"strings"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository 商品目录数据访问接口
type CatalogRepository interface {
	Create(item *models.CatalogItem) error
	GetByID(id uint) (*models.CatalogItem, error)
	ListBySupplier(supplierID string, onlyActive bool) ([]models.CatalogItem, error)
	SearchByName(filter CatalogSearchFilter) ([]models.CatalogItem, error)
}

// CatalogSearchFilter 目录搜索条件
type CatalogSearchFilter struct {
	SupplierID string
	Keyword    string
	OnlyActive bool
	Limit      int
}

// GormCatalogRepository GORM 实现
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录仓库
func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Create 创建商品
func (r *GormCatalogRepository) Create(item *models.CatalogItem) error {
	return r.db.Create(item).Error
}

// GetByID 根据 ID 获取商品
func (r *GormCatalogRepository) GetByID(id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListBySupplier 按主键顺序列出供应商目录
func (r *GormCatalogRepository) ListBySupplier(supplierID string, onlyActive bool) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if strings.TrimSpace(supplierID) == "" {
		return items, nil
	}
	query := r.db.Model(&models.CatalogItem{}).Where("supplier_id = ?", supplierID)
	if onlyActive {
		query = query.Where("status = ?", constants.ItemStatusActive)
	}
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchByName 按名称包含关系搜索供应商目录
func (r *GormCatalogRepository) SearchByName(filter CatalogSearchFilter) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if strings.TrimSpace(filter.SupplierID) == "" {
		return items, nil
	}
	query := r.db.Model(&models.CatalogItem{}).Where("supplier_id = ?", filter.SupplierID)
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where(containsCondition(r.db, "name"), containsPattern(keyword))
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.ItemStatusActive)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
