package repository

import (
	"errors"

	"github.com/parlevel-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem, history *models.OrderHistory) error
	GetByID(id uint) (*models.Order, error)
	CountByPair(restaurantID, supplierID string) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 写入订单、订单行与首条状态历史，需在事务内调用
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem, history *models.OrderHistory) error {
	if err := r.db.Omit("Items", "History").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	if history != nil {
		history.OrderID = order.ID
		if err := r.db.Create(history).Error; err != nil {
			return err
		}
	}
	order.Items = items
	if history != nil {
		order.History = []models.OrderHistory{*history}
	}
	return nil
}

// GetByID 根据 ID 获取订单（含订单行与历史）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id asc")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_history.id asc")
		})
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// CountByPair 统计餐厅与供应商之间的订单数量
func (r *GormOrderRepository) CountByPair(restaurantID, supplierID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("restaurant_id = ? AND supplier_id = ?", restaurantID, supplierID).
		Count(&count).Error
	return count, err
}
