package repository

import (
	"errors"

	"github.com/parlevel-next/internal/models"

	"gorm.io/gorm"
)

// IngestedMessageRepository 已处理邮件台账访问接口
type IngestedMessageRepository interface {
	Create(record *models.IngestedMessage) error
	Find(supplierID, messageID string) (*models.IngestedMessage, error)
	WithTx(tx *gorm.DB) *GormIngestedMessageRepository
}

// GormIngestedMessageRepository GORM 实现
type GormIngestedMessageRepository struct {
	db *gorm.DB
}

// NewIngestedMessageRepository 创建台账仓库
func NewIngestedMessageRepository(db *gorm.DB) *GormIngestedMessageRepository {
	return &GormIngestedMessageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormIngestedMessageRepository) WithTx(tx *gorm.DB) *GormIngestedMessageRepository {
	if tx == nil {
		return r
	}
	return &GormIngestedMessageRepository{db: tx}
}

// Create 写入台账
func (r *GormIngestedMessageRepository) Create(record *models.IngestedMessage) error {
	return r.db.Create(record).Error
}

// Find 查询台账，不存在时返回 nil
func (r *GormIngestedMessageRepository) Find(supplierID, messageID string) (*models.IngestedMessage, error) {
	var record models.IngestedMessage
	err := r.db.Where("supplier_id = ? AND message_id = ?", supplierID, messageID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
