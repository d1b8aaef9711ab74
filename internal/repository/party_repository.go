package repository

import (
	"errors"
	"strings"

	"github.com/parlevel-next/internal/models"

	"gorm.io/gorm"
)

// PartyRepository 交易主体数据访问接口
type PartyRepository interface {
	Create(party *models.Party) error
	GetByID(id string) (*models.Party, error)
	GetByEmail(email string) (*models.Party, error)
	ListWithMailbox(kind string) ([]models.Party, error)
	UpdateMailTokens(id string, updates map[string]interface{}) error
}

// GormPartyRepository GORM 实现
type GormPartyRepository struct {
	db *gorm.DB
}

// NewPartyRepository 创建主体仓库
func NewPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPartyRepository) WithTx(tx *gorm.DB) *GormPartyRepository {
	if tx == nil {
		return r
	}
	return &GormPartyRepository{db: tx}
}

// Create 创建主体
func (r *GormPartyRepository) Create(party *models.Party) error {
	return r.db.Create(party).Error
}

// GetByID 根据 ID 获取主体
func (r *GormPartyRepository) GetByID(id string) (*models.Party, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var party models.Party
	if err := r.db.Where("id = ?", id).First(&party).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

// GetByEmail 根据邮箱获取主体（不区分大小写）
func (r *GormPartyRepository) GetByEmail(email string) (*models.Party, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	var party models.Party
	if err := r.db.Where("email = ?", normalized).First(&party).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

// ListWithMailbox 列出已授权邮箱的启用主体
func (r *GormPartyRepository) ListWithMailbox(kind string) ([]models.Party, error) {
	var parties []models.Party
	query := r.db.Model(&models.Party{}).
		Where("is_active = ?", true).
		Where("(mail_access_token <> '' OR mail_refresh_token <> '')")
	if strings.TrimSpace(kind) != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Order("created_at asc").Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// UpdateMailTokens 更新邮箱授权信息
func (r *GormPartyRepository) UpdateMailTokens(id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Party{}).Where("id = ?", id).Updates(updates).Error
}
