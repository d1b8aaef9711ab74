package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Party 交易主体（供应商 / 餐厅）
type Party struct {
	ID               string         `gorm:"primarykey;type:varchar(36)" json:"id"`  // 主键（UUID）
	Kind             string         `gorm:"index;not null" json:"kind"`             // 主体类型
	BusinessName     string         `gorm:"not null" json:"business_name"`          // 商户名称
	ContactName      string         `json:"contact_name"`                           // 联系人
	Email            string         `gorm:"uniqueIndex;not null" json:"email"`      // 邮箱（小写）
	Phone            string         `json:"phone,omitempty"`                        // 电话
	Address          string         `json:"address,omitempty"`                      // 地址
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	MailAccessToken  string         `gorm:"type:text" json:"-"`                     // 邮箱访问令牌
	MailRefreshToken string         `gorm:"type:text" json:"-"`                     // 邮箱刷新令牌
	MailTokenExpiry  *time.Time     `json:"-"`                                      // 访问令牌过期时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Party) TableName() string {
	return "parties"
}

// BeforeCreate 生成主键并规范化邮箱
func (p *Party) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	return nil
}

// HasMailbox 是否已授权邮箱
func (p *Party) HasMailbox() bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.MailAccessToken) != "" || strings.TrimSpace(p.MailRefreshToken) != ""
}
