package models

import (
	"time"

	"gorm.io/gorm"
)

// CatalogItem 供应商商品目录
type CatalogItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键（决定匹配顺序）
	SupplierID  string         `gorm:"type:varchar(36);index;not null" json:"supplier_id"` // 供应商ID
	SKU         string         `gorm:"index" json:"sku"`                                   // SKU
	Name        string         `gorm:"not null" json:"name"`                               // 商品名称
	Unit        string         `json:"unit"`                                               // 计量单位
	Price       Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"` // 单价
	Description string         `gorm:"type:text" json:"description,omitempty"`             // 描述
	Status      string         `gorm:"index;not null" json:"status"`                       // 商品状态
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (CatalogItem) TableName() string {
	return "catalog_items"
}
