package models

import "time"

// Partnership 餐厅与供应商的合作关系
type Partnership struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                      // 主键
	RestaurantID string    `gorm:"type:varchar(36);index:idx_partnership_pair;not null" json:"restaurant_id"` // 餐厅ID
	SupplierID   string    `gorm:"type:varchar(36);index:idx_partnership_pair;not null" json:"supplier_id"`   // 供应商ID
	Status       string    `gorm:"index;not null" json:"status"`                                              // 合作状态
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                                // 更新时间
}

// TableName 指定表名
func (Partnership) TableName() string {
	return "partnerships"
}
