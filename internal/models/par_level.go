package models

import "time"

// ParLevel 餐厅对某供应商的常备订货模板
type ParLevel struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                     // 主键
	Name         string    `gorm:"not null" json:"name"`                                                     // 模板名称
	RestaurantID string    `gorm:"type:varchar(36);index:idx_par_level_pair;not null" json:"restaurant_id"` // 餐厅ID
	SupplierID   string    `gorm:"type:varchar(36);index:idx_par_level_pair;not null" json:"supplier_id"`   // 供应商ID
	CreatedAt    time.Time `json:"created_at"`                                                               // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                               // 更新时间

	Lines []ParLevelLine `gorm:"foreignKey:ParLevelID" json:"lines,omitempty"` // 模板行
}

// TableName 指定表名
func (ParLevel) TableName() string {
	return "par_levels"
}

// ParLevelLine 常备模板行
type ParLevelLine struct {
	ID            uint `gorm:"primarykey" json:"id"`                     // 主键
	ParLevelID    uint `gorm:"index;not null" json:"par_level_id"`       // 模板ID
	CatalogItemID uint `gorm:"index;not null" json:"catalog_item_id"`    // 商品ID
	Quantity      int  `gorm:"not null" json:"quantity"`                 // 数量

	CatalogItem *CatalogItem `gorm:"foreignKey:CatalogItemID" json:"catalog_item,omitempty"` // 关联商品
}

// TableName 指定表名
func (ParLevelLine) TableName() string {
	return "par_level_lines"
}
