package models

import "time"

// OrderItem 订单行
type OrderItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                        // 主键
	OrderID       uint      `gorm:"index;not null" json:"order_id"`                              // 订单ID
	CatalogItemID uint      `gorm:"index;not null" json:"catalog_item_id"`                       // 商品ID
	ItemName      string    `gorm:"not null" json:"item_name"`                                   // 商品名称快照
	Unit          string    `json:"unit"`                                                        // 单位快照
	UnitPrice     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`     // 单价快照
	Quantity      int       `gorm:"not null" json:"quantity"`                                    // 数量
	Source        string    `gorm:"type:varchar(20)" json:"source"`                              // 行来源（par_level / text）
	CreatedAt     time.Time `json:"created_at"`                                                  // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderHistory 订单状态历史（只追加）
type OrderHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`           // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"` // 订单ID
	Type      string    `gorm:"not null" json:"type"`           // 订单类型
	Status    string    `gorm:"not null" json:"status"`         // 订单状态
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`     // 变更时间
}

// TableName 指定表名
func (OrderHistory) TableName() string {
	return "order_history"
}
