package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 采购订单表
type Order struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo            string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	RestaurantID       string         `gorm:"type:varchar(36);index;not null" json:"restaurant_id"`       // 餐厅ID
	SupplierID         string         `gorm:"type:varchar(36);index;not null" json:"supplier_id"`         // 供应商ID
	Type               string         `gorm:"index;not null" json:"type"`                                 // 订单类型
	Status             string         `gorm:"index;not null" json:"status"`                               // 订单状态
	Notes              string         `gorm:"type:text" json:"notes"`                                     // 原始下单文本
	Source             string         `gorm:"type:varchar(20);not null" json:"source"`                    // 来源渠道
	SourceMessageID    string         `gorm:"type:varchar(191);index" json:"source_message_id,omitempty"` // 来源邮件ID
	Cancelled          bool           `gorm:"not null;default:false" json:"cancelled"`                    // 是否取消
	Disputed           bool           `gorm:"not null;default:false" json:"disputed"`                     // 是否争议
	ExpectedDeliveryAt *time.Time     `gorm:"index" json:"expected_delivery_at"`                          // 期望送达时间
	FinalDeliveryAt    *time.Time     `json:"final_delivery_at"`                                          // 实际送达时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Items   []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单行
	History []OrderHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"` // 状态历史
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
