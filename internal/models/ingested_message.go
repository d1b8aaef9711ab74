package models

import "time"

// IngestedMessage 已处理邮件台账
type IngestedMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SupplierID string    `gorm:"type:varchar(36);uniqueIndex:idx_ingested_message;not null" json:"supplier_id"`
	MessageID  string    `gorm:"type:varchar(191);uniqueIndex:idx_ingested_message;not null" json:"message_id"`
	Outcome    string    `gorm:"type:varchar(32);not null" json:"outcome"`
	OrderID    *uint     `gorm:"index" json:"order_id,omitempty"`
	Sender     string    `json:"sender"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (IngestedMessage) TableName() string {
	return "ingested_messages"
}
