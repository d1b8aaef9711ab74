package constants

// 订单类型常量
const (
	OrderTypeDraft    = "DRAFT"
	OrderTypePending  = "PENDING"
	OrderTypeActive   = "ACTIVE"
	OrderTypeArchived = "ARCHIVED"
	OrderTypeDeleted  = "DELETED"
)

// 订单状态常量
const (
	OrderStatusAccepted      = "ACCEPTED"
	OrderStatusFulfilled     = "FULFILLED"
	OrderStatusDelivered     = "DELIVERED"
	OrderStatusNotApplicable = "NOT_APPLICABLE"
)

// 订单来源常量
const (
	OrderSourceText  = "text"
	OrderSourceEmail = "email"
)

// 商品状态常量
const (
	ItemStatusActive   = "ACTIVE"
	ItemStatusDraft    = "DRAFT"
	ItemStatusArchived = "ARCHIVED"
	ItemStatusDeleted  = "DELETED"
)

// 合作关系状态常量
const (
	PartnershipStatusActive  = "ACTIVE"
	PartnershipStatusDeleted = "DELETED"
)

// 主体类型常量
const (
	PartyKindSupplier   = "SUPPLIER"
	PartyKindRestaurant = "RESTAURANT"
)

// 订单行来源
const (
	LineSourceParLevel = "par_level"
	LineSourceText     = "text"
)

// 匹配报告中未入单行的原因
const (
	LineRejectUnmatched       = "unmatched"
	LineRejectInvalidQuantity = "invalid_quantity"
)

// 邮件拉取处理结果
const (
	PollOutcomeCreated             = "created"
	PollOutcomeSkippedUnauthorized = "skipped_unauthorized"
	PollOutcomeSkippedNoItems      = "skipped_no_items"
	PollOutcomeSkippedDuplicate    = "skipped_duplicate"
	PollOutcomeFailed              = "failed"
)

// 邮箱标签默认值
const (
	DefaultConsumedLabel   = "processed-by-agent"
	DefaultMailMaxResults  = 5
	DefaultExtractionModel = "gpt-3.5-turbo"
)

// 异步任务类型
const (
	TaskMailboxPoll = "mailbox:poll"
)

// 队列名称
const (
	QueueDefault = "default"
)
