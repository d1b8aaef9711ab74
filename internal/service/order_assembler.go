package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"

	"gorm.io/gorm"
)

// OrderAssembler 订单落库，订单、订单行、历史与邮件台账在同一事务中写入
type OrderAssembler struct {
	db         *gorm.DB
	orderRepo  repository.OrderRepository
	ledgerRepo repository.IngestedMessageRepository
	now        func() time.Time
}

// NewOrderAssembler 创建订单组装器
func NewOrderAssembler(db *gorm.DB, orderRepo repository.OrderRepository, ledgerRepo repository.IngestedMessageRepository) *OrderAssembler {
	return &OrderAssembler{
		db:         db,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// Assemble 以 DRAFT / NOT_APPLICABLE 创建订单，失败时全部回滚
func (a *OrderAssembler) Assemble(ctx context.Context, draft *OrderDraft) (*models.Order, error) {
	if draft == nil || draft.RestaurantID == "" || draft.SupplierID == "" {
		return nil, ErrInvalidOrderRequest
	}
	now := a.now()
	order := &models.Order{
		OrderNo:            generateOrderNo(now),
		RestaurantID:       draft.RestaurantID,
		SupplierID:         draft.SupplierID,
		Type:               constants.OrderTypeDraft,
		Status:             constants.OrderStatusNotApplicable,
		Notes:              draft.Notes,
		Source:             draft.Source,
		SourceMessageID:    draft.MessageID,
		ExpectedDeliveryAt: draft.ExpectedDelivery,
	}
	if order.Source == "" {
		order.Source = constants.OrderSourceText
	}
	items := make([]models.OrderItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		items = append(items, models.OrderItem{
			CatalogItemID: line.Item.ID,
			ItemName:      line.Item.Name,
			Unit:          line.Item.Unit,
			UnitPrice:     line.Item.Price,
			Quantity:      line.Quantity,
			Source:        line.Source,
		})
	}
	history := &models.OrderHistory{
		Type:      order.Type,
		Status:    order.Status,
		ChangedAt: now,
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := a.orderRepo.WithTx(tx).Create(order, items, history); err != nil {
			return err
		}
		if draft.MessageID == "" {
			return nil
		}
		orderID := order.ID
		return a.ledgerRepo.WithTx(tx).Create(&models.IngestedMessage{
			SupplierID: draft.SupplierID,
			MessageID:  draft.MessageID,
			Outcome:    constants.PollOutcomeCreated,
			OrderID:    &orderID,
			Sender:     draft.Sender,
		})
	})
	if err != nil {
		logger.Errorw("order_assemble_failed",
			"restaurant_id", draft.RestaurantID,
			"supplier_id", draft.SupplierID,
			"message_id", draft.MessageID,
			"error", err,
		)
		return nil, persistenceError(err)
	}
	logger.Infow("order_assembled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"restaurant_id", order.RestaurantID,
		"supplier_id", order.SupplierID,
		"lines", len(items),
		"source", order.Source,
	)
	return order, nil
}

// RecordSkipped 记录未产生订单但已消费的邮件
func (a *OrderAssembler) RecordSkipped(ctx context.Context, supplierID, messageID, sender, outcome string) error {
	if messageID == "" {
		return nil
	}
	return a.ledgerRepo.WithTx(a.db.WithContext(ctx)).Create(&models.IngestedMessage{
		SupplierID: supplierID,
		MessageID:  messageID,
		Outcome:    outcome,
		Sender:     sender,
	})
}

func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("PO%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}
