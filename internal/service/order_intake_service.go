package service

import (
	"context"
	"strings"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
)

// IntentExtractor 文本意图抽取
type IntentExtractor interface {
	Extract(ctx context.Context, rawText string) (*extractor.OrderIntent, error)
}

// CreateOrderFromTextInput 文本下单请求
type CreateOrderFromTextInput struct {
	RestaurantID string
	SupplierID   string
	OrderText    string
}

// RecognizedItem 识别出的订单行，名称为目录商品名
type RecognizedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderFromTextResult 文本下单结果
type OrderFromTextResult struct {
	Order           *models.Order    `json:"-"`
	OrderID         uint             `json:"order_id"`
	OrderNo         string           `json:"order_no"`
	UsedParLevel    bool             `json:"used_par_level"`
	RecognizedItems []RecognizedItem `json:"recognized_items"`
	ExtractedItems  []RecognizedItem `json:"extracted_items"`
	FinalItems      []ReportLine     `json:"final_items"`
	UnmatchedItems  []ReportLine     `json:"unmatched_items"`
	Message         string           `json:"message"`
}

// OrderIntakeOptions 下单策略
type OrderIntakeOptions struct {
	PersistEmptyOrders bool
}

// OrderIntakeService 文本下单入口
type OrderIntakeService struct {
	partyRepo       repository.PartyRepository
	partnershipRepo repository.PartnershipRepository
	extractor       IntentExtractor
	reconciler      *ReconcileService
	assembler       *OrderAssembler
	opts            OrderIntakeOptions
}

// NewOrderIntakeService 创建下单入口服务
func NewOrderIntakeService(
	partyRepo repository.PartyRepository,
	partnershipRepo repository.PartnershipRepository,
	intentExtractor IntentExtractor,
	reconciler *ReconcileService,
	assembler *OrderAssembler,
	opts OrderIntakeOptions,
) *OrderIntakeService {
	return &OrderIntakeService{
		partyRepo:       partyRepo,
		partnershipRepo: partnershipRepo,
		extractor:       intentExtractor,
		reconciler:      reconciler,
		assembler:       assembler,
		opts:            opts,
	}
}

// CreateFromText 校验合作关系后抽取、对账并落库
func (s *OrderIntakeService) CreateFromText(ctx context.Context, input CreateOrderFromTextInput) (*OrderFromTextResult, error) {
	input.RestaurantID = strings.TrimSpace(input.RestaurantID)
	input.SupplierID = strings.TrimSpace(input.SupplierID)
	if input.RestaurantID == "" || input.SupplierID == "" || strings.TrimSpace(input.OrderText) == "" {
		return nil, ErrInvalidOrderRequest
	}
	if err := authorizePair(s.partyRepo, s.partnershipRepo, input.RestaurantID, input.SupplierID); err != nil {
		logger.Warnw("order_intake_unauthorized",
			"restaurant_id", input.RestaurantID,
			"supplier_id", input.SupplierID,
			"error", err,
		)
		return nil, err
	}

	intent, err := s.extractor.Extract(ctx, input.OrderText)
	if err != nil {
		logger.Warnw("order_intake_extract_failed",
			"restaurant_id", input.RestaurantID,
			"supplier_id", input.SupplierID,
			"error", err,
		)
		return nil, err
	}

	draft, report, err := s.reconciler.Reconcile(ctx, ReconcileInput{
		RestaurantID: input.RestaurantID,
		SupplierID:   input.SupplierID,
		RawText:      input.OrderText,
		Intent:       intent,
		Source:       constants.OrderSourceText,
	})
	if err != nil {
		return nil, err
	}
	if len(draft.Lines) == 0 && !s.opts.PersistEmptyOrders {
		return nil, ErrNoOrderLines
	}

	order, err := s.assembler.Assemble(ctx, draft)
	if err != nil {
		return nil, err
	}

	recognized := make([]RecognizedItem, 0, len(report.Inserted))
	for _, line := range report.Inserted {
		recognized = append(recognized, RecognizedItem{Name: line.ItemName, Quantity: line.Quantity})
	}
	extracted := make([]RecognizedItem, 0, len(intent.Lines))
	for _, line := range intent.Lines {
		extracted = append(extracted, RecognizedItem{Name: line.Name, Quantity: line.Quantity})
	}
	return &OrderFromTextResult{
		Order:           order,
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		UsedParLevel:    report.UsedParLevel,
		RecognizedItems: recognized,
		ExtractedItems:  extracted,
		FinalItems:      report.Inserted,
		UnmatchedItems:  report.Unmatched,
		Message:         intakeMessage(report.UsedParLevel),
	}, nil
}

func intakeMessage(usedParLevel bool) string {
	if usedParLevel {
		return "Order created from par level and parsed text"
	}
	return "Order created from parsed text"
}

// authorizePair 校验餐厅与供应商存在、均已启用且合作关系为 ACTIVE
func authorizePair(partyRepo repository.PartyRepository, partnershipRepo repository.PartnershipRepository, restaurantID, supplierID string) error {
	restaurant, err := partyRepo.GetByID(restaurantID)
	if err != nil {
		return err
	}
	supplier, err := partyRepo.GetByID(supplierID)
	if err != nil {
		return err
	}
	if restaurant == nil || supplier == nil {
		return ErrPartyNotFound
	}
	if restaurant.Kind != constants.PartyKindRestaurant || supplier.Kind != constants.PartyKindSupplier {
		return ErrPartyRoleMismatch
	}
	if !restaurant.IsActive || !supplier.IsActive {
		return ErrPartyDisabled
	}
	partnership, err := partnershipRepo.FindActive(restaurantID, supplierID)
	if err != nil {
		return err
	}
	if partnership == nil {
		return ErrPartnershipNotActive
	}
	return nil
}
