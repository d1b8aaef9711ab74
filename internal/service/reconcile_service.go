package service

import (
	"context"
	"time"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/models"
)

// ReconcileInput 对账输入
type ReconcileInput struct {
	RestaurantID string
	SupplierID   string
	RawText      string
	Intent       *extractor.OrderIntent
	Source       string
	MessageID    string
	Sender       string
}

// DraftLine 已匹配的订单行
type DraftLine struct {
	Item     models.CatalogItem
	Quantity int
	Source   string
}

// OrderDraft 待落库的订单草稿
type OrderDraft struct {
	RestaurantID     string
	SupplierID       string
	Notes            string
	ExpectedDelivery *time.Time
	Source           string
	MessageID        string
	Sender           string
	Lines            []DraftLine
}

// ReportLine 匹配报告中的单行
type ReportLine struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Source        string `json:"source"`
	CatalogItemID uint   `json:"catalog_item_id,omitempty"`
	ItemName      string `json:"item_name,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// MatchReport 对账结果报告
type MatchReport struct {
	UsedParLevel bool         `json:"used_par_level"`
	Inserted     []ReportLine `json:"inserted"`
	Unmatched    []ReportLine `json:"unmatched"`
}

// ReconcileService 合并常备模板与抽取结果并匹配目录
type ReconcileService struct {
	resolver *ParLevelResolver
	matcher  *CatalogMatcher
}

// NewReconcileService 创建对账服务
func NewReconcileService(resolver *ParLevelResolver, matcher *CatalogMatcher) *ReconcileService {
	return &ReconcileService{resolver: resolver, matcher: matcher}
}

type sourcedLine struct {
	extractor.IntentLine
	source string
}

// Reconcile 生成订单草稿与匹配报告；即使没有任何行匹配也返回草稿
func (s *ReconcileService) Reconcile(ctx context.Context, input ReconcileInput) (*OrderDraft, *MatchReport, error) {
	intent := input.Intent
	if intent == nil {
		intent = &extractor.OrderIntent{}
	}
	source := input.Source
	if source == "" {
		source = constants.OrderSourceText
	}

	combined := make([]sourcedLine, 0, len(intent.Lines))
	if intent.UseParLevel {
		parLines, err := s.resolver.Resolve(ctx, input.RestaurantID, input.SupplierID)
		if err != nil {
			return nil, nil, err
		}
		for _, line := range parLines {
			combined = append(combined, sourcedLine{IntentLine: line, source: constants.LineSourceParLevel})
		}
	}
	for _, line := range intent.Lines {
		combined = append(combined, sourcedLine{IntentLine: line, source: constants.LineSourceText})
	}

	draft := &OrderDraft{
		RestaurantID:     input.RestaurantID,
		SupplierID:       input.SupplierID,
		Notes:            input.RawText,
		ExpectedDelivery: intent.ExpectedDelivery,
		Source:           source,
		MessageID:        input.MessageID,
		Sender:           input.Sender,
		Lines:            []DraftLine{},
	}
	report := &MatchReport{
		UsedParLevel: intent.UseParLevel,
		Inserted:     []ReportLine{},
		Unmatched:    []ReportLine{},
	}
	if len(combined) == 0 {
		return draft, report, nil
	}

	candidates, err := s.matcher.Candidates(ctx, input.SupplierID)
	if err != nil {
		return nil, nil, err
	}
	for _, line := range combined {
		entry := ReportLine{Name: line.Name, Quantity: line.Quantity, Source: line.source}
		if line.Quantity <= 0 {
			entry.Reason = constants.LineRejectInvalidQuantity
			report.Unmatched = append(report.Unmatched, entry)
			continue
		}
		item := FirstMatch(candidates, line.Name)
		if item == nil {
			entry.Reason = constants.LineRejectUnmatched
			report.Unmatched = append(report.Unmatched, entry)
			continue
		}
		entry.CatalogItemID = item.ID
		entry.ItemName = item.Name
		report.Inserted = append(report.Inserted, entry)
		draft.Lines = append(draft.Lines, DraftLine{Item: *item, Quantity: line.Quantity, Source: line.source})
	}

	logger.Debugw("reconcile_completed",
		"restaurant_id", input.RestaurantID,
		"supplier_id", input.SupplierID,
		"used_par_level", intent.UseParLevel,
		"inserted", len(report.Inserted),
		"unmatched", len(report.Unmatched),
	)
	return draft, report, nil
}
