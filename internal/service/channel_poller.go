package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/parlevel-next/internal/cache"
	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/mailbox"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
)

// PollOutcome 单封邮件的处理结果
type PollOutcome struct {
	MessageID string `json:"message_id"`
	From      string `json:"from,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
	Outcome   string `json:"outcome"`
	OrderID   *uint  `json:"order_id,omitempty"`
	OrderNo   string `json:"order_no,omitempty"`
	Error     string `json:"error,omitempty"`
	MarkError string `json:"mark_error,omitempty"`
}

// OrderCreated 是否生成了订单
func (o PollOutcome) OrderCreated() bool {
	return o.Outcome == constants.PollOutcomeCreated
}

// PollReport 单次拉取汇总
type PollReport struct {
	SupplierID string        `json:"supplier_id"`
	Label      string        `json:"label"`
	Listed     int           `json:"listed"`
	Outcomes   []PollOutcome `json:"outcomes"`
}

// Count 统计某类结果数量
func (r *PollReport) Count(outcome string) int {
	count := 0
	for _, item := range r.Outcomes {
		if item.Outcome == outcome {
			count++
		}
	}
	return count
}

// MessagePreview 邮件预览
type MessagePreview struct {
	MessageID  string    `json:"message_id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	ReceivedAt time.Time `json:"received_at"`
}

// ChannelPollerOptions 拉取参数
type ChannelPollerOptions struct {
	LabelName  string
	MaxResults int
	LockTTL    time.Duration
}

// ChannelPoller 邮箱下单拉取
type ChannelPoller struct {
	partyRepo       repository.PartyRepository
	partnershipRepo repository.PartnershipRepository
	ledgerRepo      repository.IngestedMessageRepository
	factory         mailbox.Factory
	extractor       IntentExtractor
	reconciler      *ReconcileService
	assembler       *OrderAssembler
	opts            ChannelPollerOptions
}

// NewChannelPoller 创建邮箱拉取服务
func NewChannelPoller(
	partyRepo repository.PartyRepository,
	partnershipRepo repository.PartnershipRepository,
	ledgerRepo repository.IngestedMessageRepository,
	factory mailbox.Factory,
	intentExtractor IntentExtractor,
	reconciler *ReconcileService,
	assembler *OrderAssembler,
	opts ChannelPollerOptions,
) *ChannelPoller {
	if strings.TrimSpace(opts.LabelName) == "" {
		opts.LabelName = constants.DefaultConsumedLabel
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = constants.DefaultMailMaxResults
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &ChannelPoller{
		partyRepo:       partyRepo,
		partnershipRepo: partnershipRepo,
		ledgerRepo:      ledgerRepo,
		factory:         factory,
		extractor:       intentExtractor,
		reconciler:      reconciler,
		assembler:       assembler,
		opts:            opts,
	}
}

// Poll 处理供应商邮箱中的未消费邮件；单封失败不影响整批
func (p *ChannelPoller) Poll(ctx context.Context, supplierID string) (*PollReport, error) {
	supplier, err := p.loadOwner(supplierID)
	if err != nil {
		return nil, err
	}

	release, err := cache.AcquirePollLock(ctx, supplier.ID, p.opts.LockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return nil, ErrPollInProgress
		}
		// 锁不可用时继续执行，标签与台账仍保证幂等
		logger.Warnw("channel_poll_lock_unavailable", "supplier_id", supplier.ID, "error", err)
		release = func() {}
	}
	defer release()

	provider, err := p.factory.ForParty(ctx, supplier)
	if err != nil {
		return nil, err
	}
	labelID, err := p.ensureLabel(ctx, provider, supplier.ID)
	if err != nil {
		return nil, err
	}
	stubs, err := provider.ListUnconsumed(ctx, p.opts.MaxResults, p.opts.LabelName)
	if err != nil {
		return nil, err
	}

	report := &PollReport{
		SupplierID: supplier.ID,
		Label:      p.opts.LabelName,
		Listed:     len(stubs),
		Outcomes:   make([]PollOutcome, 0, len(stubs)),
	}
	for _, stub := range stubs {
		if err := ctx.Err(); err != nil {
			report.Outcomes = append(report.Outcomes, PollOutcome{
				MessageID: stub.ID,
				Outcome:   constants.PollOutcomeFailed,
				Error:     err.Error(),
			})
			continue
		}
		outcome := p.processMessage(ctx, provider, supplier.ID, labelID, stub)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.Infow("channel_poll_completed",
		"supplier_id", supplier.ID,
		"listed", report.Listed,
		"created", report.Count(constants.PollOutcomeCreated),
		"skipped_unauthorized", report.Count(constants.PollOutcomeSkippedUnauthorized),
		"skipped_no_items", report.Count(constants.PollOutcomeSkippedNoItems),
		"skipped_duplicate", report.Count(constants.PollOutcomeSkippedDuplicate),
		"failed", report.Count(constants.PollOutcomeFailed),
	)
	return report, nil
}

// Preview 列出来自合作餐厅的未消费邮件，不做处理也不打标签
func (p *ChannelPoller) Preview(ctx context.Context, supplierID string) ([]MessagePreview, error) {
	supplier, err := p.loadOwner(supplierID)
	if err != nil {
		return nil, err
	}
	provider, err := p.factory.ForParty(ctx, supplier)
	if err != nil {
		return nil, err
	}
	stubs, err := provider.ListUnconsumed(ctx, p.opts.MaxResults, p.opts.LabelName)
	if err != nil {
		return nil, err
	}
	previews := make([]MessagePreview, 0, len(stubs))
	for _, stub := range stubs {
		msg, err := provider.Get(ctx, stub.ID)
		if err != nil {
			logger.Warnw("channel_preview_get_failed", "supplier_id", supplier.ID, "message_id", stub.ID, "error", err)
			continue
		}
		_, ok, err := p.authorizeSender(msg.From, supplier.ID)
		if err != nil {
			logger.Warnw("channel_preview_authorize_failed", "supplier_id", supplier.ID, "message_id", stub.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		previews = append(previews, MessagePreview{
			MessageID:  msg.ID,
			From:       msg.From,
			Subject:    msg.Subject,
			Snippet:    msg.Snippet,
			ReceivedAt: msg.ReceivedAt,
		})
	}
	return previews, nil
}

func (p *ChannelPoller) loadOwner(supplierID string) (*models.Party, error) {
	supplier, err := p.partyRepo.GetByID(strings.TrimSpace(supplierID))
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrPartyNotFound
	}
	if supplier.Kind != constants.PartyKindSupplier {
		return nil, ErrPartyRoleMismatch
	}
	if !supplier.IsActive {
		return nil, ErrPartyDisabled
	}
	if !supplier.HasMailbox() {
		return nil, ErrMailboxNotConnected
	}
	return supplier, nil
}

func (p *ChannelPoller) ensureLabel(ctx context.Context, provider mailbox.Provider, supplierID string) (string, error) {
	if labelID, hit, err := cache.GetMailboxLabelID(ctx, supplierID, p.opts.LabelName); err == nil && hit {
		return labelID, nil
	}
	labelID, err := provider.EnsureLabel(ctx, p.opts.LabelName)
	if err != nil {
		return "", err
	}
	if err := cache.SetMailboxLabelID(ctx, supplierID, p.opts.LabelName, labelID); err != nil {
		logger.Warnw("channel_label_cache_failed", "supplier_id", supplierID, "error", err)
	}
	return labelID, nil
}

// authorizeSender 发件人须为已启用且与供应商存在 ACTIVE 合作的餐厅
func (p *ChannelPoller) authorizeSender(from, supplierID string) (*models.Party, bool, error) {
	address := mailbox.ParseSenderAddress(from)
	if address == "" {
		return nil, false, nil
	}
	party, err := p.partyRepo.GetByEmail(address)
	if err != nil {
		return nil, false, err
	}
	if party == nil || party.Kind != constants.PartyKindRestaurant || !party.IsActive {
		return nil, false, nil
	}
	partnership, err := p.partnershipRepo.FindActive(party.ID, supplierID)
	if err != nil {
		return nil, false, err
	}
	if partnership == nil {
		return nil, false, nil
	}
	return party, true, nil
}

func (p *ChannelPoller) processMessage(ctx context.Context, provider mailbox.Provider, supplierID, labelID string, stub mailbox.MessageStub) PollOutcome {
	outcome := PollOutcome{MessageID: stub.ID}
	fail := func(event string, err error) PollOutcome {
		logger.Warnw(event, "supplier_id", supplierID, "message_id", stub.ID, "error", err)
		outcome.Outcome = constants.PollOutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	existing, err := p.ledgerRepo.Find(supplierID, stub.ID)
	if err != nil {
		return fail("channel_poll_ledger_lookup_failed", err)
	}
	if existing != nil {
		// 上次打标签失败的邮件，只补标签
		outcome.Outcome = constants.PollOutcomeSkippedDuplicate
		outcome.OrderID = existing.OrderID
		p.markConsumed(ctx, provider, supplierID, labelID, &outcome)
		return outcome
	}

	msg, err := provider.Get(ctx, stub.ID)
	if err != nil {
		return fail("channel_poll_get_failed", err)
	}
	outcome.From = msg.From
	outcome.Subject = msg.Subject
	outcome.Snippet = msg.Snippet

	restaurant, ok, err := p.authorizeSender(msg.From, supplierID)
	if err != nil {
		return fail("channel_poll_authorize_failed", err)
	}
	if !ok {
		logger.Debugw("channel_poll_sender_skipped", "supplier_id", supplierID, "message_id", stub.ID, "from", msg.From)
		outcome.Outcome = constants.PollOutcomeSkippedUnauthorized
		return outcome
	}

	text := msg.Text()
	intent, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return fail("channel_poll_extract_failed", err)
	}
	draft, _, err := p.reconciler.Reconcile(ctx, ReconcileInput{
		RestaurantID: restaurant.ID,
		SupplierID:   supplierID,
		RawText:      text,
		Intent:       intent,
		Source:       constants.OrderSourceEmail,
		MessageID:    stub.ID,
		Sender:       restaurant.Email,
	})
	if err != nil {
		return fail("channel_poll_reconcile_failed", err)
	}

	if len(draft.Lines) == 0 {
		if err := p.assembler.RecordSkipped(ctx, supplierID, stub.ID, restaurant.Email, constants.PollOutcomeSkippedNoItems); err != nil {
			logger.Warnw("channel_poll_ledger_write_failed", "supplier_id", supplierID, "message_id", stub.ID, "error", err)
		}
		logger.Infow("channel_poll_no_items", "supplier_id", supplierID, "message_id", stub.ID, "restaurant_id", restaurant.ID)
		outcome.Outcome = constants.PollOutcomeSkippedNoItems
		p.markConsumed(ctx, provider, supplierID, labelID, &outcome)
		return outcome
	}

	order, err := p.assembler.Assemble(ctx, draft)
	if err != nil {
		return fail("channel_poll_assemble_failed", err)
	}
	orderID := order.ID
	outcome.Outcome = constants.PollOutcomeCreated
	outcome.OrderID = &orderID
	outcome.OrderNo = order.OrderNo
	p.markConsumed(ctx, provider, supplierID, labelID, &outcome)
	return outcome
}

// markConsumed 打标签失败只记录，不回滚已创建的订单
func (p *ChannelPoller) markConsumed(ctx context.Context, provider mailbox.Provider, supplierID, labelID string, outcome *PollOutcome) {
	if err := provider.ApplyLabel(ctx, outcome.MessageID, labelID); err != nil {
		logger.Errorw("channel_poll_mark_failed",
			"supplier_id", supplierID,
			"message_id", outcome.MessageID,
			"outcome", outcome.Outcome,
			"error", err,
		)
		outcome.MarkError = err.Error()
		// 标签可能已被删除，下次重新解析
		_ = cache.DelMailboxLabelID(ctx, supplierID, p.opts.LabelName)
	}
}
