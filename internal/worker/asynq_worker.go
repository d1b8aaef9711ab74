package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/provider"
	"github.com/parlevel-next/internal/queue"
	"github.com/parlevel-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskMailboxPoll, c.handleMailboxPoll)
}

func (c *Consumer) handleMailboxPoll(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_mailbox_poll_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseMailboxPollPayload(task)
	if err != nil {
		logger.Warnw("worker_mailbox_poll_unmarshal_failed", "error", err)
		return err
	}
	supplierID := strings.TrimSpace(payload.SupplierID)
	if supplierID == "" {
		logger.Debugw("worker_mailbox_poll_skip_invalid_payload", "supplier_id", payload.SupplierID)
		return nil
	}
	if c.ChannelPoller == nil {
		logger.Warnw("worker_mailbox_poll_skip_poller_nil", "supplier_id", supplierID)
		return nil
	}
	report, err := c.ChannelPoller.Poll(ctx, supplierID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPollInProgress):
			logger.Debugw("worker_mailbox_poll_skip_in_progress", "supplier_id", supplierID)
			return nil
		case errors.Is(err, service.ErrMailboxNotConnected):
			logger.Debugw("worker_mailbox_poll_skip_not_connected", "supplier_id", supplierID)
			return nil
		case errors.Is(err, service.ErrPartyNotFound), errors.Is(err, service.ErrPartyRoleMismatch), errors.Is(err, service.ErrPartyDisabled):
			logger.Debugw("worker_mailbox_poll_skip_invalid_owner", "supplier_id", supplierID, "error", err)
			return nil
		default:
			logger.Warnw("worker_mailbox_poll_failed", "supplier_id", supplierID, "error", err)
			return err
		}
	}
	logger.Infow("worker_mailbox_poll_done",
		"supplier_id", supplierID,
		"listed", report.Listed,
		"created", report.Count(constants.PollOutcomeCreated),
		"failed", report.Count(constants.PollOutcomeFailed),
	)
	return nil
}

// scheduleMailboxPolls 为所有已授权邮箱的供应商推送拉取任务，返回入队数量
func (c *Consumer) scheduleMailboxPolls() int {
	if c == nil || c.Container == nil || c.PartyRepo == nil {
		return 0
	}
	if !c.QueueClient.Enabled() {
		logger.Debugw("worker_mailbox_schedule_skip_queue_disabled")
		return 0
	}
	suppliers, err := c.PartyRepo.ListWithMailbox(constants.PartyKindSupplier)
	if err != nil {
		logger.Warnw("worker_mailbox_schedule_list_failed", "error", err)
		return 0
	}
	uniqueFor := c.Config.Mailbox.PollInterval()
	enqueued := 0
	for _, supplier := range suppliers {
		ok, err := c.QueueClient.EnqueueMailboxPoll(supplier.ID, uniqueFor)
		if err != nil {
			logger.Warnw("worker_mailbox_schedule_enqueue_failed", "supplier_id", supplier.ID, "error", err)
			continue
		}
		if ok {
			enqueued++
		}
	}
	logger.Debugw("worker_mailbox_schedule_done", "suppliers", len(suppliers), "enqueued", enqueued)
	return enqueued
}
