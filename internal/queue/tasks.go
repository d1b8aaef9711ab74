package queue

import (
	"encoding/json"

	"github.com/parlevel-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskMailboxPoll 供应商邮箱拉取任务
	TaskMailboxPoll = constants.TaskMailboxPoll
)

// MailboxPollPayload 邮箱拉取任务载荷
type MailboxPollPayload struct {
	SupplierID string `json:"supplier_id"`
}

// NewMailboxPollTask 创建邮箱拉取任务
func NewMailboxPollTask(payload MailboxPollPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMailboxPoll, body), nil
}

// ParseMailboxPollPayload 解析邮箱拉取任务载荷
func ParseMailboxPollPayload(task *asynq.Task) (MailboxPollPayload, error) {
	var payload MailboxPollPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
