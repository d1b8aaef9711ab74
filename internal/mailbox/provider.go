package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parlevel-next/internal/models"
)

// ErrMailboxNotConnected 主体尚未授权邮箱
var ErrMailboxNotConnected = errors.New("mailbox not connected")

// MessageStub 列表返回的邮件引用
type MessageStub struct {
	ID       string
	ThreadID string
}

// Message 单封邮件内容
type Message struct {
	ID         string
	From       string
	Subject    string
	Snippet    string
	Body       string
	ReceivedAt time.Time
}

// Text 返回用于下单解析的正文，正文为空时退回摘要
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	if body := trimBody(m.Body); body != "" {
		return body
	}
	return m.Snippet
}

// Provider 邮箱通道
type Provider interface {
	EnsureLabel(ctx context.Context, name string) (string, error)
	ListUnconsumed(ctx context.Context, maxResults int, labelName string) ([]MessageStub, error)
	Get(ctx context.Context, messageID string) (*Message, error)
	ApplyLabel(ctx context.Context, messageID, labelID string) error
}

// Factory 根据主体授权信息构建邮箱通道
type Factory interface {
	ForParty(ctx context.Context, party *models.Party) (Provider, error)
}

// ChannelTransportError 邮箱接口调用失败
type ChannelTransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ChannelTransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mailbox %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mailbox %s failed: %v", e.Op, e.Err)
}

func (e *ChannelTransportError) Unwrap() error {
	return e.Err
}
