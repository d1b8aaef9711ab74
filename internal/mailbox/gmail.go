package mailbox

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

const gmailUser = "me"

// GmailProvider 基于 Gmail API 的邮箱通道
type GmailProvider struct {
	svc *gmail.Service
}

// NewGmailProvider 创建 Gmail 通道
func NewGmailProvider(svc *gmail.Service) *GmailProvider {
	return &GmailProvider{svc: svc}
}

// EnsureLabel 查找或创建可见标签，返回标签 ID
func (p *GmailProvider) EnsureLabel(ctx context.Context, name string) (string, error) {
	resp, err := p.svc.Users.Labels.List(gmailUser).Context(ctx).Do()
	if err != nil {
		return "", wrapGmailError("list_labels", err)
	}
	for _, label := range resp.Labels {
		if label != nil && strings.EqualFold(label.Name, name) {
			return label.Id, nil
		}
	}
	created, err := p.svc.Users.Labels.Create(gmailUser, &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return "", wrapGmailError("create_label", err)
	}
	return created.Id, nil
}

// ListUnconsumed 列出未打标签的邮件，按标签名称过滤
func (p *GmailProvider) ListUnconsumed(ctx context.Context, maxResults int, labelName string) ([]MessageStub, error) {
	call := p.svc.Users.Messages.List(gmailUser).Context(ctx).Q(excludeLabelQuery(labelName))
	if maxResults > 0 {
		call = call.MaxResults(int64(maxResults))
	}
	resp, err := call.Do()
	if err != nil {
		return nil, wrapGmailError("list_messages", err)
	}
	stubs := make([]MessageStub, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		if msg == nil || msg.Id == "" {
			continue
		}
		stubs = append(stubs, MessageStub{ID: msg.Id, ThreadID: msg.ThreadId})
	}
	return stubs, nil
}

// Get 获取完整邮件
func (p *GmailProvider) Get(ctx context.Context, messageID string) (*Message, error) {
	msg, err := p.svc.Users.Messages.Get(gmailUser, messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, wrapGmailError("get_message", err)
	}
	out := &Message{ID: msg.Id, Snippet: msg.Snippet}
	if msg.InternalDate > 0 {
		out.ReceivedAt = time.UnixMilli(msg.InternalDate)
	}
	if msg.Payload != nil {
		out.From = headerValue(msg.Payload.Headers, "From")
		out.Subject = headerValue(msg.Payload.Headers, "Subject")
		out.Body = plainTextBody(msg.Payload)
	}
	return out, nil
}

// ApplyLabel 给邮件打上已处理标签
func (p *GmailProvider) ApplyLabel(ctx context.Context, messageID, labelID string) error {
	_, err := p.svc.Users.Messages.Modify(gmailUser, messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Context(ctx).Do()
	if err != nil {
		return wrapGmailError("apply_label", err)
	}
	return nil
}

// excludeLabelQuery Gmail 搜索语法中标签名的空格写作 -
func excludeLabelQuery(labelName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(labelName), " ", "-")
	if name == "" {
		return ""
	}
	return "-label:" + name
}

func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header != nil && strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

// plainTextBody 深度优先查找第一个 text/plain 分段
func plainTextBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(part.MimeType), "text/plain") && part.Body != nil && part.Body.Data != "" {
		if decoded, ok := decodeBase64URL(part.Body.Data); ok {
			return decoded
		}
	}
	for _, child := range part.Parts {
		if text := plainTextBody(child); text != "" {
			return text
		}
	}
	return ""
}

func decodeBase64URL(data string) (string, bool) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded), true
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "=")); err == nil {
		return string(decoded), true
	}
	return "", false
}

func wrapGmailError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ChannelTransportError{Op: op, StatusCode: apiErr.Code, Err: err}
	}
	return &ChannelTransportError{Op: op, Err: err}
}
