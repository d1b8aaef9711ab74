package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const labelCacheTTL = 24 * time.Hour

// ErrLockHeld 拉取锁已被占用
var ErrLockHeld = errors.New("poll lock held")

// MailboxLabel 邮箱标签缓存
type MailboxLabel struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func mailboxLabelKey(partyID, labelName string) string {
	return fmt.Sprintf("mailbox:label:%s:%s", partyID, labelName)
}

func pollLockKey(partyID string) string {
	return fmt.Sprintf("mailbox:poll_lock:%s", partyID)
}

// GetMailboxLabelID 读取已缓存的标签 ID
func GetMailboxLabelID(ctx context.Context, partyID, labelName string) (string, bool, error) {
	var label MailboxLabel
	hit, err := GetJSON(ctx, mailboxLabelKey(partyID, labelName), &label)
	if err != nil || !hit || label.ID == "" {
		return "", false, err
	}
	return label.ID, true, nil
}

// SetMailboxLabelID 缓存标签 ID
func SetMailboxLabelID(ctx context.Context, partyID, labelName, labelID string) error {
	return SetJSON(ctx, mailboxLabelKey(partyID, labelName), MailboxLabel{Name: labelName, ID: labelID}, labelCacheTTL)
}

// DelMailboxLabelID 清除标签缓存
func DelMailboxLabelID(ctx context.Context, partyID, labelName string) error {
	return Del(ctx, mailboxLabelKey(partyID, labelName))
}

// AcquirePollLock 获取单主体拉取锁；缓存未启用时直接放行
func AcquirePollLock(ctx context.Context, partyID string, ttl time.Duration) (func(), error) {
	if !Enabled() {
		return func() {}, nil
	}
	key := buildKey(pollLockKey(partyID))
	token := uuid.NewString()
	ok, err := redisClient.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		// 使用独立 context，避免调用方取消后锁无法释放
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if client := Client(); client != nil {
			_ = releaseLockScript.Run(releaseCtx, client, []string{key}, token).Err()
		}
	}, nil
}
