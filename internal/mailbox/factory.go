package mailbox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenRefreshFunc 令牌刷新回调，用于持久化新令牌
type TokenRefreshFunc func(partyID string, token *oauth2.Token)

// GoogleOptions Gmail 通道参数
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration
	// Endpoint 覆盖 Gmail API 地址
	Endpoint string
}

// GoogleFactory 使用主体保存的 OAuth 令牌构建 Gmail 通道
type GoogleFactory struct {
	oauth     *oauth2.Config
	timeout   time.Duration
	endpoint  string
	onRefresh TokenRefreshFunc
}

// NewGoogleFactory 创建 Gmail 通道工厂
func NewGoogleFactory(opts GoogleOptions, onRefresh TokenRefreshFunc) *GoogleFactory {
	return &GoogleFactory{
		oauth: &oauth2.Config{
			ClientID:     strings.TrimSpace(opts.ClientID),
			ClientSecret: strings.TrimSpace(opts.ClientSecret),
			RedirectURL:  strings.TrimSpace(opts.RedirectURL),
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailModifyScope},
		},
		timeout:   opts.Timeout,
		endpoint:  strings.TrimSpace(opts.Endpoint),
		onRefresh: onRefresh,
	}
}

// ForParty 构建主体邮箱通道
func (f *GoogleFactory) ForParty(ctx context.Context, party *models.Party) (Provider, error) {
	if party == nil || !party.HasMailbox() {
		return nil, ErrMailboxNotConnected
	}
	token := PartyToken(party)
	var source oauth2.TokenSource = f.oauth.TokenSource(ctx, token)
	if f.onRefresh != nil {
		source = &persistingTokenSource{
			base:      source,
			partyID:   party.ID,
			lastToken: token.AccessToken,
			onRefresh: f.onRefresh,
		}
	}

	httpClient := oauth2.NewClient(ctx, source)
	if f.timeout > 0 {
		httpClient.Timeout = f.timeout
	}
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if f.endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.endpoint))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, &ChannelTransportError{Op: "init", Err: err}
	}
	return NewGmailProvider(svc), nil
}

// PartyToken 将主体存储的授权信息转为 oauth2 令牌
func PartyToken(party *models.Party) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  strings.TrimSpace(party.MailAccessToken),
		RefreshToken: strings.TrimSpace(party.MailRefreshToken),
		TokenType:    "Bearer",
	}
	if party.MailTokenExpiry != nil {
		token.Expiry = *party.MailTokenExpiry
	}
	return token
}

// TokenUpdates 将刷新后的令牌转为主体更新字段
func TokenUpdates(token *oauth2.Token) map[string]interface{} {
	updates := map[string]interface{}{
		"mail_access_token": token.AccessToken,
	}
	if token.RefreshToken != "" {
		updates["mail_refresh_token"] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		updates["mail_token_expiry"] = token.Expiry
	}
	return updates
}

type persistingTokenSource struct {
	base      oauth2.TokenSource
	partyID   string
	onRefresh TokenRefreshFunc

	mu        sync.Mutex
	lastToken string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	changed := token.AccessToken != s.lastToken
	s.lastToken = token.AccessToken
	s.mu.Unlock()
	if changed {
		logger.Infow("mailbox_token_refreshed", "party_id", s.partyID)
		s.onRefresh(s.partyID, token)
	}
	return token, nil
}
