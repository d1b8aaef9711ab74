package service

import (
	"errors"
	"strings"
	"time"

	"github.com/parlevel-next/internal/config"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 令牌无效
var ErrInvalidToken = errors.New("invalid token")

// PartyClaims 主体令牌声明
type PartyClaims struct {
	PartyID string `json:"party_id"`
	Kind    string `json:"kind"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// PartyAuthService 主体令牌签发与校验
type PartyAuthService struct {
	cfg       config.JWTConfig
	partyRepo repository.PartyRepository
}

// NewPartyAuthService 创建主体认证服务
func NewPartyAuthService(cfg config.JWTConfig, partyRepo repository.PartyRepository) *PartyAuthService {
	return &PartyAuthService{cfg: cfg, partyRepo: partyRepo}
}

// GenerateToken 为主体签发令牌
func (s *PartyAuthService) GenerateToken(party *models.Party) (string, time.Time, error) {
	if party == nil || party.ID == "" {
		return "", time.Time{}, ErrPartyNotFound
	}
	hours := s.cfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := PartyClaims{
		PartyID: party.ID,
		Kind:    party.Kind,
		Email:   party.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   party.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Authenticate 校验令牌并确认主体仍处于启用状态
func (s *PartyAuthService) Authenticate(tokenString string) (*models.Party, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &PartyClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*PartyClaims)
	if !ok || !token.Valid || claims.PartyID == "" {
		return nil, ErrInvalidToken
	}
	party, err := s.partyRepo.GetByID(claims.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil || !party.IsActive {
		return nil, ErrInvalidToken
	}
	return party, nil
}
