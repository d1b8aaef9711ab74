package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/parlevel-next/internal/authz"
	"github.com/parlevel-next/internal/config"
	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/http/handlers/shared"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
	"github.com/parlevel-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type envelope struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func setupAuthService(t *testing.T) (*service.PartyAuthService, *repository.GormPartyRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:router_auth_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	repo := repository.NewPartyRepository(db)
	return service.NewPartyAuthService(config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1}, repo), repo, db
}

func newAuthEngine(authService *service.PartyAuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(PartyJWTAuthMiddleware(authService))
	r.Use(extra...)
	r.GET("/me", func(c *gin.Context) {
		party, ok := shared.CurrentParty(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": gin.H{"party_id": party.ID, "kind": party.Kind}})
	})
	return r
}

func TestPartyJWTAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	authService, _, _ := setupAuthService(t)
	r := newAuthEngine(authService)

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("http status want 200 got %d", w.Code)
		}
		resp := decodeEnvelope(t, w)
		if resp.StatusCode != 401 {
			t.Fatalf("header %q: status_code want 401 got %d", header, resp.StatusCode)
		}
		if resp.Data["request_id"] == nil {
			t.Fatalf("error response should carry request id")
		}
	}
}

func TestPartyJWTAuthMiddlewareNilService(t *testing.T) {
	r := newAuthEngine(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	r.ServeHTTP(w, req)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestPartyJWTAuthMiddlewareSetsParty(t *testing.T) {
	authService, repo, _ := setupAuthService(t)
	party := &models.Party{Kind: constants.PartyKindRestaurant, BusinessName: "Gourmet Steakhouse", Email: "alice@gourmetsteak.com", IsActive: true}
	if err := repo.Create(party); err != nil {
		t.Fatalf("create party failed: %v", err)
	}
	token, _, err := authService.GenerateToken(party)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	r := newAuthEngine(authService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	if resp.Data["party_id"] != party.ID {
		t.Fatalf("party id want %s got %v", party.ID, resp.Data["party_id"])
	}
}

func TestPartyRBACMiddleware(t *testing.T) {
	authService, repo, db := setupAuthService(t)
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	restaurant := &models.Party{Kind: constants.PartyKindRestaurant, BusinessName: "Pizza Palace", Email: "bob@pizzapalace.com", IsActive: true}
	supplier := &models.Party{Kind: constants.PartyKindSupplier, BusinessName: "Fresh Produce Co.", Email: "john@freshproduce.com", IsActive: true}
	for _, p := range []*models.Party{restaurant, supplier} {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create party failed: %v", err)
		}
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(PartyJWTAuthMiddleware(authService), PartyRBACMiddleware(authzService))
	api.POST("/supplier/mailbox/poll", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})
	api.GET("/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	call := func(p *models.Party, method, path string) envelope {
		token, _, err := authService.GenerateToken(p)
		if err != nil {
			t.Fatalf("generate token failed: %v", err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return decodeEnvelope(t, w)
	}

	if resp := call(restaurant, http.MethodPost, "/api/v1/supplier/mailbox/poll"); resp.StatusCode != 403 {
		t.Fatalf("restaurant should be forbidden, got %d", resp.StatusCode)
	}
	if resp := call(supplier, http.MethodPost, "/api/v1/supplier/mailbox/poll"); resp.StatusCode != 0 {
		t.Fatalf("supplier should pass, got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	if resp := call(restaurant, http.MethodGet, "/api/v1/orders/7"); resp.StatusCode != 0 {
		t.Fatalf("restaurant should read orders, got %d msg=%s", resp.StatusCode, resp.Msg)
	}
}

func TestPartyRBACMiddlewareWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(shared.PartyContextKey, &models.Party{ID: "p-1", Kind: constants.PartyKindSupplier})
		c.Next()
	}, PartyRBACMiddleware(nil))
	r.GET("/api/v1/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/1", nil))
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("missing authz service should reject, got %d", resp.StatusCode)
	}
}
