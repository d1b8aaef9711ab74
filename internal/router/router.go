package router

import (
	"fmt"
	"strings"

	"github.com/parlevel-next/internal/cache"
	"github.com/parlevel-next/internal/config"
	publichandlers "github.com/parlevel-next/internal/http/handlers/public"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pl"
	}
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:ai_order", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(PartyJWTAuthMiddleware(c.PartyAuthService), PartyRBACMiddleware(c.AuthzService))
	{
		apiV1.POST("/ai-order", RateLimitMiddleware(cache.Client(), orderRule, KeyByParty), handler.CreateOrderFromText)
		apiV1.GET("/orders/:id", handler.GetOrder)
		apiV1.GET("/catalog/:supplier_id/items", handler.SearchCatalog)

		apiV1.POST("/supplier/mailbox/poll", handler.PollMailbox)
		apiV1.GET("/supplier/mailbox/messages", handler.PreviewMailbox)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
