package provider

import (
	"github.com/parlevel-next/internal/authz"
	"github.com/parlevel-next/internal/cache"
	"github.com/parlevel-next/internal/config"
	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/mailbox"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/queue"
	"github.com/parlevel-next/internal/repository"
	"github.com/parlevel-next/internal/service"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	PartyRepo           repository.PartyRepository
	PartnershipRepo     repository.PartnershipRepository
	CatalogRepo         repository.CatalogRepository
	ParLevelRepo        repository.ParLevelRepository
	OrderRepo           repository.OrderRepository
	IngestedMessageRepo repository.IngestedMessageRepository

	// Services
	AuthzService       *authz.Service
	Extractor          *extractor.Extractor
	MailboxFactory     mailbox.Factory
	PartyAuthService   *service.PartyAuthService
	ParLevelResolver   *service.ParLevelResolver
	CatalogMatcher     *service.CatalogMatcher
	ReconcileService   *service.ReconcileService
	OrderAssembler     *service.OrderAssembler
	OrderIntakeService *service.OrderIntakeService
	OrderQueryService  *service.OrderQueryService
	CatalogService     *service.CatalogService
	ChannelPoller      *service.ChannelPoller
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	return NewContainerWithDeps(cfg, models.DB, queueClient, nil, nil)
}

// NewContainerWithDeps 使用指定依赖初始化容器，oracle / factory 为 nil 时按配置创建
func NewContainerWithDeps(cfg *config.Config, db *gorm.DB, queueClient *queue.Client, oracle extractor.Oracle, factory mailbox.Factory) *Container {
	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		MailboxFactory: factory,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db, oracle)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.PartyRepo = repository.NewPartyRepository(db)
	c.PartnershipRepo = repository.NewPartnershipRepository(db)
	c.CatalogRepo = repository.NewCatalogRepository(db)
	c.ParLevelRepo = repository.NewParLevelRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.IngestedMessageRepo = repository.NewIngestedMessageRepository(db)
}

func (c *Container) initServices(db *gorm.DB, oracle extractor.Oracle) {
	if oracle == nil {
		oracle = extractor.NewOpenAIOracle(extractor.OpenAIOptions{
			APIKey:      c.Config.Extractor.APIKey,
			BaseURL:     c.Config.Extractor.BaseURL,
			Model:       c.Config.Extractor.Model,
			Temperature: c.Config.Extractor.Temperature,
			Timeout:     c.Config.Extractor.Timeout(),
		})
	}
	if c.MailboxFactory == nil {
		c.MailboxFactory = mailbox.NewGoogleFactory(mailbox.GoogleOptions{
			ClientID:     c.Config.Mailbox.GoogleClientID,
			ClientSecret: c.Config.Mailbox.GoogleClientSecret,
			RedirectURL:  c.Config.Mailbox.RedirectURL,
			Timeout:      c.Config.Mailbox.Timeout(),
		}, c.persistMailToken)
	}

	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.Extractor = extractor.NewExtractor(oracle)
	c.PartyAuthService = service.NewPartyAuthService(c.Config.JWT, c.PartyRepo)
	c.ParLevelResolver = service.NewParLevelResolver(c.ParLevelRepo)
	c.CatalogMatcher = service.NewCatalogMatcher(c.CatalogRepo, c.Config.Matcher.ActiveOnly)
	c.ReconcileService = service.NewReconcileService(c.ParLevelResolver, c.CatalogMatcher)
	c.OrderAssembler = service.NewOrderAssembler(db, c.OrderRepo, c.IngestedMessageRepo)
	c.OrderIntakeService = service.NewOrderIntakeService(c.PartyRepo, c.PartnershipRepo, c.Extractor, c.ReconcileService, c.OrderAssembler, service.OrderIntakeOptions{
		PersistEmptyOrders: c.Config.Order.PersistEmptyOrders,
	})
	c.OrderQueryService = service.NewOrderQueryService(c.OrderRepo)
	c.CatalogService = service.NewCatalogService(c.CatalogRepo, c.Config.Matcher.ActiveOnly)
	c.ChannelPoller = service.NewChannelPoller(
		c.PartyRepo,
		c.PartnershipRepo,
		c.IngestedMessageRepo,
		c.MailboxFactory,
		c.Extractor,
		c.ReconcileService,
		c.OrderAssembler,
		service.ChannelPollerOptions{
			LabelName:  c.Config.Mailbox.LabelName,
			MaxResults: c.Config.Mailbox.MaxResults,
			LockTTL:    c.Config.Mailbox.PollLockTTL(),
		},
	)
}

// persistMailToken 邮箱令牌刷新后回写主体
func (c *Container) persistMailToken(partyID string, token *oauth2.Token) {
	if err := c.PartyRepo.UpdateMailTokens(partyID, mailbox.TokenUpdates(token)); err != nil {
		logger.Warnw("provider_persist_mail_token_failed", "party_id", partyID, "error", err)
	}
}
