package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/mailbox"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type intakeFixture struct {
	freshProduce *models.Party
	beverages    *models.Party
	steakhouse   *models.Party
	pizzaPalace  *models.Party
	lettuce      *models.CatalogItem
	tomatoes     *models.CatalogItem
	cola         *models.CatalogItem
	orangeJuice  *models.CatalogItem
}

type intakeStack struct {
	db          *gorm.DB
	partyRepo   *repository.GormPartyRepository
	partnerRepo *repository.GormPartnershipRepository
	catalogRepo *repository.GormCatalogRepository
	parRepo     *repository.GormParLevelRepository
	orderRepo   *repository.GormOrderRepository
	ledgerRepo  *repository.GormIngestedMessageRepository
	resolver    *ParLevelResolver
	matcher     *CatalogMatcher
	reconciler  *ReconcileService
	assembler   *OrderAssembler
}

func setupIntakeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_intake_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func newIntakeStack(t *testing.T, activeOnly bool) *intakeStack {
	t.Helper()
	db := setupIntakeTestDB(t)
	s := &intakeStack{
		db:          db,
		partyRepo:   repository.NewPartyRepository(db),
		partnerRepo: repository.NewPartnershipRepository(db),
		catalogRepo: repository.NewCatalogRepository(db),
		parRepo:     repository.NewParLevelRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		ledgerRepo:  repository.NewIngestedMessageRepository(db),
	}
	s.resolver = NewParLevelResolver(s.parRepo)
	s.matcher = NewCatalogMatcher(s.catalogRepo, activeOnly)
	s.reconciler = NewReconcileService(s.resolver, s.matcher)
	s.assembler = NewOrderAssembler(db, s.orderRepo, s.ledgerRepo)
	return s
}

func (s *intakeStack) intakeService(ext IntentExtractor, persistEmpty bool) *OrderIntakeService {
	return NewOrderIntakeService(s.partyRepo, s.partnerRepo, ext, s.reconciler, s.assembler, OrderIntakeOptions{
		PersistEmptyOrders: persistEmpty,
	})
}

func (s *intakeStack) poller(ext IntentExtractor, factory mailbox.Factory) *ChannelPoller {
	return NewChannelPoller(s.partyRepo, s.partnerRepo, s.ledgerRepo, factory, ext, s.reconciler, s.assembler, ChannelPollerOptions{})
}

func (s *intakeStack) mustCreateParty(t *testing.T, kind, name, email string) *models.Party {
	t.Helper()
	party := &models.Party{Kind: kind, BusinessName: name, Email: email, IsActive: true}
	if err := s.partyRepo.Create(party); err != nil {
		t.Fatalf("create party failed: %v", err)
	}
	return party
}

func (s *intakeStack) mustCreateItem(t *testing.T, supplierID, sku, name, unit, price string) *models.CatalogItem {
	t.Helper()
	money, err := models.ParseMoney(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	item := &models.CatalogItem{
		SupplierID: supplierID,
		SKU:        sku,
		Name:       name,
		Unit:       unit,
		Price:      money,
		Status:     constants.ItemStatusActive,
	}
	if err := s.catalogRepo.Create(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return item
}

func (s *intakeStack) mustPartner(t *testing.T, restaurantID, supplierID, status string) {
	t.Helper()
	if err := s.partnerRepo.Create(&models.Partnership{
		RestaurantID: restaurantID,
		SupplierID:   supplierID,
		Status:       status,
	}); err != nil {
		t.Fatalf("create partnership failed: %v", err)
	}
}

func (s *intakeStack) mustParLevel(t *testing.T, name, restaurantID, supplierID string, lines ...models.ParLevelLine) {
	t.Helper()
	if err := s.parRepo.Create(&models.ParLevel{
		Name:         name,
		RestaurantID: restaurantID,
		SupplierID:   supplierID,
	}, lines); err != nil {
		t.Fatalf("create par level failed: %v", err)
	}
}

// seedFixture 两家供应商、两家餐厅及其合作关系，牛排馆对生鲜供应商有常备模板
func (s *intakeStack) seedFixture(t *testing.T) *intakeFixture {
	t.Helper()
	f := &intakeFixture{}
	f.freshProduce = s.mustCreateParty(t, constants.PartyKindSupplier, "Fresh Produce Co.", "john@freshproduce.com")
	f.beverages = s.mustCreateParty(t, constants.PartyKindSupplier, "Beverages Co.", "jane@beveragesco.com")
	f.steakhouse = s.mustCreateParty(t, constants.PartyKindRestaurant, "Gourmet Steakhouse", "alice@gourmetsteak.com")
	f.pizzaPalace = s.mustCreateParty(t, constants.PartyKindRestaurant, "Pizza Palace", "bob@pizzapalace.com")

	f.lettuce = s.mustCreateItem(t, f.freshProduce.ID, "FP-001", "Lettuce (Iceberg)", "each", "2.50")
	f.tomatoes = s.mustCreateItem(t, f.freshProduce.ID, "FP-002", "Tomatoes (kg)", "kg", "3.99")
	f.cola = s.mustCreateItem(t, f.beverages.ID, "BV-001", "Cola (12 pack)", "box", "12.00")
	f.orangeJuice = s.mustCreateItem(t, f.beverages.ID, "BV-002", "Orange Juice (2L)", "bottle", "4.50")

	s.mustPartner(t, f.steakhouse.ID, f.freshProduce.ID, constants.PartnershipStatusActive)
	s.mustPartner(t, f.pizzaPalace.ID, f.freshProduce.ID, constants.PartnershipStatusActive)
	s.mustPartner(t, f.pizzaPalace.ID, f.beverages.ID, constants.PartnershipStatusActive)

	s.mustParLevel(t, "Weekly Produce Par", f.steakhouse.ID, f.freshProduce.ID,
		models.ParLevelLine{CatalogItemID: f.lettuce.ID, Quantity: 10},
		models.ParLevelLine{CatalogItemID: f.tomatoes.ID, Quantity: 5},
	)
	return f
}

type stubExtractor struct {
	mu     sync.Mutex
	intent *extractor.OrderIntent
	err    error
	byText map[string]*extractor.OrderIntent
	calls  []string
}

func (s *stubExtractor) Extract(ctx context.Context, rawText string) (*extractor.OrderIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, rawText)
	if s.err != nil {
		return nil, s.err
	}
	if intent, ok := s.byText[rawText]; ok {
		return intent, nil
	}
	if s.intent == nil {
		return &extractor.OrderIntent{}, nil
	}
	return s.intent, nil
}

func (s *stubExtractor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fakeProvider struct {
	mu        sync.Mutex
	labelID   string
	messages  map[string]*mailbox.Message
	order     []string
	getErr    map[string]error
	labelErr  error
	labeled   map[string]string
	ensureHit int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		labelID:  "Label_1",
		messages: map[string]*mailbox.Message{},
		getErr:   map[string]error{},
		labeled:  map[string]string{},
	}
}

func (p *fakeProvider) addMessage(id, from, body string) {
	p.messages[id] = &mailbox.Message{ID: id, From: from, Subject: "Order", Snippet: body, Body: body}
	p.order = append(p.order, id)
}

func (p *fakeProvider) EnsureLabel(ctx context.Context, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ensureHit++
	return p.labelID, nil
}

func (p *fakeProvider) ListUnconsumed(ctx context.Context, maxResults int, labelName string) ([]mailbox.MessageStub, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stubs := []mailbox.MessageStub{}
	for _, id := range p.order {
		if _, done := p.labeled[id]; done {
			continue
		}
		stubs = append(stubs, mailbox.MessageStub{ID: id, ThreadID: id})
		if len(stubs) >= maxResults {
			break
		}
	}
	return stubs, nil
}

func (p *fakeProvider) Get(ctx context.Context, messageID string) (*mailbox.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.getErr[messageID]; err != nil {
		return nil, err
	}
	msg, ok := p.messages[messageID]
	if !ok {
		return nil, errors.New("message not found")
	}
	return msg, nil
}

func (p *fakeProvider) ApplyLabel(ctx context.Context, messageID, labelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.labelErr != nil {
		return p.labelErr
	}
	p.labeled[messageID] = labelID
	return nil
}

func (p *fakeProvider) isLabeled(messageID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.labeled[messageID]
	return ok
}

type fakeFactory struct {
	provider *fakeProvider
	err      error
}

func (f *fakeFactory) ForParty(ctx context.Context, party *models.Party) (mailbox.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func connectMailbox(t *testing.T, db *gorm.DB, party *models.Party) {
	t.Helper()
	if err := db.Model(&models.Party{}).Where("id = ?", party.ID).
		Update("mail_refresh_token", "refresh-token").Error; err != nil {
		t.Fatalf("connect mailbox failed: %v", err)
	}
	party.MailRefreshToken = "refresh-token"
}

func intentOf(useParLevel bool, lines ...extractor.IntentLine) *extractor.OrderIntent {
	return &extractor.OrderIntent{UseParLevel: useParLevel, Lines: lines}
}

func textLine(name string, quantity int) extractor.IntentLine {
	return extractor.IntentLine{Name: name, Quantity: quantity}
}
