package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/parlevel-next/internal/config"
	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
	"github.com/parlevel-next/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedItem struct {
	supplierEmail string
	sku           string
	name          string
	unit          string
	price         float64
}

type seedParLevel struct {
	name            string
	restaurantEmail string
	supplierEmail   string
	lines           map[string]int // sku -> 数量
}

type seedOrder struct {
	orderNo         string
	restaurantEmail string
	supplierEmail   string
	orderType       string
	status          string
	notes           string
	expected        *time.Time
	lines           map[string]int
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	partyRepo := repository.NewPartyRepository(models.DB)

	// 添加主体
	parties := []models.Party{
		{Kind: constants.PartyKindSupplier, BusinessName: "Fresh Produce Co.", ContactName: "John", Email: "john@freshproduce.com", IsActive: true},
		{Kind: constants.PartyKindSupplier, BusinessName: "Beverages Co.", ContactName: "Jane", Email: "jane@beveragesco.com", IsActive: true},
		{Kind: constants.PartyKindRestaurant, BusinessName: "Gourmet Steakhouse", ContactName: "Alice", Email: "alice@gourmetsteak.com", IsActive: true},
		{Kind: constants.PartyKindRestaurant, BusinessName: "Pizza Palace", ContactName: "Bob", Email: "bob@pizzapalace.com", IsActive: true},
	}
	byEmail := map[string]*models.Party{}
	for i := range parties {
		party := parties[i]
		existing, err := partyRepo.GetByEmail(party.Email)
		if err != nil {
			stdLog.Fatalf("Failed to load party %s: %v", party.Email, err)
		}
		if existing != nil {
			stdLog.Printf("Party already exists: %s", party.Email)
			byEmail[party.Email] = existing
			continue
		}
		if err := partyRepo.Create(&party); err != nil {
			stdLog.Fatalf("Failed to create party %s: %v", party.Email, err)
		}
		stdLog.Printf("Created party: %s (%s)", party.BusinessName, party.Kind)
		byEmail[party.Email] = &party
	}

	// 添加合作关系
	pairs := [][2]string{
		{"alice@gourmetsteak.com", "john@freshproduce.com"},
		{"bob@pizzapalace.com", "john@freshproduce.com"},
		{"bob@pizzapalace.com", "jane@beveragesco.com"},
	}
	for _, pair := range pairs {
		restaurant, supplier := byEmail[pair[0]], byEmail[pair[1]]
		var existing models.Partnership
		err := models.DB.Where("restaurant_id = ? AND supplier_id = ?", restaurant.ID, supplier.ID).First(&existing).Error
		if err == nil {
			stdLog.Printf("Partnership already exists: %s -> %s", pair[0], pair[1])
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			stdLog.Fatalf("Failed to load partnership: %v", err)
		}
		if err := models.DB.Create(&models.Partnership{
			RestaurantID: restaurant.ID,
			SupplierID:   supplier.ID,
			Status:       constants.PartnershipStatusActive,
		}).Error; err != nil {
			stdLog.Fatalf("Failed to create partnership: %v", err)
		}
		stdLog.Printf("Created partnership: %s -> %s", pair[0], pair[1])
	}

	// 添加目录商品
	items := []seedItem{
		{supplierEmail: "john@freshproduce.com", sku: "FP-001", name: "Lettuce (Iceberg)", unit: "each", price: 2.50},
		{supplierEmail: "john@freshproduce.com", sku: "FP-002", name: "Tomatoes (kg)", unit: "kg", price: 3.99},
		{supplierEmail: "jane@beveragesco.com", sku: "BV-001", name: "Cola (12 pack)", unit: "box", price: 12.00},
		{supplierEmail: "jane@beveragesco.com", sku: "BV-002", name: "Orange Juice (2L)", unit: "bottle", price: 4.50},
	}
	itemIDs := map[string]uint{}
	for _, seed := range items {
		supplier := byEmail[seed.supplierEmail]
		var existing models.CatalogItem
		err := models.DB.Where("supplier_id = ? AND sku = ?", supplier.ID, seed.sku).First(&existing).Error
		if err == nil {
			stdLog.Printf("Catalog item already exists: %s", seed.sku)
			itemIDs[seed.sku] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			stdLog.Fatalf("Failed to load catalog item %s: %v", seed.sku, err)
		}
		item := models.CatalogItem{
			SupplierID: supplier.ID,
			SKU:        seed.sku,
			Name:       seed.name,
			Unit:       seed.unit,
			Price:      models.NewMoney(decimal.NewFromFloat(seed.price)),
			Status:     constants.ItemStatusActive,
		}
		if err := models.DB.Create(&item).Error; err != nil {
			stdLog.Fatalf("Failed to create catalog item %s: %v", seed.sku, err)
		}
		stdLog.Printf("Created catalog item: %s %s", seed.sku, seed.name)
		itemIDs[seed.sku] = item.ID
	}

	// 添加常备模板
	parRepo := repository.NewParLevelRepository(models.DB)
	parLevels := []seedParLevel{
		{name: "Weekly Produce Par", restaurantEmail: "alice@gourmetsteak.com", supplierEmail: "john@freshproduce.com", lines: map[string]int{"FP-001": 10, "FP-002": 5}},
		{name: "Produce Par", restaurantEmail: "bob@pizzapalace.com", supplierEmail: "john@freshproduce.com", lines: map[string]int{"FP-002": 8}},
		{name: "Beverage Par", restaurantEmail: "bob@pizzapalace.com", supplierEmail: "jane@beveragesco.com", lines: map[string]int{"BV-001": 2, "BV-002": 3}},
	}
	for _, seed := range parLevels {
		restaurant, supplier := byEmail[seed.restaurantEmail], byEmail[seed.supplierEmail]
		existing, err := parRepo.FindFirstByPair(restaurant.ID, supplier.ID)
		if err != nil {
			stdLog.Fatalf("Failed to load par level %s: %v", seed.name, err)
		}
		if existing != nil {
			stdLog.Printf("Par level already exists: %s", existing.Name)
			continue
		}
		var lines []models.ParLevelLine
		for _, sku := range sortedSKUs(seed.lines) {
			lines = append(lines, models.ParLevelLine{CatalogItemID: itemIDs[sku], Quantity: seed.lines[sku]})
		}
		if err := parRepo.Create(&models.ParLevel{
			Name:         seed.name,
			RestaurantID: restaurant.ID,
			SupplierID:   supplier.ID,
		}, lines); err != nil {
			stdLog.Fatalf("Failed to create par level %s: %v", seed.name, err)
		}
		stdLog.Printf("Created par level: %s", seed.name)
	}

	// 添加示例订单
	itemByID := map[uint]models.CatalogItem{}
	var catalog []models.CatalogItem
	if err := models.DB.Find(&catalog).Error; err != nil {
		stdLog.Fatalf("Failed to load catalog: %v", err)
	}
	for _, item := range catalog {
		itemByID[item.ID] = item
	}
	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)
	dayAfter := now.Add(48 * time.Hour)
	sampleOrders := []seedOrder{
		{
			orderNo:         "SEED-0001",
			restaurantEmail: "alice@gourmetsteak.com",
			supplierEmail:   "john@freshproduce.com",
			orderType:       constants.OrderTypeActive,
			status:          constants.OrderStatusAccepted,
			notes:           "Please deliver between 9-10AM",
			expected:        &tomorrow,
			lines:           map[string]int{"FP-001": 5, "FP-002": 2},
		},
		{
			orderNo:         "SEED-0002",
			restaurantEmail: "bob@pizzapalace.com",
			supplierEmail:   "jane@beveragesco.com",
			orderType:       constants.OrderTypeDraft,
			status:          constants.OrderStatusNotApplicable,
			notes:           "We might finalize tomorrow",
			expected:        &dayAfter,
			lines:           map[string]int{"BV-001": 1},
		},
	}
	for _, seed := range sampleOrders {
		var count int64
		if err := models.DB.Model(&models.Order{}).Where("order_no = ?", seed.orderNo).Count(&count).Error; err != nil {
			stdLog.Fatalf("Failed to check order %s: %v", seed.orderNo, err)
		}
		if count > 0 {
			stdLog.Printf("Order already exists: %s", seed.orderNo)
			continue
		}
		order := models.Order{
			OrderNo:            seed.orderNo,
			RestaurantID:       byEmail[seed.restaurantEmail].ID,
			SupplierID:         byEmail[seed.supplierEmail].ID,
			Type:               seed.orderType,
			Status:             seed.status,
			Notes:              seed.notes,
			Source:             constants.OrderSourceText,
			ExpectedDeliveryAt: seed.expected,
		}
		order.History = []models.OrderHistory{{Type: seed.orderType, Status: seed.status, ChangedAt: now}}
		for _, sku := range sortedSKUs(seed.lines) {
			item := itemByID[itemIDs[sku]]
			order.Items = append(order.Items, models.OrderItem{
				CatalogItemID: item.ID,
				ItemName:      item.Name,
				Unit:          item.Unit,
				UnitPrice:     item.Price,
				Quantity:      seed.lines[sku],
				Source:        constants.LineSourceText,
			})
		}
		if err := models.DB.Create(&order).Error; err != nil {
			stdLog.Fatalf("Failed to create order %s: %v", seed.orderNo, err)
		}
		stdLog.Printf("Created order: %s (%d items)", seed.orderNo, len(order.Items))
	}

	// 输出各主体的访问令牌
	authService := service.NewPartyAuthService(cfg.JWT, partyRepo)
	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 2 Suppliers, 2 Restaurants")
	fmt.Println("- 3 Partnerships")
	fmt.Println("- 4 Catalog items")
	fmt.Println("- 3 Par levels")
	fmt.Println("- 2 Sample orders")
	fmt.Println("\nBearer tokens:")
	for _, party := range parties {
		stored := byEmail[party.Email]
		token, expiresAt, err := authService.GenerateToken(stored)
		if err != nil {
			stdLog.Printf("Failed to sign token for %s: %v", party.Email, err)
			continue
		}
		fmt.Printf("- %s (%s, expires %s)\n  %s\n", stored.BusinessName, stored.ID, expiresAt.Format("2006-01-02 15:04"), token)
	}
}

func sortedSKUs(lines map[string]int) []string {
	skus := make([]string, 0, len(lines))
	for sku := range lines {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}
