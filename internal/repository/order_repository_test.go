package repository

import (
	"testing"
	"time"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/models"
)

func TestOrderRepositoryCreateAndGet(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	restaurant := createTestParty(t, db, constants.PartyKindRestaurant, "alice@example.com")
	supplier := createTestParty(t, db, constants.PartyKindSupplier, "john@example.com")
	lettuce := createTestItem(t, db, supplier.ID, "Lettuce (Iceberg)", activeStatus())

	order := &models.Order{
		OrderNo:      "PO-TEST-1",
		RestaurantID: restaurant.ID,
		SupplierID:   supplier.ID,
		Type:         constants.OrderTypeDraft,
		Status:       constants.OrderStatusNotApplicable,
		Notes:        "10 lettuce",
		Source:       constants.OrderSourceText,
	}
	items := []models.OrderItem{{CatalogItemID: lettuce.ID, ItemName: lettuce.Name, Quantity: 10}}
	history := &models.OrderHistory{Type: order.Type, Status: order.Status, ChangedAt: time.Now()}
	if err := repo.Create(order, items, history); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	loaded, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if loaded == nil {
		t.Fatalf("order not found")
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 10 || loaded.Items[0].CatalogItemID != lettuce.ID {
		t.Fatalf("unexpected items: %+v", loaded.Items)
	}
	if len(loaded.History) != 1 || loaded.History[0].Type != constants.OrderTypeDraft {
		t.Fatalf("unexpected history: %+v", loaded.History)
	}

	count, err := repo.CountByPair(restaurant.ID, supplier.ID)
	if err != nil || count != 1 {
		t.Fatalf("count want 1 got %d err=%v", count, err)
	}

	missing, err := repo.GetByID(order.ID + 100)
	if err != nil || missing != nil {
		t.Fatalf("missing order should return nil,nil got %+v err=%v", missing, err)
	}
}
