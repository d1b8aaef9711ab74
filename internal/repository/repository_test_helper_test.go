package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestParty(t *testing.T, db *gorm.DB, kind, email string) *models.Party {
	t.Helper()
	party := &models.Party{Kind: kind, BusinessName: email, Email: email, IsActive: true}
	if err := db.Create(party).Error; err != nil {
		t.Fatalf("create party failed: %v", err)
	}
	return party
}

func createTestItem(t *testing.T, db *gorm.DB, supplierID, name, status string) *models.CatalogItem {
	t.Helper()
	item := &models.CatalogItem{SupplierID: supplierID, Name: name, Unit: "each", Status: status}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return item
}

func activeStatus() string {
	return constants.ItemStatusActive
}
