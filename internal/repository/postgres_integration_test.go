//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.IngestedMessage{},
		&models.OrderHistory{},
		&models.OrderItem{},
		&models.Order{},
		&models.ParLevelLine{},
		&models.ParLevel{},
		&models.CatalogItem{},
		&models.Partnership{},
		&models.Party{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresCatalogSearchUsesILike(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCatalogRepository(db)
	supplier := createTestParty(t, db, constants.PartyKindSupplier, "pg-supplier@example.com")
	createTestItem(t, db, supplier.ID, "Tomatoes (kg)", activeStatus())
	createTestItem(t, db, supplier.ID, "Lettuce (Iceberg)", activeStatus())

	rows, err := repo.SearchByName(CatalogSearchFilter{SupplierID: supplier.ID, Keyword: "TOMATO"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Tomatoes (kg)" {
		t.Fatalf("expected tomatoes, got %+v", rows)
	}
}
