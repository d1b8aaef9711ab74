package service

import (
	"context"
	"strings"

	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
)

// FirstMatch 匹配策略：名称不区分大小写包含原始名称，按目录顺序取第一个；空名称不匹配
func FirstMatch(items []models.CatalogItem, rawName string) *models.CatalogItem {
	needle := strings.ToLower(strings.TrimSpace(rawName))
	if needle == "" {
		return nil
	}
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), needle) {
			return &items[i]
		}
	}
	return nil
}

// CatalogMatcher 供应商目录匹配器
type CatalogMatcher struct {
	catalogRepo repository.CatalogRepository
	activeOnly  bool
}

// NewCatalogMatcher 创建匹配器，activeOnly 控制是否只匹配 ACTIVE 商品
func NewCatalogMatcher(catalogRepo repository.CatalogRepository, activeOnly bool) *CatalogMatcher {
	return &CatalogMatcher{catalogRepo: catalogRepo, activeOnly: activeOnly}
}

// Candidates 返回供应商可参与匹配的目录（按主键顺序）
func (m *CatalogMatcher) Candidates(ctx context.Context, supplierID string) ([]models.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.catalogRepo.ListBySupplier(supplierID, m.activeOnly)
}

// Match 在供应商目录中查找单个商品，未匹配时返回 nil, nil。
// 批量对账时 Reconcile 只调用一次 Candidates，再逐行使用 FirstMatch，结果与逐行 Match 一致。
func (m *CatalogMatcher) Match(ctx context.Context, supplierID, rawName string) (*models.CatalogItem, error) {
	if strings.TrimSpace(rawName) == "" {
		return nil, nil
	}
	items, err := m.Candidates(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return FirstMatch(items, rawName), nil
}
