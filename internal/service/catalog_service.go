package service

import (
	"strings"

	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
)

const maxCatalogSearchLimit = 100

// CatalogService 供应商目录查询
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	activeOnly  bool
}

// NewCatalogService 创建目录查询服务
func NewCatalogService(catalogRepo repository.CatalogRepository, activeOnly bool) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo, activeOnly: activeOnly}
}

// Search 按关键字搜索供应商目录
func (s *CatalogService) Search(supplierID, keyword string, limit int) ([]models.CatalogItem, error) {
	if strings.TrimSpace(supplierID) == "" {
		return nil, ErrPartyNotFound
	}
	if limit <= 0 || limit > maxCatalogSearchLimit {
		limit = maxCatalogSearchLimit
	}
	return s.catalogRepo.SearchByName(repository.CatalogSearchFilter{
		SupplierID: supplierID,
		Keyword:    keyword,
		OnlyActive: s.activeOnly,
		Limit:      limit,
	})
}
