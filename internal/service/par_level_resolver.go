package service

import (
	"context"

	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/repository"
)

// ParLevelResolver 常备模板展开
type ParLevelResolver struct {
	parLevelRepo repository.ParLevelRepository
}

// NewParLevelResolver 创建常备模板解析器
func NewParLevelResolver(parLevelRepo repository.ParLevelRepository) *ParLevelResolver {
	return &ParLevelResolver{parLevelRepo: parLevelRepo}
}

// Resolve 将餐厅对供应商的首个模板展开为 (商品名, 数量) 序列；无模板时返回空序列
func (r *ParLevelResolver) Resolve(ctx context.Context, restaurantID, supplierID string) ([]extractor.IntentLine, error) {
	lines := []extractor.IntentLine{}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parLevel, err := r.parLevelRepo.FindFirstByPair(restaurantID, supplierID)
	if err != nil {
		return nil, err
	}
	if parLevel == nil {
		logger.Debugw("par_level_not_found", "restaurant_id", restaurantID, "supplier_id", supplierID)
		return lines, nil
	}
	for _, line := range parLevel.Lines {
		if line.CatalogItem == nil || line.CatalogItem.Name == "" {
			logger.Warnw("par_level_line_item_missing",
				"par_level_id", parLevel.ID,
				"line_id", line.ID,
				"catalog_item_id", line.CatalogItemID,
			)
			continue
		}
		lines = append(lines, extractor.IntentLine{Name: line.CatalogItem.Name, Quantity: line.Quantity})
	}
	return lines, nil
}
