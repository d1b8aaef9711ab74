package service

import (
	"github.com/parlevel-next/internal/models"
	"github.com/parlevel-next/internal/repository"
)

// OrderQueryService 订单查询
type OrderQueryService struct {
	orderRepo repository.OrderRepository
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orderRepo repository.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orderRepo: orderRepo}
}

// GetForParty 获取订单详情，仅订单双方可见
func (s *OrderQueryService) GetForParty(orderID uint, partyID string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if partyID != order.RestaurantID && partyID != order.SupplierID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}
