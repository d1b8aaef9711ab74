package public

import (
	"strconv"
	"strings"

	"github.com/parlevel-next/internal/http/handlers/shared"
	"github.com/parlevel-next/internal/http/response"
	"github.com/parlevel-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderFromTextRequest 文本下单请求
type CreateOrderFromTextRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required"`
	SupplierID   string `json:"supplier_id" binding:"required"`
	OrderText    string `json:"order_text" binding:"required"`
}

// CreateOrderFromText 自由文本下单
func (h *Handler) CreateOrderFromText(c *gin.Context) {
	party, ok := shared.CurrentParty(c)
	if !ok {
		return
	}
	var req CreateOrderFromTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "restaurant_id, supplier_id and order_text are required", nil)
		return
	}
	restaurantID := strings.TrimSpace(req.RestaurantID)
	supplierID := strings.TrimSpace(req.SupplierID)
	if party.ID != restaurantID && party.ID != supplierID {
		shared.RespondError(c, response.CodeForbidden, "caller is not a party to this order", nil)
		return
	}

	result, err := h.OrderIntakeService.CreateFromText(c.Request.Context(), service.CreateOrderFromTextInput{
		RestaurantID: restaurantID,
		SupplierID:   supplierID,
		OrderText:    req.OrderText,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	shared.RequestLog(c).Infow("order_created_from_text",
		"order_id", result.OrderID,
		"order_no", result.OrderNo,
		"caller_id", party.ID,
		"lines", len(result.FinalItems),
		"unmatched", len(result.UnmatchedItems),
	)
	response.SuccessWithMsg(c, result.Message, result)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	party, ok := shared.CurrentParty(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		shared.RespondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderQueryService.GetForParty(uint(id), party.ID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
