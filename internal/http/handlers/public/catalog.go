package public

import (
	"strconv"
	"strings"

	"github.com/parlevel-next/internal/http/handlers/shared"
	"github.com/parlevel-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SearchCatalog 按关键字搜索供应商目录
func (h *Handler) SearchCatalog(c *gin.Context) {
	if _, ok := shared.CurrentParty(c); !ok {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondError(c, response.CodeBadRequest, "invalid limit", nil)
			return
		}
		limit = parsed
	}
	items, err := h.CatalogService.Search(c.Param("supplier_id"), c.Query("q"), limit)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, items)
}
