package shared

import (
	"github.com/parlevel-next/internal/http/response"
	"github.com/parlevel-next/internal/models"

	"github.com/gin-gonic/gin"
)

// PartyContextKey 鉴权通过的主体在上下文中的键
const PartyContextKey = "party"

// CurrentParty 从上下文读取当前主体，缺失时直接写入 401 响应。
func CurrentParty(c *gin.Context) (*models.Party, bool) {
	value, exists := c.Get(PartyContextKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return nil, false
	}
	party, ok := value.(*models.Party)
	if !ok || party == nil {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return nil, false
	}
	return party, true
}
