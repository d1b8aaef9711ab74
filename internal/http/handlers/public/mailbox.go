package public

import (
	"github.com/parlevel-next/internal/http/handlers/shared"
	"github.com/parlevel-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PollMailbox 立即处理当前供应商邮箱中的未消费邮件
func (h *Handler) PollMailbox(c *gin.Context) {
	party, ok := shared.CurrentParty(c)
	if !ok {
		return
	}
	report, err := h.ChannelPoller.Poll(c.Request.Context(), party.ID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, report)
}

// PreviewMailbox 预览当前供应商邮箱中来自合作餐厅的未消费邮件
func (h *Handler) PreviewMailbox(c *gin.Context) {
	party, ok := shared.CurrentParty(c)
	if !ok {
		return
	}
	previews, err := h.ChannelPoller.Preview(c.Request.Context(), party.ID)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, previews)
}
