package shared

import (
	"errors"

	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/http/response"
	"github.com/parlevel-next/internal/logger"
	"github.com/parlevel-next/internal/mailbox"
	"github.com/parlevel-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// mappedError 业务错误到接口错误响应的映射
type mappedError struct {
	target error
	code   int
	msg    string
}

var serviceErrorRules = []mappedError{
	{target: service.ErrInvalidOrderRequest, code: response.CodeBadRequest, msg: "restaurant_id, supplier_id and order_text are required"},
	{target: extractor.ErrEmptyOrderText, code: response.CodeBadRequest, msg: "order text is empty"},
	{target: service.ErrPartyNotFound, code: response.CodeNotFound, msg: "party not found"},
	{target: service.ErrPartyRoleMismatch, code: response.CodeForbidden, msg: "party role does not allow this operation"},
	{target: service.ErrPartyDisabled, code: response.CodeForbidden, msg: "party is disabled"},
	{target: service.ErrPartnershipNotActive, code: response.CodeForbidden, msg: "no active partnership between restaurant and supplier"},
	{target: service.ErrOrderAccessDenied, code: response.CodeForbidden, msg: "order not visible to caller"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrNoOrderLines, code: response.CodeUnprocessableEntity, msg: "no catalog item matched the order text"},
	{target: service.ErrMailboxNotConnected, code: response.CodeConflict, msg: "mailbox not connected"},
	{target: service.ErrPollInProgress, code: response.CodeConflict, msg: "mailbox poll already in progress"},
}

// RespondServiceError 将业务错误映射为统一响应，未识别的错误记录日志并返回 500。
func RespondServiceError(c *gin.Context, err error) {
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			RespondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	var formatErr *extractor.ExtractionFormatError
	if errors.As(err, &formatErr) {
		RequestLog(c).Warnw("handler_extraction_format_error", "reason", formatErr.Reason)
		RespondError(c, response.CodeUnprocessableEntity, "order text could not be parsed", nil)
		return
	}
	var extractErr *extractor.ExtractionTransportError
	if errors.As(err, &extractErr) {
		RespondError(c, response.CodeBadGateway, "order extraction service unavailable", err)
		return
	}
	var channelErr *mailbox.ChannelTransportError
	if errors.As(err, &channelErr) {
		RespondError(c, response.CodeBadGateway, "mailbox service unavailable", err)
		return
	}
	if errors.Is(err, service.ErrOrderPersistFailed) {
		RespondError(c, response.CodeInternal, "order could not be saved", err)
		return
	}
	RespondError(c, response.CodeInternal, "internal error", err)
}
