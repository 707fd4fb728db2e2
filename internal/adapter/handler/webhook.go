package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	webhookDTO "github.com/summario-team/summario-api/internal/adapter/dto/webhook"
	meetingUsecase "github.com/summario-team/summario-api/internal/usecase/meeting"
)

// Webhook receives bot status callbacks from the platform
type Webhook struct {
	service meetingUsecase.Service
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(service meetingUsecase.Service, logger *zap.Logger) *Webhook {
	return &Webhook{
		service: service,
		logger:  logger,
	}
}

// BotStatus handles POST /v1/webhooks/bot. Every delivery is answered
// with 200: a non-2xx here makes the platform retry events this side
// has already chosen to drop.
func (h *Webhook) BotStatus(c echo.Context) error {
	var req webhookDTO.StatusEventRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("unreadable webhook payload", zap.Error(err))
		return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "received", Note: "invalid payload"})
	}

	note := h.service.HandleStatusEvent(c.Request().Context(), meetingUsecase.StatusEvent{
		BotID:     req.BotID,
		Type:      req.Type,
		OldStatus: req.Data.OldStatus,
		NewStatus: req.Data.NewStatus,
		Message:   req.Message,
	})

	return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "received", Note: note})
}
