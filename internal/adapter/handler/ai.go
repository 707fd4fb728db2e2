package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/summario-team/summario-api/errors"
	aiDTO "github.com/summario-team/summario-api/internal/adapter/dto/ai"
	summaryUsecase "github.com/summario-team/summario-api/internal/usecase/summary"
)

// AI handles summary generation and AI configuration requests
type AI struct {
	service summaryUsecase.Service
	queue   *summaryUsecase.Dispatcher
	logger  *zap.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(service summaryUsecase.Service, queue *summaryUsecase.Dispatcher, logger *zap.Logger) *AI {
	return &AI{
		service: service,
		queue:   queue,
		logger:  logger,
	}
}

// GenerateSummary handles POST /v1/ai/generate-summary. It re-triggers
// generation for a meeting whose automatic run failed or was dropped;
// the job goes through the same queue as webhook-triggered runs.
func (h *AI) GenerateSummary(c echo.Context) error {
	var req aiDTO.GenerateSummaryRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if _, err := currentUserID(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	if !h.queue.Enqueue(meetingID) {
		return HandleError(h.logger, c, errors.ErrInternal(nil))
	}
	return HandleSuccess(h.logger, c, map[string]string{"status": "queued"})
}

// GenerateTemplate handles POST /v1/ai/generate-template
func (h *AI) GenerateTemplate(c echo.Context) error {
	var req aiDTO.GenerateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	prompt, template, err := h.service.GenerateTemplate(c.Request().Context(), userID, req.ExampleProtocol, req.UserInstructions)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, aiDTO.GenerateTemplateResponse{
		AIGeneratedPrompt:   prompt,
		AIGeneratedTemplate: template,
	})
}

// ApplyEdit handles POST /v1/ai/apply-edit
func (h *AI) ApplyEdit(c echo.Context) error {
	var req aiDTO.ApplyEditRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if _, err := currentUserID(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	edited, err := h.service.ApplyEdit(c.Request().Context(), req.CurrentContent, req.EditInstruction)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, aiDTO.ApplyEditResponse{UpdatedContent: edited})
}

// GetConfig handles GET /v1/ai/config
func (h *AI) GetConfig(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	view, err := h.service.GetAIConfig(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, view)
}

// UpdateConfig handles PUT /v1/ai/config
func (h *AI) UpdateConfig(c echo.Context) error {
	var req aiDTO.UpdateAIConfigRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.UpdateAIConfig(c.Request().Context(), userID, req.AIGeneratedPrompt, req.AIGeneratedTemplate, req.ExampleProtocol); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"status": "updated"})
}
