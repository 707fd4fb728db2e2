package handler

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/summario-team/summario-api/errors"
	meetingDTO "github.com/summario-team/summario-api/internal/adapter/dto/meeting"
	"github.com/summario-team/summario-api/internal/domain/entities"
	meetingUsecase "github.com/summario-team/summario-api/internal/usecase/meeting"
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	service meetingUsecase.Service
	logger  *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(service meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /v1/meetings
func (h *Meeting) Create(c echo.Context) error {
	var req meetingDTO.CreateMeetingRequest
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

	input := meetingUsecase.CreateInput{
		MeetingName:            req.MeetingName,
		MeetingURL:             req.MeetingURL,
		AgendaTopics:           toAgendaInputs(req.AgendaTopics),
		StartTimeOption:        req.StartTimeOption,
		ScheduledStartDatetime: req.ScheduledStartDatetime,
		EnableDiarization:      req.EnableDiarization,
		Language:               req.Language,
		SendInitialMessage:     req.SendInitialMessage,
	}

	meeting, err := h.service.Create(c.Request().Context(), userID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntity(meeting))
}

// Get handles GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.service.GetMeeting(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntity(meeting))
}

// List handles GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	meetings, err := h.service.ListMeetings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntities(meetings))
}

// StopBot handles POST /v1/meetings/:id/stop
func (h *Meeting) StopBot(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.service.StopBot(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntity(meeting))
}

// Approve handles POST /v1/meetings/:id/approve
func (h *Meeting) Approve(c echo.Context) error {
	var req meetingDTO.ApproveProtocolRequest
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
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.service.Approve(c.Request().Context(), userID, meetingID, req.ApprovedContent)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntity(meeting))
}

// UpdateAgenda handles PUT /v1/meetings/:id/agenda
func (h *Meeting) UpdateAgenda(c echo.Context) error {
	var req meetingDTO.UpdateAgendaRequest
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
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.service.UpdateAgenda(c.Request().Context(), userID, meetingID, toAgendaInputs(req.AgendaTopics))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntity(meeting))
}

// UpdateAccess handles PUT /v1/meetings/:id/access
func (h *Meeting) UpdateAccess(c echo.Context) error {
	var req meetingDTO.UpdateAccessRequest
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
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.service.UpdateAccessLevel(c.Request().Context(), userID, meetingID, entities.AccessLevel(req.AccessLevel))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetingDTO.FromEntity(meeting))
}

func toAgendaInputs(items []meetingDTO.AgendaTopicInput) []meetingUsecase.AgendaItemInput {
	out := make([]meetingUsecase.AgendaItemInput, len(items))
	for i, item := range items {
		out[i] = meetingUsecase.AgendaItemInput{
			ID:      item.ID,
			Topic:   item.Topic,
			Details: item.Details,
		}
	}
	return out
}
