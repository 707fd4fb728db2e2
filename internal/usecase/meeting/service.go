package meeting

import (
	"context"
	stdErrors "errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summario-team/summario-api/errors"
	"github.com/summario-team/summario-api/internal/domain/entities"
	"github.com/summario-team/summario-api/internal/domain/repositories"
	"github.com/summario-team/summario-api/internal/infrastructure/external/skribby"
	"github.com/summario-team/summario-api/pkg/config"
)

// GenerationQueue accepts summary generation work. Enqueue reports
// whether the job was accepted; a full queue drops the job.
type GenerationQueue interface {
	Enqueue(meetingID uuid.UUID) bool
}

// AgendaItemInput is one agenda topic as submitted by the client
type AgendaItemInput struct {
	ID      *string `json:"id,omitempty"`
	Topic   string  `json:"topic"`
	Details *string `json:"details,omitempty"`
}

// CreateInput carries everything needed to schedule a bot and open a
// meeting record
type CreateInput struct {
	MeetingName            string
	MeetingURL             string
	AgendaTopics           []AgendaItemInput
	StartTimeOption        string // "now" or "scheduled"
	ScheduledStartDatetime string // RFC 3339, required when scheduled
	EnableDiarization      *bool  // nil defaults to true
	Language               string // "" defaults to "auto"
	SendInitialMessage     *bool  // nil defaults to true
}

// Service is the meeting lifecycle use case
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*entities.Meeting, error)
	GetMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error)
	ListMeetings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error)
	StopBot(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error)
	Approve(ctx context.Context, userID, meetingID uuid.UUID, approvedContent string) (*entities.Meeting, error)
	UpdateAgenda(ctx context.Context, userID, meetingID uuid.UUID, items []AgendaItemInput) (*entities.Meeting, error)
	UpdateAccessLevel(ctx context.Context, userID, meetingID uuid.UUID, level entities.AccessLevel) (*entities.Meeting, error)
	HandleStatusEvent(ctx context.Context, event StatusEvent) string
}

type meetingService struct {
	meetings repositories.MeetingRepository
	bots     *skribby.Client
	queue    GenerationQueue
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates the meeting use case
func NewService(
	meetings repositories.MeetingRepository,
	bots *skribby.Client,
	queue GenerationQueue,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &meetingService{
		meetings: meetings,
		bots:     bots,
		queue:    queue,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create validates the request, dispatches a platform bot and persists
// the meeting record. Nothing is persisted when dispatch fails; a bot
// that cannot be tracked must not leave an orphan row.
func (s *meetingService) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*entities.Meeting, error) {
	service, err := DetectService(input.MeetingURL)
	if err != nil {
		return nil, err
	}

	if len(input.AgendaTopics) == 0 {
		return nil, errors.ErrInvalidArgument("agenda_topics must be a non-empty array")
	}

	var scheduledAt *time.Time
	var scheduledUnix *int64
	if input.StartTimeOption == "scheduled" {
		if input.ScheduledStartDatetime == "" {
			return nil, errors.ErrInvalidArgument("scheduled_start_datetime is required when start_time_option is 'scheduled'")
		}
		parsed, err := time.Parse(time.RFC3339, input.ScheduledStartDatetime)
		if err != nil {
			return nil, errors.ErrInvalidArgument("scheduled_start_datetime must be a valid RFC 3339 timestamp")
		}
		if !parsed.After(time.Now()) {
			return nil, errors.ErrInvalidArgument("scheduled_start_datetime must be in the future")
		}
		unix := parsed.Unix()
		scheduledAt = &parsed
		scheduledUnix = &unix
	}

	enableDiarization := true
	if input.EnableDiarization != nil {
		enableDiarization = *input.EnableDiarization
	}
	language := input.Language
	if language == "" {
		language = "auto"
	}

	model := SelectTranscriptionModel(enableDiarization)

	dispatch := skribby.DispatchRequest{
		TranscriptionModel: model,
		Service:            service,
		MeetingURL:         input.MeetingURL,
		BotName:            s.cfg.Skribby.BotName,
		WebhookURL:         s.cfg.WebhookURL(),
		StopOptions:        skribby.StopOptions{LastPersonDetection: 0},
		ScheduledStartTime: scheduledUnix,
	}
	if lang := MapLanguage(model, language); lang != "" {
		dispatch.Lang = lang
	}

	sendInitialMessage := true
	if input.SendInitialMessage != nil {
		sendInitialMessage = *input.SendInitialMessage
	}
	if sendInitialMessage {
		dispatch.InitialChatMessage = ConsentMessage(language)
	}

	botID, err := s.bots.Dispatch(ctx, dispatch)
	if err != nil {
		return nil, s.classifyDispatchError(err)
	}

	meeting := entities.NewMeeting(userID, botID)
	meeting.MeetingName = input.MeetingName
	meeting.MeetingURL = input.MeetingURL
	meeting.EnableDiarization = enableDiarization
	meeting.Language = language
	meeting.ScheduledStartAt = scheduledAt
	if input.StartTimeOption == "scheduled" {
		meeting.Status = entities.StatusScheduled
	}

	topics := make([]entities.AgendaTopic, len(input.AgendaTopics))
	for i, item := range input.AgendaTopics {
		topics[i] = entities.AgendaTopic{
			ID:      strconv.Itoa(i),
			Topic:   item.Topic,
			Details: item.Details,
		}
	}
	if err := meeting.SetAgendaItems(topics); err != nil {
		return nil, errors.ErrInternal(err)
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		// The bot is already dispatched at this point; surface the
		// tracking id so the session can be cleaned up manually.
		s.logger.Error("meeting insert failed after bot dispatch",
			zap.String("bot_id", botID),
			zap.Error(err))
		return nil, errors.ErrDBQueryFailed(err)
	}

	s.logger.Info("meeting created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("bot_id", botID),
		zap.String("service", service),
		zap.String("model", model),
		zap.String("status", string(meeting.Status)))

	return meeting, nil
}

func (s *meetingService) classifyDispatchError(err error) error {
	var statusErr *skribby.StatusError
	if stdErrors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 521:
			return errors.ErrBotPlatformUnavailable(err)
		case 401:
			return errors.ErrBotPlatformAuthFailed(err)
		}
	}
	return errors.ErrBotDispatchFailed(err)
}

// GetMeeting loads one meeting. The owner can always read it; others
// only when sharing is public.
func (s *meetingService) GetMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.IsReadableBy(userID) {
		// Hide the row's existence from non-owners
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	return meeting, nil
}

// ListMeetings returns the caller's meetings, newest first
func (s *meetingService) ListMeetings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	meetings, err := s.meetings.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	return meetings, nil
}

// StopBot asks the platform to end the bot session early. The status
// advances optimistically to PROCESSING; the authoritative transition
// still arrives via webhook.
func (s *meetingService) StopBot(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.BotID == nil || *meeting.BotID == "" {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status)).
			WithDetail("reason", "meeting has no bot session")
	}
	if !meeting.Status.BotActive() {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status))
	}

	if err := s.bots.Stop(ctx, *meeting.BotID); err != nil {
		return nil, errors.ErrBotStopRejected(err)
	}

	if err := s.meetings.UpdateStatus(ctx, meeting.ID, entities.StatusProcessing); err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	meeting.Status = entities.StatusProcessing

	s.logger.Info("bot stop requested",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("bot_id", *meeting.BotID))

	return meeting, nil
}

// Approve finalizes the minutes. Only final_protocol_output is replaced
// with the human-approved text; analysis_and_sources stays untouched.
func (s *meetingService) Approve(ctx context.Context, userID, meetingID uuid.UUID, approvedContent string) (*entities.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if approvedContent == "" {
		return nil, errors.ErrInvalidArgument("approved_content is required")
	}

	protocol, err := meeting.Protocol()
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if protocol == nil {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status)).
			WithDetail("reason", "no generated protocol to approve")
	}

	protocol.FinalProtocolOutput = approvedContent
	encoded, err := encodeJSON(protocol)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	if err := s.meetings.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"structured_protocol": encoded,
		"status":              entities.StatusApproved,
	}); err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}

	meeting.StructuredProtocol = encoded
	meeting.Status = entities.StatusApproved

	s.logger.Info("protocol approved", zap.String("meeting_id", meeting.ID.String()))
	return meeting, nil
}

// UpdateAgenda replaces the agenda. Items carrying an id keep it; new
// items get an index-based id, so ids assigned at creation stay stable.
func (s *meetingService) UpdateAgenda(ctx context.Context, userID, meetingID uuid.UUID, items []AgendaItemInput) (*entities.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, errors.ErrInvalidArgument("agenda_topics must be a non-empty array")
	}

	topics := make([]entities.AgendaTopic, len(items))
	for i, item := range items {
		id := strconv.Itoa(i)
		if item.ID != nil && *item.ID != "" {
			id = *item.ID
		}
		topics[i] = entities.AgendaTopic{
			ID:      id,
			Topic:   item.Topic,
			Details: item.Details,
		}
	}
	if err := meeting.SetAgendaItems(topics); err != nil {
		return nil, errors.ErrInternal(err)
	}

	if err := s.meetings.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"agenda_topics": meeting.AgendaTopics,
	}); err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	return meeting, nil
}

// UpdateAccessLevel toggles sharing between private and public
func (s *meetingService) UpdateAccessLevel(ctx context.Context, userID, meetingID uuid.UUID, level entities.AccessLevel) (*entities.Meeting, error) {
	meeting, err := s.ownedMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if !level.IsValid() {
		return nil, errors.ErrInvalidArgument("access_level must be 'private' or 'public'")
	}

	if err := s.meetings.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"access_level": level,
	}); err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	meeting.AccessLevel = level
	return meeting, nil
}

// ownedMeeting loads a meeting and enforces ownership for mutations.
// Unlike reads, a non-owner gets a distinct authorization error here:
// mutating someone else's meeting is forbidden, not invisible.
func (s *meetingService) ownedMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.IsOwnedBy(userID) {
		return nil, errors.ErrPermissionDenied("only the meeting owner may modify it")
	}
	return meeting, nil
}
