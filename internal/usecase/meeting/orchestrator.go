package meeting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/summario-team/summario-api/internal/domain/entities"
)

// StatusEvent is an inbound bot status transition from the platform
// webhook
type StatusEvent struct {
	BotID     string
	Type      string
	OldStatus string
	NewStatus string
	Message   *string
}

// HandleStatusEvent processes one webhook event and returns a short
// note for the acknowledgment body. It never returns an error: the
// webhook is always acknowledged with 200, otherwise the platform
// retries events we have already decided to drop.
func (s *meetingService) HandleStatusEvent(ctx context.Context, event StatusEvent) string {
	if event.BotID == "" {
		s.logger.Warn("status event without bot id", zap.String("type", event.Type))
		return "missing id"
	}

	meeting, err := s.meetings.FindByBotID(ctx, event.BotID)
	if err != nil {
		s.logger.Error("status event lookup failed",
			zap.String("bot_id", event.BotID),
			zap.Error(err))
		return "meeting lookup failed"
	}
	if meeting == nil {
		s.logger.Warn("status event for unknown bot", zap.String("bot_id", event.BotID))
		return "meeting not found"
	}

	status, mapped := MapBotStatus(event.NewStatus)
	if !mapped {
		s.logger.Info("unmapped bot status dropped",
			zap.String("bot_id", event.BotID),
			zap.String("raw_status", event.NewStatus))
		return fmt.Sprintf("status %q not tracked", event.NewStatus)
	}

	s.logger.Info("bot status event",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("bot_id", event.BotID),
		zap.String("old_status", event.OldStatus),
		zap.String("new_status", string(status)))

	switch status {
	case entities.StatusDone:
		return s.completeRecording(ctx, meeting)
	case entities.StatusFailed:
		s.markFailed(ctx, meeting.ID, failureMessage(event))
		return ""
	default:
		if err := s.meetings.UpdateStatus(ctx, meeting.ID, status); err != nil {
			s.logger.Error("status update failed",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("status", string(status)),
				zap.Error(err))
			return "status update failed"
		}
		return ""
	}
}

// completeRecording pulls the finished session from the platform,
// persists transcript and participants, and hands the meeting to
// summary generation. Incomplete data fails the meeting: a DONE row
// without a transcript would poison every later stage.
func (s *meetingService) completeRecording(ctx context.Context, meeting *entities.Meeting) string {
	bot, err := s.bots.GetBot(ctx, *meeting.BotID)
	if err != nil {
		s.logger.Error("transcript fetch failed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("bot_id", *meeting.BotID),
			zap.Error(err))
		s.markFailed(ctx, meeting.ID, fmt.Sprintf("Failed to fetch transcript from the transcription service: %v", err))
		return "transcript fetch failed"
	}

	if transcriptEmpty(bot.Transcript) {
		s.markFailed(ctx, meeting.ID, "Transcription finished without transcript data")
		return "transcript missing"
	}
	if len(bot.Participants) == 0 {
		s.markFailed(ctx, meeting.ID, "Transcription finished without participant data")
		return "participants missing"
	}

	participants := make([]entities.Participant, 0, len(bot.Participants))
	for _, p := range bot.Participants {
		if p.IsBot {
			continue
		}
		participants = append(participants, entities.Participant{Name: p.Name, Avatar: p.Avatar})
	}
	encodedParticipants, err := encodeJSON(participants)
	if err != nil {
		s.markFailed(ctx, meeting.ID, fmt.Sprintf("Failed to store participant data: %v", err))
		return "participants encoding failed"
	}

	if err := s.meetings.UpdateFields(ctx, meeting.ID, map[string]interface{}{
		"raw_transcript": datatypes.JSON(bot.Transcript),
		"participants":   encodedParticipants,
		"status":         entities.StatusDone,
	}); err != nil {
		s.logger.Error("transcript persist failed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err))
		return "transcript persist failed"
	}

	if !s.queue.Enqueue(meeting.ID) {
		// Generation can be re-triggered explicitly; the transcript is
		// already safe in the row.
		s.logger.Warn("generation queue full, job dropped",
			zap.String("meeting_id", meeting.ID.String()))
		return "generation deferred"
	}
	return ""
}

// markFailed records a failure best-effort; a failed write here must
// not escalate, the webhook is acknowledged either way
func (s *meetingService) markFailed(ctx context.Context, meetingID uuid.UUID, message string) {
	if err := s.meetings.UpdateFields(ctx, meetingID, map[string]interface{}{
		"status":        entities.StatusFailed,
		"error_message": message,
	}); err != nil {
		s.logger.Error("failure write lost",
			zap.String("meeting_id", meetingID.String()),
			zap.String("message", message),
			zap.Error(err))
	}
}

func failureMessage(event StatusEvent) string {
	if event.Message != nil && *event.Message != "" {
		return *event.Message
	}
	return fmt.Sprintf("Bot session failed with status %q", event.NewStatus)
}

// transcriptEmpty treats absent, null, and empty-array transcripts as
// unusable
func transcriptEmpty(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == `""` {
		return true
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return len(arr) == 0
	}
	return false
}

func encodeJSON(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
