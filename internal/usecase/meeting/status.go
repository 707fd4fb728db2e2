package meeting

import (
	"strings"

	"github.com/summario-team/summario-api/internal/domain/entities"
)

// MapBotStatus translates a raw bot platform status into a meeting
// status. The second return value is false for statuses outside the
// allow-list; those events are acknowledged and dropped, never written.
func MapBotStatus(raw string) (entities.MeetingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "joining":
		return entities.StatusJoining, true
	case "recording":
		return entities.StatusRecording, true
	case "processing", "transcribing":
		return entities.StatusProcessing, true
	case "finished":
		return entities.StatusDone, true
	case "failed", "not_admitted", "auth_required", "invalid_credentials":
		return entities.StatusFailed, true
	default:
		return "", false
	}
}
