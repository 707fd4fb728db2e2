package meeting

import (
	"time"

	"github.com/summario-team/summario-api/internal/domain/entities"
)

// MeetingResponse is the outward shape of a meeting record
type MeetingResponse struct {
	ID                 string                         `json:"id"`
	MeetingName        string                         `json:"meeting_name"`
	MeetingURL         string                         `json:"meeting_url"`
	Status             string                         `json:"status"`
	AgendaTopics       []entities.AgendaTopic         `json:"agenda_topics"`
	EnableDiarization  bool                           `json:"enable_diarization"`
	Language           string                         `json:"language"`
	Participants       []entities.Participant         `json:"participants,omitempty"`
	StructuredProtocol *entities.StructuredProtocol   `json:"structured_protocol,omitempty"`
	ErrorMessage       *string                        `json:"error_message,omitempty"`
	AccessLevel        string                         `json:"access_level"`
	ScheduledStartAt   *time.Time                     `json:"scheduled_start_at,omitempty"`
	CreatedAt          time.Time                      `json:"created_at"`
	UpdatedAt          time.Time                      `json:"updated_at"`
}

// FromEntity maps a meeting entity into the response shape. Decode
// failures on stored JSON degrade to empty fields rather than failing
// the read.
func FromEntity(m *entities.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:                m.ID.String(),
		MeetingName:       m.MeetingName,
		MeetingURL:        m.MeetingURL,
		Status:            string(m.Status),
		EnableDiarization: m.EnableDiarization,
		Language:          m.Language,
		ErrorMessage:      m.ErrorMessage,
		AccessLevel:       string(m.AccessLevel),
		ScheduledStartAt:  m.ScheduledStartAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if topics, err := m.AgendaItems(); err == nil {
		resp.AgendaTopics = topics
	}
	if participants, err := m.ParticipantList(); err == nil {
		resp.Participants = participants
	}
	if protocol, err := m.Protocol(); err == nil {
		resp.StructuredProtocol = protocol
	}
	return resp
}

// FromEntities maps a list of meetings
func FromEntities(meetings []*entities.Meeting) []*MeetingResponse {
	out := make([]*MeetingResponse, len(meetings))
	for i, m := range meetings {
		out[i] = FromEntity(m)
	}
	return out
}
