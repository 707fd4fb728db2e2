package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

const (
	StatusInitialized MeetingStatus = "INITIALIZED"
	StatusScheduled   MeetingStatus = "SCHEDULED"
	StatusJoining     MeetingStatus = "JOINING"
	StatusRecording   MeetingStatus = "RECORDING"
	StatusProcessing  MeetingStatus = "PROCESSING"
	StatusDone        MeetingStatus = "DONE"
	StatusSummarized  MeetingStatus = "SUMMARIZED"
	StatusApproved    MeetingStatus = "APPROVED"
	StatusFailed      MeetingStatus = "FAILED"
)

// IsTerminal reports whether no further transition is expected.
func (s MeetingStatus) IsTerminal() bool {
	return s == StatusApproved
}

// BotActive reports whether the platform bot is still live for this
// meeting, i.e. a stop request makes sense.
func (s MeetingStatus) BotActive() bool {
	switch s {
	case StatusScheduled, StatusJoining, StatusRecording, StatusProcessing:
		return true
	}
	return false
}

// AccessLevel controls who may read a meeting record
type AccessLevel string

const (
	AccessPrivate AccessLevel = "private"
	AccessPublic  AccessLevel = "public"
)

// IsValid checks if the access level is a known value
func (a AccessLevel) IsValid() bool {
	return a == AccessPrivate || a == AccessPublic
}

// AgendaTopic is one agenda item. The ID is assigned at creation time
// (index-based) and stays stable across edits.
type AgendaTopic struct {
	ID      string  `json:"id"`
	Topic   string  `json:"topic"`
	Details *string `json:"details,omitempty"`
}

// SourceQuote is a transcript quote backing a piece of analysis
type SourceQuote struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TopicAnalysis explains how one agenda topic was summarized
type TopicAnalysis struct {
	Topic    string `json:"topic"`
	AgendaID string `json:"agendaId"`
	Analysis struct {
		Reasoning    string        `json:"reasoning"`
		SourceQuotes []SourceQuote `json:"source_quotes"`
	} `json:"analysis"`
}

// StructuredProtocol is the two-part generation output. It is written
// atomically by summary generation and never partially persisted.
type StructuredProtocol struct {
	FinalProtocolOutput string          `json:"final_protocol_output"`
	AnalysisAndSources  []TopicAnalysis `json:"analysis_and_sources"`
}

// Participant is a meeting attendee (bots filtered out)
type Participant struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Meeting is the central entity. The platform tracking id (BotID) lives
// in the external platform's namespace and is the only correlation key
// available on webhook delivery; it must never be conflated with the
// meeting's own id.
type Meeting struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	BotID  *string   `json:"bot_id,omitempty" gorm:"column:bot_id;type:varchar(255);uniqueIndex"`

	MeetingName       string         `json:"meeting_name" gorm:"type:varchar(255);not null"`
	MeetingURL        string         `json:"meeting_url" gorm:"type:varchar(500);not null"`
	AgendaTopics      datatypes.JSON `json:"agenda_topics" gorm:"type:jsonb;default:'[]'"`
	EnableDiarization bool           `json:"enable_diarization" gorm:"default:true;not null"`
	Language          string         `json:"language" gorm:"type:varchar(10);default:'auto';not null"`

	Status       MeetingStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ErrorMessage *string       `json:"error_message,omitempty" gorm:"type:text"`

	// Opaque platform transcript, persisted losslessly. Non-null iff
	// status is at or beyond DONE.
	RawTranscript      datatypes.JSON `json:"raw_transcript,omitempty" gorm:"type:jsonb"`
	Participants       datatypes.JSON `json:"participants,omitempty" gorm:"type:jsonb"`
	StructuredProtocol datatypes.JSON `json:"structured_protocol,omitempty" gorm:"type:jsonb"`

	AccessLevel      AccessLevel `json:"access_level" gorm:"type:varchar(20);default:'private';not null"`
	ScheduledStartAt *time.Time  `json:"scheduled_start_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting record for a successfully dispatched bot
func NewMeeting(userID uuid.UUID, botID string) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:          uuid.New(),
		UserID:      userID,
		BotID:       &botID,
		Status:      StatusInitialized,
		Language:    "auto",
		AccessLevel: AccessPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AgendaItems decodes the stored agenda topics
func (m *Meeting) AgendaItems() ([]AgendaTopic, error) {
	if len(m.AgendaTopics) == 0 {
		return nil, nil
	}
	var topics []AgendaTopic
	if err := json.Unmarshal(m.AgendaTopics, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// SetAgendaItems encodes agenda topics into the jsonb column
func (m *Meeting) SetAgendaItems(topics []AgendaTopic) error {
	b, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	m.AgendaTopics = b
	return nil
}

// Protocol decodes the stored structured protocol, nil when absent
func (m *Meeting) Protocol() (*StructuredProtocol, error) {
	if len(m.StructuredProtocol) == 0 {
		return nil, nil
	}
	var p StructuredProtocol
	if err := json.Unmarshal(m.StructuredProtocol, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParticipantList decodes the stored participants
func (m *Meeting) ParticipantList() ([]Participant, error) {
	if len(m.Participants) == 0 {
		return nil, nil
	}
	var list []Participant
	if err := json.Unmarshal(m.Participants, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// IsOwnedBy checks row-level ownership
func (m *Meeting) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID == userID
}

// IsReadableBy allows the owner always, and anyone when shared publicly
func (m *Meeting) IsReadableBy(userID uuid.UUID) bool {
	return m.IsOwnedBy(userID) || m.AccessLevel == AccessPublic
}
