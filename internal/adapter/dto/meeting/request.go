package meeting

// AgendaTopicInput is one agenda item in a create or update request.
// The ID is optional: present when editing an existing item, absent for
// new ones.
type AgendaTopicInput struct {
	ID      *string `json:"id,omitempty"`
	Topic   string  `json:"topic" validate:"required,max=500"`
	Details *string `json:"details,omitempty"`
}

// CreateMeetingRequest schedules a bot into a meeting
type CreateMeetingRequest struct {
	MeetingName            string             `json:"meeting_name" validate:"required,max=255"`
	MeetingURL             string             `json:"meeting_url" validate:"required,url"`
	AgendaTopics           []AgendaTopicInput `json:"agenda_topics" validate:"required,min=1,dive"`
	StartTimeOption        string             `json:"start_time_option" validate:"required,oneof=now scheduled"`
	ScheduledStartDatetime string             `json:"scheduled_start_datetime,omitempty"`
	EnableDiarization      *bool              `json:"enable_diarization,omitempty"`
	Language               string             `json:"language,omitempty" validate:"omitempty,max=10"`
	SendInitialMessage     *bool              `json:"send_initial_message,omitempty"`
}

// UpdateAgendaRequest replaces the agenda of a meeting
type UpdateAgendaRequest struct {
	AgendaTopics []AgendaTopicInput `json:"agenda_topics" validate:"required,min=1,dive"`
}

// UpdateAccessRequest toggles sharing
type UpdateAccessRequest struct {
	AccessLevel string `json:"access_level" validate:"required,oneof=private public"`
}

// ApproveProtocolRequest finalizes the reviewed minutes
type ApproveProtocolRequest struct {
	ApprovedContent string `json:"approved_content" validate:"required"`
}
