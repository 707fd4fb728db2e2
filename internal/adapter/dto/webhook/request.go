package webhook

// StatusEventRequest is the bot platform's webhook payload. Binding is
// deliberately tolerant: a malformed payload is still acknowledged.
type StatusEventRequest struct {
	BotID string `json:"bot_id"`
	Type  string `json:"type"`
	Data  struct {
		OldStatus string `json:"old_status"`
		NewStatus string `json:"new_status"`
	} `json:"data"`
	Message *string `json:"message,omitempty"`
}

// AckResponse is the constant-shape webhook acknowledgment
type AckResponse struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}
