package skribby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/summario-team/summario-api/pkg/config"
)

// Client is a minimal client for the Skribby bot platform
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Skribby client using values from the provided config
func NewClient(cfg *config.SkribbyConfig) *Client {
	base := "https://platform.skribby.io"
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	}
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is a non-2xx platform response. Callers classify by
// StatusCode (521 upstream down, 401 bad credentials, etc.).
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("skribby returned status %d: %s", e.StatusCode, body)
}

// DispatchRequest is the payload for bot dispatch
type DispatchRequest struct {
	TranscriptionModel string       `json:"transcription_model"`
	Service            string       `json:"service"`
	MeetingURL         string       `json:"meeting_url"`
	BotName            string       `json:"bot_name"`
	WebhookURL         string       `json:"webhook_url"`
	StopOptions        StopOptions  `json:"stop_options"`
	Lang               string       `json:"lang,omitempty"`
	InitialChatMessage string       `json:"initial_chat_message,omitempty"`
	ScheduledStartTime *int64       `json:"scheduled_start_time,omitempty"`
}

// StopOptions controls when the platform ends the bot session
type StopOptions struct {
	LastPersonDetection int `json:"last_person_detection"`
}

// Participant is a platform attendee record
type Participant struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	IsBot  bool   `json:"is_bot,omitempty"`
}

// Bot is the platform's bot resource, returned by the pull endpoint.
// Transcript is kept opaque; its schema belongs to the platform.
type Bot struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Transcript   json.RawMessage `json:"transcript,omitempty"`
	Participants []Participant   `json:"participants,omitempty"`
}

type dispatchResponse struct {
	ID string `json:"id"`
}

// Dispatch sends a bot into a meeting and returns the platform-assigned
// tracking id
func (c *Client) Dispatch(ctx context.Context, req DispatchRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/bot", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", readStatusError(resp)
	}

	var dr dispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return "", err
	}
	if dr.ID == "" {
		return "", fmt.Errorf("dispatch response missing bot id")
	}
	return dr.ID, nil
}

// GetBot pulls the bot resource, including final transcript and
// participants once the platform reports the session finished
func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/bot/"+botID, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, readStatusError(resp)
	}

	var bot Bot
	if err := json.NewDecoder(resp.Body).Decode(&bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// Stop asks the platform to end the bot session. The authoritative
// terminal transition still arrives via webhook.
func (c *Client) Stop(ctx context.Context, botID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/bot/"+botID+"/stop", nil)
	if err != nil {
		return err
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return readStatusError(resp)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func readStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}
