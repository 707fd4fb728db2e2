package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/summario-team/summario-api/errors"
	"github.com/summario-team/summario-api/internal/domain/entities"
	"github.com/summario-team/summario-api/internal/domain/repositories"
	"github.com/summario-team/summario-api/internal/infrastructure/cache"
	"github.com/summario-team/summario-api/pkg/ai"
)

// Service generates structured meeting minutes and the per-user AI
// configuration driving them
type Service interface {
	// Generate produces the structured protocol for one meeting. The
	// meeting must be DONE with a stored transcript and the owner must
	// have an AI configuration. Any failure after preconditions marks
	// the meeting FAILED.
	Generate(ctx context.Context, meetingID uuid.UUID) error
	// GenerateTemplate derives a reusable prompt and template from an
	// example protocol and persists them on the user.
	GenerateTemplate(ctx context.Context, userID uuid.UUID, exampleProtocol, userInstructions string) (prompt, template string, err error)
	// ApplyEdit applies a free-form edit instruction to protocol
	// content and returns the edited markdown. Nothing is persisted.
	ApplyEdit(ctx context.Context, currentContent, editInstruction string) (string, error)
	// GetAIConfig returns the user's generation settings, configured or not.
	GetAIConfig(ctx context.Context, userID uuid.UUID) (*AIConfigView, error)
	// UpdateAIConfig overwrites the prompt/template/example directly,
	// bypassing template generation.
	UpdateAIConfig(ctx context.Context, userID uuid.UUID, prompt, template, exampleProtocol string) error
}

// AIConfigView is the settings surface exposed to the owner; unlike
// entities.AIConfig it is returned even when generation is not yet
// possible.
type AIConfigView struct {
	AIGeneratedPrompt   string `json:"ai_generated_prompt"`
	AIGeneratedTemplate string `json:"ai_generated_template"`
	ExampleProtocol     string `json:"example_protocol"`
	Configured          bool   `json:"configured"`
}

type summaryService struct {
	meetings repositories.MeetingRepository
	users    repositories.UserRepository
	aiConfig *cache.AIConfigCache
	gemini   *ai.GeminiClient
	logger   *zap.Logger
}

// NewService creates the summary use case
func NewService(
	meetings repositories.MeetingRepository,
	users repositories.UserRepository,
	aiConfig *cache.AIConfigCache,
	gemini *ai.GeminiClient,
	logger *zap.Logger,
) Service {
	return &summaryService{
		meetings: meetings,
		users:    users,
		aiConfig: aiConfig,
		gemini:   gemini,
		logger:   logger,
	}
}

// protocolSchema constrains generation to the two-part protocol shape
func protocolSchema() *ai.Schema {
	return &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"final_protocol_output": {Type: "STRING"},
			"analysis_and_sources": {
				Type: "ARRAY",
				Items: &ai.Schema{
					Type: "OBJECT",
					Properties: map[string]*ai.Schema{
						"topic":    {Type: "STRING"},
						"agendaId": {Type: "STRING"},
						"analysis": {
							Type: "OBJECT",
							Properties: map[string]*ai.Schema{
								"reasoning": {Type: "STRING"},
								"source_quotes": {
									Type: "ARRAY",
									Items: &ai.Schema{
										Type: "OBJECT",
										Properties: map[string]*ai.Schema{
											"speaker": {Type: "STRING"},
											"text":    {Type: "STRING"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func (s *summaryService) Generate(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return errors.ErrDBQueryFailed(err)
	}
	if meeting == nil {
		return errors.ErrMeetingNotFound(meetingID.String())
	}

	// Precondition failures return without touching the row; only a
	// generation attempt that actually started may mark it FAILED.
	if meeting.Status != entities.StatusDone || len(meeting.RawTranscript) == 0 {
		return errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status)).
			WithDetail("reason", "transcript not available or status is not DONE")
	}

	cfg, err := s.aiConfig.Get(ctx, meeting.UserID)
	if err != nil {
		return errors.ErrDBQueryFailed(err)
	}
	if cfg == nil {
		return errors.ErrAIConfigMissing()
	}

	prompt := s.buildPrompt(meeting, cfg)

	raw, err := s.gemini.GenerateStructured(ctx, prompt, protocolSchema())
	if err != nil {
		s.failGeneration(ctx, meetingID, fmt.Sprintf("AI generation failed: %v", err))
		return errors.ErrAIGenerationFailed(err)
	}

	var protocol entities.StructuredProtocol
	if err := json.Unmarshal([]byte(raw), &protocol); err != nil {
		s.failGeneration(ctx, meetingID, fmt.Sprintf("Failed to parse AI response: %v", err))
		return errors.ErrAIResponseInvalid(err)
	}
	if protocol.FinalProtocolOutput == "" {
		s.failGeneration(ctx, meetingID, "AI response missing protocol output")
		return errors.ErrAIResponseInvalid(fmt.Errorf("final_protocol_output is empty"))
	}

	encoded, err := json.Marshal(protocol)
	if err != nil {
		s.failGeneration(ctx, meetingID, fmt.Sprintf("Failed to store generated protocol: %v", err))
		return errors.ErrInternal(err)
	}

	if err := s.meetings.UpdateFields(ctx, meetingID, map[string]interface{}{
		"structured_protocol": datatypes.JSON(encoded),
		"status":              entities.StatusSummarized,
	}); err != nil {
		s.logger.Error("protocol persist failed",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return errors.ErrDBQueryFailed(err)
	}

	s.logger.Info("protocol generated",
		zap.String("meeting_id", meetingID.String()),
		zap.Int("analysis_topics", len(protocol.AnalysisAndSources)))
	return nil
}

// buildPrompt assembles the generation prompt: user prompt, date,
// transcript, agenda, template, example, and the output contract
func (s *summaryService) buildPrompt(meeting *entities.Meeting, cfg *entities.AIConfig) string {
	transcript := string(meeting.RawTranscript)
	if meeting.EnableDiarization {
		if lines := FormatTranscript(json.RawMessage(meeting.RawTranscript)); len(lines) > 0 {
			transcript = strings.Join(lines, "\n")
		}
	}

	agenda := "[]"
	if len(meeting.AgendaTopics) > 0 {
		agenda = string(meeting.AgendaTopics)
	}

	return fmt.Sprintf(`%s

Today's date is: %s

Here is the full transcript: %s

The agenda for this meeting was: %s

Fill out this template: %s

This is an example of an actual meeting protocol: %s

Your response MUST be a single JSON object with two top-level keys:
1. 'final_protocol_output': A single string containing the complete, formatted markdown protocol, filling the agenda topics.
2. 'analysis_and_sources': An array of objects. Each object must have three keys: 'topic' (the exact agenda topic string from the provided list), 'agendaId' (the corresponding ID for that agenda topic), and 'analysis' (an object containing 'reasoning' (why that summary was concluded), and 'source_quotes' (an array of { speaker: string, text: string } from the transcript)). Produce exactly one entry per agenda topic, in the agenda's order.`,
		cfg.Prompt,
		time.Now().Format("2006-01-02"),
		transcript,
		agenda,
		cfg.Template,
		cfg.ExampleProtocol,
	)
}

// failGeneration records the failure best-effort; the caller still
// returns the original error
func (s *summaryService) failGeneration(ctx context.Context, meetingID uuid.UUID, message string) {
	if err := s.meetings.UpdateFields(ctx, meetingID, map[string]interface{}{
		"status":        entities.StatusFailed,
		"error_message": message,
	}); err != nil {
		s.logger.Error("generation failure write lost",
			zap.String("meeting_id", meetingID.String()),
			zap.String("message", message),
			zap.Error(err))
	}
}

// templateResponse is the structured output of template generation
type templateResponse struct {
	AIGeneratedPrompt   string `json:"ai_generated_prompt"`
	AIGeneratedTemplate string `json:"ai_generated_template"`
}

func (s *summaryService) GenerateTemplate(ctx context.Context, userID uuid.UUID, exampleProtocol, userInstructions string) (string, string, error) {
	if strings.TrimSpace(exampleProtocol) == "" {
		return "", "", errors.ErrInvalidArgument("example_protocol is required")
	}

	raw, err := s.gemini.GenerateStructured(ctx, templateMetaPrompt(exampleProtocol, userInstructions), &ai.Schema{
		Type: "OBJECT",
		Properties: map[string]*ai.Schema{
			"ai_generated_prompt":   {Type: "STRING"},
			"ai_generated_template": {Type: "STRING"},
		},
	})
	if err != nil {
		return "", "", errors.ErrAIGenerationFailed(err)
	}

	var parsed templateResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", "", errors.ErrAIResponseInvalid(err)
	}
	if parsed.AIGeneratedPrompt == "" || parsed.AIGeneratedTemplate == "" {
		return "", "", errors.ErrAIResponseInvalid(fmt.Errorf("ai response missing prompt or template"))
	}

	if err := s.users.UpdateAIConfig(ctx, userID, parsed.AIGeneratedPrompt, parsed.AIGeneratedTemplate, exampleProtocol); err != nil {
		return "", "", errors.ErrDBQueryFailed(err)
	}
	s.aiConfig.Invalidate(ctx, userID)

	s.logger.Info("ai configuration generated", zap.String("user_id", userID.String()))
	return parsed.AIGeneratedPrompt, parsed.AIGeneratedTemplate, nil
}

func (s *summaryService) GetAIConfig(ctx context.Context, userID uuid.UUID) (*AIConfigView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed(err)
	}
	if user == nil {
		return nil, errors.ErrNotFound("User")
	}

	view := &AIConfigView{Configured: user.HasAIConfig()}
	if user.AIGeneratedPrompt != nil {
		view.AIGeneratedPrompt = *user.AIGeneratedPrompt
	}
	if user.AIGeneratedTemplate != nil {
		view.AIGeneratedTemplate = *user.AIGeneratedTemplate
	}
	if user.ExampleProtocol != nil {
		view.ExampleProtocol = *user.ExampleProtocol
	}
	return view, nil
}

func (s *summaryService) UpdateAIConfig(ctx context.Context, userID uuid.UUID, prompt, template, exampleProtocol string) error {
	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(template) == "" {
		return errors.ErrInvalidArgument("prompt and template are required")
	}

	if err := s.users.UpdateAIConfig(ctx, userID, prompt, template, exampleProtocol); err != nil {
		return errors.ErrDBQueryFailed(err)
	}
	s.aiConfig.Invalidate(ctx, userID)

	s.logger.Info("ai configuration updated", zap.String("user_id", userID.String()))
	return nil
}

func (s *summaryService) ApplyEdit(ctx context.Context, currentContent, editInstruction string) (string, error) {
	if currentContent == "" || editInstruction == "" {
		return "", errors.ErrInvalidArgument("current_content and edit_instruction are required")
	}

	edited, err := s.gemini.GenerateText(ctx, editPrompt(currentContent, editInstruction))
	if err != nil {
		return "", errors.ErrAIGenerationFailed(err)
	}
	return strings.TrimSpace(edited), nil
}
