package ai

// GenerateSummaryRequest re-triggers minutes generation for a meeting
type GenerateSummaryRequest struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
}

// GenerateTemplateRequest derives a reusable AI configuration from an
// example protocol
type GenerateTemplateRequest struct {
	ExampleProtocol  string `json:"example_protocol" validate:"required"`
	UserInstructions string `json:"user_instructions,omitempty"`
}

// GenerateTemplateResponse returns the generated configuration
type GenerateTemplateResponse struct {
	AIGeneratedPrompt   string `json:"ai_generated_prompt"`
	AIGeneratedTemplate string `json:"ai_generated_template"`
}

// ApplyEditRequest applies one edit instruction to protocol content
type ApplyEditRequest struct {
	CurrentContent  string `json:"current_content" validate:"required"`
	EditInstruction string `json:"edit_instruction" validate:"required"`
}

// ApplyEditResponse carries the edited markdown
type ApplyEditResponse struct {
	UpdatedContent string `json:"updated_content"`
}

// UpdateAIConfigRequest replaces the user's generation settings
type UpdateAIConfigRequest struct {
	AIGeneratedPrompt   string `json:"ai_generated_prompt" validate:"required"`
	AIGeneratedTemplate string `json:"ai_generated_template" validate:"required"`
	ExampleProtocol     string `json:"example_protocol,omitempty"`
}
