package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. The AI configuration fields
// drive summary generation: absence of prompt or template is a
// precondition failure for generation, not a defect.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	// AI configuration
	ExampleProtocol     *string `json:"example_protocol,omitempty" gorm:"type:text"`
	AIGeneratedPrompt   *string `json:"ai_generated_prompt,omitempty" gorm:"column:ai_generated_prompt;type:text"`
	AIGeneratedTemplate *string `json:"ai_generated_template,omitempty" gorm:"column:ai_generated_template;type:text"`

	// Profile
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	Timezone  string  `json:"timezone" gorm:"type:varchar(50);default:'UTC';not null"`
	Language  string  `json:"language" gorm:"type:varchar(10);default:'en';not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewUser creates a new user with default values
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		IsActive:  true,
		Timezone:  "UTC",
		Language:  "en",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasAIConfig reports whether both prompt and template are configured
func (u *User) HasAIConfig() bool {
	return u.AIGeneratedPrompt != nil && *u.AIGeneratedPrompt != "" &&
		u.AIGeneratedTemplate != nil && *u.AIGeneratedTemplate != ""
}

// AIConfig is the read-only configuration surface consumed by summary
// generation
type AIConfig struct {
	Prompt          string `json:"prompt"`
	Template        string `json:"template"`
	ExampleProtocol string `json:"example_protocol"`
}

// AIConfiguration extracts the generation configuration, nil when the
// user has not configured prompt and template yet
func (u *User) AIConfiguration() *AIConfig {
	if !u.HasAIConfig() {
		return nil
	}
	cfg := &AIConfig{
		Prompt:   *u.AIGeneratedPrompt,
		Template: *u.AIGeneratedTemplate,
	}
	if u.ExampleProtocol != nil {
		cfg.ExampleProtocol = *u.ExampleProtocol
	}
	return cfg
}
