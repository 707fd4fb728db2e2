package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/summario-team/summario-api/internal/domain/entities"
)

// UserRepository defines data access for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error
	// UpdateAIConfig persists the generation configuration produced by
	// template generation or manual settings edits.
	UpdateAIConfig(ctx context.Context, id uuid.UUID, prompt, template, exampleProtocol string) error
}
