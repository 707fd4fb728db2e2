package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/summario-team/summario-api/internal/domain/entities"
)

// MeetingRepository defines data access for meetings
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	// FindByBotID correlates an inbound webhook event by the platform
	// tracking id. Returns (nil, nil) when no meeting matches.
	FindByBotID(ctx context.Context, botID string) (*entities.Meeting, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error)
	Update(ctx context.Context, meeting *entities.Meeting) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error
	// UpdateFields applies a partial column update on one row. The
	// datastore's single-row update semantics are the only concurrency
	// boundary for webhook races.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}
