package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SettingsRepository declares persistence operations for settings documents.
// Implementations surface the sentinel errors from errors.go rather than driver errors.
type SettingsRepository interface {
	// Create persists s with its caller-supplied id and returns it unchanged.
	Create(ctx context.Context, s model.Settings) (model.Settings, error)
	// List returns one page ordered by most recent modification first, plus the table total.
	List(ctx context.Context, p Page) (PageResult[model.Settings], error)
	// GetByID returns ErrNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (model.Settings, error)
	// Update replaces the payload of the row matching id; s.ID is ignored for matching.
	// The returned record always carries id. Returns ErrNotFound when no row matches.
	Update(ctx context.Context, id uuid.UUID, s model.Settings) (model.Settings, error)
	// Delete is idempotent and never returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}
