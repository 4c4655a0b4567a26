package repositories

import (
	"context"

	"promptstash/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create persists a new folder and fills in its assigned ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// ListByUser retrieves all folders owned by a user, oldest first
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)

	// GetByID retrieves a folder by ID, scoped to its owner
	GetByID(ctx context.Context, id int64, userID string) (*models.Folder, error)

	// Update renames a folder, scoped to its owner
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder, scoped to its owner. Prompts referencing the
	// folder are detached by the caller, not deleted.
	Delete(ctx context.Context, id int64, userID string) error
}
