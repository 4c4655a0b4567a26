package repositories

import (
	"context"

	"promptstash/internal/domain/models"
)

// PromptRepository defines data access operations for prompts.
// Every operation that targets a single prompt is scoped by user ID in the
// query itself, so a missing row and a foreign row are indistinguishable.
type PromptRepository interface {
	// Create persists a new prompt and fills in its assigned ID and timestamps
	Create(ctx context.Context, prompt *models.Prompt) error

	// ListByUser retrieves all prompts owned by a user, oldest first
	ListByUser(ctx context.Context, userID string) ([]models.Prompt, error)

	// GetByID retrieves a prompt by ID, scoped to its owner
	GetByID(ctx context.Context, id int64, userID string) (*models.Prompt, error)

	// Update overwrites a prompt's mutable fields, scoped to its owner
	Update(ctx context.Context, prompt *models.Prompt) error

	// Delete removes a prompt permanently, scoped to its owner
	Delete(ctx context.Context, id int64, userID string) error

	// CountByUser counts prompts owned by a user (free-tier limit check)
	CountByUser(ctx context.Context, userID string) (int, error)

	// DetachFolder clears the folder reference on all prompts in a folder
	DetachFolder(ctx context.Context, folderID int64, userID string) error
}
