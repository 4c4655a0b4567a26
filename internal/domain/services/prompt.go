package services

import (
	"context"

	"promptstash/internal/domain/models"
	"promptstash/internal/httputil"
)

// PromptService handles prompt business logic. Every operation takes the
// authenticated user's ID and only ever touches that user's rows.
type PromptService interface {
	// ListPrompts retrieves all of a user's prompts, oldest first
	ListPrompts(ctx context.Context, userID string) ([]models.Prompt, error)

	// CreatePrompt creates a new prompt, enforcing the free-tier limit
	CreatePrompt(ctx context.Context, userID string, req *CreatePromptRequest) (*models.Prompt, error)

	// UpdatePrompt overwrites a prompt's mutable fields
	UpdatePrompt(ctx context.Context, userID string, id int64, req *UpdatePromptRequest) (*models.Prompt, error)

	// DeletePrompt removes a prompt permanently and returns its final state
	DeletePrompt(ctx context.Context, userID string, id int64) (*models.Prompt, error)
}

// CreatePromptRequest represents a prompt creation request
type CreatePromptRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	FolderID    *int64 `json:"folder_id,omitempty"` // optional, null = unfiled
}

// UpdatePromptRequest represents a prompt update request.
// Name, description and content are full replacements. FolderID is
// tri-state: absent = keep, null = unfile, value = move.
type UpdatePromptRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Content     string                 `json:"content"`
	FolderID    httputil.OptionalInt64 `json:"folder_id"`
}
