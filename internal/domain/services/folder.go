package services

import (
	"context"

	"promptstash/internal/domain/models"
)

// FolderService handles folder business logic
type FolderService interface {
	// ListFolders retrieves all of a user's folders, oldest first
	ListFolders(ctx context.Context, userID string) ([]models.Folder, error)

	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// UpdateFolder renames a folder
	UpdateFolder(ctx context.Context, userID string, id int64, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder. Prompts filed in it are detached
	// (folder reference cleared), never deleted.
	DeleteFolder(ctx context.Context, userID string, id int64) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// UpdateFolderRequest represents a folder rename request
type UpdateFolderRequest struct {
	Name string `json:"name"`
}
