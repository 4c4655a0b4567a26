package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"promptstash/internal/config"
	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
	"promptstash/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	promptRepo repositories.PromptRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	promptRepo repositories.PromptRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		promptRepo: promptRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListFolders retrieves all of a user's folders, oldest first
func (s *folderService) ListFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	folder := &models.Folder{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"user_id", userID,
		"name", folder.Name,
	)

	return folder, nil
}

// UpdateFolder renames a folder
func (s *folderService) UpdateFolder(ctx context.Context, userID string, id int64, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	folder.Name = strings.TrimSpace(req.Name)
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"user_id", userID,
		"name", folder.Name,
	)

	return folder, nil
}

// DeleteFolder deletes a folder. Prompts filed in it are detached, never
// deleted: the detach and the delete run in one transaction so a prompt can
// never reference a folder that no longer exists. The schema's
// ON DELETE SET NULL covers out-of-band deletes as well.
func (s *folderService) DeleteFolder(ctx context.Context, userID string, id int64) error {
	folder, err := s.folderRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.promptRepo.DetachFolder(txCtx, id, userID); err != nil {
			return err
		}
		return s.folderRepo.Delete(txCtx, id, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"user_id", userID,
		"name", folder.Name,
	)

	return nil
}

// validateName validates a folder name
func (s *folderService) validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
	)
}
