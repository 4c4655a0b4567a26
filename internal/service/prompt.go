package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"promptstash/internal/config"
	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
	"promptstash/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type promptService struct {
	promptRepo repositories.PromptRepository
	folderRepo repositories.FolderRepository
	customers  services.CustomerService
	logger     *slog.Logger
}

// NewPromptService creates a new prompt service
func NewPromptService(
	promptRepo repositories.PromptRepository,
	folderRepo repositories.FolderRepository,
	customers services.CustomerService,
	logger *slog.Logger,
) services.PromptService {
	return &promptService{
		promptRepo: promptRepo,
		folderRepo: folderRepo,
		customers:  customers,
		logger:     logger,
	}
}

// ListPrompts retrieves all of a user's prompts, oldest first
func (s *promptService) ListPrompts(ctx context.Context, userID string) ([]models.Prompt, error) {
	prompts, err := s.promptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// An owner with no prompts gets an empty list, not null
	if prompts == nil {
		prompts = []models.Prompt{}
	}

	return prompts, nil
}

// CreatePrompt creates a new prompt, enforcing the free-tier limit.
//
// The count check and the insert are two separate statements with no
// serialization between them: two concurrent creates from the same free-tier
// user can both pass the check and both insert. That race is accepted; the
// cap is a product policy, not an integrity constraint.
func (s *promptService) CreatePrompt(ctx context.Context, userID string, req *services.CreatePromptRequest) (*models.Prompt, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	membership, err := s.customers.GetMembership(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}

	if membership != models.MembershipPro {
		count, err := s.promptRepo.CountByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count prompts: %w", err)
		}
		if count >= config.FreePlanPromptLimit {
			s.logger.Info("prompt limit reached",
				"user_id", userID,
				"count", count,
				"limit", config.FreePlanPromptLimit,
			)
			return nil, &domain.LimitExceededError{
				Limit: config.FreePlanPromptLimit,
				Tier:  string(membership),
			}
		}
	}

	if req.FolderID != nil {
		if err := s.checkFolder(ctx, userID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	prompt := &models.Prompt{
		UserID:      userID,
		FolderID:    req.FolderID,
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	s.logger.Info("prompt created",
		"id", prompt.ID,
		"user_id", userID,
		"name", prompt.Name,
	)

	return prompt, nil
}

// UpdatePrompt overwrites a prompt's mutable fields
func (s *promptService) UpdatePrompt(ctx context.Context, userID string, id int64, req *services.UpdatePromptRequest) (*models.Prompt, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	prompt, err := s.promptRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	prompt.Name = req.Name
	prompt.Description = req.Description
	prompt.Content = req.Content

	// Tri-state: only move the prompt if folder_id was present in the request
	if req.FolderID.Present {
		if req.FolderID.Value != nil {
			if err := s.checkFolder(ctx, userID, *req.FolderID.Value); err != nil {
				return nil, err
			}
		}
		prompt.FolderID = req.FolderID.Value
	}

	prompt.UpdatedAt = time.Now()

	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}

	s.logger.Info("prompt updated",
		"id", prompt.ID,
		"user_id", userID,
		"name", prompt.Name,
	)

	return prompt, nil
}

// DeletePrompt removes a prompt permanently and returns its final state
func (s *promptService) DeletePrompt(ctx context.Context, userID string, id int64) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.promptRepo.Delete(ctx, id, userID); err != nil {
		return nil, err
	}

	s.logger.Info("prompt deleted",
		"id", id,
		"user_id", userID,
		"name", prompt.Name,
	)

	return prompt, nil
}

// checkFolder verifies the target folder exists and belongs to the user.
// A foreign folder surfaces as a validation error, not the folder's existence.
func (s *promptService) checkFolder(ctx context.Context, userID string, folderID int64) error {
	if _, err := s.folderRepo.GetByID(ctx, folderID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: folder %d does not exist", domain.ErrValidation, folderID)
		}
		return err
	}
	return nil
}

// validateCreateRequest validates a prompt creation request.
// Empty strings are deliberately accepted for all three text fields;
// only the storage length caps are enforced.
func (s *promptService) validateCreateRequest(req *services.CreatePromptRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Length(0, config.MaxPromptNameLength)),
	)
}

// validateUpdateRequest validates a prompt update request
func (s *promptService) validateUpdateRequest(req *services.UpdatePromptRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Length(0, config.MaxPromptNameLength)),
	)
}
