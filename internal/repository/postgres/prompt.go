package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
)

// PostgresPromptRepository implements the PromptRepository interface.
// All single-row operations filter on user_id in the same statement as the
// id, so a prompt owned by someone else scans/affects zero rows and surfaces
// as domain.ErrNotFound.
type PostgresPromptRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPromptRepository creates a new prompt repository
func NewPromptRepository(config *RepositoryConfig) repositories.PromptRepository {
	return &PostgresPromptRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create persists a new prompt
func (r *PostgresPromptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, name, description, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Prompts)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		prompt.UserID,
		prompt.FolderID,
		prompt.Name,
		prompt.Description,
		prompt.Content,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	).Scan(&prompt.ID, &prompt.CreatedAt, &prompt.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder does not exist: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create prompt: %w", err)
	}

	return nil
}

// ListByUser retrieves all prompts owned by a user, ordered by creation time
func (r *PostgresPromptRepository) ListByUser(ctx context.Context, userID string) ([]models.Prompt, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, folder_id, name, description, content, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, r.tables.Prompts)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var prompt models.Prompt
		err := rows.Scan(
			&prompt.ID,
			&prompt.UserID,
			&prompt.FolderID,
			&prompt.Name,
			&prompt.Description,
			&prompt.Content,
			&prompt.CreatedAt,
			&prompt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompts: %w", err)
	}

	return prompts, nil
}

// GetByID retrieves a prompt by ID, scoped to its owner
func (r *PostgresPromptRepository) GetByID(ctx context.Context, id int64, userID string) (*models.Prompt, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, folder_id, name, description, content, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Prompts)

	var prompt models.Prompt
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID).Scan(
		&prompt.ID,
		&prompt.UserID,
		&prompt.FolderID,
		&prompt.Name,
		&prompt.Description,
		&prompt.Content,
		&prompt.CreatedAt,
		&prompt.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get prompt: %w", err)
	}

	return &prompt, nil
}

// Update overwrites a prompt's mutable fields, scoped to its owner
func (r *PostgresPromptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, name = $2, description = $3, content = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, r.tables.Prompts)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		prompt.FolderID,
		prompt.Name,
		prompt.Description,
		prompt.Content,
		prompt.UpdatedAt,
		prompt.ID,
		prompt.UserID,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder does not exist: %w", domain.ErrValidation)
		}
		return fmt.Errorf("update prompt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prompt %d: %w", prompt.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a prompt permanently, scoped to its owner
func (r *PostgresPromptRepository) Delete(ctx context.Context, id int64, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Prompts)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountByUser counts prompts owned by a user
func (r *PostgresPromptRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE user_id = $1
	`, r.tables.Prompts)

	var count int
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count prompts: %w", err)
	}

	return count, nil
}

// DetachFolder clears the folder reference on all prompts in a folder.
// The prompts themselves are untouched.
func (r *PostgresPromptRepository) DetachFolder(ctx context.Context, folderID int64, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = NULL
		WHERE folder_id = $1 AND user_id = $2
	`, r.tables.Prompts)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, userID); err != nil {
		return fmt.Errorf("detach prompts from folder: %w", err)
	}

	return nil
}
