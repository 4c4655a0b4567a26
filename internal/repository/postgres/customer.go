package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
)

// PostgresCustomerRepository implements the CustomerRepository interface
type PostgresCustomerRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(config *RepositoryConfig) repositories.CustomerRepository {
	return &PostgresCustomerRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByUserID retrieves a customer record by user ID
func (r *PostgresCustomerRepository) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	query := fmt.Sprintf(`
		SELECT user_id, membership, stripe_customer_id, stripe_subscription_id, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Customers)

	var customer models.Customer
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(
		&customer.UserID,
		&customer.Membership,
		&customer.StripeCustomerID,
		&customer.StripeSubscriptionID,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("customer %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return &customer, nil
}

// Upsert inserts or updates a customer record keyed by user ID
func (r *PostgresCustomerRepository) Upsert(ctx context.Context, customer *models.Customer) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, membership, stripe_customer_id, stripe_subscription_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET membership = EXCLUDED.membership,
		    stripe_customer_id = EXCLUDED.stripe_customer_id,
		    stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, r.tables.Customers)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		customer.UserID,
		customer.Membership,
		customer.StripeCustomerID,
		customer.StripeSubscriptionID,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}

	return nil
}
