package repositories

import (
	"context"

	"promptstash/internal/domain/models"
)

// CustomerRepository defines data access operations for customer billing records
type CustomerRepository interface {
	// GetByUserID retrieves a customer record. Returns domain.ErrNotFound
	// when no record exists; callers treat that as the free tier.
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)

	// Upsert inserts or updates a customer record keyed by user ID
	Upsert(ctx context.Context, customer *models.Customer) error
}
