package services

import (
	"context"

	"promptstash/internal/domain/models"
)

// CustomerService resolves a user's billing state.
type CustomerService interface {
	// GetCustomer returns the customer record for a user, synthesizing a
	// free-tier record when none exists yet.
	GetCustomer(ctx context.Context, userID string) (*models.Customer, error)

	// GetMembership returns the user's plan tier. A user with no customer
	// record is free. Store errors propagate; they are never silently
	// mapped to a tier.
	GetMembership(ctx context.Context, userID string) (models.Membership, error)

	// Invalidate drops any cached membership for the user. Called after
	// billing webhook events that may have changed the tier.
	Invalidate(userID string)
}
