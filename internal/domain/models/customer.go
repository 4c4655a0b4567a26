package models

import (
	"time"
)

// Membership is the customer's plan tier.
type Membership string

const (
	MembershipFree Membership = "free"
	MembershipPro  Membership = "pro"
)

// Customer links an authenticated user to their billing state.
// A user without a customer row is treated as free everywhere.
type Customer struct {
	UserID               string     `json:"user_id" db:"user_id"`
	Membership           Membership `json:"membership" db:"membership"`
	StripeCustomerID     *string    `json:"stripe_customer_id,omitempty" db:"stripe_customer_id"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty" db:"stripe_subscription_id"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// IsPro reports whether the customer is on the Pro plan.
func (c *Customer) IsPro() bool {
	return c != nil && c.Membership == MembershipPro
}
