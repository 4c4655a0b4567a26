package services

import (
	"context"
)

// BillingService handles the subscription checkout flow and the webhook
// events the payment provider sends back.
type BillingService interface {
	// CheckoutLink builds the hosted checkout URL for a user to upgrade
	// to the Pro plan.
	CheckoutLink(userID string) (string, error)

	// HandleWebhook verifies a webhook payload's signature and applies the
	// event (subscription created/deleted) to the customer record.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}
