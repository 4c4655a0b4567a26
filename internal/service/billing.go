package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
	"promptstash/internal/domain/services"

	"github.com/google/uuid"
)

// webhookTolerance bounds how old a signed webhook timestamp may be,
// limiting the replay window.
const webhookTolerance = 5 * time.Minute

// webhookEvent is the subset of the payment provider's event envelope the
// service acts on.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ClientReferenceID string `json:"client_reference_id"`
			Customer          string `json:"customer"`
			Subscription      string `json:"subscription"`
			Metadata          struct {
				UserID string `json:"user_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

type billingService struct {
	customerRepo repositories.CustomerRepository
	customers    services.CustomerService
	txManager    repositories.TransactionManager
	checkoutURL  string
	secret       string
	logger       *slog.Logger
	now          func() time.Time
}

// NewBillingService creates a new billing service
func NewBillingService(
	customerRepo repositories.CustomerRepository,
	customers services.CustomerService,
	txManager repositories.TransactionManager,
	checkoutURL string,
	webhookSecret string,
	logger *slog.Logger,
) services.BillingService {
	return &billingService{
		customerRepo: customerRepo,
		customers:    customers,
		txManager:    txManager,
		checkoutURL:  checkoutURL,
		secret:       webhookSecret,
		logger:       logger,
		now:          time.Now,
	}
}

// CheckoutLink builds the hosted checkout URL for the Pro plan. The user ID
// travels as client_reference_id so the webhook can attribute the purchase;
// ref is a per-click identifier for reconciling abandoned checkouts.
func (s *billingService) CheckoutLink(userID string) (string, error) {
	if s.checkoutURL == "" {
		return "", errors.New("checkout URL is not configured")
	}

	u, err := url.Parse(s.checkoutURL)
	if err != nil {
		return "", fmt.Errorf("parse checkout URL: %w", err)
	}

	q := u.Query()
	q.Set("client_reference_id", userID)
	q.Set("ref", uuid.NewString())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// HandleWebhook verifies the payload signature and applies the event.
// Signature header format: "t=<unix>,v1=<hex hmac-sha256 of '<t>.<payload>'>".
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := s.verifySignature(payload, signature); err != nil {
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed event payload", domain.ErrValidation)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.applySubscription(ctx, &event, models.MembershipPro)
	case "customer.subscription.deleted":
		return s.applySubscription(ctx, &event, models.MembershipFree)
	default:
		s.logger.Debug("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}
}

// applySubscription upserts the customer row for the event's user and drops
// the cached membership so the next limit check sees the new tier.
func (s *billingService) applySubscription(ctx context.Context, event *webhookEvent, membership models.Membership) error {
	userID := event.Data.Object.ClientReferenceID
	if userID == "" {
		userID = event.Data.Object.Metadata.UserID
	}
	if userID == "" {
		return fmt.Errorf("%w: event %s carries no user reference", domain.ErrValidation, event.ID)
	}

	now := s.now()
	customer := &models.Customer{
		UserID:     userID,
		Membership: membership,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if c := event.Data.Object.Customer; c != "" {
		customer.StripeCustomerID = &c
	}
	if sub := event.Data.Object.Subscription; sub != "" && membership == models.MembershipPro {
		customer.StripeSubscriptionID = &sub
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.customerRepo.Upsert(txCtx, customer)
	})
	if err != nil {
		return err
	}

	s.customers.Invalidate(userID)

	s.logger.Info("membership updated from webhook",
		"event_id", event.ID,
		"user_id", userID,
		"membership", membership,
	)

	return nil
}

// verifySignature checks the webhook signature and timestamp tolerance
func (s *billingService) verifySignature(payload []byte, signature string) error {
	if s.secret == "" {
		return errors.New("webhook secret is not configured")
	}

	var ts, sig string
	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: malformed webhook signature", domain.ErrUnauthorized)
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed webhook timestamp", domain.ErrUnauthorized)
	}
	age := s.now().Sub(time.Unix(unix, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("%w: webhook timestamp outside tolerance", domain.ErrUnauthorized)
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("%w: webhook signature mismatch", domain.ErrUnauthorized)
	}

	return nil
}
