package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
	"promptstash/internal/domain/services"
)

// membershipCacheTTL bounds how stale a cached tier may be. Webhook events
// invalidate explicitly; the TTL covers tier changes applied out-of-band.
const membershipCacheTTL = time.Minute

type cachedMembership struct {
	membership models.Membership
	expires    time.Time
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	logger       *slog.Logger
	now          func() time.Time

	mu    sync.Mutex
	cache map[string]cachedMembership
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repositories.CustomerRepository, logger *slog.Logger) services.CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
		cache:        make(map[string]cachedMembership),
	}
}

// GetCustomer returns the customer record for a user. A user with no record
// yet is returned as a synthesized free-tier customer rather than an error.
func (s *customerService) GetCustomer(ctx context.Context, userID string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &models.Customer{
				UserID:     userID,
				Membership: models.MembershipFree,
			}, nil
		}
		return nil, err
	}

	return customer, nil
}

// GetMembership returns the user's plan tier, cached per user.
//
// Only a missing customer row degrades to free. A store error propagates to
// the caller and is never cached: a database outage must not silently move
// paying users onto the free limit, nor grant free users the pro bypass.
func (s *customerService) GetMembership(ctx context.Context, userID string) (models.Membership, error) {
	s.mu.Lock()
	entry, ok := s.cache[userID]
	s.mu.Unlock()
	if ok && s.now().Before(entry.expires) {
		return entry.membership, nil
	}

	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	membership := models.MembershipFree
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
	} else {
		membership = customer.Membership
	}

	s.mu.Lock()
	s.cache[userID] = cachedMembership{
		membership: membership,
		expires:    s.now().Add(membershipCacheTTL),
	}
	s.mu.Unlock()

	return membership, nil
}

// Invalidate drops any cached membership for the user
func (s *customerService) Invalidate(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()

	s.logger.Debug("membership cache invalidated", "user_id", userID)
}
