package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"promptstash/internal/domain/models"
)

func TestGetMembership_NoRecordMeansFree(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, testLogger())

	membership, err := svc.GetMembership(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetMembership() unexpected error: %v", err)
	}
	if membership != models.MembershipFree {
		t.Errorf("membership = %q, want %q", membership, models.MembershipFree)
	}
}

func TestGetMembership_CachesWithinTTL(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.setMembership("u1", models.MembershipPro)
	svc := NewCustomerService(repo, testLogger()).(*customerService)

	current := time.Now()
	svc.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		membership, err := svc.GetMembership(context.Background(), "u1")
		if err != nil {
			t.Fatalf("GetMembership() unexpected error: %v", err)
		}
		if membership != models.MembershipPro {
			t.Fatalf("membership = %q, want %q", membership, models.MembershipPro)
		}
	}
	if repo.gets != 1 {
		t.Errorf("store reads within TTL = %d, want 1", repo.gets)
	}

	// Past the TTL the store is consulted again
	current = current.Add(membershipCacheTTL + time.Second)
	if _, err := svc.GetMembership(context.Background(), "u1"); err != nil {
		t.Fatalf("GetMembership() unexpected error: %v", err)
	}
	if repo.gets != 2 {
		t.Errorf("store reads after TTL = %d, want 2", repo.gets)
	}
}

func TestGetMembership_InvalidateForcesRefresh(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.setMembership("u1", models.MembershipFree)
	svc := NewCustomerService(repo, testLogger())

	membership, err := svc.GetMembership(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetMembership() unexpected error: %v", err)
	}
	if membership != models.MembershipFree {
		t.Fatalf("membership = %q, want %q", membership, models.MembershipFree)
	}

	// Tier changes, cache would still say free
	repo.setMembership("u1", models.MembershipPro)
	svc.Invalidate("u1")

	membership, err = svc.GetMembership(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetMembership() unexpected error: %v", err)
	}
	if membership != models.MembershipPro {
		t.Errorf("membership after invalidate = %q, want %q", membership, models.MembershipPro)
	}
}

func TestGetMembership_StoreErrorPropagatesUncached(t *testing.T) {
	repo := newFakeCustomerRepo()
	outage := errors.New("connection refused")
	repo.failErr = outage
	svc := NewCustomerService(repo, testLogger())

	if _, err := svc.GetMembership(context.Background(), "u1"); !errors.Is(err, outage) {
		t.Fatalf("GetMembership() error = %v, want %v", err, outage)
	}

	// Recovery is immediate: the failure was not cached
	repo.failErr = nil
	repo.setMembership("u1", models.MembershipPro)

	membership, err := svc.GetMembership(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetMembership() after recovery unexpected error: %v", err)
	}
	if membership != models.MembershipPro {
		t.Errorf("membership after recovery = %q, want %q", membership, models.MembershipPro)
	}
}

func TestGetCustomer_SynthesizesFreeRecord(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, testLogger())

	customer, err := svc.GetCustomer(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetCustomer() unexpected error: %v", err)
	}
	if customer.UserID != "u1" {
		t.Errorf("customer.UserID = %q, want u1", customer.UserID)
	}
	if customer.Membership != models.MembershipFree {
		t.Errorf("customer.Membership = %q, want %q", customer.Membership, models.MembershipFree)
	}
	if customer.IsPro() {
		t.Error("synthesized customer reports pro")
	}
}

func TestGetCustomer_StoreErrorPropagates(t *testing.T) {
	repo := newFakeCustomerRepo()
	outage := errors.New("connection refused")
	repo.failErr = outage
	svc := NewCustomerService(repo, testLogger())

	if _, err := svc.GetCustomer(context.Background(), "u1"); !errors.Is(err, outage) {
		t.Fatalf("GetCustomer() error = %v, want %v", err, outage)
	}
}
