package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/services"
	"promptstash/internal/httputil"
)

func newPromptFixture() (services.PromptService, *fakePromptRepo, *fakeFolderRepo, *fakeCustomerRepo) {
	promptRepo := newFakePromptRepo()
	folderRepo := newFakeFolderRepo()
	customerRepo := newFakeCustomerRepo()
	customers := NewCustomerService(customerRepo, testLogger())
	svc := NewPromptService(promptRepo, folderRepo, customers, testLogger())
	return svc, promptRepo, folderRepo, customerRepo
}

func createReq(name string) *services.CreatePromptRequest {
	return &services.CreatePromptRequest{
		Name:        name,
		Description: "d",
		Content:     "c",
	}
}

func TestCreatePrompt_FreeTierLimit(t *testing.T) {
	tests := []struct {
		name       string
		membership models.Membership // "" = no customer record
		existing   int
		wantErr    bool
	}{
		{name: "free with no prompts", membership: models.MembershipFree, existing: 0},
		{name: "free below cap", membership: models.MembershipFree, existing: 2},
		{name: "free at cap", membership: models.MembershipFree, existing: 3, wantErr: true},
		{name: "free above cap", membership: models.MembershipFree, existing: 4, wantErr: true},
		{name: "no customer record at cap", membership: "", existing: 3, wantErr: true},
		{name: "pro at cap", membership: models.MembershipPro, existing: 3},
		{name: "pro far above cap", membership: models.MembershipPro, existing: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, promptRepo, _, customerRepo := newPromptFixture()
			if tt.membership != "" {
				customerRepo.setMembership("u1", tt.membership)
			}
			for i := 0; i < tt.existing; i++ {
				promptRepo.Create(context.Background(), &models.Prompt{UserID: "u1"})
			}

			prompt, err := svc.CreatePrompt(context.Background(), "u1", createReq("A"))

			if tt.wantErr {
				var limitErr *domain.LimitExceededError
				if !errors.As(err, &limitErr) {
					t.Fatalf("CreatePrompt() error = %v, want LimitExceededError", err)
				}
				if limitErr.Limit != 3 {
					t.Errorf("LimitExceededError.Limit = %d, want 3", limitErr.Limit)
				}
				if !strings.Contains(limitErr.Error(), "3") {
					t.Errorf("error message %q does not name the limit", limitErr.Error())
				}
				if count, _ := promptRepo.CountByUser(context.Background(), "u1"); count != tt.existing {
					t.Errorf("count after rejected create = %d, want %d", count, tt.existing)
				}
				return
			}

			if err != nil {
				t.Fatalf("CreatePrompt() unexpected error: %v", err)
			}
			if prompt.ID == 0 {
				t.Error("CreatePrompt() did not assign an ID")
			}
			if prompt.UserID != "u1" {
				t.Errorf("owner = %q, want u1", prompt.UserID)
			}
			if prompt.CreatedAt.IsZero() || prompt.UpdatedAt.IsZero() {
				t.Error("CreatePrompt() did not set timestamps")
			}
		})
	}
}

func TestCreatePrompt_FourthCreateFailsForFreeUser(t *testing.T) {
	svc, _, _, customerRepo := newPromptFixture()
	customerRepo.setMembership("u1", models.MembershipFree)

	seen := make(map[int64]bool)
	for _, name := range []string{"A", "B", "C"} {
		prompt, err := svc.CreatePrompt(context.Background(), "u1", createReq(name))
		if err != nil {
			t.Fatalf("CreatePrompt(%q) unexpected error: %v", name, err)
		}
		if seen[prompt.ID] {
			t.Fatalf("duplicate prompt ID %d", prompt.ID)
		}
		seen[prompt.ID] = true
	}

	_, err := svc.CreatePrompt(context.Background(), "u1", createReq("D"))
	var limitErr *domain.LimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("4th CreatePrompt() error = %v, want LimitExceededError", err)
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("error message %q does not contain the limit", err.Error())
	}
}

func TestCreatePrompt_EmptyFieldsAccepted(t *testing.T) {
	svc, _, _, _ := newPromptFixture()

	prompt, err := svc.CreatePrompt(context.Background(), "u1", &services.CreatePromptRequest{})
	if err != nil {
		t.Fatalf("CreatePrompt() with empty fields: %v", err)
	}
	if prompt.Name != "" || prompt.Description != "" || prompt.Content != "" {
		t.Error("empty fields were altered")
	}
}

func TestCreatePrompt_MembershipLookupFailurePropagates(t *testing.T) {
	svc, promptRepo, _, customerRepo := newPromptFixture()
	customerRepo.failErr = errors.New("connection refused")

	_, err := svc.CreatePrompt(context.Background(), "u1", createReq("A"))
	if err == nil {
		t.Fatal("CreatePrompt() succeeded despite membership store outage")
	}
	var limitErr *domain.LimitExceededError
	if errors.As(err, &limitErr) {
		t.Error("store outage was mapped to a limit error")
	}
	if count, _ := promptRepo.CountByUser(context.Background(), "u1"); count != 0 {
		t.Error("prompt was created despite membership store outage")
	}
}

func TestCreatePrompt_FolderMustBelongToOwner(t *testing.T) {
	svc, _, folderRepo, _ := newPromptFixture()
	folder := &models.Folder{UserID: "u2", Name: "theirs"}
	folderRepo.Create(context.Background(), folder)

	req := createReq("A")
	req.FolderID = &folder.ID

	_, err := svc.CreatePrompt(context.Background(), "u1", req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("CreatePrompt() into foreign folder error = %v, want validation error", err)
	}
}

func TestListPrompts_OwnershipIsolation(t *testing.T) {
	svc, _, _, _ := newPromptFixture()

	created, err := svc.CreatePrompt(context.Background(), "u1", createReq("mine"))
	if err != nil {
		t.Fatalf("CreatePrompt() unexpected error: %v", err)
	}

	other, err := svc.ListPrompts(context.Background(), "u2")
	if err != nil {
		t.Fatalf("ListPrompts() unexpected error: %v", err)
	}
	if other == nil {
		t.Error("ListPrompts() returned nil, want empty slice")
	}
	for _, p := range other {
		if p.ID == created.ID {
			t.Error("u2 can see u1's prompt")
		}
	}
}

func TestListPrompts_OrderedByCreation(t *testing.T) {
	svc, promptRepo, _, _ := newPromptFixture()

	base := time.Now()
	for i, name := range []string{"first", "second", "third"} {
		promptRepo.Create(context.Background(), &models.Prompt{
			UserID:    "u1",
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	prompts, err := svc.ListPrompts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListPrompts() unexpected error: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(prompts) != len(want) {
		t.Fatalf("ListPrompts() returned %d prompts, want %d", len(prompts), len(want))
	}
	for i, name := range want {
		if prompts[i].Name != name {
			t.Errorf("prompts[%d].Name = %q, want %q", i, prompts[i].Name, name)
		}
	}
}

func TestUpdatePrompt_OverwritesFieldsAndRefreshesTimestamp(t *testing.T) {
	svc, _, _, _ := newPromptFixture()

	created, err := svc.CreatePrompt(context.Background(), "u1", createReq("A"))
	if err != nil {
		t.Fatalf("CreatePrompt() unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	updated, err := svc.UpdatePrompt(context.Background(), "u1", created.ID, &services.UpdatePromptRequest{
		Name:        "B",
		Description: "d2",
		Content:     "c2",
	})
	if err != nil {
		t.Fatalf("UpdatePrompt() unexpected error: %v", err)
	}

	if updated.Name != "B" || updated.Description != "d2" || updated.Content != "c2" {
		t.Errorf("UpdatePrompt() fields = %q/%q/%q", updated.Name, updated.Description, updated.Content)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("UpdatedAt was not refreshed")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
}

func TestUpdatePrompt_FolderTriState(t *testing.T) {
	folderID := int64(0) // assigned below

	tests := []struct {
		name       string
		field      func() httputil.OptionalInt64
		wantFolder bool
	}{
		{
			name:       "absent keeps current folder",
			field:      func() httputil.OptionalInt64 { return httputil.OptionalInt64{} },
			wantFolder: true,
		},
		{
			name:       "null detaches",
			field:      func() httputil.OptionalInt64 { return httputil.OptionalInt64{Present: true} },
			wantFolder: false,
		},
		{
			name: "value moves",
			field: func() httputil.OptionalInt64 {
				return httputil.OptionalInt64{Present: true, Value: &folderID}
			},
			wantFolder: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, folderRepo, _ := newPromptFixture()
			folder := &models.Folder{UserID: "u1", Name: "f"}
			folderRepo.Create(context.Background(), folder)
			folderID = folder.ID

			req := createReq("A")
			req.FolderID = &folder.ID
			created, err := svc.CreatePrompt(context.Background(), "u1", req)
			if err != nil {
				t.Fatalf("CreatePrompt() unexpected error: %v", err)
			}

			updated, err := svc.UpdatePrompt(context.Background(), "u1", created.ID, &services.UpdatePromptRequest{
				Name:     "A",
				FolderID: tt.field(),
			})
			if err != nil {
				t.Fatalf("UpdatePrompt() unexpected error: %v", err)
			}

			if tt.wantFolder && (updated.FolderID == nil || *updated.FolderID != folder.ID) {
				t.Errorf("FolderID = %v, want %d", updated.FolderID, folder.ID)
			}
			if !tt.wantFolder && updated.FolderID != nil {
				t.Errorf("FolderID = %d, want nil", *updated.FolderID)
			}
		})
	}
}

func TestMutations_NotFoundAndForeignAreConflated(t *testing.T) {
	svc, _, _, _ := newPromptFixture()

	created, err := svc.CreatePrompt(context.Background(), "u1", createReq("A"))
	if err != nil {
		t.Fatalf("CreatePrompt() unexpected error: %v", err)
	}

	req := &services.UpdatePromptRequest{Name: "B"}

	_, missingUpdateErr := svc.UpdatePrompt(context.Background(), "u1", 9999, req)
	_, foreignUpdateErr := svc.UpdatePrompt(context.Background(), "u2", created.ID, req)
	_, missingDeleteErr := svc.DeletePrompt(context.Background(), "u1", 9999)
	_, foreignDeleteErr := svc.DeletePrompt(context.Background(), "u2", created.ID)

	for name, err := range map[string]error{
		"update missing": missingUpdateErr,
		"update foreign": foreignUpdateErr,
		"delete missing": missingDeleteErr,
		"delete foreign": foreignDeleteErr,
	} {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s: error = %v, want ErrNotFound", name, err)
		}
	}

	// Same error shape for a missing id and a foreign id: existence of other
	// users' records must not leak through the message
	if foreignUpdateErr.Error() != foreignDeleteErr.Error() {
		t.Errorf("update/delete foreign messages differ: %q vs %q",
			foreignUpdateErr.Error(), foreignDeleteErr.Error())
	}
}

func TestDeletePrompt_ReturnsFinalStateAndPreservesOthers(t *testing.T) {
	svc, _, _, _ := newPromptFixture()

	created, err := svc.CreatePrompt(context.Background(), "u1", createReq("keep-or-kill"))
	if err != nil {
		t.Fatalf("CreatePrompt() unexpected error: %v", err)
	}

	// A foreign delete fails and leaves the prompt in place
	if _, err := svc.DeletePrompt(context.Background(), "u2", created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign DeletePrompt() error = %v, want ErrNotFound", err)
	}
	prompts, _ := svc.ListPrompts(context.Background(), "u1")
	if len(prompts) != 1 || prompts[0].ID != created.ID {
		t.Fatal("prompt vanished after a foreign delete attempt")
	}

	deleted, err := svc.DeletePrompt(context.Background(), "u1", created.ID)
	if err != nil {
		t.Fatalf("DeletePrompt() unexpected error: %v", err)
	}
	if deleted.Name != "keep-or-kill" {
		t.Errorf("deleted.Name = %q, want the record's final state", deleted.Name)
	}

	prompts, _ = svc.ListPrompts(context.Background(), "u1")
	if len(prompts) != 0 {
		t.Errorf("ListPrompts() after delete returned %d prompts, want 0", len(prompts))
	}
}
