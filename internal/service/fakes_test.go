package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"promptstash/internal/domain"
	"promptstash/internal/domain/models"
	"promptstash/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePromptRepo is an in-memory PromptRepository mirroring the postgres
// implementation's semantics: single-row operations scoped by owner surface
// domain.ErrNotFound for missing and foreign rows alike.
type fakePromptRepo struct {
	nextID  int64
	prompts map[int64]models.Prompt
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: make(map[int64]models.Prompt)}
}

func (r *fakePromptRepo) Create(ctx context.Context, prompt *models.Prompt) error {
	r.nextID++
	prompt.ID = r.nextID
	r.prompts[prompt.ID] = *prompt
	return nil
}

func (r *fakePromptRepo) ListByUser(ctx context.Context, userID string) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range r.prompts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePromptRepo) GetByID(ctx context.Context, id int64, userID string) (*models.Prompt, error) {
	p, ok := r.prompts[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}
	copied := p
	return &copied, nil
}

func (r *fakePromptRepo) Update(ctx context.Context, prompt *models.Prompt) error {
	existing, ok := r.prompts[prompt.ID]
	if !ok || existing.UserID != prompt.UserID {
		return fmt.Errorf("prompt %d: %w", prompt.ID, domain.ErrNotFound)
	}
	r.prompts[prompt.ID] = *prompt
	return nil
}

func (r *fakePromptRepo) Delete(ctx context.Context, id int64, userID string) error {
	p, ok := r.prompts[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}
	delete(r.prompts, id)
	return nil
}

func (r *fakePromptRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, p := range r.prompts {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakePromptRepo) DetachFolder(ctx context.Context, folderID int64, userID string) error {
	for id, p := range r.prompts {
		if p.UserID == userID && p.FolderID != nil && *p.FolderID == folderID {
			p.FolderID = nil
			r.prompts[id] = p
		}
	}
	return nil
}

// fakeFolderRepo is an in-memory FolderRepository
type fakeFolderRepo struct {
	nextID  int64
	folders map[int64]models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[int64]models.Folder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.nextID++
	folder.ID = r.nextID
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id int64, userID string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.UserID != userID {
		return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	copied := f
	return &copied, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	existing, ok := r.folders[folder.ID]
	if !ok || existing.UserID != folder.UserID {
		return fmt.Errorf("folder %d: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id int64, userID string) error {
	f, ok := r.folders[id]
	if !ok || f.UserID != userID {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

// fakeCustomerRepo is an in-memory CustomerRepository. failErr simulates a
// store outage on reads.
type fakeCustomerRepo struct {
	customers map[string]models.Customer
	failErr   error
	gets      int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]models.Customer)}
}

func (r *fakeCustomerRepo) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	r.gets++
	if r.failErr != nil {
		return nil, r.failErr
	}
	c, ok := r.customers[userID]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", userID, domain.ErrNotFound)
	}
	copied := c
	return &copied, nil
}

func (r *fakeCustomerRepo) Upsert(ctx context.Context, customer *models.Customer) error {
	if existing, ok := r.customers[customer.UserID]; ok {
		customer.CreatedAt = existing.CreatedAt
	}
	r.customers[customer.UserID] = *customer
	return nil
}

func (r *fakeCustomerRepo) setMembership(userID string, membership models.Membership) {
	r.customers[userID] = models.Customer{
		UserID:     userID,
		Membership: membership,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// fakeTxManager runs the function without a real transaction
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
