package persistence

import (
	"context"
	"sync"

	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

type memoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]identity.Account
	byEmail map[string]string
}

func NewMemoryUserRepo() identity.Repository {
	return &memoryUserRepo{
		byID:    make(map[string]identity.Account),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepo) Create(_ context.Context, a *identity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return apperror.NewConflict("user", "email", a.Email)
	}
	r.byID[a.ID] = *a
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*identity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	a := r.byID[id]
	return &a, nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*identity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id)
	}
	return &a, nil
}

func (r *memoryUserRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return apperror.NewNotFound("user", id)
	}
	a.PasswordHash = hash
	r.byID[id] = a
	return nil
}
