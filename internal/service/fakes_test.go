package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/dirac/internal/models"
	"github.com/atinyakov/dirac/internal/repository"
)

// memStore is an in-memory stand-in for the users and histories tables that
// enforces the same uniqueness and foreign-key rules as the schema.
type memStore struct {
	mu        sync.Mutex
	users     []models.User
	histories []models.History
	now       func() time.Time

	findErr   error
	createErr error
}

func newMemStore() *memStore {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &memStore{now: func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}}
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateUser(_ context.Context, name, email, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return nil, repository.ErrConstraintViolation
		}
	}
	u := models.User{ID: int64(len(m.users) + 1), Name: name, Email: email, PasswordHash: hash, CreatedAt: m.now()}
	m.users = append(m.users, u)
	return &u, nil
}

func (m *memStore) CreateHistory(_ context.Context, h *models.History) (*models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	found := false
	for _, u := range m.users {
		if u.ID == h.UserID {
			found = true
		}
	}
	if !found {
		return nil, repository.ErrConstraintViolation
	}
	h.ID = int64(len(m.histories) + 1)
	h.CreatedAt = m.now()
	m.histories = append(m.histories, *h)
	return h, nil
}

func (m *memStore) ListHistoryForUser(_ context.Context, userID int64) ([]models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.History, 0)
	for _, h := range m.histories {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// plainHasher is a fast, reversible Hasher for tests.
type plainHasher struct {
	hashErr   error
	verifyErr error
}

func (p plainHasher) Hash(secret string) (string, error) {
	if p.hashErr != nil {
		return "", p.hashErr
	}
	return "hashed:" + secret, nil
}

func (p plainHasher) Verify(secret, digest string) (bool, error) {
	if p.verifyErr != nil {
		return false, p.verifyErr
	}
	return strings.TrimPrefix(digest, "hashed:") == secret, nil
}
