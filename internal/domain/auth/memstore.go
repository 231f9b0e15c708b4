package auth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memReset struct {
	userID  string
	expires time.Time
	used    bool
}

// MemoryStore keeps users and reset tokens in memory for tests and local runs.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[string]User
	hashes map[string]string
	resets map[string]*memReset
	nextID int
}

var _ StoreAPI = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]User{}, hashes: map[string]string{}, resets: map[string]*memReset{}}
}

func (m *MemoryStore) CreateUser(_ context.Context, user User, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("u%04d", m.nextID)
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return user, nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return u, m.hashes[u.ID], nil
		}
	}
	return User{}, "", ErrNotFound
}

func (m *MemoryStore) UserByID(_ context.Context, userID string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) ListUsersByStatus(_ context.Context, status string) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []User
	for _, u := range m.users {
		if u.Status == status {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) TransitionStatus(_ context.Context, userID, from, to, reason string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	if u.Status != from {
		return User{}, ErrNotPending
	}
	u.Status = to
	u.RejectionReason = reason
	m.users[userID] = u
	return u, nil
}

func (m *MemoryStore) UpdateLastLogin(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	now := time.Now()
	u.LastLogin = &now
	m.users[userID] = u
	return nil
}

func (m *MemoryStore) CreatePasswordReset(_ context.Context, userID, tokenHash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[tokenHash] = &memReset{userID: userID, expires: expires}
	return nil
}

func (m *MemoryStore) PasswordResetUserID(_ context.Context, tokenHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[tokenHash]
	if !ok || r.used || time.Now().After(r.expires) {
		return "", ErrInvalidToken
	}
	return r.userID, nil
}

func (m *MemoryStore) ConsumePasswordReset(_ context.Context, tokenHash, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[tokenHash]
	if !ok || r.used || r.userID != userID {
		return ErrInvalidToken
	}
	r.used = true
	m.hashes[userID] = passwordHash
	return nil
}
