package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jjudge-oj/usersvc/types"
)

// Memory keeps users and sessions in process memory. It mirrors the
// postgres repositories, unique username constraint included, and backs
// the server's --memory mode and tests.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]types.User
	usernames map[string]string
	sessions  map[string]types.Session
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]types.User),
		usernames: make(map[string]string),
		sessions:  make(map[string]types.Session),
	}
}

// Users returns a user repository view of the store.
func (m *Memory) Users() *MemoryUserRepository {
	return &MemoryUserRepository{m: m}
}

// Sessions returns a session repository view of the store.
func (m *Memory) Sessions() *MemorySessionRepository {
	return &MemorySessionRepository{m: m}
}

type MemoryUserRepository struct {
	m *Memory
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	user, ok := r.m.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetCredentials(ctx context.Context, username string) (types.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.usernames[username]
	if !ok {
		return types.User{}, ErrNotFound
	}
	user := r.m.users[id]
	return types.User{ID: user.ID, Username: user.Username, PasswordHash: user.PasswordHash}, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, exists := r.m.users[user.ID]; exists {
		return types.User{}, fmt.Errorf("%w: users_pkey", ErrConflict)
	}
	if _, exists := r.m.usernames[user.Username]; exists {
		return types.User{}, fmt.Errorf("%w: users_username_key", ErrConflict)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.m.users[user.ID] = user
	r.m.usernames[user.Username] = user.ID
	return user, nil
}

type MemorySessionRepository struct {
	m *Memory
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (types.Session, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	session, ok := r.m.sessions[id]
	if !ok {
		return types.Session{}, ErrNotFound
	}
	return session, nil
}

func (r *MemorySessionRepository) Create(ctx context.Context, session types.Session) (types.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, exists := r.m.sessions[session.ID]; exists {
		return types.Session{}, fmt.Errorf("%w: user_sessions_pkey", ErrConflict)
	}
	r.m.sessions[session.ID] = session
	return session, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.sessions, id)
	return nil
}
