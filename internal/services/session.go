package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jjudge-oj/usersvc/internal/events"
	"github.com/jjudge-oj/usersvc/internal/store"
	"github.com/jjudge-oj/usersvc/types"
)

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (types.Session, error)
	Create(ctx context.Context, session types.Session) (types.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionService implements login, login check and logout.
type SessionService struct {
	sessions SessionRepository
	users    UserRepository
	hasher   PasswordHasher
	ids      IDGenerator
	validID  IDValidator
	notifier EventNotifier
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService builds a SessionService whose sessions expire
// expiryHours after creation.
func NewSessionService(
	sessions SessionRepository,
	users UserRepository,
	hasher PasswordHasher,
	ids IDGenerator,
	validID IDValidator,
	notifier EventNotifier,
	expiryHours int,
) *SessionService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &SessionService{
		sessions: sessions,
		users:    users,
		hasher:   hasher,
		ids:      ids,
		validID:  validID,
		notifier: notifier,
		ttl:      time.Duration(expiryHours) * time.Hour,
		now:      time.Now,
	}
}

// Create verifies the credentials and stores a new session for the user.
func (s *SessionService) Create(ctx context.Context, username, password string) (types.Session, error) {
	if username == "" || password == "" {
		return types.Session{}, ErrValidation
	}

	user, err := s.users.GetCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Session{}, fmt.Errorf("%w: invalid username", ErrNotFound)
		}
		return types.Session{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return types.Session{}, ErrAuthentication
	}

	// Postgres keeps microseconds; truncating here makes the login response
	// and later reads agree.
	expiresAt := s.now().UTC().Add(s.ttl).Truncate(time.Microsecond)

	session, err := s.sessions.Create(ctx, types.Session{
		ID:        s.ids.NewID(),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return types.Session{}, err
	}

	// The row is committed; a client hanging up must not drop the event.
	s.notifier.Notify(context.WithoutCancel(ctx), events.NewSessionCreated(session))
	return session, nil
}

// GetByID returns the session without checking its expiry; callers compare
// ExpiresAt themselves.
func (s *SessionService) GetByID(ctx context.Context, id string) (types.Session, error) {
	if s.validID != nil && !s.validID(id) {
		return types.Session{}, fmt.Errorf("%w: invalid session id", ErrNotFound)
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Session{}, fmt.Errorf("%w: invalid session id", ErrNotFound)
		}
		return types.Session{}, err
	}
	return session, nil
}

// Delete removes the session permanently. Deleting an unknown session is
// an error, not a no-op.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: invalid session id", ErrNotFound)
		}
		return err
	}

	s.notifier.Notify(context.WithoutCancel(ctx), events.NewSessionDeleted(session))
	return nil
}
