package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jjudge-oj/usersvc/internal/auth"
	"github.com/jjudge-oj/usersvc/internal/events"
	"github.com/jjudge-oj/usersvc/internal/store"
	"github.com/jjudge-oj/usersvc/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetCredentials(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates signup and user lookup.
type UserService struct {
	repo     UserRepository
	hasher   PasswordHasher
	ids      IDGenerator
	validID  IDValidator
	notifier EventNotifier
}

func NewUserService(
	repo UserRepository,
	hasher PasswordHasher,
	ids IDGenerator,
	validID IDValidator,
	notifier EventNotifier,
) *UserService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		ids:      ids,
		validID:  validID,
		notifier: notifier,
	}
}

// Create registers a new user. Username uniqueness is left to the store;
// a duplicate surfaces as store.ErrConflict.
func (s *UserService) Create(ctx context.Context, username, password string) (types.UserPublicView, error) {
	if username == "" || password == "" {
		return types.UserPublicView{}, ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return types.UserPublicView{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		return types.UserPublicView{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		ID:           s.ids.NewID(),
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return types.UserPublicView{}, err
	}

	view := user.PublicView()
	s.notifier.Notify(context.WithoutCancel(ctx), events.NewUserCreated(view))
	return view, nil
}

// GetByID returns the full stored record, password hash included.
func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	if s.validID != nil && !s.validID(id) {
		return types.User{}, fmt.Errorf("%w: invalid user id", ErrNotFound)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, fmt.Errorf("%w: invalid user id", ErrNotFound)
		}
		return types.User{}, err
	}
	return user, nil
}
