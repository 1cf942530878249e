package services

import (
	"context"

	"github.com/jjudge-oj/usersvc/internal/events"
)

// PasswordHasher turns plaintext passwords into stored hashes and checks
// them. Compare returns a non-nil error for any mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// IDGenerator issues unique identifiers for users and sessions.
type IDGenerator interface {
	NewID() string
}

// IDValidator reports whether a client supplied id could have been issued
// by the IDGenerator.
type IDValidator func(id string) bool

// EventNotifier receives account lifecycle events.
type EventNotifier interface {
	Notify(ctx context.Context, event events.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, events.Event) {}
