package events

import (
	"context"
	"fmt"

	"github.com/jjudge-oj/usersvc/config"
	"github.com/jjudge-oj/usersvc/types"
)

// NewBackend builds the backend selected by EVENTS_BACKEND. An empty
// backend name yields Noop.
func NewBackend(ctx context.Context, cfg config.EventsConfig) (Backend, error) {
	switch cfg.Backend {
	case config.EventsBackendNone:
		return Noop{}, nil
	case config.EventsBackendRabbitMQ:
		return NewRabbitMQBackend(cfg.RabbitMQ, cfg.Channel)
	case config.EventsBackendPubSub:
		return NewPubSubBackend(ctx, cfg.PubSub, cfg.Channel)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

func NewUserCreated(user types.UserPublicView) Event {
	return Event{Type: UserCreated, UserID: user.ID, Username: user.Username}
}

func NewSessionCreated(session types.Session) Event {
	expiresAt := session.ExpiresAt
	return Event{
		Type:      SessionCreated,
		UserID:    session.UserID,
		SessionID: session.ID,
		ExpiresAt: &expiresAt,
	}
}

func NewSessionDeleted(session types.Session) Event {
	return Event{Type: SessionDeleted, UserID: session.UserID, SessionID: session.ID}
}
