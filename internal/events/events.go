// Package events publishes account lifecycle notifications to a message
// broker so other services can react to signups, logins and logouts.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Type names an account lifecycle event.
type Type string

const (
	UserCreated    Type = "user.created"
	SessionCreated Type = "session.created"
	SessionDeleted Type = "session.deleted"
)

const attrEventType = "event_type"

// Event is the payload published for every lifecycle change. It never
// carries credentials.
type Event struct {
	ID         string     `json:"id"`
	Type       Type       `json:"type"`
	OccurredAt time.Time  `json:"occurredAt"`
	UserID     string     `json:"userId"`
	Username   string     `json:"username,omitempty"`
	SessionID  string     `json:"sessionId,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Message is a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend is a broker bound to one queue or topic.
type Backend interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}

// Notifier encodes events and hands them to a backend.
type Notifier struct {
	backend Backend
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewNotifier constructs a Notifier for the provided backend.
func NewNotifier(backend Backend, log logrus.FieldLogger) *Notifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{
		backend: backend,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Publish encodes and sends an event, filling in ID and OccurredAt when
// they are unset.
func (n *Notifier) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = n.now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	if _, err := n.backend.Publish(ctx, data, map[string]string{
		attrEventType: string(event.Type),
	}); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

// Notify publishes an event and only logs a failure. Lifecycle
// notifications never fail the request that caused them.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	if err := n.Publish(ctx, event); err != nil {
		n.log.WithError(err).
			WithField("event_type", string(event.Type)).
			WithField("user_id", event.UserID).
			Warn("account event not delivered")
	}
}

// Tail decodes events from the backend and passes them to fn until ctx is
// done or the backend fails. Undecodable messages are logged and acked.
func (n *Notifier) Tail(ctx context.Context, fn func(ctx context.Context, event Event) error) error {
	return n.backend.Subscribe(ctx, func(ctx context.Context, msg Message) error {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			n.log.WithError(err).WithField("message_id", msg.ID).Warn("dropping malformed account event")
			return nil
		}
		return fn(ctx, event)
	})
}

// Close closes the underlying backend.
func (n *Notifier) Close() error {
	return n.backend.Close()
}

// Noop is a backend that discards published events. Subscribing blocks
// until ctx is done.
type Noop struct{}

func (Noop) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

func (Noop) Subscribe(ctx context.Context, handler Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (Noop) Close() error { return nil }
