package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/jjudge-oj/usersvc/config"
	"google.golang.org/api/option"
)

// PubSubBackend publishes account events to one Google Cloud Pub/Sub topic.
type PubSubBackend struct {
	client       *pubsub.Client
	topic        *pubsub.Topic
	subscription string
}

// NewPubSubBackend connects to Pub/Sub and makes sure the topic exists.
func NewPubSubBackend(ctx context.Context, cfg config.PubSubConfig, topicName string) (*PubSubBackend, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}
	if strings.TrimSpace(topicName) == "" {
		return nil, errors.New("pubsub topic is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("check topic %q: %w", topicName, err)
	}
	if !exists {
		if topic, err = client.CreateTopic(ctx, topicName); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("create topic %q: %w", topicName, err)
		}
	}

	return &PubSubBackend{
		client:       client,
		topic:        topic,
		subscription: topicName + cfg.SubscriptionSuffix,
	}, nil
}

func (p *PubSubBackend) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	result := p.topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	return result.Get(ctx)
}

// Subscribe receives from the backend's subscription, creating it on first
// use.
func (p *PubSubBackend) Subscribe(ctx context.Context, handler Handler) error {
	sub := p.client.Subscription(p.subscription)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		sub, err = p.client.CreateSubscription(ctx, p.subscription, pubsub.SubscriptionConfig{Topic: p.topic})
		if err != nil {
			return fmt.Errorf("create subscription %q: %w", p.subscription, err)
		}
	}

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		msg := Message{ID: m.ID, Data: m.Data, Attributes: m.Attributes}
		if err := handler(ctx, msg); err != nil {
			m.Nack()
			return
		}
		m.Ack()
	})
}

func (p *PubSubBackend) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
