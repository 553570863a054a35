package service

import (
	"context"
	"time"
)

const (
	TopicPortfolioEvents = "portfolio.events"
	TopicSessionEvents   = "session.events"
)

const (
	EventItemCreated    = "item.created"
	EventItemUpdated    = "item.updated"
	EventItemDeleted    = "item.deleted"
	EventProfileUpdated = "profile.updated"
	EventSignedUp       = "signed_up"
	EventSignedIn       = "signed_in"
	EventSignedOut      = "signed_out"
)

type Event struct {
	Type       string            `json:"type"`
	OwnerID    string            `json:"owner_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventPublisher is fire-and-forget: a publish failure never fails the operation that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, evt Event)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, Event) {}
