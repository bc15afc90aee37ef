package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subjects for every event this service emits. Consumers subscribe to
// "listing.*" for the listing lifecycle.
const (
	SubjectListingCreated  = "listing.created"
	SubjectListingUpdated  = "listing.updated"
	SubjectListingDeleted  = "listing.deleted"
	SubjectListingLiked    = "listing.liked"
	SubjectContactCreated  = "contact.created"
	SubjectPasswordChanged = "account.password_changed"
)

// ListingEvent accompanies the created, updated and deleted subjects.
type ListingEvent struct {
	ListingID string `json:"listing_id"`
	AuthorID  string `json:"author_id,omitempty"`
}

// LikeEvent reports the post-toggle state.
type LikeEvent struct {
	ListingID string `json:"listing_id"`
	UserID    string `json:"user_id"`
	Liked     bool   `json:"liked"`
}

type ContactEvent struct {
	ContactID string `json:"contact_id"`
	AccountID string `json:"account_id"`
}

type AccountEvent struct {
	AccountID string `json:"account_id"`
}

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	return &Publisher{conn: conn}, nil
}

// Publish sends one JSON-encoded event. Delivery is fire-and-forget; the
// context only bounds the local enqueue.
func (p *Publisher) Publish(ctx context.Context, subject string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}
