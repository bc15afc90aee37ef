package nats

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishStopsOnDoneContext(t *testing.T) {
	p := &Publisher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, SubjectListingCreated, ListingEvent{ListingID: "l1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), SubjectListingCreated)
}

func TestEventPayloadShapes(t *testing.T) {
	tests := []struct {
		name  string
		event interface{}
		want  string
	}{
		{"listing", ListingEvent{ListingID: "l1", AuthorID: "u1"}, `{"listing_id":"l1","author_id":"u1"}`},
		{"listing without author", ListingEvent{ListingID: "l1"}, `{"listing_id":"l1"}`},
		{"like", LikeEvent{ListingID: "l1", UserID: "u1", Liked: true}, `{"listing_id":"l1","user_id":"u1","liked":true}`},
		{"contact", ContactEvent{ContactID: "c1", AccountID: "u1"}, `{"contact_id":"c1","account_id":"u1"}`},
		{"account", AccountEvent{AccountID: "u1"}, `{"account_id":"u1"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := json.Marshal(tc.event)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(payload))
		})
	}
}
