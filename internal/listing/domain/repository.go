package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindByFilter returns one window of matching listings plus the total
	// match count. The query in the filter is a raw user string; escaping
	// happens before it reaches the store.
	FindByFilter(ctx context.Context, pattern string, skip, limit int64) ([]*Listing, int64, error)
	FindByAuthor(ctx context.Context, authorID string) ([]*Listing, error)
}

// CommentRepository and ReviewRepository expose only what the cascade and
// the detail view need; the content lifecycle of both record kinds is owned
// by other services.
type CommentRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]*Comment, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

type ReviewRepository interface {
	// FindByIDs returns reviews newest first. The ordering is part of the
	// listing page contract.
	FindByIDs(ctx context.Context, ids []string) ([]*Review, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// UserDirectory resolves account ids into display identities for the
// listing detail's liker list.
type UserDirectory interface {
	FindRefsByIDs(ctx context.Context, ids []string) ([]UserRef, error)
}

// Storage persists raw image bytes under a caller-chosen key and returns
// the stored reference.
type Storage interface {
	Upload(ctx context.Context, objectKey string, data []byte) (string, error)
}
