package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rentease/listing-service/internal/listing/domain"
)

// opLog records the order of store operations across fakes, so cascade
// ordering can be asserted.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

type fakeListingRepo struct {
	listings map[string]*domain.Listing
	nextID   int
	log      *opLog

	createErr error
	updateErr error
	deleteErr error

	lastPattern string
	lastSkip    int64
	lastLimit   int64

	filterListings []*domain.Listing
	filterTotal    int64
}

func newFakeListingRepo(log *opLog) *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*domain.Listing), log: log}
}

func cloneListing(l *domain.Listing) *domain.Listing {
	c := *l
	c.Images = append([]string(nil), l.Images...)
	c.Comments = append([]string(nil), l.Comments...)
	c.Reviews = append([]string(nil), l.Reviews...)
	c.Likes = append([]string(nil), l.Likes...)
	return &c
}

func (r *fakeListingRepo) Create(_ context.Context, listing *domain.Listing) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	listing.ID = fmt.Sprintf("listing-%d", r.nextID)
	r.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, listing *domain.Listing) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.listings[listing.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id string) error {
	if r.log != nil {
		r.log.add("listing.delete")
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (r *fakeListingRepo) FindByFilter(_ context.Context, pattern string, skip, limit int64) ([]*domain.Listing, int64, error) {
	r.lastPattern = pattern
	r.lastSkip = skip
	r.lastLimit = limit
	return r.filterListings, r.filterTotal, nil
}

func (r *fakeListingRepo) FindByAuthor(_ context.Context, authorID string) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if l.Author.ID == authorID {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments  map[string]*domain.Comment
	log       *opLog
	deleteErr error
	deleted   []string
}

func newFakeCommentRepo(log *opLog) *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*domain.Comment), log: log}
}

func (r *fakeCommentRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Comment, error) {
	out := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteByIDs(_ context.Context, ids []string) error {
	if r.log != nil {
		r.log.add("comments.delete")
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, id := range ids {
		delete(r.comments, id)
	}
	r.deleted = append(r.deleted, ids...)
	return nil
}

type fakeReviewRepo struct {
	reviews   map[string]*domain.Review
	log       *opLog
	deleteErr error
	deleted   []string
}

func newFakeReviewRepo(log *opLog) *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*domain.Review), log: log}
}

func (r *fakeReviewRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Review, error) {
	out := make([]*domain.Review, 0, len(ids))
	for _, id := range ids {
		if rv, ok := r.reviews[id]; ok {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) DeleteByIDs(_ context.Context, ids []string) error {
	if r.log != nil {
		r.log.add("reviews.delete")
	}
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, id := range ids {
		delete(r.reviews, id)
	}
	r.deleted = append(r.deleted, ids...)
	return nil
}

type fakeUserDirectory struct {
	refs map[string]domain.UserRef
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{refs: make(map[string]domain.UserRef)}
}

func (d *fakeUserDirectory) FindRefsByIDs(_ context.Context, ids []string) ([]domain.UserRef, error) {
	out := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := d.refs[id]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

type fakeStorage struct {
	uploads   []string
	failOn    string
	uploadErr error
}

func (s *fakeStorage) Upload(_ context.Context, objectKey string, _ []byte) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	if s.failOn != "" && strings.Contains(objectKey, s.failOn) {
		return "", fmt.Errorf("upload rejected: %s", objectKey)
	}
	s.uploads = append(s.uploads, objectKey)
	return "mem://" + objectKey, nil
}

type fakeCache struct {
	entries map[string]*domain.Listing
	sets    int
	deletes int
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Listing)}
}

func (c *fakeCache) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	l, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	return cloneListing(l), nil
}

func (c *fakeCache) SetListing(_ context.Context, listing *domain.Listing) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.entries[listing.ID] = cloneListing(listing)
	return nil
}

func (c *fakeCache) DeleteListing(_ context.Context, id string) error {
	c.deletes++
	delete(c.entries, id)
	return nil
}
