package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

// CreateListingInput carries the scalar fields of a new listing. Images
// travel separately as uploaded files.
type CreateListingInput struct {
	Name        string
	Price       float64
	Bedrooms    int
	Beds        int
	Bathrooms   int
	Location    string
	Description string

	ContactName   string
	ContactMobile string
	ContactEmail  string
}

// UpdateListingInput uses pointers so an absent field leaves the stored
// value untouched. A nil pointer means "not submitted", not "clear".
type UpdateListingInput struct {
	Name        *string
	Price       *float64
	Bedrooms    *int
	Beds        *int
	Bathrooms   *int
	Location    *string
	Description *string

	ContactName   *string
	ContactMobile *string
	ContactEmail  *string
}

// ListingCache is a read-through cache for single-listing lookups. Cache
// failures are logged and ignored; the store stays the source of truth.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

type ListingUsecase struct {
	repo     domain.ListingRepository
	comments domain.CommentRepository
	reviews  domain.ReviewRepository
	users    domain.UserDirectory
	images   *ImageUsecase
	cache    ListingCache
	logger   *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	comments domain.CommentRepository,
	reviews domain.ReviewRepository,
	users domain.UserDirectory,
	images *ImageUsecase,
	cache ListingCache,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:     repo,
		comments: comments,
		reviews:  reviews,
		users:    users,
		images:   images,
		cache:    cache,
		logger:   log,
	}
}

// CreateListing stores the uploaded images first, then writes the listing
// with the caller bound as its immutable author. The first stored image is
// the cover.
func (uc *ListingUsecase) CreateListing(ctx context.Context, p domain.Principal, in CreateListingInput, files []ImageFile) (*domain.Listing, error) {
	if !p.Authenticated() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidListingData)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidListingData)
	}

	images, err := uc.images.Store(ctx, files)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listing := &domain.Listing{
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		Images:        images,
		Bedrooms:      in.Bedrooms,
		Beds:          in.Beds,
		Bathrooms:     in.Bathrooms,
		Location:      strings.TrimSpace(in.Location),
		Description:   in.Description,
		ContactName:   in.ContactName,
		ContactMobile: in.ContactMobile,
		ContactEmail:  in.ContactEmail,
		Author:        domain.Author{ID: p.ID, Username: p.Username},
		Comments:      []string{},
		Reviews:       []string{},
		Likes:         []string{},
		Rating:        0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.CreateListing: failed to create listing", "user_id", p.ID, "error", err.Error())
		return nil, err
	}
	uc.cacheSet(ctx, listing)
	uc.logger.Info("ListingUsecase.CreateListing: listing created", "listing_id", listing.ID, "user_id", p.ID, "images", len(images))
	return listing, nil
}

// GetListing resolves the listing together with its comments, its likers'
// identities and its reviews, reviews newest first.
func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.ListingDetail, error) {
	listing := uc.cacheGet(ctx, id)
	if listing == nil {
		var err error
		listing, err = uc.findListing(ctx, id)
		if err != nil {
			return nil, err
		}
		uc.cacheSet(ctx, listing)
	}

	comments, err := uc.comments.FindByIDs(ctx, listing.Comments)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetListing: failed to resolve comments", "listing_id", id, "error", err.Error())
		return nil, err
	}
	reviews, err := uc.reviews.FindByIDs(ctx, listing.Reviews)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetListing: failed to resolve reviews", "listing_id", id, "error", err.Error())
		return nil, err
	}
	// Newest first is part of the listing page contract, whatever order the
	// store hands back.
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	likers, err := uc.users.FindRefsByIDs(ctx, listing.Likes)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetListing: failed to resolve likers", "listing_id", id, "error", err.Error())
		return nil, err
	}

	return &domain.ListingDetail{
		Listing:  listing,
		Comments: comments,
		Reviews:  reviews,
		Likers:   likers,
	}, nil
}

// UpdateListing applies a partial update. Fields the caller did not submit
// keep their stored values; a new image batch fully replaces the old one.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id string, p domain.Principal, in UpdateListingInput, files []ImageFile) (*domain.Listing, error) {
	listing, err := uc.findListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanModify(p, listing); err != nil {
		uc.logger.Warn("ListingUsecase.UpdateListing: forbidden", "listing_id", id, "owner_id", listing.Author.ID, "user_id", p.ID)
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidListingData)
		}
		listing.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidListingData)
		}
		listing.Price = *in.Price
	}
	if in.Bedrooms != nil {
		listing.Bedrooms = *in.Bedrooms
	}
	if in.Beds != nil {
		listing.Beds = *in.Beds
	}
	if in.Bathrooms != nil {
		listing.Bathrooms = *in.Bathrooms
	}
	if in.Location != nil {
		listing.Location = strings.TrimSpace(*in.Location)
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.ContactName != nil {
		listing.ContactName = *in.ContactName
	}
	if in.ContactMobile != nil {
		listing.ContactMobile = *in.ContactMobile
	}
	if in.ContactEmail != nil {
		listing.ContactEmail = *in.ContactEmail
	}

	if len(files) > 0 {
		images, err := uc.images.Store(ctx, files)
		if err != nil {
			return nil, err
		}
		listing.Images = images
	}

	listing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.UpdateListing: failed to update listing", "listing_id", id, "error", err.Error())
		return nil, err
	}
	uc.cacheSet(ctx, listing)
	uc.logger.Info("ListingUsecase.UpdateListing: listing updated", "listing_id", id, "user_id", p.ID)
	return listing, nil
}

// DeleteListing deletes the listing's comments, then its reviews, then the
// listing itself. The listing goes last so a cascade failure never leaves
// it pointing at records that are gone.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id string, p domain.Principal) error {
	listing, err := uc.findListing(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.CanModify(p, listing); err != nil {
		uc.logger.Warn("ListingUsecase.DeleteListing: forbidden", "listing_id", id, "owner_id", listing.Author.ID, "user_id", p.ID)
		return err
	}

	if err := uc.comments.DeleteByIDs(ctx, listing.Comments); err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: comment cascade failed, aborting", "listing_id", id, "error", err.Error())
		return fmt.Errorf("delete listing comments: %w", err)
	}
	if err := uc.reviews.DeleteByIDs(ctx, listing.Reviews); err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: review cascade failed, aborting", "listing_id", id, "error", err.Error())
		return fmt.Errorf("delete listing reviews: %w", err)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: failed to delete listing", "listing_id", id, "error", err.Error())
		return err
	}
	uc.cacheDelete(ctx, id)
	uc.logger.Info("ListingUsecase.DeleteListing: listing deleted", "listing_id", id, "user_id", p.ID)
	return nil
}

// ToggleLike flips the caller's membership in the like set. Two identical
// calls in a row restore the original state.
func (uc *ListingUsecase) ToggleLike(ctx context.Context, id string, p domain.Principal) (*domain.Listing, error) {
	if !p.Authenticated() {
		return nil, domain.ErrForbidden
	}
	// Resolve fresh before mutating to keep the lost-update window small.
	listing, err := uc.findListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.LikedBy(p.ID) {
		kept := make([]string, 0, len(listing.Likes)-1)
		for _, likerID := range listing.Likes {
			if likerID != p.ID {
				kept = append(kept, likerID)
			}
		}
		listing.Likes = kept
	} else {
		listing.Likes = append(listing.Likes, p.ID)
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.ToggleLike: failed to persist like toggle", "listing_id", id, "user_id", p.ID, "error", err.Error())
		return nil, err
	}
	uc.cacheSet(ctx, listing)
	uc.logger.Info("ListingUsecase.ToggleLike: like toggled", "listing_id", id, "user_id", p.ID, "liked", listing.LikedBy(p.ID))
	return listing, nil
}

// ListByAuthor returns every listing posted by the given account.
func (uc *ListingUsecase) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByAuthor(ctx, authorID)
	if err != nil {
		uc.logger.Error("ListingUsecase.ListByAuthor: failed to fetch listings", "author_id", authorID, "error", err.Error())
		return nil, err
	}
	return listings, nil
}

func (uc *ListingUsecase) cacheGet(ctx context.Context, id string) *domain.Listing {
	if uc.cache == nil {
		return nil
	}
	listing, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("ListingUsecase: cache read failed", "listing_id", id, "error", err.Error())
		return nil
	}
	return listing
}

func (uc *ListingUsecase) cacheSet(ctx context.Context, listing *domain.Listing) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("ListingUsecase: cache write failed", "listing_id", listing.ID, "error", err.Error())
	}
}

func (uc *ListingUsecase) cacheDelete(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("ListingUsecase: cache invalidation failed", "listing_id", id, "error", err.Error())
	}
}

// findListing reads straight from the store, bypassing the cache. Mutating
// operations depend on this so they always work on a fresh document.
func (uc *ListingUsecase) findListing(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Warn("ListingUsecase: listing not found", "listing_id", id)
			return nil, domain.ErrListingNotFound
		}
		uc.logger.Error("ListingUsecase: failed to find listing", "listing_id", id, "error", err.Error())
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}
