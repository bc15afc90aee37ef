package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/rentease/listing-service/internal/listing/domain"
)

// PerPage is the fixed result window size.
const PerPage = 8

// SearchListings turns a free-text query plus a page number into one bounded
// result window and a total-derived page count. Without a query it pages
// through all listings in storage order.
//
// The raw query is quoted before it reaches the store, so metacharacters in
// user input match literally instead of being interpreted as a pattern.
func (uc *ListingUsecase) SearchListings(ctx context.Context, filter domain.Filter) (*domain.Page, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}

	pattern := ""
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern = regexp.QuoteMeta(q)
	}

	skip := int64(PerPage) * int64(page-1)
	listings, total, err := uc.repo.FindByFilter(ctx, pattern, skip, PerPage)
	if err != nil {
		uc.logger.Error("ListingUsecase.SearchListings: search failed", "query", filter.Query, "page", page, "error", err.Error())
		return nil, err
	}

	// An empty match set under a query is a user-facing "no results", not a
	// fault.
	if pattern != "" && total == 0 {
		return nil, domain.ErrNoSearchResults
	}

	return &domain.Page{
		Listings:   listings,
		Current:    page,
		TotalPages: int((total + PerPage - 1) / PerPage),
	}, nil
}
