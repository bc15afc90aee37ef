package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrInvalidListingData = errors.New("invalid listing data")
	ErrNoImages           = errors.New("at least one image is required")
	ErrInvalidImageType   = errors.New("only jpg, jpeg, png and gif files are allowed")
	ErrTooManyImages      = errors.New("too many images in one request")
	ErrForbidden          = errors.New("user not authorized to perform this action")
	ErrNoSearchResults    = errors.New("no listings match that search")
)
