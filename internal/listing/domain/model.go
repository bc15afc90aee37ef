package domain

import "time"

// Author is the ownership snapshot taken when a listing is created.
// The username is cached so listing pages never need a user lookup
// just to show who posted.
type Author struct {
	ID       string
	Username string
}

type Listing struct {
	ID          string
	Name        string
	Price       float64
	Images      []string // ordered, never empty after creation; Images[0] is the cover
	Bedrooms    int
	Beds        int
	Bathrooms   int
	Location    string
	Description string

	ContactName   string
	ContactMobile string
	ContactEmail  string

	Author    Author
	Comments  []string // comment ids, insertion order
	Reviews   []string // review ids, insertion order
	Likes     []string // account ids, each at most once
	Rating    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cover returns the canonical cover reference.
func (l *Listing) Cover() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// LikedBy reports whether the given account id is in the like set.
func (l *Listing) LikedBy(accountID string) bool {
	for _, id := range l.Likes {
		if id == accountID {
			return true
		}
	}
	return false
}

// Comment and Review are referenced by listings but owned elsewhere;
// this service only resolves them for display and cascades their deletion.
type Comment struct {
	ID        string
	ListingID string
	Author    Author
	Text      string
	CreatedAt time.Time
}

type Review struct {
	ID        string
	ListingID string
	Author    Author
	Rating    int
	Text      string
	CreatedAt time.Time
}

// UserRef is the minimal account identity attached to a listing detail
// (liker display names and the like).
type UserRef struct {
	ID       string
	Username string
}

// ListingDetail is a listing with its dependent records resolved,
// reviews newest first.
type ListingDetail struct {
	Listing  *Listing
	Comments []*Comment
	Reviews  []*Review
	Likers   []UserRef
}

// Filter narrows and windows a listing search.
type Filter struct {
	Query string
	Page  int
}

// Page is one result window plus the derived page count.
type Page struct {
	Listings   []*Listing
	Current    int
	TotalPages int
}
