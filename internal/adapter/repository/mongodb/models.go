package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	accountdomain "github.com/rentease/listing-service/internal/account/domain"
	contactdomain "github.com/rentease/listing-service/internal/contact/domain"
	"github.com/rentease/listing-service/internal/listing/domain"
)

type authorDocument struct {
	ID       primitive.ObjectID `bson:"id"`
	Username string             `bson:"username"`
}

type listingDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Price         float64              `bson:"price"`
	Images        []string             `bson:"images"`
	Bedrooms      int                  `bson:"bedrooms"`
	Beds          int                  `bson:"beds"`
	Bathrooms     int                  `bson:"bathrooms"`
	Location      string               `bson:"location"`
	Description   string               `bson:"description"`
	ContactName   string               `bson:"contact_name"`
	ContactMobile string               `bson:"contact_mobile"`
	ContactEmail  string               `bson:"contact_email"`
	Author        authorDocument       `bson:"author"`
	Comments      []primitive.ObjectID `bson:"comments"`
	Reviews       []primitive.ObjectID `bson:"reviews"`
	Likes         []primitive.ObjectID `bson:"likes"`
	Rating        float64              `bson:"rating"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID primitive.ObjectID `bson:"listing_id"`
	Author    authorDocument     `bson:"author"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID primitive.ObjectID `bson:"listing_id"`
	Author    authorDocument     `bson:"author"`
	Rating    int                `bson:"rating"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type accountDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Username            string             `bson:"username"`
	Email               string             `bson:"email"`
	Password            string             `bson:"password"`
	ResetToken          string             `bson:"reset_password_token,omitempty"`
	ResetTokenExpiresAt time.Time          `bson:"reset_password_expires,omitempty"`
}

type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	AccountID primitive.ObjectID `bson:"account_id"`
	Username  string             `bson:"account_username"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func hexToObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", id, err)
		}
		out = append(out, oid)
	}
	return out, nil
}

func objectIDsToHex(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid listing id %q: %w", l.ID, err)
		}
	}
	authorID, err := primitive.ObjectIDFromHex(l.Author.ID)
	if err != nil {
		return nil, fmt.Errorf("toListingDocument: invalid author id %q: %w", l.Author.ID, err)
	}
	comments, err := hexToObjectIDs(l.Comments)
	if err != nil {
		return nil, fmt.Errorf("toListingDocument: %w", err)
	}
	reviews, err := hexToObjectIDs(l.Reviews)
	if err != nil {
		return nil, fmt.Errorf("toListingDocument: %w", err)
	}
	likes, err := hexToObjectIDs(l.Likes)
	if err != nil {
		return nil, fmt.Errorf("toListingDocument: %w", err)
	}

	return &listingDocument{
		ID:            docID,
		Name:          l.Name,
		Price:         l.Price,
		Images:        l.Images,
		Bedrooms:      l.Bedrooms,
		Beds:          l.Beds,
		Bathrooms:     l.Bathrooms,
		Location:      l.Location,
		Description:   l.Description,
		ContactName:   l.ContactName,
		ContactMobile: l.ContactMobile,
		ContactEmail:  l.ContactEmail,
		Author:        authorDocument{ID: authorID, Username: l.Author.Username},
		Comments:      comments,
		Reviews:       reviews,
		Likes:         likes,
		Rating:        l.Rating,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Price:         d.Price,
		Images:        d.Images,
		Bedrooms:      d.Bedrooms,
		Beds:          d.Beds,
		Bathrooms:     d.Bathrooms,
		Location:      d.Location,
		Description:   d.Description,
		ContactName:   d.ContactName,
		ContactMobile: d.ContactMobile,
		ContactEmail:  d.ContactEmail,
		Author:        domain.Author{ID: d.Author.ID.Hex(), Username: d.Author.Username},
		Comments:      objectIDsToHex(d.Comments),
		Reviews:       objectIDsToHex(d.Reviews),
		Likes:         objectIDsToHex(d.Likes),
		Rating:        d.Rating,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDomainListing(doc))
	}
	return out
}

func toDomainComment(d *commentDocument) *domain.Comment {
	if d == nil {
		return nil
	}
	return &domain.Comment{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID.Hex(),
		Author:    domain.Author{ID: d.Author.ID.Hex(), Username: d.Author.Username},
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainReview(d *reviewDocument) *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID.Hex(),
		Author:    domain.Author{ID: d.Author.ID.Hex(), Username: d.Author.Username},
		Rating:    d.Rating,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainAccount(d *accountDocument) *accountdomain.Account {
	if d == nil {
		return nil
	}
	return &accountdomain.Account{
		ID:                  d.ID.Hex(),
		Username:            d.Username,
		Email:               d.Email,
		PasswordHash:        d.Password,
		ResetToken:          d.ResetToken,
		ResetTokenExpiresAt: d.ResetTokenExpiresAt,
	}
}

func toContactDocument(c *contactdomain.Contact) (*contactDocument, error) {
	if c == nil {
		return nil, nil
	}
	docID := primitive.NilObjectID
	if c.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return nil, fmt.Errorf("toContactDocument: invalid contact id %q: %w", c.ID, err)
		}
	}
	accountID, err := primitive.ObjectIDFromHex(c.Submitter.AccountID)
	if err != nil {
		return nil, fmt.Errorf("toContactDocument: invalid account id %q: %w", c.Submitter.AccountID, err)
	}
	return &contactDocument{
		ID:        docID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		AccountID: accountID,
		Username:  c.Submitter.Username,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}, nil
}
