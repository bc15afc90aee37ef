package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		logger:     log,
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("failed to prepare listing for database: %w", err)
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("ListingRepository.Create: InsertOne failed", "error", err.Error())
		return err
	}
	listing.ID = doc.ID.Hex()
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("failed to prepare listing for database: %w", err)
	}
	id := doc.ID
	// _id is immutable; keep it out of the $set document.
	doc.ID = primitive.NilObjectID

	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": doc})
	if err != nil {
		r.logger.Error("ListingRepository.Update: UpdateByID failed", "listing_id", listing.ID, "error", err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("ListingRepository.Delete: DeleteOne failed", "listing_id", id, "error", err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("ListingRepository.FindByID: FindOne failed", "listing_id", id, "error", err.Error())
		return nil, err
	}
	return toDomainListing(&doc), nil
}

// FindByFilter pages through listings in natural storage order. When a
// pattern is given it matches name or location case-insensitively; the
// pattern arrives already quoted, so it is a literal substring match.
func (r *ListingRepository) FindByFilter(ctx context.Context, pattern string, skip, limit int64) ([]*domain.Listing, int64, error) {
	filter := bson.M{}
	if pattern != "" {
		re := primitive.Regex{Pattern: pattern, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"location": re},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("ListingRepository.FindByFilter: CountDocuments failed", "error", err.Error())
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("ListingRepository.FindByFilter: Find failed", "error", err.Error())
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("ListingRepository.FindByFilter: cursor decode failed", "error", err.Error())
		return nil, 0, err
	}
	return toDomainListings(docs), total, nil
}

func (r *ListingRepository) FindByAuthor(ctx context.Context, authorID string) ([]*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", authorID, err)
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author.id": oid}, findOptions)
	if err != nil {
		r.logger.Error("ListingRepository.FindByAuthor: Find failed", "author_id", authorID, "error", err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("ListingRepository.FindByAuthor: cursor decode failed", "author_id", authorID, "error", err.Error())
		return nil, err
	}
	return toDomainListings(docs), nil
}
