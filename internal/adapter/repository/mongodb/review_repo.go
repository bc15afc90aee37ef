package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

type ReviewRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewReviewRepository(db *mongo.Database, log *logger.Logger) *ReviewRepository {
	return &ReviewRepository{
		collection: db.Collection("reviews"),
		logger:     log,
	}
}

// FindByIDs returns reviews newest first. Listing pages rely on this order.
func (r *ReviewRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	if len(ids) == 0 {
		return []*domain.Review{}, nil
	}
	oids, err := hexToObjectIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByIDs: %w", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, findOptions)
	if err != nil {
		r.logger.Error("ReviewRepository.FindByIDs: Find failed", "error", err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("ReviewRepository.FindByIDs: cursor decode failed", "error", err.Error())
		return nil, err
	}

	reviews := make([]*domain.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, toDomainReview(doc))
	}
	return reviews, nil
}

func (r *ReviewRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	oids, err := hexToObjectIDs(ids)
	if err != nil {
		return fmt.Errorf("ReviewRepository.DeleteByIDs: %w", err)
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}}); err != nil {
		r.logger.Error("ReviewRepository.DeleteByIDs: DeleteMany failed", "count", len(ids), "error", err.Error())
		return err
	}
	return nil
}
