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

// CommentRepository covers the slice of the comments collection this service
// needs: resolving a listing's comment ids for display and deleting them
// when the listing goes away.
type CommentRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCommentRepository(db *mongo.Database, log *logger.Logger) *CommentRepository {
	return &CommentRepository{
		collection: db.Collection("comments"),
		logger:     log,
	}
}

func (r *CommentRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Comment, error) {
	if len(ids) == 0 {
		return []*domain.Comment{}, nil
	}
	oids, err := hexToObjectIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.FindByIDs: %w", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, findOptions)
	if err != nil {
		r.logger.Error("CommentRepository.FindByIDs: Find failed", "error", err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("CommentRepository.FindByIDs: cursor decode failed", "error", err.Error())
		return nil, err
	}

	comments := make([]*domain.Comment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, toDomainComment(doc))
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	oids, err := hexToObjectIDs(ids)
	if err != nil {
		return fmt.Errorf("CommentRepository.DeleteByIDs: %w", err)
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}}); err != nil {
		r.logger.Error("CommentRepository.DeleteByIDs: DeleteMany failed", "count", len(ids), "error", err.Error())
		return err
	}
	return nil
}
