package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentease/listing-service/internal/contact/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

type ContactRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewContactRepository(db *mongo.Database, log *logger.Logger) *ContactRepository {
	return &ContactRepository{
		collection: db.Collection("contacts"),
		logger:     log,
	}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	doc, err := toContactDocument(contact)
	if err != nil {
		return fmt.Errorf("failed to prepare contact for database: %w", err)
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("ContactRepository.Create: InsertOne failed", "error", err.Error())
		return err
	}
	contact.ID = doc.ID.Hex()
	return nil
}
