package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the query paths depend on. It is safe
// to call on every startup; existing indexes are left alone.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "location", Value: 1}},
			Options: options.Index().SetName("name_location"),
		},
		{
			Keys:    bson.D{{Key: "author.id", Value: 1}},
			Options: options.Index().SetName("author_id"),
		},
	}
	if _, err := db.Collection("listings").Indexes().CreateMany(ctx, listingIndexes); err != nil {
		return err
	}

	accountIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().SetName("reset_token").SetSparse(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, accountIndexes); err != nil {
		return err
	}

	contactIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email"),
		},
	}
	if _, err := db.Collection("contacts").Indexes().CreateMany(ctx, contactIndexes); err != nil {
		return err
	}

	return nil
}
