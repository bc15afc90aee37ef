package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	accountdomain "github.com/rentease/listing-service/internal/account/domain"
	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

// AccountRepository reads accounts for the recovery flow and resolves liker
// identities for listing pages. It never creates or removes accounts; that
// lifecycle is owned elsewhere.
type AccountRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewAccountRepository(db *mongo.Database, log *logger.Logger) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection("users"),
		logger:     log,
	}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*accountdomain.Account, error) {
	var doc accountDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountdomain.ErrAccountNotFound
		}
		r.logger.Error("AccountRepository.FindByEmail: FindOne failed", "error", err.Error())
		return nil, err
	}
	return toDomainAccount(&doc), nil
}

// FindByValidResetToken combines token equality and a strictly-future expiry
// in one query, so there is no window where an expired token reads as valid.
func (r *AccountRepository) FindByValidResetToken(ctx context.Context, token string, now time.Time) (*accountdomain.Account, error) {
	filter := bson.M{
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": now},
	}
	var doc accountDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountdomain.ErrInvalidOrExpiredToken
		}
		r.logger.Error("AccountRepository.FindByValidResetToken: FindOne failed", "error", err.Error())
		return nil, err
	}
	return toDomainAccount(&doc), nil
}

func (r *AccountRepository) SetResetToken(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return accountdomain.ErrAccountNotFound
	}
	update := bson.M{"$set": bson.M{
		"reset_password_token":   token,
		"reset_password_expires": expiresAt,
	}}
	result, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		r.logger.Error("AccountRepository.SetResetToken: UpdateByID failed", "account_id", accountID, "error", err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return accountdomain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ResetCredential(ctx context.Context, accountID, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return accountdomain.ErrAccountNotFound
	}
	update := bson.M{
		"$set": bson.M{"password": passwordHash},
		"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		},
	}
	result, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		r.logger.Error("AccountRepository.ResetCredential: UpdateByID failed", "account_id", accountID, "error", err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return accountdomain.ErrAccountNotFound
	}
	return nil
}

// FindRefsByIDs implements the listing domain's UserDirectory for resolving
// liker display identities. Unknown ids are skipped rather than failing the
// whole page.
func (r *AccountRepository) FindRefsByIDs(ctx context.Context, ids []string) ([]domain.UserRef, error) {
	if len(ids) == 0 {
		return []domain.UserRef{}, nil
	}
	oids, err := hexToObjectIDs(ids)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error("AccountRepository.FindRefsByIDs: Find failed", "error", err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("AccountRepository.FindRefsByIDs: cursor decode failed", "error", err.Error())
		return nil, err
	}

	refs := make([]domain.UserRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, domain.UserRef{ID: doc.ID.Hex(), Username: doc.Username})
	}
	return refs, nil
}
