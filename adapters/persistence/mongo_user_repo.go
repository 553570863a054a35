package persistence

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

type mongoAccount struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) identity.Repository {
	return &mongoUserRepo{col: db.Collection(mongoUsers)}
}

func (r *mongoUserRepo) Create(ctx context.Context, a *identity.Account) error {
	_, err := r.col.InsertOne(ctx, mongoAccount{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return apperror.NewConflict("user", "email", a.Email)
	}
	if err != nil {
		return apperror.NewInternal("failed to save user", err)
	}
	return nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*identity.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *mongoUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		return apperror.NewInternal("failed to update user", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NewNotFound("user", id)
	}
	return nil
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M, identifier string) (*identity.Account, error) {
	var m mongoAccount
	err := r.col.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("user", identifier)
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to query user", err)
	}
	return &identity.Account{ID: m.ID, Email: m.Email, PasswordHash: m.PasswordHash, CreatedAt: m.CreatedAt}, nil
}
