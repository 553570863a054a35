package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const (
	mongoDocuments = "documents"
	mongoUsers     = "users"
)

func NewMongoDatabase(ctx context.Context, cfg config.Config, log logger.Logger) (*mongo.Database, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.DB.MongoURI).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, fmt.Errorf("do not create mongo client: %w", err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	log.Info("Connect MongoDB successfully.")
	return cli.Database(cfg.DB.MongoDatabase), nil
}

// EnsureMongoIndexes creates the indexes the document and user stores rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(mongoDocuments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "collection", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("collection_created"),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(mongoUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

type mongoDocument struct {
	Path       string    `bson:"_id"`
	Collection string    `bson:"collection"`
	DocID      string    `bson:"doc_id"`
	Data       bson.M    `bson:"data"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func (m mongoDocument) toDomain() *document.Document {
	path, _ := document.ParsePath(m.Path)
	data := map[string]any(m.Data)
	if data == nil {
		data = map[string]any{}
	}
	return &document.Document{ID: m.DocID, Path: path, Data: data}
}

type mongoDocumentStore struct {
	col    *mongo.Collection
	logger logger.Logger
}

// NewMongoDocumentStore keeps all documents in one collection, keyed by full path.
func NewMongoDocumentStore(db *mongo.Database, logger logger.Logger) service.DocumentStore {
	return &mongoDocumentStore{col: db.Collection(mongoDocuments), logger: logger}
}

func (r *mongoDocumentStore) Get(ctx context.Context, path document.Path) (*document.Document, error) {
	var m mongoDocument
	err := r.col.FindOne(ctx, bson.M{"_id": path.String()}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("document", path.String())
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to get document", err)
	}
	return m.toDomain(), nil
}

func (r *mongoDocumentStore) List(ctx context.Context, collection document.Path) ([]*document.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "doc_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"collection": collection.String()}, opts)
	if err != nil {
		return nil, apperror.NewInternal("failed to list documents", err)
	}
	defer cur.Close(ctx)

	docs := make([]*document.Document, 0)
	for cur.Next(ctx) {
		var m mongoDocument
		if err := cur.Decode(&m); err != nil {
			return nil, apperror.NewInternal("failed to decode document", err)
		}
		docs = append(docs, m.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating documents", err)
	}
	return docs, nil
}

func (r *mongoDocumentStore) Set(ctx context.Context, path document.Path, data map[string]any, merge bool) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": path.String()}

	if !merge {
		replacement := mongoDocument{
			Path:       path.String(),
			Collection: path.Parent().String(),
			DocID:      path.ID(),
			Data:       bson.M(data),
			UpdatedAt:  now,
		}
		// created_at survives an overwrite
		var existing mongoDocument
		err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&existing)
		switch {
		case err == nil:
			replacement.CreatedAt = existing.CreatedAt
		case errors.Is(err, mongo.ErrNoDocuments):
			replacement.CreatedAt = now
		default:
			return apperror.NewInternal("failed to read document", err)
		}
		if replacement.Data == nil {
			replacement.Data = bson.M{}
		}
		if _, err := r.col.ReplaceOne(ctx, filter, replacement, options.Replace().SetUpsert(true)); err != nil {
			return apperror.NewInternal("failed to write document", err)
		}
		return nil
	}

	set := bson.M{"updated_at": now}
	for k, v := range data {
		set["data."+k] = v
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"collection": path.Parent().String(),
			"doc_id":     path.ID(),
			"created_at": now,
		},
	}
	if _, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return apperror.NewInternal("failed to merge document", err)
	}
	return nil
}

func (r *mongoDocumentStore) Create(ctx context.Context, collection document.Path, data map[string]any) (string, error) {
	now := time.Now().UTC()
	id := primitive.NewObjectID().Hex()
	if data == nil {
		data = map[string]any{}
	}
	m := mongoDocument{
		Path:       collection.Child(id).String(),
		Collection: collection.String(),
		DocID:      id,
		Data:       bson.M(data),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return "", apperror.NewInternal("failed to create document", err)
	}
	return id, nil
}

func (r *mongoDocumentStore) Delete(ctx context.Context, path document.Path) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": path.String()}); err != nil {
		return apperror.NewInternal("failed to delete document", err)
	}
	return nil
}
