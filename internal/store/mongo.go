package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
)

// MongoStore implements Store over a Mongo database. Documents are keyed by
// the string "_id"; the id is exposed as "id" on reads.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureUniqueIndexes creates unique sparse indexes on the given fields.
// Duplicate writes then fail with a conflict instead of racing past the
// service-layer existence checks.
func (s *MongoStore) EnsureUniqueIndexes(ctx context.Context, collection string, fields ...string) error {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
	}
	if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return apperr.Storage("failed to create indexes", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, collection, id string, doc Document) (string, error) {
	insert := make(bson.M, len(doc)+1)
	for k, v := range doc {
		insert[k] = v
	}
	if id == "" {
		id = primitive.NewObjectID().Hex()
	}
	insert["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("document already exists")
		}
		return "", apperr.Storage("failed to create document", err)
	}
	return id, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("failed to get document", err)
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("document already exists")
		}
		return apperr.Storage("failed to update document", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("document not found")
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Storage("failed to delete document", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, collection string, limit int64) ([]Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, apperr.Storage("failed to list documents", err)
	}
	return drain(ctx, cur)
}

func (s *MongoStore) Query(ctx context.Context, collection, field string, op Operator, value any, limit int64) ([]Document, error) {
	if op != OpEqual {
		return nil, apperr.Storage("unsupported query operator "+string(op), nil)
	}
	cur, err := s.db.Collection(collection).Find(ctx,
		bson.M{field: value}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, apperr.Storage("failed to query documents", err)
	}
	return drain(ctx, cur)
}

func drain(ctx context.Context, cur *mongo.Cursor) ([]Document, error) {
	defer cur.Close(ctx)
	var docs []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, apperr.Storage("failed to decode document", err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Storage("cursor error", err)
	}
	return docs, nil
}

// fromBSON renames _id to id and normalizes BSON datetimes to time.Time in UTC.
func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			k = "id"
		}
		if dt, ok := v.(primitive.DateTime); ok {
			v = dt.Time().UTC()
		}
		doc[k] = v
	}
	return doc
}
