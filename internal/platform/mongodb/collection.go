// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/idolbase/internal/platform/dberr"
)

// # Generic Collection

// Collection is a typed view over a MongoDB collection. T is the stored
// document type; resource names it in client-facing errors.
type Collection[T any] struct {
	coll     *mongo.Collection
	resource string
}

// NewCollection binds a typed collection to the given database.
func NewCollection[T any](db *mongo.Database, name, resource string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), resource: resource}
}

// Raw exposes the underlying driver collection for domain-specific queries.
func (c *Collection[T]) Raw() *mongo.Collection { return c.coll }

// Insert stores doc and returns its generated ObjectID.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	result, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, dberr.Wrap(err, c.resource)
	}

	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindOne decodes the first document matching filter.
func (c *Collection[T]) FindOne(ctx context.Context, filter any) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}
	return &doc, nil
}

// FindByIdentifier resolves a 24-char hex ObjectID or, failing that, a slug.
func (c *Collection[T]) FindByIdentifier(ctx context.Context, identifier string) (*T, error) {
	return c.FindOne(ctx, IdentifierFilter(identifier))
}

// FindByID fetches a document by primary key.
func (c *Collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

// FindByIDs returns every existing document among ids, in storage order.
func (c *Collection[T]) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return c.FindMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// FindMany decodes every document matching filter.
func (c *Collection[T]) FindMany(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}
	return docs, nil
}

// UpdateReturningPrevious applies update to one document and returns the
// pre-image. The pre-image is read atomically with the write, so counter
// diffs computed from it stay exact under concurrent edits.
func (c *Collection[T]) UpdateReturningPrevious(ctx context.Context, id primitive.ObjectID, update bson.M) (*T, error) {
	var previous T
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&previous)
	if err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}
	return &previous, nil
}

// DeleteReturning removes one document and returns what was deleted.
// It returns (nil, nil) when the document was already gone, so only the
// caller that actually removed it accounts for the deletion.
func (c *Collection[T]) DeleteReturning(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var deleted T
	err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}
	return &deleted, nil
}

// UpdateMany applies update to every document matching filter.
func (c *Collection[T]) UpdateMany(ctx context.Context, filter, update any) (int64, error) {
	result, err := c.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, dberr.Wrap(err, c.resource)
	}
	return result.ModifiedCount, nil
}

// # Identifiers

// IdentifierFilter matches by _id when identifier is a valid ObjectID hex
// string and by slug otherwise.
func IdentifierFilter(identifier string) bson.M {
	if id, err := primitive.ObjectIDFromHex(identifier); err == nil {
		return bson.M{"_id": id}
	}
	return bson.M{"slug": identifier}
}

// ParseIDs converts hex strings to ObjectIDs, returning the first invalid value.
func ParseIDs(raw []string) ([]primitive.ObjectID, string, bool) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, value, false
		}
		ids = append(ids, id)
	}
	return ids, "", true
}

// HexIDs converts already validated hex ids, skipping malformed values and
// duplicates.
func HexIDs(raw []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		if id, err := primitive.ObjectIDFromHex(value); err == nil {
			ids = append(ids, id)
		}
	}
	return UniqueIDs(ids)
}

// OptionalHexID converts an optional reference. The empty string, which
// clears the reference, and malformed values yield nil.
func OptionalHexID(raw string) *primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	return &id
}
