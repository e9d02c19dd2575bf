// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/idolbase/internal/platform/dberr"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore returns a [Store] backed by the catalogue database.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (store *mongoStore) Adjust(context context.Context, collection string, id primitive.ObjectID, deltas map[string]int64) error {
	err := mongodb.AdjustCounters(context, store.db.Collection(collection), id, deltas)
	if errors.Is(err, mongodb.ErrNoMatch) {
		return ErrParentMissing
	}
	return err
}

func (store *mongoStore) MissingIDs(context context.Context, collection string, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := store.db.Collection(collection).Find(context,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Reference")
	}

	var found []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(context, &found); err != nil {
		return nil, dberr.Wrap(err, "Reference")
	}

	present := make(map[primitive.ObjectID]struct{}, len(found))
	for _, row := range found {
		present[row.ID] = struct{}{}
	}

	var missing []primitive.ObjectID
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (store *mongoStore) CountReferencing(context context.Context, relation Relation, ids []primitive.ObjectID) (int64, error) {
	count, err := store.db.Collection(relation.Child).CountDocuments(context,
		bson.M{relation.Field: bson.M{"$in": ids}},
	)
	if err != nil {
		return 0, dberr.Wrap(err, "Reference")
	}
	return count, nil
}

func (store *mongoStore) Detach(context context.Context, relation Relation, ids []primitive.ObjectID) (int64, error) {
	filter := bson.M{relation.Field: bson.M{"$in": ids}}

	var update bson.M
	if relation.Multi {
		update = bson.M{"$pull": bson.M{relation.Field: bson.M{"$in": ids}}}
	} else {
		update = bson.M{"$unset": bson.M{relation.Field: ""}}
	}

	result, err := store.db.Collection(relation.Child).UpdateMany(context, filter, update)
	if err != nil {
		return 0, dberr.Wrap(err, "Reference")
	}
	return result.ModifiedCount, nil
}

func (store *mongoStore) CountChildren(context context.Context, relation Relation) (map[primitive.ObjectID]int64, error) {
	return mongodb.CountByReference(context, store.db.Collection(relation.Child), relation.Field, relation.Multi)
}

func (store *mongoStore) SyncCounter(context context.Context, relation Relation, counts map[primitive.ObjectID]int64) (int64, int64, error) {
	return mongodb.SyncCounter(context, store.db.Collection(relation.Parent), relation.Counter, counts)
}
