// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recountBatchSize bounds one BulkWrite of counter corrections.
const recountBatchSize = 500

// CountByReference groups children by the parent id stored in field.
// multi selects array fields, which are unwound first so each element counts once.
func CountByReference(ctx context.Context, child *mongo.Collection, field string, multi bool) (map[primitive.ObjectID]int64, error) {
	path := "$" + field
	pipeline := bson.A{bson.M{"$match": bson.M{field: bson.M{"$exists": true, "$ne": nil}}}}
	if multi {
		// A duplicate id inside one array still counts once for that child.
		pipeline = append(pipeline,
			bson.M{"$project": bson.M{field: bson.M{"$setUnion": bson.A{path, bson.A{}}}}},
			bson.M{"$unwind": path},
		)
	}
	pipeline = append(pipeline, bson.M{"$group": bson.M{"_id": path, "n": bson.M{"$sum": 1}}})

	cursor, err := child.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
		N  int64              `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.N
	}
	return counts, nil
}

// SyncCounter rewrites counter on every parent whose stored value differs
// from counts (missing entries mean zero). It returns the number of parents
// scanned and repaired.
func SyncCounter(ctx context.Context, parent *mongo.Collection, counter string, counts map[primitive.ObjectID]int64) (scanned, repaired int64, err error) {
	cursor, err := parent.Aggregate(ctx, bson.A{
		bson.M{"$project": bson.M{"value": bson.M{"$ifNull": bson.A{"$" + counter, 0}}}},
	})
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	models := make([]mongo.WriteModel, 0, recountBatchSize)
	flush := func() error {
		if len(models) == 0 {
			return nil
		}
		result, err := parent.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return err
		}
		repaired += result.ModifiedCount
		models = models[:0]
		return nil
	}

	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Value int64              `bson:"value"`
		}
		if err := cursor.Decode(&row); err != nil {
			return scanned, repaired, err
		}
		scanned++

		expected := counts[row.ID]
		if row.Value == expected {
			continue
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": row.ID}).
			SetUpdate(bson.M{"$set": bson.M{counter: expected}}))

		if len(models) == recountBatchSize {
			if err := flush(); err != nil {
				return scanned, repaired, err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return scanned, repaired, err
	}

	return scanned, repaired, flush()
}
