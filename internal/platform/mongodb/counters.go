// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoMatch is returned by [AdjustCounters] when the target document is gone.
var ErrNoMatch = errors.New("mongodb: no document matched")

// AdjustCounters applies relative deltas to counter fields of one document in
// a single server-side update. Each field becomes max(0, current + delta), so
// counters never go negative and concurrent adjustments never lose updates.
func AdjustCounters(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, deltas map[string]int64) error {
	stage := CounterStage(deltas)
	if len(stage) == 0 {
		return nil
	}

	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, mongo.Pipeline{{{Key: "$set", Value: stage}}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// CounterStage renders the $set body of a clamped relative update. Fields are
// emitted in sorted order so the update document is deterministic.
func CounterStage(deltas map[string]int64) bson.D {
	fields := make([]string, 0, len(deltas))
	for field, delta := range deltas {
		if delta != 0 {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	stage := make(bson.D, 0, len(fields))
	for _, field := range fields {
		current := bson.M{"$ifNull": bson.A{"$" + field, 0}}
		stage = append(stage, bson.E{
			Key:   field,
			Value: bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{current, deltas[field]}}}},
		})
	}
	return stage
}
