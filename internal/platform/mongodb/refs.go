// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/idolbase/internal/platform/dberr"
)

// # Reference Population

// Ref is the compact form a referenced document takes inside a response.
// Idols and genres carry Name; galleries carry Title.
type Ref struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"name,omitempty" bson:"name,omitempty"`
	Title string             `json:"title,omitempty" bson:"title,omitempty"`
	Slug  string             `json:"slug,omitempty" bson:"slug,omitempty"`
}

// RefSet maps parent ids to their populated form.
type RefSet map[primitive.ObjectID]Ref

// Get returns the populated reference, or a bare id reference when the
// parent no longer exists. It returns nil for a zero id.
func (set RefSet) Get(id primitive.ObjectID) *Ref {
	if id.IsZero() {
		return nil
	}
	if ref, ok := set[id]; ok {
		return &ref
	}
	return &Ref{ID: id}
}

// GetOptional is [RefSet.Get] for optional single references.
func (set RefSet) GetOptional(id *primitive.ObjectID) *Ref {
	if id == nil {
		return nil
	}
	return set.Get(*id)
}

// GetMany populates a reference array, preserving order.
func (set RefSet) GetMany(ids []primitive.ObjectID) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		if ref := set.Get(id); ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs
}

// LoadRefs fetches {_id, label, slug} for every id in one query.
// label is "name" or "title" depending on the parent collection.
func LoadRefs(ctx context.Context, coll *mongo.Collection, label string, ids []primitive.ObjectID) (RefSet, error) {
	set := RefSet{}
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return set, nil
	}

	projection := bson.M{"_id": 1, "slug": 1, label: 1}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, dberr.Wrap(err, "Reference")
	}

	var refs []Ref
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, dberr.Wrap(err, "Reference")
	}

	for _, ref := range refs {
		set[ref.ID] = ref
	}
	return set, nil
}

// UniqueIDs drops zero and duplicate ids, keeping first occurrence order.
func UniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// Present collects the non-nil ids among optional references.
func Present(ids ...*primitive.ObjectID) []primitive.ObjectID {
	present := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			present = append(present, *id)
		}
	}
	return present
}
