// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// # Integrity Data Access

// Store defines the storage operations the maintainer and reconciler need.
type Store interface {

	/*
		Adjust applies relative deltas to counter fields of one document atomically.
		Each counter is clamped at zero.

		Returns:
		  - error: ErrParentMissing if the document does not exist
	*/
	Adjust(context context.Context, collection string, id primitive.ObjectID, deltas map[string]int64) error

	/*
		MissingIDs returns the ids among ids that have no document in collection.
	*/
	MissingIDs(context context.Context, collection string, ids []primitive.ObjectID) ([]primitive.ObjectID, error)

	/*
		CountReferencing counts children of a relation that reference any of ids.
	*/
	CountReferencing(context context.Context, relation Relation, ids []primitive.ObjectID) (int64, error)

	/*
		Detach removes references to ids from a relation's children: single
		references are unset, array references have the ids pulled.

		Returns:
		  - int64: Number of child documents modified
	*/
	Detach(context context.Context, relation Relation, ids []primitive.ObjectID) (int64, error)

	/*
		CountChildren groups a relation's children by referenced parent id.
	*/
	CountChildren(context context.Context, relation Relation) (map[primitive.ObjectID]int64, error)

	/*
		SyncCounter rewrites the relation's counter on parents that drifted from counts.

		Returns:
		  - scanned: Parents examined
		  - repaired: Parents whose counter was rewritten
	*/
	SyncCounter(context context.Context, relation Relation, counts map[primitive.ObjectID]int64) (scanned, repaired int64, err error)
}

// TreeRebuilder recomputes derived tree edges (genre subGenres) from the
// authoritative parent pointers.
type TreeRebuilder interface {
	RebuildTree(context context.Context) (repaired int64, err error)
}
