// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Genre Data Access

// Repository defines the data access contract for the genre domain.
type Repository interface {
	List(context context.Context, filter Filter) ([]Genre, int64, error)
	Stats(context context.Context) (*mongodb.Stats, error)

	FindByIdentifier(context context.Context, identifier string) (*Genre, error)
	FindByID(context context.Context, id primitive.ObjectID) (*Genre, error)
	FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Genre, error)

	Create(context context.Context, genre *Genre) error

	/*
		Update writes the listed fields of next.

		Returns:
		  - *Genre: The document immediately before the write
		  - error: NOT_FOUND or DUPLICATE_SLUG
	*/
	Update(context context.Context, next *Genre, fields []string) (*Genre, error)

	// Delete removes one genre, returning nil if it was already gone.
	Delete(context context.Context, id primitive.ObjectID) (*Genre, error)

	// Populate resolves parent and sub-genre references in place.
	Populate(context context.Context, genres ...*Genre) error

	// # Tree Edges

	/*
		ParentOf returns the parentGenre of id.

		Returns:
		  - *primitive.ObjectID: nil for a root
		  - error: NOT_FOUND if id does not exist
	*/
	ParentOf(context context.Context, id primitive.ObjectID) (*primitive.ObjectID, error)

	// AddSubGenre adds child to parent's subGenres if absent.
	AddSubGenre(context context.Context, parent, child primitive.ObjectID) error

	// RemoveSubGenre pulls child from parent's subGenres.
	RemoveSubGenre(context context.Context, parent, child primitive.ObjectID) error

	/*
		OrphanChildren unsets parentGenre on every genre whose parent is in parents.

		Returns:
		  - int64: Number of genres that became roots
	*/
	OrphanChildren(context context.Context, parents []primitive.ObjectID) (int64, error)

	/*
		RebuildTree recomputes every subGenres array from parentGenre edges.

		Returns:
		  - int64: Number of genres whose subGenres were rewritten
	*/
	RebuildTree(context context.Context) (int64, error)
}
