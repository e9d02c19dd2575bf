// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Video Data Access

// Repository defines the data access contract for the video domain.
type Repository interface {

	/*
		List returns one page of videos matching filter and the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Equality filters, search, sort and page window)

		Returns:
		  - []Video: The page, in sort order
		  - int64: Total matching documents
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter) ([]Video, int64, error)

	/*
		Stats aggregates the admin listing statistics over the whole collection.
	*/
	Stats(context context.Context) (*mongodb.Stats, error)

	/*
		FindByIdentifier resolves a video by hex id or slug.

		Returns:
		  - error: NOT_FOUND if no document matches
	*/
	FindByIdentifier(context context.Context, identifier string) (*Video, error)

	// FindByID returns NOT_FOUND if the document does not exist.
	FindByID(context context.Context, id primitive.ObjectID) (*Video, error)

	// FindByIDs returns the existing documents among ids.
	FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Video, error)

	/*
		Create persists a new video and assigns its ID.

		Returns:
		  - error: DUPLICATE_SLUG when the slug is taken
	*/
	Create(context context.Context, video *Video) error

	/*
		Update writes the listed fields of next and returns the document as it
		was immediately before the write.

		Parameters:
		  - context: context.Context
		  - next: *Video (Desired state; only fields are written)
		  - fields: []string (bson names of the changed fields)

		Returns:
		  - *Video: Atomic pre-image
		  - error: NOT_FOUND or DUPLICATE_SLUG
	*/
	Update(context context.Context, next *Video, fields []string) (*Video, error)

	/*
		Delete removes one video and returns it.

		Returns:
		  - *Video: The deleted document, or nil if it was already gone
		  - error: Database failures
	*/
	Delete(context context.Context, id primitive.ObjectID) (*Video, error)

	/*
		Populate resolves the idol and genre references of videos in place.
	*/
	Populate(context context.Context, videos ...*Video) error
}

// AssetCleaner removes stored media objects. Cleanup never fails the caller;
// keys that cannot be removed are retried later.
type AssetCleaner interface {
	Cleanup(context context.Context, keys []string)
}
