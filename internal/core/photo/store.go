// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Photo Data Access

// Repository defines the data access contract for the photo domain.
type Repository interface {
	// List returns one page of photos matching filter and the total match count.
	List(context context.Context, filter Filter) ([]Photo, int64, error)

	// Stats aggregates the admin listing statistics.
	Stats(context context.Context) (*mongodb.Stats, error)

	FindByIdentifier(context context.Context, identifier string) (*Photo, error)
	FindByID(context context.Context, id primitive.ObjectID) (*Photo, error)
	FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Photo, error)

	// Create persists a new photo and assigns its ID.
	Create(context context.Context, photo *Photo) error

	/*
		Update writes the listed fields of next.

		Returns:
		  - *Photo: The document immediately before the write
		  - error: NOT_FOUND or DUPLICATE_SLUG
	*/
	Update(context context.Context, next *Photo, fields []string) (*Photo, error)

	// Delete removes one photo, returning nil if it was already gone.
	Delete(context context.Context, id primitive.ObjectID) (*Photo, error)

	// Populate resolves gallery and idol references in place.
	Populate(context context.Context, photos ...*Photo) error
}

// AssetCleaner removes stored media objects without failing the caller.
type AssetCleaner interface {
	Cleanup(context context.Context, keys []string)
}
