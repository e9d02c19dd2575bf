// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Gallery Data Access

// Repository defines the data access contract for the gallery domain.
type Repository interface {
	List(context context.Context, filter Filter) ([]Gallery, int64, error)
	Stats(context context.Context) (*mongodb.Stats, error)

	FindByIdentifier(context context.Context, identifier string) (*Gallery, error)
	FindByID(context context.Context, id primitive.ObjectID) (*Gallery, error)
	FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Gallery, error)

	Create(context context.Context, gallery *Gallery) error

	/*
		Update writes the listed fields of next.

		Returns:
		  - *Gallery: The document immediately before the write
		  - error: NOT_FOUND or DUPLICATE_SLUG
	*/
	Update(context context.Context, next *Gallery, fields []string) (*Gallery, error)

	// Delete removes one gallery, returning nil if it was already gone.
	Delete(context context.Context, id primitive.ObjectID) (*Gallery, error)

	// Populate resolves idol and genre references in place.
	Populate(context context.Context, galleries ...*Gallery) error
}

// AssetCleaner removes stored media objects without failing the caller.
type AssetCleaner interface {
	Cleanup(context context.Context, keys []string)
}
