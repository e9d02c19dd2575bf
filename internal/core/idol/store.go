// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package idol

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Idol Data Access

// Repository defines the data access contract for the idol domain.
type Repository interface {
	List(context context.Context, filter Filter) ([]Idol, int64, error)

	// Stats aggregates the admin statistics; idols report total and featured.
	Stats(context context.Context) (*mongodb.Stats, error)

	FindByIdentifier(context context.Context, identifier string) (*Idol, error)
	FindByID(context context.Context, id primitive.ObjectID) (*Idol, error)
	FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Idol, error)

	// Create persists a new idol with zeroed counters and assigns its ID.
	Create(context context.Context, idol *Idol) error

	/*
		Update writes the listed fields of next.

		Returns:
		  - *Idol: The document immediately before the write
		  - error: NOT_FOUND or DUPLICATE_SLUG
	*/
	Update(context context.Context, next *Idol, fields []string) (*Idol, error)

	// Delete removes one idol, returning nil if it was already gone.
	Delete(context context.Context, id primitive.ObjectID) (*Idol, error)

	// Populate resolves genre references in place.
	Populate(context context.Context, idols ...*Idol) error
}

// AssetCleaner removes stored media objects without failing the caller.
type AssetCleaner interface {
	Cleanup(context context.Context, keys []string)
}
