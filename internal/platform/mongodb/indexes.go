// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/idolbase/internal/platform/constants"
)

// indexTimeout bounds the whole index bootstrap.
const indexTimeout = 60 * time.Second

// indexSpec describes one index to ensure on a collection.
type indexSpec struct {
	name   string
	keys   bson.D
	unique bool
}

// catalogueIndexes lists the indexes each collection needs. Slug indexes are
// unique and are what turns a slug collision into DUPLICATE_SLUG.
var catalogueIndexes = map[string][]indexSpec{
	constants.CollectionIdols: {
		{name: "slug_unique", keys: bson.D{{Key: "slug", Value: 1}}, unique: true},
		{name: "genres", keys: bson.D{{Key: "genres", Value: 1}}},
		{name: "status_created", keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{name: "featured", keys: bson.D{{Key: "isFeatured", Value: 1}}},
	},
	constants.CollectionGenres: {
		{name: "slug_unique", keys: bson.D{{Key: "slug", Value: 1}}, unique: true},
		{name: "parent", keys: bson.D{{Key: "parentGenre", Value: 1}}},
	},
	constants.CollectionGalleries: {
		{name: "slug_unique", keys: bson.D{{Key: "slug", Value: 1}}, unique: true},
		{name: "idol", keys: bson.D{{Key: "idol", Value: 1}}},
		{name: "genre", keys: bson.D{{Key: "genre", Value: 1}}},
		{name: "public_created", keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	constants.CollectionPhotos: {
		{name: "slug_unique", keys: bson.D{{Key: "slug", Value: 1}}, unique: true},
		{name: "idol", keys: bson.D{{Key: "idol", Value: 1}}},
		{name: "gallery", keys: bson.D{{Key: "gallery", Value: 1}}},
		{name: "public_created", keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	constants.CollectionVideos: {
		{name: "slug_unique", keys: bson.D{{Key: "slug", Value: 1}}, unique: true},
		{name: "idol", keys: bson.D{{Key: "idol", Value: 1}}},
		{name: "genres", keys: bson.D{{Key: "genres", Value: 1}}},
		{name: "public_created", keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "createdAt", Value: -1}}},
		{name: "trending", keys: bson.D{{Key: "isTrending", Value: 1}}},
	},
}

// EnsureIndexes creates every catalogue index. Existing indexes with the same
// definition are left alone; the call is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	indexCtx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	var errs []error
	for collection, specs := range catalogueIndexes {
		models := make([]mongo.IndexModel, 0, len(specs))
		for _, spec := range specs {
			indexOptions := options.Index().SetName(spec.name)
			if spec.unique {
				indexOptions.SetUnique(true)
			}
			models = append(models, mongo.IndexModel{Keys: spec.keys, Options: indexOptions})
		}

		if _, err := db.Collection(collection).Indexes().CreateMany(indexCtx, models); err != nil {
			errs = append(errs, fmt.Errorf("mongodb: indexes on %s: %w", collection, err))
			continue
		}

		logger.Debug("mongodb_indexes_ensured",
			slog.String("collection", collection),
			slog.Int("count", len(models)),
		)
	}

	return errors.Join(errs...)
}
