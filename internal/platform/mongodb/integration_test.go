// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/constants"
)

// startMongo boots a throwaway server. It skips when -short is set or Docker
// is unavailable.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("mongo container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, db, err := Connect(ctx, uri, "idolbase_test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return db
}

type counted struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Slug       string             `bson:"slug"`
	PhotoCount int64              `bson:"photoCount"`
}

func TestIntegration_Mongo(t *testing.T) {
	db := startMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, EnsureIndexes(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil))))

	idols := NewCollection[counted](db, constants.CollectionIdols, "Idol")

	t.Run("Counters clamp at zero", func(t *testing.T) {
		id, err := idols.Insert(ctx, &counted{Slug: "clamp", PhotoCount: 1})
		require.NoError(t, err)

		require.NoError(t, AdjustCounters(ctx, idols.Raw(), id, map[string]int64{"photoCount": -3}))
		stored, err := idols.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, stored.PhotoCount)

		require.NoError(t, AdjustCounters(ctx, idols.Raw(), id, map[string]int64{"photoCount": 2}))
		stored, err = idols.FindByIdentifier(ctx, "clamp")
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.PhotoCount)
	})

	t.Run("Counters on a missing document", func(t *testing.T) {
		err := AdjustCounters(ctx, idols.Raw(), primitive.NewObjectID(), map[string]int64{"photoCount": 1})
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("Duplicate slug", func(t *testing.T) {
		_, err := idols.Insert(ctx, &counted{Slug: "twice"})
		require.NoError(t, err)

		_, err = idols.Insert(ctx, &counted{Slug: "twice"})
		assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateSlug), "got %v", err)
	})

	t.Run("Delete reports only the first removal", func(t *testing.T) {
		id, err := idols.Insert(ctx, &counted{Slug: "gone"})
		require.NoError(t, err)

		removed, err := idols.DeleteReturning(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, "gone", removed.Slug)

		removed, err = idols.DeleteReturning(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, removed)

		_, err = idols.FindByID(ctx, id)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("Recount repairs drift", func(t *testing.T) {
		drifted, err := idols.Insert(ctx, &counted{Slug: "drifted", PhotoCount: 9})
		require.NoError(t, err)
		empty, err := idols.Insert(ctx, &counted{Slug: "empty", PhotoCount: 4})
		require.NoError(t, err)

		photos := db.Collection(constants.CollectionPhotos)
		_, err = photos.InsertMany(ctx, []any{
			bson.M{"slug": "p1", "idol": drifted},
			bson.M{"slug": "p2", "idol": drifted},
			bson.M{"slug": "p3"},
		})
		require.NoError(t, err)

		counts, err := CountByReference(ctx, photos, "idol", false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[drifted])

		_, repaired, err := SyncCounter(ctx, idols.Raw(), "photoCount", counts)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, repaired, int64(2))

		stored, err := idols.FindByID(ctx, drifted)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.PhotoCount)

		stored, err = idols.FindByID(ctx, empty)
		require.NoError(t, err)
		assert.Zero(t, stored.PhotoCount)
	})

	t.Run("Array references count once per child", func(t *testing.T) {
		genre := primitive.NewObjectID()
		videos := db.Collection(constants.CollectionVideos)
		_, err := videos.InsertMany(ctx, []any{
			bson.M{"slug": "v1", "genres": bson.A{genre, genre}},
			bson.M{"slug": "v2", "genres": bson.A{genre}},
			bson.M{"slug": "v3", "genres": bson.A{}},
		})
		require.NoError(t, err)

		counts, err := CountByReference(ctx, videos, "genres", true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[genre])
	})
}
