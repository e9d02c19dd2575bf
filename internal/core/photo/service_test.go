// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/core/integrity/integritytest"
	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/pkg/pointer"
)

type memoryRepo struct {
	photos map[primitive.ObjectID]Photo
	order  []primitive.ObjectID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{photos: map[primitive.ObjectID]Photo{}}
}

func (repo *memoryRepo) List(_ context.Context, filter Filter) ([]Photo, int64, error) {
	out := []Photo{}
	for _, id := range repo.order {
		photo, ok := repo.photos[id]
		if ok && (filter.IncludePrivate || photo.IsPublic) {
			out = append(out, photo)
		}
	}
	return out, int64(len(out)), nil
}

func (repo *memoryRepo) Stats(context.Context) (*mongodb.Stats, error) {
	return &mongodb.Stats{Total: int64(len(repo.photos))}, nil
}

func (repo *memoryRepo) FindByIdentifier(ctx context.Context, identifier string) (*Photo, error) {
	if id, err := primitive.ObjectIDFromHex(identifier); err == nil {
		return repo.FindByID(ctx, id)
	}
	for _, photo := range repo.photos {
		if photo.Slug == identifier {
			return &photo, nil
		}
	}
	return nil, apperr.NotFound("Photo")
}

func (repo *memoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*Photo, error) {
	photo, ok := repo.photos[id]
	if !ok {
		return nil, apperr.NotFound("Photo")
	}
	return &photo, nil
}

func (repo *memoryRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]Photo, error) {
	var out []Photo
	for _, id := range ids {
		if photo, ok := repo.photos[id]; ok {
			out = append(out, photo)
		}
	}
	return out, nil
}

func (repo *memoryRepo) Create(_ context.Context, photo *Photo) error {
	photo.ID = primitive.NewObjectID()
	repo.photos[photo.ID] = *photo
	repo.order = append(repo.order, photo.ID)
	return nil
}

func (repo *memoryRepo) Update(_ context.Context, next *Photo, _ []string) (*Photo, error) {
	previous, ok := repo.photos[next.ID]
	if !ok {
		return nil, apperr.NotFound("Photo")
	}
	repo.photos[next.ID] = *next
	return &previous, nil
}

func (repo *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) (*Photo, error) {
	photo, ok := repo.photos[id]
	if !ok {
		return nil, nil
	}
	delete(repo.photos, id)
	return &photo, nil
}

func (repo *memoryRepo) Populate(_ context.Context, photos ...*Photo) error {
	refs := mongodb.RefSet{}
	for _, photo := range photos {
		photo.Gallery = refs.GetOptional(photo.GalleryID)
		photo.Idol = refs.GetOptional(photo.IdolID)
	}
	return nil
}

type nopCleaner struct{ keys []string }

func (cleaner *nopCleaner) Cleanup(_ context.Context, keys []string) {
	cleaner.keys = append(cleaner.keys, keys...)
}

func newTestService() (*Service, *integritytest.Store, *nopCleaner) {
	store := integritytest.NewStore()
	cleaner := &nopCleaner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(newMemoryRepo(), integrity.NewMaintainer(store, logger), cleaner, logger), store, cleaner
}

func photoInput(title string) Input {
	return Input{
		Title:    pointer.To(title),
		ImageURL: pointer.To("https://cdn.example.com/p/" + title + ".jpg"),
		ImageKey: pointer.To("photos/" + title + ".jpg"),
	}
}

func TestService_MoveBetweenGalleries(t *testing.T) {
	service, store, _ := newTestService()
	ctx := context.Background()

	galleryA, galleryB, idol := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	store.Exist(constants.CollectionGalleries, galleryA, galleryB)
	store.Exist(constants.CollectionIdols, idol)

	galleryCount := func(id primitive.ObjectID) int64 {
		return store.Counter(constants.CollectionGalleries, id, integrity.GalleryPhotos.Counter)
	}
	idolCount := func() int64 {
		return store.Counter(constants.CollectionIdols, idol, integrity.IdolPhotos.Counter)
	}

	input := photoInput("stage")
	input.Gallery = pointer.To(galleryA.Hex())
	input.Idol = pointer.To(idol.Hex())
	created, err := service.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), galleryCount(galleryA))
	assert.Equal(t, int64(1), idolCount())

	_, err = service.Update(ctx, created.ID, Input{Gallery: pointer.To(galleryB.Hex())})
	require.NoError(t, err)
	assert.Equal(t, int64(0), galleryCount(galleryA))
	assert.Equal(t, int64(1), galleryCount(galleryB))
	assert.Equal(t, int64(1), idolCount(), "idol untouched by a gallery move")

	// An empty string clears the reference.
	updated, err := service.Update(ctx, created.ID, Input{Idol: pointer.To("")})
	require.NoError(t, err)
	assert.Nil(t, updated.IdolID)
	assert.Nil(t, updated.Idol)
	assert.Equal(t, int64(0), idolCount())

	deleted, err := service.Delete(ctx, []primitive.ObjectID{created.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, int64(0), galleryCount(galleryB))
}

func TestService_Create_UnknownGallery(t *testing.T) {
	service, store, _ := newTestService()

	input := photoInput("lost")
	input.Gallery = pointer.To(primitive.NewObjectID().Hex())
	_, err := service.Create(context.Background(), input)

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, FieldGallery, appErr.Details[0].Field)
	assert.Empty(t, store.Adjustments())
}

func TestService_Delete_NothingFound(t *testing.T) {
	service, store, cleaner := newTestService()

	deleted, err := service.Delete(context.Background(), []primitive.ObjectID{primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, cleaner.keys)
	assert.Empty(t, store.Adjustments())
}
