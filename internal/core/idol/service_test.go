// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package idol

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
	idols map[primitive.ObjectID]Idol
}

func (repo *memoryRepo) List(context.Context, Filter) ([]Idol, int64, error) {
	out := make([]Idol, 0, len(repo.idols))
	for _, idol := range repo.idols {
		out = append(out, idol)
	}
	return out, int64(len(out)), nil
}

func (repo *memoryRepo) Stats(context.Context) (*mongodb.Stats, error) {
	return &mongodb.Stats{Total: int64(len(repo.idols))}, nil
}

func (repo *memoryRepo) FindByIdentifier(ctx context.Context, identifier string) (*Idol, error) {
	if id, err := primitive.ObjectIDFromHex(identifier); err == nil {
		return repo.FindByID(ctx, id)
	}
	for _, idol := range repo.idols {
		if idol.Slug == identifier {
			return &idol, nil
		}
	}
	return nil, apperr.NotFound("Idol")
}

func (repo *memoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*Idol, error) {
	idol, ok := repo.idols[id]
	if !ok {
		return nil, apperr.NotFound("Idol")
	}
	return &idol, nil
}

func (repo *memoryRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]Idol, error) {
	var out []Idol
	for _, id := range ids {
		if idol, ok := repo.idols[id]; ok {
			out = append(out, idol)
		}
	}
	return out, nil
}

func (repo *memoryRepo) Create(_ context.Context, idol *Idol) error {
	idol.ID = primitive.NewObjectID()
	repo.idols[idol.ID] = *idol
	return nil
}

func (repo *memoryRepo) Update(_ context.Context, next *Idol, _ []string) (*Idol, error) {
	previous, ok := repo.idols[next.ID]
	if !ok {
		return nil, apperr.NotFound("Idol")
	}
	repo.idols[next.ID] = *next
	return &previous, nil
}

func (repo *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) (*Idol, error) {
	idol, ok := repo.idols[id]
	if !ok {
		return nil, nil
	}
	delete(repo.idols, id)
	return &idol, nil
}

func (repo *memoryRepo) Populate(_ context.Context, idols ...*Idol) error {
	for _, idol := range idols {
		idol.Genres = (mongodb.RefSet{}).GetMany(idol.GenreIDs)
	}
	return nil
}

type keyRecorder struct{ keys []string }

func (recorder *keyRecorder) Cleanup(_ context.Context, keys []string) {
	recorder.keys = append(recorder.keys, keys...)
}

func newTestService() (*Service, *memoryRepo, *integritytest.Store, *keyRecorder) {
	repo := &memoryRepo{idols: map[primitive.ObjectID]Idol{}}
	store := integritytest.NewStore()
	cleaner := &keyRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, integrity.NewMaintainer(store, logger), cleaner, logger), repo, store, cleaner
}

func hexes(ids ...primitive.ObjectID) *[]string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return &out
}

func TestService_Create_Defaults(t *testing.T) {
	service, _, _, _ := newTestService()

	idol, err := service.Create(context.Background(), Input{Name: pointer.To("Lê Thị Hồng")})
	require.NoError(t, err)
	assert.Equal(t, "le-thi-hong", idol.Slug)
	assert.Equal(t, StatusActive, idol.Status)
	assert.Equal(t, int64(0), idol.VideoCount)
}

func TestService_Create_InvalidStatus(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Create(context.Background(), Input{Name: pointer.To("Mina"), Status: pointer.To("touring")})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, FieldStatus, appErr.Details[0].Field)
}

func TestService_GenreCounts(t *testing.T) {
	service, _, store, _ := newTestService()
	ctx := context.Background()

	genreA, genreB, genreC := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	store.Exist(constants.CollectionGenres, genreA, genreB, genreC)
	count := func(id primitive.ObjectID) int64 {
		return store.Counter(constants.CollectionGenres, id, integrity.GenreIdols.Counter)
	}

	idol, err := service.Create(ctx, Input{Name: pointer.To("Sora"), Genres: hexes(genreA, genreB)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, 0}, []int64{count(genreA), count(genreB), count(genreC)})

	_, err = service.Update(ctx, idol.ID, Input{Genres: hexes(genreB, genreC)})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 1}, []int64{count(genreA), count(genreB), count(genreC)})

	deleted, err := service.Delete(ctx, []primitive.ObjectID{idol.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, []int64{0, 0, 0}, []int64{count(genreA), count(genreB), count(genreC)})
}

func TestService_Delete_BlockedByVideos(t *testing.T) {
	service, repo, store, cleaner := newTestService()
	ctx := context.Background()

	idol, err := service.Create(ctx, Input{Name: pointer.To("Yuna"), ProfileImageKey: pointer.To("idols/yuna.jpg")})
	require.NoError(t, err)

	store.Referencing[integrity.IdolVideos.Name] = 2
	_, err = service.Delete(ctx, []primitive.ObjectID{idol.ID})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Contains(t, repo.idols, idol.ID)
	assert.Empty(t, cleaner.keys, "nothing is cleaned when the delete is refused")
}

func TestService_Delete_DetachesPhotosAndGalleries(t *testing.T) {
	service, _, store, cleaner := newTestService()
	ctx := context.Background()

	idol, err := service.Create(ctx, Input{Name: pointer.To("Hana"), ProfileImageKey: pointer.To("idols/hana.jpg")})
	require.NoError(t, err)

	deleted, err := service.Delete(ctx, []primitive.ObjectID{idol.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, []string{"idols/hana.jpg"}, cleaner.keys)
	assert.ElementsMatch(t, []string{integrity.IdolPhotos.Name, integrity.IdolGalleries.Name}, store.Detached)
}

func TestService_Update_RenameRegeneratesSlug(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()

	idol, err := service.Create(ctx, Input{Name: pointer.To("Aki")})
	require.NoError(t, err)

	updated, err := service.Update(ctx, idol.ID, Input{Bio: pointer.To("Singer")})
	require.NoError(t, err)
	assert.Equal(t, "aki", updated.Slug)

	updated, err = service.Update(ctx, idol.ID, Input{Name: pointer.To("Aki Mori")})
	require.NoError(t, err)
	assert.Equal(t, "aki-mori", updated.Slug)

	_, err = service.Update(ctx, idol.ID, Input{Name: pointer.To("???")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
