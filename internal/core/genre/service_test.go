// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"io"
	"log/slog"
	"slices"
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

// memoryRepo keeps genres in a map and mirrors the Mongo edge operations.
type memoryRepo struct {
	genres map[primitive.ObjectID]Genre
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{genres: map[primitive.ObjectID]Genre{}}
}

func (repo *memoryRepo) List(context.Context, Filter) ([]Genre, int64, error) {
	out := []Genre{}
	for _, genre := range repo.genres {
		out = append(out, genre)
	}
	return out, int64(len(out)), nil
}

func (repo *memoryRepo) Stats(context.Context) (*mongodb.Stats, error) {
	return &mongodb.Stats{Total: int64(len(repo.genres))}, nil
}

func (repo *memoryRepo) FindByIdentifier(ctx context.Context, identifier string) (*Genre, error) {
	if id, err := primitive.ObjectIDFromHex(identifier); err == nil {
		return repo.FindByID(ctx, id)
	}
	for _, genre := range repo.genres {
		if genre.Slug == identifier {
			return &genre, nil
		}
	}
	return nil, apperr.NotFound("Genre")
}

func (repo *memoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*Genre, error) {
	genre, ok := repo.genres[id]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	genre.SubGenreIDs = slices.Clone(genre.SubGenreIDs)
	return &genre, nil
}

func (repo *memoryRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]Genre, error) {
	var out []Genre
	for _, id := range ids {
		if genre, ok := repo.genres[id]; ok {
			out = append(out, genre)
		}
	}
	return out, nil
}

func (repo *memoryRepo) Create(_ context.Context, genre *Genre) error {
	for _, existing := range repo.genres {
		if existing.Slug == genre.Slug {
			return apperr.DuplicateSlug("Genre")
		}
	}
	genre.ID = primitive.NewObjectID()
	genre.SubGenreIDs = []primitive.ObjectID{}
	repo.genres[genre.ID] = *genre
	return nil
}

func (repo *memoryRepo) Update(_ context.Context, next *Genre, _ []string) (*Genre, error) {
	previous, ok := repo.genres[next.ID]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	// subGenres is never part of a patch.
	next.SubGenreIDs = previous.SubGenreIDs
	repo.genres[next.ID] = *next
	return &previous, nil
}

func (repo *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) (*Genre, error) {
	genre, ok := repo.genres[id]
	if !ok {
		return nil, nil
	}
	delete(repo.genres, id)
	return &genre, nil
}

func (repo *memoryRepo) Populate(_ context.Context, genres ...*Genre) error {
	refs := mongodb.RefSet{}
	for id, genre := range repo.genres {
		refs[id] = mongodb.Ref{ID: id, Name: genre.Name, Slug: genre.Slug}
	}
	for _, genre := range genres {
		genre.Parent = refs.GetOptional(genre.ParentID)
		genre.SubGenres = refs.GetMany(genre.SubGenreIDs)
	}
	return nil
}

func (repo *memoryRepo) ParentOf(_ context.Context, id primitive.ObjectID) (*primitive.ObjectID, error) {
	genre, ok := repo.genres[id]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	return genre.ParentID, nil
}

func (repo *memoryRepo) AddSubGenre(_ context.Context, parent, child primitive.ObjectID) error {
	genre, ok := repo.genres[parent]
	if !ok || slices.Contains(genre.SubGenreIDs, child) {
		return nil
	}
	genre.SubGenreIDs = append(slices.Clone(genre.SubGenreIDs), child)
	repo.genres[parent] = genre
	return nil
}

func (repo *memoryRepo) RemoveSubGenre(_ context.Context, parent, child primitive.ObjectID) error {
	genre, ok := repo.genres[parent]
	if !ok {
		return nil
	}
	genre.SubGenreIDs = slices.DeleteFunc(slices.Clone(genre.SubGenreIDs), func(id primitive.ObjectID) bool { return id == child })
	repo.genres[parent] = genre
	return nil
}

func (repo *memoryRepo) OrphanChildren(_ context.Context, parents []primitive.ObjectID) (int64, error) {
	var orphaned int64
	for id, genre := range repo.genres {
		if genre.ParentID != nil && slices.Contains(parents, *genre.ParentID) {
			genre.ParentID = nil
			repo.genres[id] = genre
			orphaned++
		}
	}
	return orphaned, nil
}

func (repo *memoryRepo) RebuildTree(context.Context) (int64, error) { return 0, nil }

type fixture struct {
	service *Service
	repo    *memoryRepo
	store   *integritytest.Store
}

func newFixture() *fixture {
	repo := newMemoryRepo()
	store := integritytest.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		service: NewService(repo, integrity.NewMaintainer(store, logger), logger),
		repo:    repo,
		store:   store,
	}
}

// create inserts a genre and registers it so parent checks accept it.
func (f *fixture) create(t *testing.T, name string, parent *primitive.ObjectID) *Genre {
	t.Helper()
	input := Input{Name: pointer.To(name)}
	if parent != nil {
		input.ParentGenre = pointer.To(parent.Hex())
	}
	genre, err := f.service.Create(context.Background(), input)
	require.NoError(t, err)
	f.store.Exist(constants.CollectionGenres, genre.ID)
	return genre
}

func (f *fixture) subGenres(id primitive.ObjectID) []primitive.ObjectID {
	return f.repo.genres[id].SubGenreIDs
}

func TestService_Create_LinksParent(t *testing.T) {
	f := newFixture()

	root := f.create(t, "J-Pop", nil)
	child := f.create(t, "City Pop", &root.ID)

	assert.Equal(t, "city-pop", child.Slug)
	assert.True(t, child.IsActive)
	require.NotNil(t, child.Parent)
	assert.Equal(t, "J-Pop", child.Parent.Name)
	assert.Equal(t, []primitive.ObjectID{child.ID}, f.subGenres(root.ID))
}

func TestService_Create_UnknownParent(t *testing.T) {
	f := newFixture()

	missing := primitive.NewObjectID()
	_, err := f.service.Create(context.Background(), Input{
		Name:        pointer.To("Orphan"),
		ParentGenre: pointer.To(missing.Hex()),
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, FieldParentGenre, appErr.Details[0].Field)
	assert.Empty(t, f.repo.genres)
}

func TestService_Update_RejectsCycles(t *testing.T) {
	f := newFixture()

	a := f.create(t, "Rock", nil)
	b := f.create(t, "Visual Kei", &a.ID)
	c := f.create(t, "Oshare Kei", &b.ID)

	tests := []struct {
		name   string
		target primitive.ObjectID
		parent primitive.ObjectID
	}{
		{"self", a.ID, a.ID},
		{"direct child", a.ID, b.ID},
		{"grandchild", a.ID, c.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Update(context.Background(), tt.target, Input{ParentGenre: pointer.To(tt.parent.Hex())})
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidParent), "got %v", err)
		})
	}

	assert.Nil(t, f.repo.genres[a.ID].ParentID, "rejected updates leave the tree untouched")
	assert.Equal(t, []primitive.ObjectID{b.ID}, f.subGenres(a.ID))
}

func TestService_Update_Reparent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	left := f.create(t, "Idol Pop", nil)
	right := f.create(t, "Electronic", nil)
	child := f.create(t, "Future Bass", &left.ID)

	moved, err := f.service.Update(ctx, child.ID, Input{ParentGenre: pointer.To(right.ID.Hex())})
	require.NoError(t, err)
	require.NotNil(t, moved.Parent)
	assert.Equal(t, right.ID, moved.Parent.ID)
	assert.Empty(t, f.subGenres(left.ID))
	assert.Equal(t, []primitive.ObjectID{child.ID}, f.subGenres(right.ID))

	// An empty parent makes the genre a root.
	rooted, err := f.service.Update(ctx, child.ID, Input{ParentGenre: pointer.To("")})
	require.NoError(t, err)
	assert.Nil(t, rooted.ParentID)
	assert.Empty(t, f.subGenres(right.ID))

	// Renaming keeps edges and regenerates the slug.
	renamed, err := f.service.Update(ctx, right.ID, Input{Name: pointer.To("EDM")})
	require.NoError(t, err)
	assert.Equal(t, "edm", renamed.Slug)
}

func TestService_Delete_OrphansChildrenAndDetaches(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	root := f.create(t, "Anime", nil)
	middle := f.create(t, "Anisong", &root.ID)
	leaf := f.create(t, "Vocaloid", &middle.ID)

	deleted, err := f.service.Delete(ctx, []primitive.ObjectID{middle.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.Empty(t, f.subGenres(root.ID), "deleted genre pulled from its parent")
	assert.Nil(t, f.repo.genres[leaf.ID].ParentID, "children become roots")
	assert.ElementsMatch(t, []string{"genre_videos", "genre_galleries", "genre_idols"}, f.store.Detached)

	again, err := f.service.Delete(ctx, []primitive.ObjectID{middle.ID})
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		field string
	}{
		{"missing name", Input{}, FieldName},
		{"bad color", Input{Name: pointer.To("Jazz"), Color: pointer.To("blue")}, FieldColor},
		{"bad parent id", Input{Name: pointer.To("Jazz"), ParentGenre: pointer.To("nope")}, FieldParentGenre},
		{"symbol-only name", Input{Name: pointer.To("!!!")}, FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFixture().service.Create(context.Background(), tt.input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}
