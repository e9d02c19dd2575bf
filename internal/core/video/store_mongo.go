// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on the videos collection.
type MongoRepository struct {
	videos *mongodb.Collection[Video]
	idols  *mongo.Collection
	genres *mongo.Collection
}

// NewMongoRepository binds the video repository to db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		videos: mongodb.NewCollection[Video](db, constants.CollectionVideos, "Video"),
		idols:  db.Collection(constants.CollectionIdols),
		genres: db.Collection(constants.CollectionGenres),
	}
}

func (repository *MongoRepository) List(context context.Context, filter Filter) ([]Video, int64, error) {
	return repository.videos.List(context, mongodb.ListQuery{
		Filter:       filterDocument(filter),
		Search:       filter.Search,
		SearchFields: SearchFields,
		SortBy:       filter.SortBy,
		SortOrder:    filter.SortOrder,
		AllowedSorts: SortableFields,
		Skip:         filter.Skip,
		Limit:        filter.Limit,
	})
}

// filterDocument translates a Filter into its MongoDB query document.
func filterDocument(filter Filter) bson.M {
	document := bson.M{}
	if !filter.IncludePrivate {
		document[FieldIsPublic] = true
	}
	if filter.Idol != nil {
		document[FieldIdol] = *filter.Idol
	}
	if filter.Genre != nil {
		document[FieldGenres] = *filter.Genre
	}
	if filter.Category != "" {
		document[FieldCategory] = filter.Category
	}
	if len(filter.Tags) > 0 {
		document[FieldTags] = bson.M{"$in": filter.Tags}
	}
	if filter.IsFeatured != nil {
		document[FieldIsFeatured] = *filter.IsFeatured
	}
	if filter.IsTrending != nil {
		document[FieldIsTrending] = *filter.IsTrending
	}
	if filter.IsAdult != nil {
		document[FieldIsAdult] = *filter.IsAdult
	}
	return document
}

func (repository *MongoRepository) Stats(context context.Context) (*mongodb.Stats, error) {
	return repository.videos.Stats(context, mongodb.StatsSpec{Visibility: true, Featured: true, Trending: true})
}

func (repository *MongoRepository) FindByIdentifier(context context.Context, identifier string) (*Video, error) {
	return repository.videos.FindByIdentifier(context, identifier)
}

func (repository *MongoRepository) FindByID(context context.Context, id primitive.ObjectID) (*Video, error) {
	return repository.videos.FindByID(context, id)
}

func (repository *MongoRepository) FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Video, error) {
	return repository.videos.FindByIDs(context, ids)
}

func (repository *MongoRepository) Create(context context.Context, video *Video) error {
	if video.GenreIDs == nil {
		video.GenreIDs = []primitive.ObjectID{}
	}
	if video.Tags == nil {
		video.Tags = []string{}
	}

	video.CreatedAt = time.Now().UTC()
	video.UpdatedAt = video.CreatedAt
	id, err := repository.videos.Insert(context, video)
	if err != nil {
		return err
	}
	video.ID = id
	return nil
}

func (repository *MongoRepository) Update(context context.Context, next *Video, fields []string) (*Video, error) {
	update, err := mongodb.PatchOf(next, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return repository.videos.UpdateReturningPrevious(context, next.ID, update)
}

func (repository *MongoRepository) Delete(context context.Context, id primitive.ObjectID) (*Video, error) {
	return repository.videos.DeleteReturning(context, id)
}

func (repository *MongoRepository) Populate(context context.Context, videos ...*Video) error {
	idolIDs := make([]primitive.ObjectID, 0, len(videos))
	genreIDs := make([]primitive.ObjectID, 0, len(videos))
	for _, video := range videos {
		idolIDs = append(idolIDs, video.IdolID)
		genreIDs = append(genreIDs, video.GenreIDs...)
	}

	idols, err := mongodb.LoadRefs(context, repository.idols, "name", idolIDs)
	if err != nil {
		return err
	}
	genres, err := mongodb.LoadRefs(context, repository.genres, "name", genreIDs)
	if err != nil {
		return err
	}

	for _, video := range videos {
		video.Idol = idols.Get(video.IdolID)
		video.Genres = genres.GetMany(video.GenreIDs)
	}
	return nil
}

var _ Repository = (*MongoRepository)(nil)
