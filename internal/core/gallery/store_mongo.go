// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on the galleries collection.
type MongoRepository struct {
	galleries *mongodb.Collection[Gallery]
	idols     *mongo.Collection
	genres    *mongo.Collection
}

// NewMongoRepository binds the gallery repository to db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		galleries: mongodb.NewCollection[Gallery](db, constants.CollectionGalleries, "Gallery"),
		idols:     db.Collection(constants.CollectionIdols),
		genres:    db.Collection(constants.CollectionGenres),
	}
}

func (repository *MongoRepository) List(context context.Context, filter Filter) ([]Gallery, int64, error) {
	document := bson.M{}
	if !filter.IncludePrivate {
		document[FieldIsPublic] = true
	}
	if filter.Idol != nil {
		document[FieldIdol] = *filter.Idol
	}
	if filter.Genre != nil {
		document[FieldGenre] = *filter.Genre
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
	if filter.IsAdult != nil {
		document[FieldIsAdult] = *filter.IsAdult
	}

	return repository.galleries.List(context, mongodb.ListQuery{
		Filter:       document,
		Search:       filter.Search,
		SearchFields: SearchFields,
		SortBy:       filter.SortBy,
		SortOrder:    filter.SortOrder,
		AllowedSorts: SortableFields,
		Skip:         filter.Skip,
		Limit:        filter.Limit,
	})
}

func (repository *MongoRepository) Stats(context context.Context) (*mongodb.Stats, error) {
	return repository.galleries.Stats(context, mongodb.StatsSpec{Visibility: true, Featured: true})
}

func (repository *MongoRepository) FindByIdentifier(context context.Context, identifier string) (*Gallery, error) {
	return repository.galleries.FindByIdentifier(context, identifier)
}

func (repository *MongoRepository) FindByID(context context.Context, id primitive.ObjectID) (*Gallery, error) {
	return repository.galleries.FindByID(context, id)
}

func (repository *MongoRepository) FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Gallery, error) {
	return repository.galleries.FindByIDs(context, ids)
}

func (repository *MongoRepository) Create(context context.Context, gallery *Gallery) error {
	if gallery.Tags == nil {
		gallery.Tags = []string{}
	}
	gallery.CreatedAt = time.Now().UTC()
	gallery.UpdatedAt = gallery.CreatedAt
	id, err := repository.galleries.Insert(context, gallery)
	if err != nil {
		return err
	}
	gallery.ID = id
	return nil
}

func (repository *MongoRepository) Update(context context.Context, next *Gallery, fields []string) (*Gallery, error) {
	update, err := mongodb.PatchOf(next, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return repository.galleries.UpdateReturningPrevious(context, next.ID, update)
}

func (repository *MongoRepository) Delete(context context.Context, id primitive.ObjectID) (*Gallery, error) {
	return repository.galleries.DeleteReturning(context, id)
}

func (repository *MongoRepository) Populate(context context.Context, galleries ...*Gallery) error {
	var idolIDs, genreIDs []primitive.ObjectID
	for _, gallery := range galleries {
		idolIDs = append(idolIDs, mongodb.Present(gallery.IdolID)...)
		genreIDs = append(genreIDs, mongodb.Present(gallery.GenreID)...)
	}

	idols, err := mongodb.LoadRefs(context, repository.idols, "name", idolIDs)
	if err != nil {
		return err
	}
	genres, err := mongodb.LoadRefs(context, repository.genres, "name", genreIDs)
	if err != nil {
		return err
	}

	for _, gallery := range galleries {
		gallery.Idol = idols.GetOptional(gallery.IdolID)
		gallery.Genre = genres.GetOptional(gallery.GenreID)
	}
	return nil
}

var _ Repository = (*MongoRepository)(nil)
