// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on the photos collection.
type MongoRepository struct {
	photos    *mongodb.Collection[Photo]
	galleries *mongo.Collection
	idols     *mongo.Collection
}

// NewMongoRepository binds the photo repository to db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		photos:    mongodb.NewCollection[Photo](db, constants.CollectionPhotos, "Photo"),
		galleries: db.Collection(constants.CollectionGalleries),
		idols:     db.Collection(constants.CollectionIdols),
	}
}

func (repository *MongoRepository) List(context context.Context, filter Filter) ([]Photo, int64, error) {
	document := bson.M{}
	if !filter.IncludePrivate {
		document[FieldIsPublic] = true
	}
	if filter.Idol != nil {
		document[FieldIdol] = *filter.Idol
	}
	if filter.Gallery != nil {
		document[FieldGallery] = *filter.Gallery
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

	return repository.photos.List(context, mongodb.ListQuery{
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
	return repository.photos.Stats(context, mongodb.StatsSpec{Visibility: true, Featured: true})
}

func (repository *MongoRepository) FindByIdentifier(context context.Context, identifier string) (*Photo, error) {
	return repository.photos.FindByIdentifier(context, identifier)
}

func (repository *MongoRepository) FindByID(context context.Context, id primitive.ObjectID) (*Photo, error) {
	return repository.photos.FindByID(context, id)
}

func (repository *MongoRepository) FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Photo, error) {
	return repository.photos.FindByIDs(context, ids)
}

func (repository *MongoRepository) Create(context context.Context, photo *Photo) error {
	if photo.Tags == nil {
		photo.Tags = []string{}
	}
	photo.CreatedAt = time.Now().UTC()
	photo.UpdatedAt = photo.CreatedAt
	id, err := repository.photos.Insert(context, photo)
	if err != nil {
		return err
	}
	photo.ID = id
	return nil
}

func (repository *MongoRepository) Update(context context.Context, next *Photo, fields []string) (*Photo, error) {
	update, err := mongodb.PatchOf(next, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return repository.photos.UpdateReturningPrevious(context, next.ID, update)
}

func (repository *MongoRepository) Delete(context context.Context, id primitive.ObjectID) (*Photo, error) {
	return repository.photos.DeleteReturning(context, id)
}

func (repository *MongoRepository) Populate(context context.Context, photos ...*Photo) error {
	var galleryIDs, idolIDs []primitive.ObjectID
	for _, photo := range photos {
		galleryIDs = append(galleryIDs, mongodb.Present(photo.GalleryID)...)
		idolIDs = append(idolIDs, mongodb.Present(photo.IdolID)...)
	}

	galleries, err := mongodb.LoadRefs(context, repository.galleries, "title", galleryIDs)
	if err != nil {
		return err
	}
	idols, err := mongodb.LoadRefs(context, repository.idols, "name", idolIDs)
	if err != nil {
		return err
	}

	for _, photo := range photos {
		photo.Gallery = galleries.GetOptional(photo.GalleryID)
		photo.Idol = idols.GetOptional(photo.IdolID)
	}
	return nil
}

var _ Repository = (*MongoRepository)(nil)
