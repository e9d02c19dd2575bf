// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package idol

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on the idols collection.
type MongoRepository struct {
	idols  *mongodb.Collection[Idol]
	genres *mongo.Collection
}

// NewMongoRepository binds the idol repository to db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		idols:  mongodb.NewCollection[Idol](db, constants.CollectionIdols, "Idol"),
		genres: db.Collection(constants.CollectionGenres),
	}
}

func (repository *MongoRepository) List(context context.Context, filter Filter) ([]Idol, int64, error) {
	document := bson.M{}
	if filter.Genre != nil {
		document[FieldGenres] = *filter.Genre
	}
	if filter.Status != "" {
		document[FieldStatus] = filter.Status
	}
	if filter.Nationality != "" {
		document[FieldNationality] = filter.Nationality
	}
	if filter.Agency != "" {
		document[FieldAgency] = filter.Agency
	}
	if len(filter.Tags) > 0 {
		document[FieldTags] = bson.M{"$in": filter.Tags}
	}
	if filter.IsFeatured != nil {
		document[FieldIsFeatured] = *filter.IsFeatured
	}

	return repository.idols.List(context, mongodb.ListQuery{
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
	return repository.idols.Stats(context, mongodb.StatsSpec{Featured: true})
}

func (repository *MongoRepository) FindByIdentifier(context context.Context, identifier string) (*Idol, error) {
	return repository.idols.FindByIdentifier(context, identifier)
}

func (repository *MongoRepository) FindByID(context context.Context, id primitive.ObjectID) (*Idol, error) {
	return repository.idols.FindByID(context, id)
}

func (repository *MongoRepository) FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Idol, error) {
	return repository.idols.FindByIDs(context, ids)
}

func (repository *MongoRepository) Create(context context.Context, idol *Idol) error {
	if idol.GenreIDs == nil {
		idol.GenreIDs = []primitive.ObjectID{}
	}
	if idol.Tags == nil {
		idol.Tags = []string{}
	}
	idol.CreatedAt = time.Now().UTC()
	idol.UpdatedAt = idol.CreatedAt
	id, err := repository.idols.Insert(context, idol)
	if err != nil {
		return err
	}
	idol.ID = id
	return nil
}

func (repository *MongoRepository) Update(context context.Context, next *Idol, fields []string) (*Idol, error) {
	update, err := mongodb.PatchOf(next, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return repository.idols.UpdateReturningPrevious(context, next.ID, update)
}

func (repository *MongoRepository) Delete(context context.Context, id primitive.ObjectID) (*Idol, error) {
	return repository.idols.DeleteReturning(context, id)
}

func (repository *MongoRepository) Populate(context context.Context, idols ...*Idol) error {
	var genreIDs []primitive.ObjectID
	for _, idol := range idols {
		genreIDs = append(genreIDs, idol.GenreIDs...)
	}

	genres, err := mongodb.LoadRefs(context, repository.genres, "name", genreIDs)
	if err != nil {
		return err
	}
	for _, idol := range idols {
		idol.Genres = genres.GetMany(idol.GenreIDs)
	}
	return nil
}

var _ Repository = (*MongoRepository)(nil)
