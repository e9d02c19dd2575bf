// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/dberr"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// MongoRepository implements [Repository] on the genres collection.
type MongoRepository struct {
	genres *mongodb.Collection[Genre]
}

// NewMongoRepository binds the genre repository to db.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		genres: mongodb.NewCollection[Genre](db, constants.CollectionGenres, "Genre"),
	}
}

func (repository *MongoRepository) List(context context.Context, filter Filter) ([]Genre, int64, error) {
	document := bson.M{}
	switch {
	case filter.Parent != nil:
		document[FieldParentGenre] = *filter.Parent
	case filter.RootOnly:
		document[FieldParentGenre] = bson.M{"$exists": false}
	}
	if filter.IsActive != nil {
		document[FieldIsActive] = *filter.IsActive
	}

	return repository.genres.List(context, mongodb.ListQuery{
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
	return repository.genres.Stats(context, mongodb.StatsSpec{})
}

func (repository *MongoRepository) FindByIdentifier(context context.Context, identifier string) (*Genre, error) {
	return repository.genres.FindByIdentifier(context, identifier)
}

func (repository *MongoRepository) FindByID(context context.Context, id primitive.ObjectID) (*Genre, error) {
	return repository.genres.FindByID(context, id)
}

func (repository *MongoRepository) FindByIDs(context context.Context, ids []primitive.ObjectID) ([]Genre, error) {
	return repository.genres.FindByIDs(context, ids)
}

func (repository *MongoRepository) Create(context context.Context, genre *Genre) error {
	genre.SubGenreIDs = []primitive.ObjectID{}
	genre.CreatedAt = time.Now().UTC()
	genre.UpdatedAt = genre.CreatedAt
	id, err := repository.genres.Insert(context, genre)
	if err != nil {
		return err
	}
	genre.ID = id
	return nil
}

func (repository *MongoRepository) Update(context context.Context, next *Genre, fields []string) (*Genre, error) {
	update, err := mongodb.PatchOf(next, fields, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return repository.genres.UpdateReturningPrevious(context, next.ID, update)
}

func (repository *MongoRepository) Delete(context context.Context, id primitive.ObjectID) (*Genre, error) {
	return repository.genres.DeleteReturning(context, id)
}

func (repository *MongoRepository) Populate(context context.Context, genres ...*Genre) error {
	var ids []primitive.ObjectID
	for _, genre := range genres {
		ids = append(ids, mongodb.Present(genre.ParentID)...)
		ids = append(ids, genre.SubGenreIDs...)
	}

	refs, err := mongodb.LoadRefs(context, repository.genres.Raw(), "name", ids)
	if err != nil {
		return err
	}
	for _, genre := range genres {
		genre.Parent = refs.GetOptional(genre.ParentID)
		genre.SubGenres = refs.GetMany(genre.SubGenreIDs)
	}
	return nil
}

// # Tree Edges

func (repository *MongoRepository) ParentOf(context context.Context, id primitive.ObjectID) (*primitive.ObjectID, error) {
	var row struct {
		Parent *primitive.ObjectID `bson:"parentGenre"`
	}
	err := repository.genres.Raw().FindOne(context, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{FieldParentGenre: 1}),
	).Decode(&row)
	if err != nil {
		return nil, dberr.Wrap(err, "Genre")
	}
	return row.Parent, nil
}

func (repository *MongoRepository) AddSubGenre(context context.Context, parent, child primitive.ObjectID) error {
	_, err := repository.genres.Raw().UpdateOne(context,
		bson.M{"_id": parent},
		bson.M{"$addToSet": bson.M{FieldSubGenres: child}},
	)
	return dberr.Wrap(err, "Genre")
}

func (repository *MongoRepository) RemoveSubGenre(context context.Context, parent, child primitive.ObjectID) error {
	_, err := repository.genres.Raw().UpdateOne(context,
		bson.M{"_id": parent},
		bson.M{"$pull": bson.M{FieldSubGenres: child}},
	)
	return dberr.Wrap(err, "Genre")
}

func (repository *MongoRepository) OrphanChildren(context context.Context, parents []primitive.ObjectID) (int64, error) {
	if len(parents) == 0 {
		return 0, nil
	}
	return repository.genres.UpdateMany(context,
		bson.M{FieldParentGenre: bson.M{"$in": parents}},
		bson.M{"$unset": bson.M{FieldParentGenre: ""}},
	)
}

func (repository *MongoRepository) RebuildTree(context context.Context) (int64, error) {
	cursor, err := repository.genres.Raw().Find(context, bson.M{},
		options.Find().SetProjection(bson.M{FieldParentGenre: 1, FieldSubGenres: 1}),
	)
	if err != nil {
		return 0, dberr.Wrap(err, "Genre")
	}

	var rows []struct {
		ID        primitive.ObjectID   `bson:"_id"`
		Parent    *primitive.ObjectID  `bson:"parentGenre"`
		SubGenres []primitive.ObjectID `bson:"subGenres"`
	}
	if err := cursor.All(context, &rows); err != nil {
		return 0, dberr.Wrap(err, "Genre")
	}

	exists := make(map[primitive.ObjectID]bool, len(rows))
	for _, row := range rows {
		exists[row.ID] = true
	}

	children := make(map[primitive.ObjectID][]primitive.ObjectID, len(rows))
	var models []mongo.WriteModel
	for _, row := range rows {
		if row.Parent == nil {
			continue
		}
		if !exists[*row.Parent] {
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": row.ID}).
				SetUpdate(bson.M{"$unset": bson.M{FieldParentGenre: ""}}))
			continue
		}
		children[*row.Parent] = append(children[*row.Parent], row.ID)
	}

	for _, row := range rows {
		want := children[row.ID]
		removed, added := integrity.Diff(row.SubGenres, want)
		if len(removed) == 0 && len(added) == 0 && len(row.SubGenres) == len(want) {
			continue
		}
		if want == nil {
			want = []primitive.ObjectID{}
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": row.ID}).
			SetUpdate(bson.M{"$set": bson.M{FieldSubGenres: want}}))
	}

	if len(models) == 0 {
		return 0, nil
	}
	result, err := repository.genres.Raw().BulkWrite(context, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, dberr.Wrap(err, "Genre")
	}
	return result.ModifiedCount, nil
}

var (
	_ Repository              = (*MongoRepository)(nil)
	_ integrity.TreeRebuilder = (*MongoRepository)(nil)
)
