// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/idolbase/internal/platform/dberr"
)

// # List Queries

// DefaultSortField is used when a request omits sortBy or names a field
// outside the entity's whitelist.
const DefaultSortField = "createdAt"

// ListQuery describes one page of a filtered, sorted collection scan.
type ListQuery struct {
	// Filter holds equality and visibility conditions built by the domain store.
	Filter bson.M

	// Search is a case-insensitive substring matched against SearchFields.
	Search       string
	SearchFields []string

	// SortBy must appear in AllowedSorts; SortOrder is "asc" or "desc".
	SortBy       string
	SortOrder    string
	AllowedSorts []string

	Skip  int64
	Limit int64
}

// filter merges the equality filter with the search clause.
func (query ListQuery) filter() bson.M {
	filter := bson.M{}
	for key, value := range query.Filter {
		filter[key] = value
	}
	if clause := SearchClause(query.Search, query.SearchFields); clause != nil {
		filter["$or"] = clause
	}
	return filter
}

// sort resolves the requested field and direction against the whitelist.
// _id is appended as a tie-breaker so pages stay stable.
func (query ListQuery) sort() bson.D {
	field := DefaultSortField
	if query.SortBy != "" && slices.Contains(query.AllowedSorts, query.SortBy) {
		field = query.SortBy
	}

	direction := -1
	if strings.EqualFold(query.SortOrder, "asc") {
		direction = 1
	}

	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}
}

// List returns one page of documents and the total number of matches.
func (c *Collection[T]) List(ctx context.Context, query ListQuery) ([]T, int64, error) {
	filter := query.filter()

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, dberr.Wrap(err, c.resource)
	}

	findOptions := options.Find().
		SetSort(query.sort()).
		SetSkip(query.Skip).
		SetLimit(query.Limit)

	docs, err := c.FindMany(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// SearchClause builds an $or of case-insensitive regex matches. The term is
// escaped, so user input is always matched literally.
func SearchClause(term string, fields []string) bson.A {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return nil
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	clause := make(bson.A, 0, len(fields))
	for _, field := range fields {
		clause = append(clause, bson.M{field: pattern})
	}
	return clause
}

// # Admin Stats

// StatsSpec selects which breakdowns apply to an entity.
type StatsSpec struct {
	Visibility bool
	Featured   bool
	Trending   bool
}

// Stats is the admin-only aggregate block returned next to list pages.
type Stats struct {
	Total    int64 `json:"total"`
	Public   int64 `json:"public"`
	Private  int64 `json:"private"`
	Featured int64 `json:"featured"`
	Trending int64 `json:"trending"`
}

// Stats counts the whole collection in a single $facet round trip.
func (c *Collection[T]) Stats(ctx context.Context, spec StatsSpec) (*Stats, error) {
	countStage := bson.A{bson.M{"$count": "n"}}
	facets := bson.M{"total": countStage}

	if spec.Visibility {
		facets["public"] = bson.A{bson.M{"$match": bson.M{"isPublic": true}}, bson.M{"$count": "n"}}
	}
	if spec.Featured {
		facets["featured"] = bson.A{bson.M{"$match": bson.M{"isFeatured": true}}, bson.M{"$count": "n"}}
	}
	if spec.Trending {
		facets["trending"] = bson.A{bson.M{"$match": bson.M{"isTrending": true}}, bson.M{"$count": "n"}}
	}

	cursor, err := c.coll.Aggregate(ctx, bson.A{bson.M{"$facet": facets}})
	if err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}

	var rows []map[string][]struct {
		N int64 `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, dberr.Wrap(err, c.resource)
	}

	stats := &Stats{}
	if len(rows) == 0 {
		return stats, nil
	}

	facetCount := func(name string) int64 {
		if values := rows[0][name]; len(values) > 0 {
			return values[0].N
		}
		return 0
	}

	stats.Total = facetCount("total")
	stats.Featured = facetCount("featured")
	stats.Trending = facetCount("trending")
	if spec.Visibility {
		stats.Public = facetCount("public")
		stats.Private = stats.Total - stats.Public
	} else {
		stats.Public = stats.Total
	}

	return stats, nil
}
