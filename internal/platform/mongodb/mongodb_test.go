// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCounterStage(t *testing.T) {
	stage := CounterStage(map[string]int64{
		"photoCount":   -1,
		"galleryCount": 2,
		"videoCount":   0,
	})

	require.Len(t, stage, 2, "zero deltas are dropped")
	assert.Equal(t, "galleryCount", stage[0].Key)
	assert.Equal(t, "photoCount", stage[1].Key)

	expected := bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{
		bson.M{"$ifNull": bson.A{"$photoCount", 0}},
		int64(-1),
	}}}}
	assert.Equal(t, expected, stage[1].Value)

	assert.Empty(t, CounterStage(map[string]int64{"videoCount": 0}))
	assert.Empty(t, CounterStage(nil))
}

func TestSearchClause(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		fields  []string
		pattern string
		size    int
	}{
		{name: "Plain term", term: "sakura", fields: []string{"name", "bio"}, pattern: "sakura", size: 2},
		{name: "Trimmed", term: "  sakura ", fields: []string{"name"}, pattern: "sakura", size: 1},
		{name: "Metacharacters escaped", term: "a.b*(c)", fields: []string{"title"}, pattern: `a\.b\*\(c\)`, size: 1},
		{name: "Blank term", term: "   ", fields: []string{"name"}},
		{name: "No fields", term: "sakura"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := SearchClause(tt.term, tt.fields)
			if tt.size == 0 {
				assert.Nil(t, clause)
				return
			}

			require.Len(t, clause, tt.size)
			for i, field := range tt.fields {
				condition := clause[i].(bson.M)
				assert.Equal(t, primitive.Regex{Pattern: tt.pattern, Options: "i"}, condition[field])
			}
		})
	}
}

func TestListQuery_Sort(t *testing.T) {
	allowed := []string{"createdAt", "name", "viewCount"}

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		field     string
		direction int
	}{
		{name: "Defaults", field: DefaultSortField, direction: -1},
		{name: "Allowed ascending", sortBy: "name", sortOrder: "asc", field: "name", direction: 1},
		{name: "Order is case-insensitive", sortBy: "viewCount", sortOrder: "ASC", field: "viewCount", direction: 1},
		{name: "Unknown order is descending", sortBy: "name", sortOrder: "sideways", field: "name", direction: -1},
		{name: "Field outside whitelist", sortBy: "password", sortOrder: "asc", field: DefaultSortField, direction: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := ListQuery{SortBy: tt.sortBy, SortOrder: tt.sortOrder, AllowedSorts: allowed}
			assert.Equal(t, bson.D{
				{Key: tt.field, Value: tt.direction},
				{Key: "_id", Value: tt.direction},
			}, query.sort())
		})
	}
}

func TestListQuery_Filter(t *testing.T) {
	query := ListQuery{
		Filter:       bson.M{"isPublic": true},
		Search:       "tokyo",
		SearchFields: []string{"title"},
	}

	filter := query.filter()
	assert.Equal(t, true, filter["isPublic"])
	assert.Len(t, filter["$or"], 1)
	assert.NotContains(t, query.Filter, "$or", "the caller's filter is not mutated")
}

func TestIdentifierFilter(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, bson.M{"_id": id}, IdentifierFilter(id.Hex()))
	assert.Equal(t, bson.M{"slug": "sakura-miyawaki"}, IdentifierFilter("sakura-miyawaki"))
	assert.Equal(t, bson.M{"slug": "abc"}, IdentifierFilter("abc"))
}

func TestParseIDs(t *testing.T) {
	first, second := primitive.NewObjectID(), primitive.NewObjectID()

	ids, invalid, ok := ParseIDs([]string{first.Hex(), second.Hex()})
	require.True(t, ok)
	assert.Empty(t, invalid)
	assert.Equal(t, []primitive.ObjectID{first, second}, ids)

	_, invalid, ok = ParseIDs([]string{first.Hex(), "nope"})
	assert.False(t, ok)
	assert.Equal(t, "nope", invalid)
}

func TestHexIDs(t *testing.T) {
	first, second := primitive.NewObjectID(), primitive.NewObjectID()

	ids := HexIDs([]string{first.Hex(), "bad", second.Hex(), first.Hex(), primitive.NilObjectID.Hex()})
	assert.Equal(t, []primitive.ObjectID{first, second}, ids)
}

func TestOptionalHexID(t *testing.T) {
	id := primitive.NewObjectID()

	require.NotNil(t, OptionalHexID(id.Hex()))
	assert.Equal(t, id, *OptionalHexID(id.Hex()))
	assert.Nil(t, OptionalHexID(""))
	assert.Nil(t, OptionalHexID("zzz"))
}

func TestPresent(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, []primitive.ObjectID{id}, Present(nil, &id, nil))
	assert.Empty(t, Present())
}

func TestPatchOf(t *testing.T) {
	type document struct {
		Title  string              `bson:"title"`
		Idol   *primitive.ObjectID `bson:"idol,omitempty"`
		Note   string              `bson:"note,omitempty"`
		Public bool                `bson:"isPublic"`
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	idol := primitive.NewObjectID()

	tests := []struct {
		name   string
		doc    document
		fields []string
		set    bson.M
		unset  bson.M
	}{
		{
			name:   "Sets listed fields only",
			doc:    document{Title: "Spring", Idol: &idol, Note: "ignored", Public: false},
			fields: []string{"title", "idol", "isPublic"},
			set:    bson.M{"title": "Spring", "idol": idol, "isPublic": false, "updatedAt": now},
		},
		{
			name:   "Nil reference is unset",
			doc:    document{Title: "Spring"},
			fields: []string{"idol"},
			set:    bson.M{"updatedAt": now},
			unset:  bson.M{"idol": ""},
		},
		{
			name:   "Omitted zero value is unset",
			doc:    document{Title: "Spring"},
			fields: []string{"note", "title"},
			set:    bson.M{"title": "Spring", "updatedAt": now},
			unset:  bson.M{"note": ""},
		},
		{
			name: "No fields still touches updatedAt",
			doc:  document{Title: "Spring"},
			set:  bson.M{"updatedAt": now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := PatchOf(tt.doc, tt.fields, now)
			require.NoError(t, err)

			set := update["$set"].(bson.M)
			for key, value := range tt.set {
				assert.Equal(t, value, set[key], key)
			}
			assert.Len(t, set, len(tt.set))

			if tt.unset == nil {
				assert.NotContains(t, update, "$unset")
				return
			}
			assert.Equal(t, tt.unset, update["$unset"])
		})
	}
}

func TestRefSet(t *testing.T) {
	known, missing := primitive.NewObjectID(), primitive.NewObjectID()
	set := RefSet{known: {ID: known, Name: "Sakura", Slug: "sakura"}}

	require.NotNil(t, set.Get(known))
	assert.Equal(t, "Sakura", set.Get(known).Name)
	assert.Equal(t, &Ref{ID: missing}, set.Get(missing), "dangling ids keep a bare reference")
	assert.Nil(t, set.Get(primitive.NilObjectID))
	assert.Nil(t, set.GetOptional(nil))

	refs := set.GetMany([]primitive.ObjectID{missing, primitive.NilObjectID, known})
	require.Len(t, refs, 2)
	assert.Equal(t, missing, refs[0].ID)
	assert.Equal(t, "sakura", refs[1].Slug)
}
