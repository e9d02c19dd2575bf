// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package genre manages the genre taxonomy.

Core Responsibility:

  - Catalogue: CRUD over genres with slug generation from the name.
  - Tree: parentGenre is authoritative; subGenres is derived from it and kept
    in step on every create, reparent and delete. No genre may be its own
    ancestor.
  - Counters: contentCounts are maintained by the video, gallery and idol
    domains and surfaced here read-only.
*/
package genre

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Field Identifiers

const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldColor       = "color"
	FieldParentGenre = "parentGenre"
	FieldSubGenres   = "subGenres"
	FieldIsActive    = "isActive"
)

// maxAncestorDepth bounds the ancestor walk of the cycle check.
const maxAncestorDepth = 64

// # Domain Entity

// ContentCounts holds the denormalized per-type content totals of a genre.
type ContentCounts struct {
	Photos    int64 `bson:"photos" json:"photos"`
	Videos    int64 `bson:"videos" json:"videos"`
	Galleries int64 `bson:"galleries" json:"galleries"`
	Idols     int64 `bson:"idols" json:"idols"`
	News      int64 `bson:"news" json:"news"`
}

// Genre is a stored genre document.
type Genre struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`

	ParentID    *primitive.ObjectID  `bson:"parentGenre,omitempty" json:"-"`
	SubGenreIDs []primitive.ObjectID `bson:"subGenres" json:"-"`

	IsActive      bool          `bson:"isActive" json:"isActive"`
	ContentCounts ContentCounts `bson:"contentCounts" json:"contentCounts"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	Parent    *mongodb.Ref  `bson:"-" json:"parentGenre"`
	SubGenres []mongodb.Ref `bson:"-" json:"subGenres"`
}

// # Query Filters

// Filter narrows a genre listing.
type Filter struct {
	Parent   *primitive.ObjectID
	RootOnly bool
	IsActive *bool

	Search    string
	SortBy    string
	SortOrder string
	Skip      int64
	Limit     int64
}

// SortableFields is the sortBy whitelist.
var SortableFields = []string{"createdAt", "updatedAt", "name", "contentCounts.videos", "contentCounts.galleries", "contentCounts.idols"}

// SearchFields are matched by the search parameter.
var SearchFields = []string{FieldName, FieldDescription}
