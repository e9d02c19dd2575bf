// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gallery manages named photo collections.

A gallery optionally belongs to an idol and a genre and carries the
denormalized photoCount maintained by the photo domain. Deleting a gallery
detaches its photos rather than deleting them.
*/
package gallery

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Field Identifiers

const (
	FieldTitle         = "title"
	FieldSlug          = "slug"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldCoverImage    = "coverImage"
	FieldCoverImageKey = "coverImageKey"
	FieldIdol          = "idol"
	FieldGenre         = "genre"
	FieldTags          = "tags"
	FieldIsPublic      = "isPublic"
	FieldIsAdult       = "isAdult"
	FieldIsFeatured    = "isFeatured"
)

// # Domain Entity

// Gallery is a stored gallery document.
type Gallery struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	CoverImage    string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	CoverImageKey string             `bson:"coverImageKey,omitempty" json:"coverImageKey,omitempty"`

	IdolID  *primitive.ObjectID `bson:"idol,omitempty" json:"-"`
	GenreID *primitive.ObjectID `bson:"genre,omitempty" json:"-"`
	Tags    []string            `bson:"tags" json:"tags"`

	IsPublic   bool `bson:"isPublic" json:"isPublic"`
	IsAdult    bool `bson:"isAdult" json:"isAdult"`
	IsFeatured bool `bson:"isFeatured" json:"isFeatured"`

	PhotoCount    int64 `bson:"photoCount" json:"photoCount"`
	ViewCount     int64 `bson:"viewCount" json:"viewCount"`
	LikeCount     int64 `bson:"likeCount" json:"likeCount"`
	DownloadCount int64 `bson:"downloadCount" json:"downloadCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	Idol  *mongodb.Ref `bson:"-" json:"idol"`
	Genre *mongodb.Ref `bson:"-" json:"genre"`
}

// # Query Filters

// Filter narrows a gallery listing.
type Filter struct {
	Idol       *primitive.ObjectID
	Genre      *primitive.ObjectID
	Category   string
	Tags       []string
	IsFeatured *bool
	IsAdult    *bool

	Search    string
	SortBy    string
	SortOrder string
	Skip      int64
	Limit     int64

	IncludePrivate bool
}

// SortableFields is the sortBy whitelist.
var SortableFields = []string{"createdAt", "updatedAt", "title", "photoCount", "viewCount", "likeCount"}

// SearchFields are matched by the search parameter.
var SearchFields = []string{FieldTitle, FieldDescription, FieldCategory, FieldTags}
