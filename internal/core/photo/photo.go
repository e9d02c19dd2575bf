// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package photo manages individual images, optionally filed under a gallery and
attributed to an idol.

Every photo mutation keeps Idol.photoCount and Gallery.photoCount in step with
the references it adds, moves or removes.
*/
package photo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Field Identifiers

const (
	FieldTitle        = "title"
	FieldSlug         = "slug"
	FieldDescription  = "description"
	FieldImageURL     = "imageUrl"
	FieldImageKey     = "imageKey"
	FieldThumbnailURL = "thumbnailUrl"
	FieldThumbnailKey = "thumbnailKey"
	FieldWidth        = "width"
	FieldHeight       = "height"
	FieldGallery      = "gallery"
	FieldIdol         = "idol"
	FieldTags         = "tags"
	FieldIsPublic     = "isPublic"
	FieldIsAdult      = "isAdult"
	FieldIsFeatured   = "isFeatured"
)

// # Domain Entity

// Photo is a stored image document.
type Photo struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Slug         string             `bson:"slug" json:"slug"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL     string             `bson:"imageUrl" json:"imageUrl"`
	ImageKey     string             `bson:"imageKey,omitempty" json:"imageKey,omitempty"`
	ThumbnailURL string             `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	ThumbnailKey string             `bson:"thumbnailKey,omitempty" json:"thumbnailKey,omitempty"`
	Width        int64              `bson:"width,omitempty" json:"width,omitempty"`
	Height       int64              `bson:"height,omitempty" json:"height,omitempty"`

	GalleryID *primitive.ObjectID `bson:"gallery,omitempty" json:"-"`
	IdolID    *primitive.ObjectID `bson:"idol,omitempty" json:"-"`
	Tags      []string            `bson:"tags" json:"tags"`

	IsPublic   bool `bson:"isPublic" json:"isPublic"`
	IsAdult    bool `bson:"isAdult" json:"isAdult"`
	IsFeatured bool `bson:"isFeatured" json:"isFeatured"`

	ViewCount     int64 `bson:"viewCount" json:"viewCount"`
	LikeCount     int64 `bson:"likeCount" json:"likeCount"`
	DownloadCount int64 `bson:"downloadCount" json:"downloadCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	Gallery *mongodb.Ref `bson:"-" json:"gallery"`
	Idol    *mongodb.Ref `bson:"-" json:"idol"`
}

// MediaKeys returns the object storage keys owned by the photo.
func (photo *Photo) MediaKeys() []string {
	keys := make([]string, 0, 2)
	for _, key := range []string{photo.ImageKey, photo.ThumbnailKey} {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// # Query Filters

// Filter narrows a photo listing.
type Filter struct {
	Idol       *primitive.ObjectID
	Gallery    *primitive.ObjectID
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
var SortableFields = []string{"createdAt", "updatedAt", "title", "viewCount", "likeCount", "downloadCount"}

// SearchFields are matched by the search parameter.
var SearchFields = []string{FieldTitle, FieldDescription, FieldTags}
