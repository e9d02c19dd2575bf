// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video manages video records: metadata, media keys, the owning idol and
the genres a video is filed under.

Core Responsibility:

  - Catalogue: CRUD over videos with slug generation and admin visibility rules.
  - Integrity: Every create, update and delete adjusts Idol.videoCount and
    Genre.contentCounts.videos through an integrity ledger.
  - Assets: Deleting a video removes its video and thumbnail objects from storage.
*/
package video

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
	FieldCategory     = "category"
	FieldVideoURL     = "videoUrl"
	FieldVideoKey     = "videoKey"
	FieldThumbnailURL = "thumbnailUrl"
	FieldThumbnailKey = "thumbnailKey"
	FieldDuration     = "duration"
	FieldIdol         = "idol"
	FieldGenres       = "genres"
	FieldTags         = "tags"
	FieldIsPublic     = "isPublic"
	FieldIsAdult      = "isAdult"
	FieldIsFeatured   = "isFeatured"
	FieldIsTrending   = "isTrending"
	FieldPublishedAt  = "publishedAt"
)

// # Domain Entity

// Video is a stored video document. IdolID and GenreIDs are the stored
// references; Idol and Genres are their populated forms for responses.
type Video struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Slug         string             `bson:"slug" json:"slug"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	VideoURL     string             `bson:"videoUrl" json:"videoUrl"`
	VideoKey     string             `bson:"videoKey,omitempty" json:"videoKey,omitempty"`
	ThumbnailURL string             `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	ThumbnailKey string             `bson:"thumbnailKey,omitempty" json:"thumbnailKey,omitempty"`
	Duration     int64              `bson:"duration" json:"duration"`

	IdolID   primitive.ObjectID   `bson:"idol" json:"-"`
	GenreIDs []primitive.ObjectID `bson:"genres" json:"-"`
	Tags     []string             `bson:"tags" json:"tags"`

	IsPublic   bool `bson:"isPublic" json:"isPublic"`
	IsAdult    bool `bson:"isAdult" json:"isAdult"`
	IsFeatured bool `bson:"isFeatured" json:"isFeatured"`
	IsTrending bool `bson:"isTrending" json:"isTrending"`

	ViewCount     int64 `bson:"viewCount" json:"viewCount"`
	LikeCount     int64 `bson:"likeCount" json:"likeCount"`
	DownloadCount int64 `bson:"downloadCount" json:"downloadCount"`

	PublishedAt *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`

	Idol   *mongodb.Ref  `bson:"-" json:"idol"`
	Genres []mongodb.Ref `bson:"-" json:"genres"`
}

// MediaKeys returns the object storage keys owned by the video.
func (video *Video) MediaKeys() []string {
	keys := make([]string, 0, 2)
	for _, key := range []string{video.VideoKey, video.ThumbnailKey} {
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// # Query Filters

// Filter narrows a video listing.
type Filter struct {
	Idol       *primitive.ObjectID
	Genre      *primitive.ObjectID
	Category   string
	Tags       []string
	IsFeatured *bool
	IsTrending *bool
	IsAdult    *bool

	Search    string
	SortBy    string
	SortOrder string
	Skip      int64
	Limit     int64

	// IncludePrivate lifts the isPublic restriction (admin listings only).
	IncludePrivate bool
}

// SortableFields is the sortBy whitelist.
var SortableFields = []string{"createdAt", "updatedAt", "publishedAt", "title", "viewCount", "likeCount", "duration"}

// SearchFields are matched by the search parameter.
var SearchFields = []string{FieldTitle, FieldDescription, FieldTags}
