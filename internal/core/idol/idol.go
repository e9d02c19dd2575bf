// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package idol manages performer profiles.

Core Responsibility:

  - Catalogue: CRUD over idols with slug generation from the name.
  - Counters: photoCount, videoCount and galleryCount are owned by the child
    domains; the idol domain maintains Genre.contentCounts.idols.
  - Deletion: An idol that still owns videos cannot be deleted; photos and
    galleries referencing a deleted idol are detached.
*/
package idol

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
)

// # Field Identifiers

const (
	FieldName            = "name"
	FieldSlug            = "slug"
	FieldStageName       = "stageName"
	FieldRealName        = "realName"
	FieldBio             = "bio"
	FieldBirthDate       = "birthDate"
	FieldDebutDate       = "debutDate"
	FieldNationality     = "nationality"
	FieldAgency          = "agency"
	FieldProfileImage    = "profileImage"
	FieldProfileImageKey = "profileImageKey"
	FieldGenres          = "genres"
	FieldTags            = "tags"
	FieldSocialLinks     = "socialLinks"
	FieldStatus          = "status"
	FieldIsFeatured      = "isFeatured"
)

// # Lifecycle

// Status is the career state of an idol.
type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
	StatusHiatus  Status = "hiatus"
)

// # Domain Entity

// Idol is a stored performer document.
type Idol struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Slug            string             `bson:"slug" json:"slug"`
	StageName       string             `bson:"stageName,omitempty" json:"stageName,omitempty"`
	RealName        string             `bson:"realName,omitempty" json:"realName,omitempty"`
	Bio             string             `bson:"bio,omitempty" json:"bio,omitempty"`
	BirthDate       *time.Time         `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	DebutDate       *time.Time         `bson:"debutDate,omitempty" json:"debutDate,omitempty"`
	Nationality     string             `bson:"nationality,omitempty" json:"nationality,omitempty"`
	Agency          string             `bson:"agency,omitempty" json:"agency,omitempty"`
	ProfileImage    string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	ProfileImageKey string             `bson:"profileImageKey,omitempty" json:"profileImageKey,omitempty"`

	GenreIDs    []primitive.ObjectID `bson:"genres" json:"-"`
	Tags        []string             `bson:"tags" json:"tags"`
	SocialLinks map[string]string    `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`

	Status     Status `bson:"status" json:"status"`
	IsFeatured bool   `bson:"isFeatured" json:"isFeatured"`

	PhotoCount    int64 `bson:"photoCount" json:"photoCount"`
	VideoCount    int64 `bson:"videoCount" json:"videoCount"`
	GalleryCount  int64 `bson:"galleryCount" json:"galleryCount"`
	ViewCount     int64 `bson:"viewCount" json:"viewCount"`
	FavoriteCount int64 `bson:"favoriteCount" json:"favoriteCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	Genres []mongodb.Ref `bson:"-" json:"genres"`
}

// # Query Filters

// Filter narrows an idol listing. Idols have no visibility flag.
type Filter struct {
	Genre       *primitive.ObjectID
	Status      Status
	Nationality string
	Agency      string
	Tags        []string
	IsFeatured  *bool

	Search    string
	SortBy    string
	SortOrder string
	Skip      int64
	Limit     int64
}

// SortableFields is the sortBy whitelist.
var SortableFields = []string{"createdAt", "updatedAt", "name", "debutDate", "viewCount", "favoriteCount", "photoCount", "videoCount"}

// SearchFields are matched by the search parameter.
var SearchFields = []string{FieldName, FieldStageName, FieldRealName, FieldAgency, FieldTags}
