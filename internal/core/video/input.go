// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/pointer"
	"github.com/taibuivan/idolbase/pkg/query"
)

// Input is the writable subset of a video. A nil field is left unchanged by
// updates. Counter fields are deliberately absent.
type Input struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Category     *string    `json:"category" validate:"omitempty,max=50"`
	VideoURL     *string    `json:"videoUrl" validate:"omitempty,max=2048"`
	VideoKey     *string    `json:"videoKey" validate:"omitempty,max=512"`
	ThumbnailURL *string    `json:"thumbnailUrl" validate:"omitempty,max=2048"`
	ThumbnailKey *string    `json:"thumbnailKey" validate:"omitempty,max=512"`
	Duration     *int64     `json:"duration" validate:"omitempty,gte=0"`
	Idol         *string    `json:"idol"`
	Genres       *[]string  `json:"genres"`
	Tags         *[]string  `json:"tags" validate:"omitempty,max=50"`
	IsPublic     *bool      `json:"isPublic"`
	IsAdult      *bool      `json:"isAdult"`
	IsFeatured   *bool      `json:"isFeatured"`
	IsTrending   *bool      `json:"isTrending"`
	PublishedAt  *time.Time `json:"publishedAt"`
}

// validate checks field formats. creating additionally enforces required fields.
func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}
	validator.Merge(validate.Struct(input))

	if creating || input.Title != nil {
		validator.Required(FieldTitle, pointer.Val(input.Title))
	}
	if creating || input.VideoURL != nil {
		validator.Required(FieldVideoURL, pointer.Val(input.VideoURL))
	}

	// The owning idol is mandatory and can be replaced but never cleared.
	if creating || input.Idol != nil {
		validator.ObjectID(FieldIdol, pointer.Val(input.Idol))
	}
	if input.Genres != nil {
		validator.ObjectIDs(FieldGenres, *input.Genres)
	}

	return validator.Err()
}

// apply copies every non-nil field onto video and returns the bson names of
// the fields it touched. Callers must have validated the input first.
func (input *Input) apply(video *Video) []string {
	var changed []string
	setString := func(field string, source *string, target *string) {
		if source != nil {
			*target = *source
			changed = append(changed, field)
		}
	}
	setBool := func(field string, source *bool, target *bool) {
		if source != nil {
			*target = *source
			changed = append(changed, field)
		}
	}

	setString(FieldTitle, input.Title, &video.Title)
	setString(FieldDescription, input.Description, &video.Description)
	setString(FieldCategory, input.Category, &video.Category)
	setString(FieldVideoURL, input.VideoURL, &video.VideoURL)
	setString(FieldVideoKey, input.VideoKey, &video.VideoKey)
	setString(FieldThumbnailURL, input.ThumbnailURL, &video.ThumbnailURL)
	setString(FieldThumbnailKey, input.ThumbnailKey, &video.ThumbnailKey)
	setBool(FieldIsPublic, input.IsPublic, &video.IsPublic)
	setBool(FieldIsAdult, input.IsAdult, &video.IsAdult)
	setBool(FieldIsFeatured, input.IsFeatured, &video.IsFeatured)
	setBool(FieldIsTrending, input.IsTrending, &video.IsTrending)

	if input.Duration != nil {
		video.Duration = *input.Duration
		changed = append(changed, FieldDuration)
	}
	if input.Idol != nil {
		video.IdolID, _ = primitive.ObjectIDFromHex(*input.Idol)
		changed = append(changed, FieldIdol)
	}
	if input.Genres != nil {
		video.GenreIDs = mongodb.HexIDs(*input.Genres)
		changed = append(changed, FieldGenres)
	}
	if input.Tags != nil {
		video.Tags = query.Tags(*input.Tags)
		changed = append(changed, FieldTags)
	}
	if input.PublishedAt != nil {
		publishedAt := input.PublishedAt.UTC()
		video.PublishedAt = &publishedAt
		changed = append(changed, FieldPublishedAt)
	}

	return changed
}
