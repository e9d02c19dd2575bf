// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/pointer"
	"github.com/taibuivan/idolbase/pkg/query"
)

// Input is the writable subset of a photo. An empty gallery or idol string
// clears that reference.
type Input struct {
	Title        *string   `json:"title" validate:"omitempty,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=5000"`
	ImageURL     *string   `json:"imageUrl" validate:"omitempty,max=2048"`
	ImageKey     *string   `json:"imageKey" validate:"omitempty,max=512"`
	ThumbnailURL *string   `json:"thumbnailUrl" validate:"omitempty,max=2048"`
	ThumbnailKey *string   `json:"thumbnailKey" validate:"omitempty,max=512"`
	Width        *int64    `json:"width" validate:"omitempty,gte=0"`
	Height       *int64    `json:"height" validate:"omitempty,gte=0"`
	Gallery      *string   `json:"gallery"`
	Idol         *string   `json:"idol"`
	Tags         *[]string `json:"tags" validate:"omitempty,max=50"`
	IsPublic     *bool     `json:"isPublic"`
	IsAdult      *bool     `json:"isAdult"`
	IsFeatured   *bool     `json:"isFeatured"`
}

func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}
	validator.Merge(validate.Struct(input))

	if creating || input.Title != nil {
		validator.Required(FieldTitle, pointer.Val(input.Title))
	}
	if creating || input.ImageURL != nil {
		validator.Required(FieldImageURL, pointer.Val(input.ImageURL))
	}
	validator.OptionalObjectID(FieldGallery, pointer.Val(input.Gallery))
	validator.OptionalObjectID(FieldIdol, pointer.Val(input.Idol))

	return validator.Err()
}

// apply copies every non-nil field onto photo and returns the touched bson fields.
func (input *Input) apply(photo *Photo) []string {
	var changed []string
	setString := func(field string, source *string, target *string) {
		if source != nil {
			*target = *source
			changed = append(changed, field)
		}
	}
	setInt := func(field string, source *int64, target *int64) {
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

	setString(FieldTitle, input.Title, &photo.Title)
	setString(FieldDescription, input.Description, &photo.Description)
	setString(FieldImageURL, input.ImageURL, &photo.ImageURL)
	setString(FieldImageKey, input.ImageKey, &photo.ImageKey)
	setString(FieldThumbnailURL, input.ThumbnailURL, &photo.ThumbnailURL)
	setString(FieldThumbnailKey, input.ThumbnailKey, &photo.ThumbnailKey)
	setInt(FieldWidth, input.Width, &photo.Width)
	setInt(FieldHeight, input.Height, &photo.Height)
	setBool(FieldIsPublic, input.IsPublic, &photo.IsPublic)
	setBool(FieldIsAdult, input.IsAdult, &photo.IsAdult)
	setBool(FieldIsFeatured, input.IsFeatured, &photo.IsFeatured)

	if input.Gallery != nil {
		photo.GalleryID = mongodb.OptionalHexID(*input.Gallery)
		changed = append(changed, FieldGallery)
	}
	if input.Idol != nil {
		photo.IdolID = mongodb.OptionalHexID(*input.Idol)
		changed = append(changed, FieldIdol)
	}
	if input.Tags != nil {
		photo.Tags = query.Tags(*input.Tags)
		changed = append(changed, FieldTags)
	}

	return changed
}
