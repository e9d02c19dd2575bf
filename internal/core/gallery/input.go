// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/pointer"
	"github.com/taibuivan/idolbase/pkg/query"
)

// Input is the writable subset of a gallery. photoCount is never accepted.
type Input struct {
	Title         *string   `json:"title" validate:"omitempty,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	Category      *string   `json:"category" validate:"omitempty,max=50"`
	CoverImage    *string   `json:"coverImage" validate:"omitempty,max=2048"`
	CoverImageKey *string   `json:"coverImageKey" validate:"omitempty,max=512"`
	Idol          *string   `json:"idol"`
	Genre         *string   `json:"genre"`
	Tags          *[]string `json:"tags" validate:"omitempty,max=50"`
	IsPublic      *bool     `json:"isPublic"`
	IsAdult       *bool     `json:"isAdult"`
	IsFeatured    *bool     `json:"isFeatured"`
}

func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}
	validator.Merge(validate.Struct(input))

	if creating || input.Title != nil {
		validator.Required(FieldTitle, pointer.Val(input.Title))
	}
	validator.OptionalObjectID(FieldIdol, pointer.Val(input.Idol))
	validator.OptionalObjectID(FieldGenre, pointer.Val(input.Genre))

	return validator.Err()
}

func (input *Input) apply(gallery *Gallery) []string {
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

	setString(FieldTitle, input.Title, &gallery.Title)
	setString(FieldDescription, input.Description, &gallery.Description)
	setString(FieldCategory, input.Category, &gallery.Category)
	setString(FieldCoverImage, input.CoverImage, &gallery.CoverImage)
	setString(FieldCoverImageKey, input.CoverImageKey, &gallery.CoverImageKey)
	setBool(FieldIsPublic, input.IsPublic, &gallery.IsPublic)
	setBool(FieldIsAdult, input.IsAdult, &gallery.IsAdult)
	setBool(FieldIsFeatured, input.IsFeatured, &gallery.IsFeatured)

	if input.Idol != nil {
		gallery.IdolID = mongodb.OptionalHexID(*input.Idol)
		changed = append(changed, FieldIdol)
	}
	if input.Genre != nil {
		gallery.GenreID = mongodb.OptionalHexID(*input.Genre)
		changed = append(changed, FieldGenre)
	}
	if input.Tags != nil {
		gallery.Tags = query.Tags(*input.Tags)
		changed = append(changed, FieldTags)
	}

	return changed
}
