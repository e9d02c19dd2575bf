// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package idol

import (
	"time"

	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/pointer"
	"github.com/taibuivan/idolbase/pkg/query"
)

// Input is the writable subset of an idol.
type Input struct {
	Name            *string            `json:"name" validate:"omitempty,max=120"`
	StageName       *string            `json:"stageName" validate:"omitempty,max=120"`
	RealName        *string            `json:"realName" validate:"omitempty,max=120"`
	Bio             *string            `json:"bio" validate:"omitempty,max=10000"`
	BirthDate       *time.Time         `json:"birthDate"`
	DebutDate       *time.Time         `json:"debutDate"`
	Nationality     *string            `json:"nationality" validate:"omitempty,max=60"`
	Agency          *string            `json:"agency" validate:"omitempty,max=120"`
	ProfileImage    *string            `json:"profileImage" validate:"omitempty,max=2048"`
	ProfileImageKey *string            `json:"profileImageKey" validate:"omitempty,max=512"`
	Genres          *[]string          `json:"genres"`
	Tags            *[]string          `json:"tags" validate:"omitempty,max=50"`
	SocialLinks     *map[string]string `json:"socialLinks" validate:"omitempty,max=20,dive,max=2048"`
	Status          *string            `json:"status"`
	IsFeatured      *bool              `json:"isFeatured"`
}

func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}
	validator.Merge(validate.Struct(input))

	if creating || input.Name != nil {
		validator.Required(FieldName, pointer.Val(input.Name))
	}
	if input.Status != nil {
		validator.OneOf(FieldStatus, *input.Status,
			string(StatusActive),
			string(StatusRetired),
			string(StatusHiatus),
		)
	}
	if input.Genres != nil {
		validator.ObjectIDs(FieldGenres, *input.Genres)
	}

	return validator.Err()
}

func (input *Input) apply(idol *Idol) []string {
	var changed []string
	setString := func(field string, source *string, target *string) {
		if source != nil {
			*target = *source
			changed = append(changed, field)
		}
	}
	setTime := func(field string, source *time.Time, target **time.Time) {
		if source != nil {
			value := source.UTC()
			*target = &value
			changed = append(changed, field)
		}
	}

	setString(FieldName, input.Name, &idol.Name)
	setString(FieldStageName, input.StageName, &idol.StageName)
	setString(FieldRealName, input.RealName, &idol.RealName)
	setString(FieldBio, input.Bio, &idol.Bio)
	setString(FieldNationality, input.Nationality, &idol.Nationality)
	setString(FieldAgency, input.Agency, &idol.Agency)
	setString(FieldProfileImage, input.ProfileImage, &idol.ProfileImage)
	setString(FieldProfileImageKey, input.ProfileImageKey, &idol.ProfileImageKey)
	setTime(FieldBirthDate, input.BirthDate, &idol.BirthDate)
	setTime(FieldDebutDate, input.DebutDate, &idol.DebutDate)

	if input.Genres != nil {
		idol.GenreIDs = mongodb.HexIDs(*input.Genres)
		changed = append(changed, FieldGenres)
	}
	if input.Tags != nil {
		idol.Tags = query.Tags(*input.Tags)
		changed = append(changed, FieldTags)
	}
	if input.SocialLinks != nil {
		idol.SocialLinks = *input.SocialLinks
		changed = append(changed, FieldSocialLinks)
	}
	if input.Status != nil {
		idol.Status = Status(*input.Status)
		changed = append(changed, FieldStatus)
	}
	if input.IsFeatured != nil {
		idol.IsFeatured = *input.IsFeatured
		changed = append(changed, FieldIsFeatured)
	}

	return changed
}
