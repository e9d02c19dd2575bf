// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/pointer"
)

// Input is the writable subset of a genre. subGenres and contentCounts are
// derived and never accepted. An empty parentGenre makes the genre a root.
type Input struct {
	Name        *string `json:"name" validate:"omitempty,max=80"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Color       *string `json:"color"`
	ParentGenre *string `json:"parentGenre"`
	IsActive    *bool   `json:"isActive"`
}

func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}
	validator.Merge(validate.Struct(input))

	if creating || input.Name != nil {
		validator.Required(FieldName, pointer.Val(input.Name))
	}
	validator.HexColor(FieldColor, pointer.Val(input.Color))
	validator.OptionalObjectID(FieldParentGenre, pointer.Val(input.ParentGenre))

	return validator.Err()
}

func (input *Input) apply(genre *Genre) []string {
	var changed []string

	if input.Name != nil {
		genre.Name = *input.Name
		changed = append(changed, FieldName)
	}
	if input.Description != nil {
		genre.Description = *input.Description
		changed = append(changed, FieldDescription)
	}
	if input.Color != nil {
		genre.Color = *input.Color
		changed = append(changed, FieldColor)
	}
	if input.ParentGenre != nil {
		genre.ParentID = mongodb.OptionalHexID(*input.ParentGenre)
		changed = append(changed, FieldParentGenre)
	}
	if input.IsActive != nil {
		genre.IsActive = *input.IsActive
		changed = append(changed, FieldIsActive)
	}

	return changed
}
