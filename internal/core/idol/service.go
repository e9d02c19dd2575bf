// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package idol

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/ctxutil"
	"github.com/taibuivan/idolbase/internal/platform/mongodb"
	"github.com/taibuivan/idolbase/pkg/slug"
)

// # Service Layer

// Service orchestrates idol profiles.
type Service struct {
	repo      Repository
	integrity *integrity.Maintainer
	assets    AssetCleaner
	logger    *slog.Logger
}

// NewService constructs a new idol [Service].
func NewService(repo Repository, maintainer *integrity.Maintainer, assets AssetCleaner, logger *slog.Logger) *Service {
	return &Service{repo: repo, integrity: maintainer, assets: assets, logger: logger}
}

// # Lookups

// List returns one populated page of idols.
func (service *Service) List(context context.Context, filter Filter) ([]Idol, int64, error) {
	idols, total, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, err
	}

	pointers := make([]*Idol, len(idols))
	for i := range idols {
		pointers[i] = &idols[i]
	}
	if err := service.repo.Populate(context, pointers...); err != nil {
		return nil, 0, err
	}
	return idols, total, nil
}

// Stats returns the admin statistics block.
func (service *Service) Stats(context context.Context) (*mongodb.Stats, error) {
	return service.repo.Stats(context)
}

// Get fetches one populated idol by id or slug.
func (service *Service) Get(context context.Context, identifier string) (*Idol, error) {
	idol, err := service.repo.FindByIdentifier(context, identifier)
	if err != nil {
		return nil, err
	}
	if err := service.repo.Populate(context, idol); err != nil {
		return nil, err
	}
	return idol, nil
}

// # Management

/*
Create validates and persists a new idol.

Description: The slug is derived from the name and the status defaults to
active. Every referenced genre must exist and is credited one idol.

Returns:
  - *Idol
  - error: VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Create(context context.Context, input Input) (*Idol, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	idol := Idol{Status: StatusActive}
	input.apply(&idol)

	if idol.Slug = slug.From(idol.Name); idol.Slug == "" {
		return nil, slugError()
	}
	if err := service.integrity.RequireParents(context, FieldGenres, constants.CollectionGenres, idol.GenreIDs...); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, &idol); err != nil {
		return nil, err
	}

	ledger := &integrity.Ledger{}
	ledger.Link(integrity.GenreIdols, idol.GenreIDs...)
	service.integrity.Apply(context, ledger)

	ctxutil.GetLogger(context).Info("idol_created",
		slog.String("idol_id", idol.ID.Hex()),
		slog.String("slug", idol.Slug),
	)

	if err := service.repo.Populate(context, &idol); err != nil {
		return nil, err
	}
	return &idol, nil
}

/*
Update applies a partial replace to an existing idol.

Description: The slug follows the name. Only genres that were added or
removed relative to the atomic pre-image have their idol count adjusted.

Returns:
  - *Idol
  - error: NOT_FOUND, VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Update(context context.Context, id primitive.ObjectID, input Input) (*Idol, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	next := *current
	fields := input.apply(&next)
	if next.Name != current.Name {
		if next.Slug = slug.From(next.Name); next.Slug == "" {
			return nil, slugError()
		}
		fields = append(fields, FieldSlug)
	}
	if err := service.integrity.RequireParents(context, FieldGenres, constants.CollectionGenres, next.GenreIDs...); err != nil {
		return nil, err
	}

	previous, err := service.repo.Update(context, &next, fields)
	if err != nil {
		return nil, err
	}

	final := *previous
	input.apply(&final)

	ledger := &integrity.Ledger{}
	ledger.Retarget(integrity.GenreIdols, previous.GenreIDs, final.GenreIDs)
	service.integrity.Apply(context, ledger)

	updated, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if err := service.repo.Populate(context, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

/*
Delete removes a batch of idols.

Description: Refused with CONFLICT while any of the idols still owns a
video, since a video cannot exist without its idol. Otherwise profile images
are cleaned, the idols are removed, their genres debited, and photos and
galleries pointing at them are detached.

Returns:
  - int64: Number of idols deleted
  - error: CONFLICT, repository failures
*/
func (service *Service) Delete(context context.Context, ids []primitive.ObjectID) (int64, error) {
	idols, err := service.repo.FindByIDs(context, ids)
	if err != nil {
		return 0, err
	}
	if len(idols) == 0 {
		return 0, nil
	}

	found := make([]primitive.ObjectID, 0, len(idols))
	keys := make([]string, 0, len(idols))
	for i := range idols {
		found = append(found, idols[i].ID)
		if idols[i].ProfileImageKey != "" {
			keys = append(keys, idols[i].ProfileImageKey)
		}
	}
	if err := service.integrity.GuardDelete(context, constants.CollectionIdols, found); err != nil {
		return 0, err
	}
	service.assets.Cleanup(context, keys)

	ledger := &integrity.Ledger{}
	removedIDs := make([]primitive.ObjectID, 0, len(idols))
	for i := range idols {
		removed, err := service.repo.Delete(context, idols[i].ID)
		if err != nil {
			service.finishDelete(context, ledger, removedIDs)
			return int64(len(removedIDs)), err
		}
		if removed == nil {
			continue
		}
		removedIDs = append(removedIDs, removed.ID)
		ledger.Unlink(integrity.GenreIdols, removed.GenreIDs...)
	}
	service.finishDelete(context, ledger, removedIDs)

	ctxutil.GetLogger(context).Info("idols_deleted",
		slog.Int("requested", len(ids)),
		slog.Int("deleted", len(removedIDs)),
	)
	return int64(len(removedIDs)), nil
}

func (service *Service) finishDelete(context context.Context, ledger *integrity.Ledger, removed []primitive.ObjectID) {
	service.integrity.Apply(context, ledger)
	service.integrity.DetachChildren(context, constants.CollectionIdols, removed)
	service.integrity.ReportDangling(context, constants.CollectionIdols, removed)
}

func slugError() error {
	return apperr.ValidationError("Name does not produce a valid slug", apperr.FieldError{
		Field:   FieldName,
		Message: "Must contain at least one letter or digit",
	})
}
