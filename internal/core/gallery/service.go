// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

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

// Service orchestrates the gallery catalogue.
type Service struct {
	repo      Repository
	integrity *integrity.Maintainer
	assets    AssetCleaner
	logger    *slog.Logger
}

// NewService constructs a new gallery [Service].
func NewService(repo Repository, maintainer *integrity.Maintainer, assets AssetCleaner, logger *slog.Logger) *Service {
	return &Service{repo: repo, integrity: maintainer, assets: assets, logger: logger}
}

// List returns one populated page of galleries.
func (service *Service) List(context context.Context, filter Filter) ([]Gallery, int64, error) {
	galleries, total, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, err
	}

	pointers := make([]*Gallery, len(galleries))
	for i := range galleries {
		pointers[i] = &galleries[i]
	}
	if err := service.repo.Populate(context, pointers...); err != nil {
		return nil, 0, err
	}
	return galleries, total, nil
}

// Stats returns the admin statistics block.
func (service *Service) Stats(context context.Context) (*mongodb.Stats, error) {
	return service.repo.Stats(context)
}

// Get fetches one populated gallery; private galleries are NOT_FOUND for
// the public.
func (service *Service) Get(context context.Context, identifier string, includePrivate bool) (*Gallery, error) {
	gallery, err := service.repo.FindByIdentifier(context, identifier)
	if err != nil {
		return nil, err
	}
	if !gallery.IsPublic && !includePrivate {
		return nil, apperr.NotFound("Gallery")
	}
	if err := service.repo.Populate(context, gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

/*
Create validates and persists a new gallery.

Description: A new gallery always starts with photoCount 0; photos credit it
as they are filed. The idol and genre, when given, are credited one gallery.

Returns:
  - *Gallery
  - error: VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Create(context context.Context, input Input) (*Gallery, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	gallery := Gallery{IsPublic: true}
	input.apply(&gallery)

	if gallery.Slug = slug.From(gallery.Title); gallery.Slug == "" {
		return nil, slugError()
	}
	if err := service.requireParents(context, &gallery); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, &gallery); err != nil {
		return nil, err
	}

	ledger := &integrity.Ledger{}
	ledger.Link(integrity.IdolGalleries, mongodb.Present(gallery.IdolID)...)
	ledger.Link(integrity.GenreGalleries, mongodb.Present(gallery.GenreID)...)
	service.integrity.Apply(context, ledger)

	ctxutil.GetLogger(context).Info("gallery_created", slog.String("gallery_id", gallery.ID.Hex()))

	if err := service.repo.Populate(context, &gallery); err != nil {
		return nil, err
	}
	return &gallery, nil
}

/*
Update applies a partial replace to an existing gallery, moving its idol and
genre credits when those references change.

Returns:
  - *Gallery
  - error: NOT_FOUND, VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Update(context context.Context, id primitive.ObjectID, input Input) (*Gallery, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	next := *current
	fields := input.apply(&next)
	if next.Title != current.Title {
		if next.Slug = slug.From(next.Title); next.Slug == "" {
			return nil, slugError()
		}
		fields = append(fields, FieldSlug)
	}
	if err := service.requireParents(context, &next); err != nil {
		return nil, err
	}

	previous, err := service.repo.Update(context, &next, fields)
	if err != nil {
		return nil, err
	}

	final := *previous
	input.apply(&final)

	ledger := &integrity.Ledger{}
	ledger.Move(integrity.IdolGalleries, previous.IdolID, final.IdolID)
	ledger.Move(integrity.GenreGalleries, previous.GenreID, final.GenreID)
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
Delete removes a batch of galleries.

Description: Cover images are cleaned first. Photos filed under a deleted
gallery are kept and have their gallery reference unset.

Returns:
  - int64: Number of galleries deleted
  - error: Repository failures
*/
func (service *Service) Delete(context context.Context, ids []primitive.ObjectID) (int64, error) {
	galleries, err := service.repo.FindByIDs(context, ids)
	if err != nil {
		return 0, err
	}
	if len(galleries) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(galleries))
	for i := range galleries {
		if galleries[i].CoverImageKey != "" {
			keys = append(keys, galleries[i].CoverImageKey)
		}
	}
	service.assets.Cleanup(context, keys)

	ledger := &integrity.Ledger{}
	removedIDs := make([]primitive.ObjectID, 0, len(galleries))
	for i := range galleries {
		removed, err := service.repo.Delete(context, galleries[i].ID)
		if err != nil {
			service.finishDelete(context, ledger, removedIDs)
			return int64(len(removedIDs)), err
		}
		if removed == nil {
			continue
		}
		removedIDs = append(removedIDs, removed.ID)
		ledger.Unlink(integrity.IdolGalleries, mongodb.Present(removed.IdolID)...)
		ledger.Unlink(integrity.GenreGalleries, mongodb.Present(removed.GenreID)...)
	}
	service.finishDelete(context, ledger, removedIDs)

	ctxutil.GetLogger(context).Info("galleries_deleted",
		slog.Int("requested", len(ids)),
		slog.Int("deleted", len(removedIDs)),
	)
	return int64(len(removedIDs)), nil
}

func (service *Service) finishDelete(context context.Context, ledger *integrity.Ledger, removed []primitive.ObjectID) {
	service.integrity.Apply(context, ledger)
	service.integrity.DetachChildren(context, constants.CollectionGalleries, removed)
}

func (service *Service) requireParents(context context.Context, gallery *Gallery) error {
	if err := service.integrity.RequireParents(context, FieldIdol, constants.CollectionIdols, mongodb.Present(gallery.IdolID)...); err != nil {
		return err
	}
	return service.integrity.RequireParents(context, FieldGenre, constants.CollectionGenres, mongodb.Present(gallery.GenreID)...)
}

func slugError() error {
	return apperr.ValidationError("Title does not produce a valid slug", apperr.FieldError{
		Field:   FieldTitle,
		Message: "Must contain at least one letter or digit",
	})
}
