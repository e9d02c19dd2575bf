// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

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

// Service orchestrates the photo catalogue.
type Service struct {
	repo      Repository
	integrity *integrity.Maintainer
	assets    AssetCleaner
	logger    *slog.Logger
}

// NewService constructs a new photo [Service].
func NewService(repo Repository, maintainer *integrity.Maintainer, assets AssetCleaner, logger *slog.Logger) *Service {
	return &Service{repo: repo, integrity: maintainer, assets: assets, logger: logger}
}

// List returns one populated page of photos and the total match count.
func (service *Service) List(context context.Context, filter Filter) ([]Photo, int64, error) {
	photos, total, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, err
	}

	pointers := make([]*Photo, len(photos))
	for i := range photos {
		pointers[i] = &photos[i]
	}
	if err := service.repo.Populate(context, pointers...); err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

// Stats returns the admin statistics block.
func (service *Service) Stats(context context.Context) (*mongodb.Stats, error) {
	return service.repo.Stats(context)
}

// Get fetches one populated photo. Private photos are NOT_FOUND unless
// includePrivate is set.
func (service *Service) Get(context context.Context, identifier string, includePrivate bool) (*Photo, error) {
	photo, err := service.repo.FindByIdentifier(context, identifier)
	if err != nil {
		return nil, err
	}
	if !photo.IsPublic && !includePrivate {
		return nil, apperr.NotFound("Photo")
	}
	if err := service.repo.Populate(context, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

/*
Create validates and persists a new photo.

Description: The gallery and idol, when given, must exist; each is credited
one photo once the insert has committed.

Returns:
  - *Photo: The stored, populated photo
  - error: VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Create(context context.Context, input Input) (*Photo, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	photo := Photo{IsPublic: true}
	input.apply(&photo)

	if photo.Slug = slug.From(photo.Title); photo.Slug == "" {
		return nil, slugError()
	}
	if err := service.requireParents(context, &photo); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, &photo); err != nil {
		return nil, err
	}

	ledger := &integrity.Ledger{}
	ledger.Link(integrity.GalleryPhotos, mongodb.Present(photo.GalleryID)...)
	ledger.Link(integrity.IdolPhotos, mongodb.Present(photo.IdolID)...)
	service.integrity.Apply(context, ledger)

	ctxutil.GetLogger(context).Info("photo_created", slog.String("photo_id", photo.ID.Hex()))

	if err := service.repo.Populate(context, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

/*
Update applies a partial replace to an existing photo.

Description: Moving a photo between galleries or idols debits the old parent
and credits the new one; clearing a reference only debits. The diff is taken
against the atomic pre-image.

Returns:
  - *Photo: The updated, populated photo
  - error: NOT_FOUND, VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Update(context context.Context, id primitive.ObjectID, input Input) (*Photo, error) {
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
	ledger.Move(integrity.GalleryPhotos, previous.GalleryID, final.GalleryID)
	ledger.Move(integrity.IdolPhotos, previous.IdolID, final.IdolID)
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
Delete removes a batch of photos, cleaning their media first and debiting each
gallery and idol once for all of its deleted photos.

Returns:
  - int64: Number of photos deleted
  - error: Repository failures
*/
func (service *Service) Delete(context context.Context, ids []primitive.ObjectID) (int64, error) {
	photos, err := service.repo.FindByIDs(context, ids)
	if err != nil {
		return 0, err
	}
	if len(photos) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(photos)*2)
	for i := range photos {
		keys = append(keys, photos[i].MediaKeys()...)
	}
	service.assets.Cleanup(context, keys)

	ledger := &integrity.Ledger{}
	var deleted int64
	for i := range photos {
		removed, err := service.repo.Delete(context, photos[i].ID)
		if err != nil {
			service.integrity.Apply(context, ledger)
			return deleted, err
		}
		if removed == nil {
			continue
		}
		deleted++
		ledger.Unlink(integrity.GalleryPhotos, mongodb.Present(removed.GalleryID)...)
		ledger.Unlink(integrity.IdolPhotos, mongodb.Present(removed.IdolID)...)
	}
	service.integrity.Apply(context, ledger)

	ctxutil.GetLogger(context).Info("photos_deleted",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", deleted),
	)
	return deleted, nil
}

func (service *Service) requireParents(context context.Context, photo *Photo) error {
	if err := service.integrity.RequireParents(context, FieldGallery, constants.CollectionGalleries, mongodb.Present(photo.GalleryID)...); err != nil {
		return err
	}
	return service.integrity.RequireParents(context, FieldIdol, constants.CollectionIdols, mongodb.Present(photo.IdolID)...)
}

func slugError() error {
	return apperr.ValidationError("Title does not produce a valid slug", apperr.FieldError{
		Field:   FieldTitle,
		Message: "Must contain at least one letter or digit",
	})
}
