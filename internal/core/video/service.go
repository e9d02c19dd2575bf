// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

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

// Service orchestrates the video catalogue and its counter effects on idols
// and genres.
type Service struct {
	repo      Repository
	integrity *integrity.Maintainer
	assets    AssetCleaner
	logger    *slog.Logger
}

// NewService constructs a new video [Service].
func NewService(repo Repository, maintainer *integrity.Maintainer, assets AssetCleaner, logger *slog.Logger) *Service {
	return &Service{repo: repo, integrity: maintainer, assets: assets, logger: logger}
}

// # Lookups

/*
List returns one populated page of videos.

Parameters:
  - context: context.Context
  - filter: Filter

Returns:
  - []Video: The page with idol and genre references resolved
  - int64: Total matching documents
  - error: Repository failures
*/
func (service *Service) List(context context.Context, filter Filter) ([]Video, int64, error) {
	videos, total, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, err
	}

	pointers := make([]*Video, len(videos))
	for i := range videos {
		pointers[i] = &videos[i]
	}
	if err := service.repo.Populate(context, pointers...); err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// Stats returns the admin statistics block.
func (service *Service) Stats(context context.Context) (*mongodb.Stats, error) {
	return service.repo.Stats(context)
}

/*
Get fetches one populated video by id or slug.

Description: Private videos are reported as missing unless includePrivate
is set, so their existence is not revealed to the public.

Returns:
  - *Video
  - error: NOT_FOUND
*/
func (service *Service) Get(context context.Context, identifier string, includePrivate bool) (*Video, error) {
	video, err := service.repo.FindByIdentifier(context, identifier)
	if err != nil {
		return nil, err
	}
	if !video.IsPublic && !includePrivate {
		return nil, apperr.NotFound("Video")
	}
	if err := service.repo.Populate(context, video); err != nil {
		return nil, err
	}
	return video, nil
}

// # Management

/*
Create validates and persists a new video, then credits its idol and genres.

Description: Title and videoUrl are required and the idol must exist. The
slug is derived from the title. Counter increments run after the insert has
committed; a failed increment is logged and left for the reconciler.

Parameters:
  - context: context.Context
  - input: Input

Returns:
  - *Video: The stored, populated video
  - error: VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Create(context context.Context, input Input) (*Video, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	video := Video{IsPublic: true}
	input.apply(&video)

	if video.Slug = slug.From(video.Title); video.Slug == "" {
		return nil, slugError()
	}
	if err := service.requireParents(context, &video); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, &video); err != nil {
		return nil, err
	}

	ledger := &integrity.Ledger{}
	ledger.Link(integrity.IdolVideos, video.IdolID)
	ledger.Link(integrity.GenreVideos, video.GenreIDs...)
	service.integrity.Apply(context, ledger)

	ctxutil.GetLogger(context).Info("video_created",
		slog.String("video_id", video.ID.Hex()),
		slog.String("slug", video.Slug),
	)

	if err := service.repo.Populate(context, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

/*
Update applies a partial replace to an existing video.

Description: The slug is regenerated only when the title changes. Counter
effects are computed from the atomic pre-image returned by the write: a
changed idol moves one unit from the old idol to the new one, and only the
genres that were actually added or removed are adjusted.

Parameters:
  - context: context.Context
  - id: primitive.ObjectID
  - input: Input

Returns:
  - *Video: The updated, populated video
  - error: NOT_FOUND, VALIDATION_ERROR, DUPLICATE_SLUG
*/
func (service *Service) Update(context context.Context, id primitive.ObjectID, input Input) (*Video, error) {
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

	// Re-apply onto the pre-image so concurrent edits to other fields are
	// reflected in the diff.
	final := *previous
	input.apply(&final)

	ledger := &integrity.Ledger{}
	ledger.Move(integrity.IdolVideos, &previous.IdolID, &final.IdolID)
	ledger.Retarget(integrity.GenreVideos, previous.GenreIDs, final.GenreIDs)
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
Delete removes a batch of videos.

Description: Media objects are handed to the asset cleaner before the
documents are removed; cleanup never aborts the delete. Each document is
removed individually and only the videos this call actually deleted are
debited, aggregated to one update per idol and genre.

Parameters:
  - context: context.Context
  - ids: []primitive.ObjectID

Returns:
  - int64: Number of videos deleted
  - error: Repository failures
*/
func (service *Service) Delete(context context.Context, ids []primitive.ObjectID) (int64, error) {
	videos, err := service.repo.FindByIDs(context, ids)
	if err != nil {
		return 0, err
	}
	if len(videos) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(videos)*2)
	for i := range videos {
		keys = append(keys, videos[i].MediaKeys()...)
	}
	service.assets.Cleanup(context, keys)

	ledger := &integrity.Ledger{}
	var deleted int64
	for i := range videos {
		removed, err := service.repo.Delete(context, videos[i].ID)
		if err != nil {
			service.integrity.Apply(context, ledger)
			return deleted, err
		}
		if removed == nil {
			continue
		}
		deleted++
		ledger.Unlink(integrity.IdolVideos, removed.IdolID)
		ledger.Unlink(integrity.GenreVideos, removed.GenreIDs...)
	}
	service.integrity.Apply(context, ledger)

	ctxutil.GetLogger(context).Info("videos_deleted",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", deleted),
	)
	return deleted, nil
}

// # Helpers

func (service *Service) requireParents(context context.Context, video *Video) error {
	if err := service.integrity.RequireParents(context, FieldIdol, constants.CollectionIdols, video.IdolID); err != nil {
		return err
	}
	return service.integrity.RequireParents(context, FieldGenres, constants.CollectionGenres, video.GenreIDs...)
}

func slugError() error {
	return apperr.ValidationError("Title does not produce a valid slug", apperr.FieldError{
		Field:   FieldTitle,
		Message: "Must contain at least one letter or digit",
	})
}
