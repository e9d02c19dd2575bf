// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

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

// Service orchestrates the genre taxonomy and its tree edges.
type Service struct {
	repo      Repository
	integrity *integrity.Maintainer
	logger    *slog.Logger
}

// NewService constructs a new genre [Service].
func NewService(repo Repository, maintainer *integrity.Maintainer, logger *slog.Logger) *Service {
	return &Service{repo: repo, integrity: maintainer, logger: logger}
}

// # Lookups

// List returns one populated page of genres.
func (service *Service) List(context context.Context, filter Filter) ([]Genre, int64, error) {
	genres, total, err := service.repo.List(context, filter)
	if err != nil {
		return nil, 0, err
	}

	pointers := make([]*Genre, len(genres))
	for i := range genres {
		pointers[i] = &genres[i]
	}
	if err := service.repo.Populate(context, pointers...); err != nil {
		return nil, 0, err
	}
	return genres, total, nil
}

// Stats returns the admin statistics block.
func (service *Service) Stats(context context.Context) (*mongodb.Stats, error) {
	return service.repo.Stats(context)
}

// Get fetches one populated genre by id or slug.
func (service *Service) Get(context context.Context, identifier string) (*Genre, error) {
	genre, err := service.repo.FindByIdentifier(context, identifier)
	if err != nil {
		return nil, err
	}
	if err := service.repo.Populate(context, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

// # Management

/*
Create validates and persists a new genre and links it under its parent.

Returns:
  - *Genre
  - error: VALIDATION_ERROR (including a missing parent), DUPLICATE_SLUG
*/
func (service *Service) Create(context context.Context, input Input) (*Genre, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	genre := Genre{IsActive: true}
	input.apply(&genre)

	if genre.Slug = slug.From(genre.Name); genre.Slug == "" {
		return nil, slugError()
	}
	if err := service.integrity.RequireParents(context, FieldParentGenre, constants.CollectionGenres, mongodb.Present(genre.ParentID)...); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, &genre); err != nil {
		return nil, err
	}
	service.syncParentEdge(context, genre.ID, nil, genre.ParentID)

	ctxutil.GetLogger(context).Info("genre_created",
		slog.String("genre_id", genre.ID.Hex()),
		slog.String("slug", genre.Slug),
	)

	return service.reload(context, genre.ID)
}

/*
Update applies a partial replace to an existing genre.

Description: Reparenting is refused with INVALID_PARENT when the new parent
is the genre itself or one of its descendants. When the parent changes, the
genre is moved from the old parent's subGenres to the new one's.

Returns:
  - *Genre
  - error: NOT_FOUND, VALIDATION_ERROR, INVALID_PARENT, DUPLICATE_SLUG
*/
func (service *Service) Update(context context.Context, id primitive.ObjectID, input Input) (*Genre, error) {
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
	if next.ParentID != nil {
		if err := service.integrity.RequireParents(context, FieldParentGenre, constants.CollectionGenres, *next.ParentID); err != nil {
			return nil, err
		}
		if err := service.checkAncestry(context, id, *next.ParentID); err != nil {
			return nil, err
		}
	}

	previous, err := service.repo.Update(context, &next, fields)
	if err != nil {
		return nil, err
	}

	final := *previous
	input.apply(&final)
	service.syncParentEdge(context, id, previous.ParentID, final.ParentID)

	return service.reload(context, id)
}

/*
Delete removes a batch of genres.

Description: Each deleted genre is pulled from its parent's subGenres and its
children become roots. Videos and idols have the genre pulled from their
genres arrays and galleries have it unset.

Returns:
  - int64: Number of genres deleted
  - error: Repository failures
*/
func (service *Service) Delete(context context.Context, ids []primitive.ObjectID) (int64, error) {
	genres, err := service.repo.FindByIDs(context, ids)
	if err != nil {
		return 0, err
	}
	if len(genres) == 0 {
		return 0, nil
	}

	removedIDs := make([]primitive.ObjectID, 0, len(genres))
	for i := range genres {
		removed, err := service.repo.Delete(context, genres[i].ID)
		if err != nil {
			service.finishDelete(context, removedIDs)
			return int64(len(removedIDs)), err
		}
		if removed == nil {
			continue
		}
		removedIDs = append(removedIDs, removed.ID)
		service.syncParentEdge(context, removed.ID, removed.ParentID, nil)
	}
	service.finishDelete(context, removedIDs)

	ctxutil.GetLogger(context).Info("genres_deleted",
		slog.Int("requested", len(ids)),
		slog.Int("deleted", len(removedIDs)),
	)
	return int64(len(removedIDs)), nil
}

// # Tree Maintenance

/*
syncParentEdge moves child between parents' subGenres arrays.

Description: This is the only place subGenres is written outside of a
rebuild. A nil previous or next means the child was or becomes a root.
Failures are logged; the reconciler rebuilds subGenres from parentGenre.
*/
func (service *Service) syncParentEdge(context context.Context, child primitive.ObjectID, previous, next *primitive.ObjectID) {
	if previous != nil && next != nil && *previous == *next {
		return
	}

	logger := ctxutil.GetLogger(context)
	if previous != nil {
		if err := service.repo.RemoveSubGenre(context, *previous, child); err != nil {
			logger.Error("genre_edge_remove_failed",
				slog.String("parent", previous.Hex()),
				slog.String("child", child.Hex()),
				slog.Any("error", err),
			)
		}
	}
	if next != nil {
		if err := service.repo.AddSubGenre(context, *next, child); err != nil {
			logger.Error("genre_edge_add_failed",
				slog.String("parent", next.Hex()),
				slog.String("child", child.Hex()),
				slog.Any("error", err),
			)
		}
	}
}

/*
checkAncestry walks up from parent and fails if it reaches id.

Returns:
  - error: INVALID_PARENT on self-parenting, a cycle, or a chain deeper than
    maxAncestorDepth
*/
func (service *Service) checkAncestry(context context.Context, id, parent primitive.ObjectID) error {
	if parent == id {
		return apperr.InvalidParent("A genre cannot be its own parent")
	}

	cursor := parent
	for range maxAncestorDepth {
		ancestor, err := service.repo.ParentOf(context, cursor)
		if err != nil {
			if apperr.HasCode(err, apperr.CodeNotFound) {
				return nil
			}
			return err
		}
		if ancestor == nil {
			return nil
		}
		if *ancestor == id {
			return apperr.InvalidParent("A genre cannot be moved under one of its descendants")
		}
		cursor = *ancestor
	}
	return apperr.InvalidParent("Genre hierarchy is too deep")
}

func (service *Service) finishDelete(context context.Context, removed []primitive.ObjectID) {
	if len(removed) == 0 {
		return
	}

	orphaned, err := service.repo.OrphanChildren(context, removed)
	if err != nil {
		ctxutil.GetLogger(context).Error("genre_orphan_failed", slog.Any("error", err))
	} else if orphaned > 0 {
		ctxutil.GetLogger(context).Info("genres_orphaned", slog.Int64("count", orphaned))
	}
	service.integrity.DetachChildren(context, constants.CollectionGenres, removed)
}

func (service *Service) reload(context context.Context, id primitive.ObjectID) (*Genre, error) {
	genre, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if err := service.repo.Populate(context, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func slugError() error {
	return apperr.ValidationError("Name does not produce a valid slug", apperr.FieldError{
		Field:   FieldName,
		Message: "Must contain at least one letter or digit",
	})
}
