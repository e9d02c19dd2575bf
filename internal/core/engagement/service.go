// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/ctxutil"
)

// Service records views.
type Service struct {
	counters integrity.Store
	seen     Deduper
	ttl      time.Duration
}

// NewService constructs a new engagement [Service]. Views from one viewer
// count once per ttl.
func NewService(counters integrity.Store, seen Deduper, ttl time.Duration) *Service {
	return &Service{counters: counters, seen: seen, ttl: ttl}
}

/*
RecordView counts a view of one document.

Description: A repeated view inside the dedupe window is accepted but not
counted. When the dedupe store is unreachable the view is counted.

Parameters:
  - entity: idols, galleries, photos or videos
  - id: Document id
  - address, userAgent: Viewer fingerprint sources

Returns:
  - View
  - error: NOT_FOUND for an unknown entity or document
*/
func (service *Service) RecordView(context context.Context, entity string, id primitive.ObjectID, address, userAgent string) (View, error) {
	collection, ok := Targets[entity]
	if !ok {
		return View{}, apperr.NotFound("Resource")
	}

	logger := ctxutil.GetLogger(context)
	key := dedupeKey(collection, id.Hex(), fingerprint(address, userAgent))

	first, err := service.seen.FirstSeen(context, key, service.ttl)
	if err != nil {
		logger.Warn("view_dedupe_unavailable", slog.Any("error", err))
		first = true
	}
	if !first {
		return View{Counted: false}, nil
	}

	err = service.counters.Adjust(context, collection, id, map[string]int64{FieldViewCount: 1})
	if errors.Is(err, integrity.ErrParentMissing) {
		return View{}, apperr.NotFound("Resource")
	}
	if err != nil {
		return View{}, apperr.Internal(err)
	}
	return View{Counted: true}, nil
}
