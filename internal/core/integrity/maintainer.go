// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/ctxutil"
)

// ErrParentMissing is returned by [Store.Adjust] when the parent was deleted
// between the child write and the counter update.
var ErrParentMissing = errors.New("integrity: parent document missing")

// # Maintainer

// Maintainer applies counter ledgers and enforces reference existence.
type Maintainer struct {
	store  Store
	logger *slog.Logger
}

// NewMaintainer constructs a [Maintainer].
func NewMaintainer(store Store, logger *slog.Logger) *Maintainer {
	return &Maintainer{store: store, logger: logger}
}

/*
Apply issues one atomic update per parent document in the ledger.

Description: Runs after the primary write has committed. Failures are
logged and counted but never returned: the child mutation already
succeeded and the reconciler repairs any resulting drift.

Parameters:
  - context: context.Context
  - ledger: *Ledger (Aggregated deltas)

Returns:
  - int: Number of parent updates that failed
*/
func (maintainer *Maintainer) Apply(context context.Context, ledger *Ledger) int {
	if ledger == nil {
		return 0
	}

	logger := maintainer.requestLogger(context)
	failed := 0

	for _, entry := range ledger.Entries() {
		err := maintainer.store.Adjust(context, entry.Collection, entry.ID, entry.Deltas)
		if err == nil {
			continue
		}

		failed++
		level := slog.LevelError
		if errors.Is(err, ErrParentMissing) {
			level = slog.LevelWarn
		}
		logger.Log(context, level, "counter_adjust_failed",
			slog.String("collection", entry.Collection),
			slog.String("id", entry.ID.Hex()),
			slog.Any("deltas", entry.Deltas),
			slog.Any("error", err),
		)
	}

	return failed
}

/*
RequireParents verifies that every id references an existing document.

Returns:
  - error: VALIDATION_ERROR on field listing the missing ids
*/
func (maintainer *Maintainer) RequireParents(context context.Context, field, collection string, ids ...primitive.ObjectID) error {
	ids = uniqueOrdered(ids)
	if len(ids) == 0 {
		return nil
	}

	missing, err := maintainer.store.MissingIDs(context, collection, ids)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	hexes := make([]string, 0, len(missing))
	for _, id := range missing {
		hexes = append(hexes, id.Hex())
	}
	return apperr.ValidationError("Referenced document does not exist", apperr.FieldError{
		Field:   field,
		Message: "Unknown id: " + strings.Join(hexes, ", "),
	})
}

/*
GuardDelete refuses to delete parents that are still referenced through a
required relation (a video cannot lose its idol).

Returns:
  - error: CONFLICT naming the blocking relation
*/
func (maintainer *Maintainer) GuardDelete(context context.Context, collection string, ids []primitive.ObjectID) error {
	for _, relation := range ParentRelations(collection) {
		if !relation.Required {
			continue
		}
		count, err := maintainer.store.CountReferencing(context, relation, ids)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict(fmt.Sprintf("Still referenced by %d %s; reassign or delete them first", count, relation.Child))
		}
	}
	return nil
}

/*
ReportDangling re-counts required references after parents were deleted.
A child created between GuardDelete and the delete is left pointing at a
missing parent; it is logged so an operator can reassign it.

Returns:
  - int64: Number of children still referencing the deleted parents
*/
func (maintainer *Maintainer) ReportDangling(context context.Context, collection string, ids []primitive.ObjectID) int64 {
	if len(ids) == 0 {
		return 0
	}

	logger := maintainer.requestLogger(context)
	var total int64
	for _, relation := range ParentRelations(collection) {
		if !relation.Required {
			continue
		}
		count, err := maintainer.store.CountReferencing(context, relation, ids)
		if err != nil {
			logger.Warn("dangling_check_failed",
				slog.String("relation", relation.Name),
				slog.Any("error", err),
			)
			continue
		}
		if count > 0 {
			logger.Error("dangling_required_reference",
				slog.String("relation", relation.Name),
				slog.Int("parents", len(ids)),
				slog.Int64("children", count),
			)
			total += count
		}
	}
	return total
}

/*
DetachChildren clears references to deleted parents on every optional
relation. Failures are logged; the parents are already gone.
*/
func (maintainer *Maintainer) DetachChildren(context context.Context, collection string, ids []primitive.ObjectID) {
	if len(ids) == 0 {
		return
	}

	logger := maintainer.requestLogger(context)
	for _, relation := range ParentRelations(collection) {
		if relation.Required {
			continue
		}
		modified, err := maintainer.store.Detach(context, relation, ids)
		if err != nil {
			logger.Error("reference_detach_failed",
				slog.String("relation", relation.Name),
				slog.Int("parents", len(ids)),
				slog.Any("error", err),
			)
			continue
		}
		if modified > 0 {
			logger.Info("references_detached",
				slog.String("relation", relation.Name),
				slog.Int64("children", modified),
			)
		}
	}
}

// requestLogger prefers the per-request logger so failures carry request_id.
func (maintainer *Maintainer) requestLogger(context context.Context) *slog.Logger {
	if logger := ctxutil.GetLogger(context); logger != slog.Default() {
		return logger
	}
	return maintainer.logger
}
