// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	redisstore "github.com/taibuivan/idolbase/internal/platform/redis"
	"github.com/taibuivan/idolbase/internal/platform/respond"
)

const (
	// RecountLock is shared by the admin endpoint and the janitor command so
	// that only one recount runs at a time.
	RecountLock = "recount"
	// RecountLockTTL bounds how long a crashed recount blocks the next one.
	RecountLockTTL = 30 * time.Minute
)

// JobLocker runs a job under a named cross-process lock, failing with
// [redisstore.ErrLocked] while another holder owns it.
type JobLocker interface {
	Run(ctx context.Context, name string, ttl time.Duration, job func(context.Context) error) error
}

// Handler exposes reconciliation to administrators.
type Handler struct {
	reconciler *Reconciler
	locker     JobLocker
}

// NewHandler constructs a new integrity [Handler].
func NewHandler(reconciler *Reconciler, locker JobLocker) *Handler {
	return &Handler{reconciler: reconciler, locker: locker}
}

// Routes returns the admin maintenance routes. The caller mounts them behind
// the admin guard.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/recount", handler.recount)
	return router
}

/*
POST /api/admin/recount.

Description: Recounts every denormalized counter and rebuilds genre subGenres
while holding the recount lock.

Response:
  - 200: Report
  - 409: CONFLICT when a recount is already running
*/
func (handler *Handler) recount(writer http.ResponseWriter, request *http.Request) {
	var report Report
	err := handler.locker.Run(request.Context(), RecountLock, RecountLockTTL, func(ctx context.Context) error {
		var err error
		report, err = handler.reconciler.Run(ctx)
		return err
	})
	if errors.Is(err, redisstore.ErrLocked) {
		respond.Error(writer, request, apperr.Conflict("A recount is already running"))
		return
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"report": report})
}
