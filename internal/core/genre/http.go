// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/idolbase/internal/platform/middleware"
	requestutil "github.com/taibuivan/idolbase/internal/platform/request"
	"github.com/taibuivan/idolbase/internal/platform/respond"
	"github.com/taibuivan/idolbase/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for genres.
type Handler struct {
	service *Service
}

// NewHandler constructs a new genre [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the genre endpoints. Mutations require an admin session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{identifier}", handler.get)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)

		admin.Post("/", handler.create)
		admin.Put("/", handler.update)
		admin.Delete("/", handler.delete)
	})

	return router
}

/*
GET /api/genres.

Request:
  - page, limit, search, sortBy, sortOrder
  - parent: ObjectID (direct children of one genre)
  - root: bool (only genres without a parent; ignored when parent is set)
  - isActive: bool
  - admin: bool (admin sessions only; adds stats)

Response:
  - 200: []Genre with pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request)

	parent, err := requestutil.ObjectID(request, "parent")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	root := requestutil.Bool(request, "root")
	filter := Filter{
		Parent:    parent,
		RootOnly:  root != nil && *root,
		IsActive:  requestutil.Bool(request, FieldIsActive),
		Search:    params.Search,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Skip:      params.Page.Skip(),
		Limit:     int64(params.Page.Limit),
	}

	genres, total, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var stats any
	if params.Admin {
		if stats, err = handler.service.Stats(request.Context()); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, total), stats)
}

// GET /api/genres/{identifier}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	genre, err := handler.service.Get(request.Context(), requestutil.Param(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

/*
POST /api/genres.

Request:
  - Body: Input (name required)

Response:
  - 201: Genre
  - 400: VALIDATION_ERROR (unknown parentGenre)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, genre)
}

/*
PUT /api/genres?id=.

Response:
  - 200: Genre
  - 400: INVALID_PARENT (self or descendant as parent)
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.QueryID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

// DELETE /api/genres?ids=a,b,c.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.QueryIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.service.Delete(request.Context(), ids)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Deleted(writer, deleted)
}
