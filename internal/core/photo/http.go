// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/idolbase/internal/platform/middleware"
	requestutil "github.com/taibuivan/idolbase/internal/platform/request"
	"github.com/taibuivan/idolbase/internal/platform/respond"
	"github.com/taibuivan/idolbase/pkg/pagination"
)

// Handler implements the HTTP layer for photos.
type Handler struct {
	service *Service
}

// NewHandler constructs a new photo [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the photo endpoints.
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
GET /api/photos.

Request:
  - page, limit, search, sortBy, sortOrder, tags, admin
  - idol, gallery: ObjectID
  - isFeatured, isAdult: bool

Response:
  - 200: []Photo with pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request)

	idol, err := requestutil.ObjectID(request, FieldIdol)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	gallery, err := requestutil.ObjectID(request, FieldGallery)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photos, total, err := handler.service.List(request.Context(), Filter{
		Idol:           idol,
		Gallery:        gallery,
		Tags:           params.Tags,
		IsFeatured:     requestutil.Bool(request, FieldIsFeatured),
		IsAdult:        requestutil.Bool(request, FieldIsAdult),
		Search:         params.Search,
		SortBy:         params.SortBy,
		SortOrder:      params.SortOrder,
		Skip:           params.Page.Skip(),
		Limit:          int64(params.Page.Limit),
		IncludePrivate: params.Admin,
	})
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

	respond.Paginated(writer, photos, pagination.NewMeta(params.Page, total), stats)
}

// GET /api/photos/{identifier}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	photo, err := handler.service.Get(request.Context(), requestutil.Param(request, "identifier"), requestutil.IsAdmin(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photo)
}

// POST /api/photos.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	photo, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, photo)
}

// PUT /api/photos?id=.
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

	photo, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photo)
}

// DELETE /api/photos?ids=a,b,c.
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
