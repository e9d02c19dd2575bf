// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/idolbase/internal/platform/middleware"
	requestutil "github.com/taibuivan/idolbase/internal/platform/request"
	"github.com/taibuivan/idolbase/internal/platform/respond"
	"github.com/taibuivan/idolbase/pkg/pagination"
)

// Handler implements the HTTP layer for galleries.
type Handler struct {
	service *Service
}

// NewHandler constructs a new gallery [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the gallery endpoints.
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
GET /api/galleries.

Request:
  - page, limit, search, sortBy, sortOrder, tags, admin
  - idol, genre: ObjectID
  - category: string
  - isFeatured, isAdult: bool

Response:
  - 200: []Gallery with pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request)

	idol, err := requestutil.ObjectID(request, FieldIdol)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	genre, err := requestutil.ObjectID(request, FieldGenre)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	galleries, total, err := handler.service.List(request.Context(), Filter{
		Idol:           idol,
		Genre:          genre,
		Category:       request.URL.Query().Get(FieldCategory),
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

	respond.Paginated(writer, galleries, pagination.NewMeta(params.Page, total), stats)
}

// GET /api/galleries/{identifier}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	gallery, err := handler.service.Get(request.Context(), requestutil.Param(request, "identifier"), requestutil.IsAdmin(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, gallery)
}

// POST /api/galleries.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	gallery, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, gallery)
}

// PUT /api/galleries?id=.
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

	gallery, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, gallery)
}

// DELETE /api/galleries?ids=a,b,c.
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
