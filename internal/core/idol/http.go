// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package idol

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/idolbase/internal/platform/middleware"
	requestutil "github.com/taibuivan/idolbase/internal/platform/request"
	"github.com/taibuivan/idolbase/internal/platform/respond"
	"github.com/taibuivan/idolbase/pkg/pagination"
)

// Handler implements the HTTP layer for idols.
type Handler struct {
	service *Service
}

// NewHandler constructs a new idol [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the idol endpoints.
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
GET /api/idols.

Request:
  - page, limit, search, sortBy, sortOrder, tags, admin
  - genre: ObjectID
  - status: active | retired | hiatus
  - nationality, agency: string
  - isFeatured: bool

Response:
  - 200: []Idol with pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request)

	genre, err := requestutil.ObjectID(request, "genre")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values := request.URL.Query()
	idols, total, err := handler.service.List(request.Context(), Filter{
		Genre:       genre,
		Status:      Status(values.Get(FieldStatus)),
		Nationality: values.Get(FieldNationality),
		Agency:      values.Get(FieldAgency),
		Tags:        params.Tags,
		IsFeatured:  requestutil.Bool(request, FieldIsFeatured),
		Search:      params.Search,
		SortBy:      params.SortBy,
		SortOrder:   params.SortOrder,
		Skip:        params.Page.Skip(),
		Limit:       int64(params.Page.Limit),
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

	respond.Paginated(writer, idols, pagination.NewMeta(params.Page, total), stats)
}

// GET /api/idols/{identifier}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	idol, err := handler.service.Get(request.Context(), requestutil.Param(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, idol)
}

// POST /api/idols.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	idol, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, idol)
}

// PUT /api/idols?id=.
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

	idol, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, idol)
}

/*
DELETE /api/idols?ids=a,b,c.

Response:
  - 200: deletedCount
  - 409: An idol still owns videos
*/
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
