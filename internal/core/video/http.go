// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/idolbase/internal/platform/middleware"
	requestutil "github.com/taibuivan/idolbase/internal/platform/request"
	"github.com/taibuivan/idolbase/internal/platform/respond"
	"github.com/taibuivan/idolbase/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for videos.
type Handler struct {
	service *Service
}

// NewHandler constructs a new video [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the video endpoints. Mutations require an admin session.
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
GET /api/videos.

Description: Paginated video listing. Non-admin callers only see public videos.

Request:
  - page, limit: int
  - search: string (title, description, tags)
  - idol, genre: ObjectID
  - category: string
  - tags: []string (comma separated, any match)
  - isFeatured, isTrending, isAdult: bool
  - sortBy: string (createdAt, updatedAt, publishedAt, title, viewCount, likeCount, duration)
  - sortOrder: asc | desc
  - admin: bool (admin sessions only; includes private videos and stats)

Response:
  - 200: []Video with pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := requestutil.List(request)

	idol, err := requestutil.ObjectID(request, FieldIdol)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	genre, err := requestutil.ObjectID(request, "genre")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Idol:           idol,
		Genre:          genre,
		Category:       request.URL.Query().Get(FieldCategory),
		Tags:           params.Tags,
		IsFeatured:     requestutil.Bool(request, FieldIsFeatured),
		IsTrending:     requestutil.Bool(request, FieldIsTrending),
		IsAdult:        requestutil.Bool(request, FieldIsAdult),
		Search:         params.Search,
		SortBy:         params.SortBy,
		SortOrder:      params.SortOrder,
		Skip:           params.Page.Skip(),
		Limit:          int64(params.Page.Limit),
		IncludePrivate: params.Admin,
	}

	videos, total, err := handler.service.List(request.Context(), filter)
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

	respond.Paginated(writer, videos, pagination.NewMeta(params.Page, total), stats)
}

/*
GET /api/videos/{identifier}.

Request:
  - identifier: string (ObjectID or slug)

Response:
  - 200: Video
  - 404: Not found or private
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	video, err := handler.service.Get(request.Context(), requestutil.Param(request, "identifier"), requestutil.IsAdmin(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video)
}

/*
POST /api/videos.

Request:
  - Body: Input (title, videoUrl and idol required)

Response:
  - 201: Video
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, video)
}

/*
PUT /api/videos?id=.

Request:
  - id: ObjectID
  - Body: Input (only present fields change)

Response:
  - 200: Video
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

	video, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video)
}

/*
DELETE /api/videos?ids=a,b,c.

Response:
  - 200: deletedCount
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
