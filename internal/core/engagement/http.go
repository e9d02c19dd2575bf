// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/middleware"
	requestutil "github.com/taibuivan/idolbase/internal/platform/request"
	"github.com/taibuivan/idolbase/internal/platform/respond"
)

// Handler implements the view endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a new engagement [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the view endpoints. They are public.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/{entity}/{id}", handler.view)
	return router
}

/*
POST /api/views/{entity}/{id}.

Response:
  - 200: View {counted}
  - 400: VALIDATION_ERROR for a malformed id
  - 404: Unknown entity or document
*/
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {
	id, err := primitive.ObjectIDFromHex(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid id", apperr.FieldError{
			Field: "id", Message: "Must be a valid id",
		}))
		return
	}

	view, err := handler.service.RecordView(request.Context(),
		requestutil.Param(request, "entity"), id,
		middleware.RealIP(request), request.UserAgent(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}
