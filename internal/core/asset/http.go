// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/h2non/filetype"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/middleware"
	"github.com/taibuivan/idolbase/internal/platform/respond"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// # Handler Implementation

// Handler implements the upload endpoint.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler constructs a new asset [Handler] accepting bodies up to maxBytes.
func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes returns the upload endpoints. Every route requires an admin session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAdmin)

	router.Post("/", handler.upload)

	return router
}

/*
POST /api/uploads.

Request:
  - multipart/form-data
  - file: binary (image/* or video/*)
  - folder: string (optional; idols, genres, galleries, photos, videos, thumbnails, misc)

Response:
  - 201: Asset {url, key}
  - 400: VALIDATION_ERROR
  - 413: PAYLOAD_TOO_LARGE
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxBytes)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.PayloadTooLarge(handler.maxBytes))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Expected a multipart form", apperr.FieldError{
			Field: FieldFile, Message: "This field is required",
		}))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("No file uploaded", apperr.FieldError{
			Field: FieldFile, Message: "This field is required",
		}))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = sniff(file)
	}

	asset, err := handler.service.Upload(request.Context(), UploadInput{
		Folder:      request.FormValue(FieldFolder),
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, asset)
}

// sniffLength covers every magic number filetype matches on.
const sniffLength = 262

// sniff detects the content type from the magic number of file and rewinds it.
// Unrecognized content reports application/octet-stream.
func sniff(file io.ReadSeeker) string {
	buffer := make([]byte, sniffLength)
	n, _ := io.ReadFull(file, buffer)
	_, _ = file.Seek(0, io.SeekStart)

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}
