// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/ctxutil"
	"github.com/taibuivan/idolbase/internal/platform/sec"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/pagination"
	"github.com/taibuivan/idolbase/pkg/query"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.
Unknown fields (including client-sent counters) are ignored.

Parameters:
  - writer: http.ResponseWriter (needed to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxJSONBody)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge(tooLarge.Limit)
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryID parses the required ?id= parameter of update endpoints.

Returns:
  - primitive.ObjectID
  - error: VALIDATION_ERROR if missing or malformed
*/
func QueryID(request *http.Request) (primitive.ObjectID, error) {
	raw := strings.TrimSpace(request.URL.Query().Get("id"))
	if raw == "" {
		return primitive.NilObjectID, validate.RequiredError("id", "Query parameter id is required")
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, validate.RequiredError("id", "Must be a valid id")
	}
	return id, nil
}

/*
QueryIDs parses the ?ids=a,b,c parameter of batch delete endpoints, falling
back to a single ?id=.

Returns:
  - []primitive.ObjectID: De-duplicated ids in request order
  - error: VALIDATION_ERROR if none given or any is malformed
*/
func QueryIDs(request *http.Request) ([]primitive.ObjectID, error) {
	raw := query.StringSlice(request.URL.Query().Get("ids"))
	if len(raw) == 0 {
		raw = query.StringSlice(request.URL.Query().Get("id"))
	}
	if len(raw) == 0 {
		return nil, validate.RequiredError("ids", "Query parameter ids is required")
	}

	seen := make(map[primitive.ObjectID]struct{}, len(raw))
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, validate.RequiredError("ids", "Contains an invalid id: "+strconv.Quote(value))
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// # List Parameters

// ListParams holds the query parameters shared by every list endpoint.
type ListParams struct {
	Page      pagination.Params
	Search    string
	SortBy    string
	SortOrder string
	Tags      []string

	// Admin is true only when ?admin=true was sent by an admin session.
	Admin bool
}

/*
List parses the shared list parameters. Requesting admin=true without an admin
session silently falls back to the public view.
*/
func List(request *http.Request) ListParams {
	values := request.URL.Query()
	return ListParams{
		Page:      pagination.FromRequest(request),
		Search:    strings.TrimSpace(values.Get("search")),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
		Tags:      query.StringSlice(values.Get("tags")),
		Admin:     values.Get("admin") == "true" && ctxutil.IsAdmin(request.Context()),
	}
}

/*
Bool parses an optional boolean filter (?isFeatured=true). Absent or
malformed values yield nil.
*/
func Bool(request *http.Request, name string) *bool {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

/*
ObjectID parses an optional id filter (?idol=...). An absent value yields
nil; a malformed one is a validation error.
*/
func ObjectID(request *http.Request, name string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, validate.RequiredError(name, "Must be a valid id")
	}
	return &id, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
IsAdmin reports whether the request carries an admin session.
*/
func IsAdmin(request *http.Request) bool {
	return ctxutil.IsAdmin(request.Context())
}
