// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
)

func duplicateKey(index string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: idolbase.idols index: " + index + " dup key",
	}}}
}

func TestWrap(t *testing.T) {
	existing := apperr.InvalidParent("loop")

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "Mongo no documents", err: mongo.ErrNoDocuments, code: apperr.CodeNotFound, status: http.StatusNotFound},
		{name: "Postgres no rows", err: pgx.ErrNoRows, code: apperr.CodeNotFound, status: http.StatusNotFound},
		{name: "Slug index", err: duplicateKey("slug_unique"), code: apperr.CodeDuplicateSlug, status: http.StatusConflict},
		{name: "Other unique index", err: duplicateKey("email_unique"), code: apperr.CodeDuplicateKey, status: http.StatusConflict},
		{name: "Postgres unique violation", err: &pgconn.PgError{Code: "23505"}, code: apperr.CodeDuplicateKey, status: http.StatusConflict},
		{name: "Anything else", err: errors.New("socket closed"), code: apperr.CodeInternal, status: http.StatusInternalServerError},
		{name: "Already classified", err: existing, code: apperr.CodeInvalidParent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, "Idol")

			appErr := apperr.As(wrapped)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			if tt.status != 0 {
				assert.Equal(t, tt.status, appErr.HTTPStatus)
				assert.NotNil(t, appErr.Cause, "the driver error is kept for logs")
			}
		})
	}

	assert.NoError(t, Wrap(nil, "Idol"))
	assert.Same(t, existing, Wrap(existing, "Idol"))
}
