// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
)

// pgUniqueViolation is the SQLSTATE raised on unique constraint failures.
const pgUniqueViolation = "23505"

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// resource names the entity in client-facing messages ("Idol", "Gallery").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	// 2. Unique index violations
	if mongo.IsDuplicateKeyError(err) {
		if isSlugKey(err) {
			return apperr.DuplicateSlug(strings.ToLower(resource)).WithCause(err)
		}
		return apperr.DuplicateKey(resource + " violates a unique constraint").WithCause(err)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgUniqueViolation {
		return apperr.DuplicateKey(resource + " violates a unique constraint").WithCause(err)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// isSlugKey reports whether a duplicate-key error was raised by a slug index.
// The server message embeds the index name, e.g. "index: slug_1 dup key".
func isSlugKey(err error) bool {
	var writeException mongo.WriteException
	if errors.As(err, &writeException) {
		for _, writeError := range writeException.WriteErrors {
			if strings.Contains(writeError.Message, "slug") {
				return true
			}
		}
	}

	var commandError mongo.CommandError
	if errors.As(err, &commandError) && strings.Contains(commandError.Message, "slug") {
		return true
	}

	return strings.Contains(err.Error(), "slug")
}
