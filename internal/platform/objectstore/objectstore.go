// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore stores uploaded media blobs.

Backends:

  - S3: any S3-compatible bucket (AWS, Cloudflare R2, MinIO).
  - Memory: process-local map for tests and local runs without a bucket.

Keys are opaque, slash-separated paths. A blob is addressed publicly through
[Store.URL]; the catalogue stores both the URL and the key so the blob can be
removed when its owning document is deleted.
*/
package objectstore

import (
	"context"
	"io"
	"strings"
)

// Store is the blob storage contract used by the asset service.
type Store interface {
	// Put writes body under key.
	Put(context context.Context, key string, body io.Reader, contentType string) error

	/*
		Delete removes keys in bulk.

		Returns:
		  - []string: Keys the backend reported as not deleted
		  - error: Transport failure; every key should be treated as failed
	*/
	Delete(context context.Context, keys []string) ([]string, error)

	// URL returns the public address of key.
	URL(key string) string

	// Ping checks that the backend is reachable.
	Ping(context context.Context) error
}

// joinURL appends key to base with exactly one separating slash.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
