// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package engagement counts content views.

A view increments viewCount at most once per viewer and document within the
dedupe window. Viewers are fingerprinted from their client address and user
agent; the fingerprint is kept in Redis with a TTL and never persisted.
*/
package engagement

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/taibuivan/idolbase/internal/platform/constants"
)

// FieldViewCount is the counter incremented on every counted view.
const FieldViewCount = "viewCount"

// Targets maps the public entity path segment to its collection. Genres carry
// no view counter.
var Targets = map[string]string{
	constants.CollectionIdols:     constants.CollectionIdols,
	constants.CollectionGalleries: constants.CollectionGalleries,
	constants.CollectionPhotos:    constants.CollectionPhotos,
	constants.CollectionVideos:    constants.CollectionVideos,
}

// View is the result of recording one view.
type View struct {
	Counted bool `json:"counted"`
}

// fingerprint reduces a viewer to a short stable token.
func fingerprint(address, userAgent string) string {
	return strconv.FormatUint(xxhash.Sum64String(address+"|"+userAgent), 36)
}

// dedupeKey is the Redis key marking that viewer saw one document.
func dedupeKey(collection, id, viewer string) string {
	return constants.RedisPrefixViewSeen + collection + ":" + id + ":" + viewer
}
