// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package asset uploads media blobs and removes them when their owner is deleted.

Core Responsibility:

  - Upload: stores a multipart file in object storage under a generated key
    and returns its public URL together with the key.
  - Cleanup: deletes the blobs of removed documents. Deletion is attempted
    inline; keys the backend refuses are queued in PostgreSQL and never fail
    the request that removed their owner.
  - Drain: retries queued keys with exponential backoff until they succeed or
    exhaust their attempts.
*/
package asset

import (
	"time"
)

// # Field Identifiers

const (
	FieldFile   = "file"
	FieldFolder = "folder"
)

// Folders are the accepted upload prefixes. Uploads without a folder land
// in [DefaultFolder].
var Folders = []string{"idols", "genres", "galleries", "photos", "videos", "thumbnails", DefaultFolder}

// DefaultFolder receives uploads that name no folder.
const DefaultFolder = "misc"

// # Retry Policy

const (
	// maxAttempts is how many drain attempts a key gets before it is marked dead.
	maxAttempts = 10
	baseBackoff = time.Minute
	maxBackoff  = 24 * time.Hour

	// claimLease hides claimed jobs from concurrent drains while in flight.
	claimLease = 5 * time.Minute
)

// # Domain Entity

// Asset is an uploaded blob.
type Asset struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
}

// Job is one queued cleanup key.
type Job struct {
	ID            int64
	Key           string
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
}

// DrainReport summarizes one [Service.Drain] run.
type DrainReport struct {
	Claimed int `json:"claimed"`
	Deleted int `json:"deleted"`
	Retried int `json:"retried"`
	Dead    int `json:"dead"`
}

// backoff returns the delay before attempt number attempts+1.
func backoff(attempts int) time.Duration {
	if attempts < 1 {
		return baseBackoff
	}
	delay := baseBackoff
	for range attempts - 1 {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
