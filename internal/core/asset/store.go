// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"time"
)

// # Cleanup Queue

// Queue persists blob keys whose deletion must be retried.
type Queue interface {
	// Enqueue adds keys, resetting the schedule of keys already queued.
	Enqueue(context context.Context, keys []string, reason string) error

	/*
		Claim leases up to limit due jobs.

		Description: Claimed jobs are pushed lease into the future so
		concurrent drains skip them. Rows locked by another drain are skipped.
	*/
	Claim(context context.Context, limit int, lease time.Duration) ([]Job, error)

	// Complete removes jobs whose keys were deleted.
	Complete(context context.Context, ids []int64) error

	// Reschedule records a failed attempt; dead jobs are kept but never claimed again.
	Reschedule(context context.Context, id int64, reason string, next time.Time, dead bool) error

	// Pending counts live jobs.
	Pending(context context.Context) (int64, error)
}
