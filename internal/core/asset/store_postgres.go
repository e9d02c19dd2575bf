// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/idolbase/internal/platform/dberr"
)

// PostgresQueue implements [Queue] on media.assetcleanup.
type PostgresQueue struct {
	db *pgxpool.Pool
}

// NewPostgresQueue constructs a PostgreSQL backed cleanup queue.
func NewPostgresQueue(db *pgxpool.Pool) *PostgresQueue {
	return &PostgresQueue{db: db}
}

func (queue *PostgresQueue) Enqueue(context context.Context, keys []string, reason string) error {
	if len(keys) == 0 {
		return nil
	}

	const query = `
		INSERT INTO media.assetcleanup (objectkey, lasterror)
		SELECT key, $2 FROM unnest($1::text[]) AS key
		ON CONFLICT (objectkey) DO UPDATE SET
			lasterror     = EXCLUDED.lasterror,
			nextattemptat = now(),
			deadat        = NULL,
			updatedat     = now()
	`
	_, err := queue.db.Exec(context, query, keys, reason)
	return dberr.Wrap(err, "enqueue_asset_cleanup")
}

/*
Claim leases due jobs with FOR UPDATE SKIP LOCKED.

Description: The lease is written in the same statement that selects the
rows, so two janitors never receive the same key.
*/
func (queue *PostgresQueue) Claim(context context.Context, limit int, lease time.Duration) ([]Job, error) {
	const query = `
		UPDATE media.assetcleanup
		SET nextattemptat = now() + make_interval(secs => $2), updatedat = now()
		WHERE id IN (
			SELECT id FROM media.assetcleanup
			WHERE deadat IS NULL AND nextattemptat <= now()
			ORDER BY nextattemptat
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, objectkey, attempts, lasterror, nextattemptat
	`
	rows, err := queue.db.Query(context, query, limit, lease.Seconds())
	if err != nil {
		return nil, dberr.Wrap(err, "claim_asset_cleanup")
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		if err := rows.Scan(&job.ID, &job.Key, &job.Attempts, &job.LastError, &job.NextAttemptAt); err != nil {
			return nil, dberr.Wrap(err, "scan_asset_cleanup")
		}
		jobs = append(jobs, job)
	}
	return jobs, dberr.Wrap(rows.Err(), "claim_asset_cleanup")
}

func (queue *PostgresQueue) Complete(context context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := queue.db.Exec(context, `DELETE FROM media.assetcleanup WHERE id = ANY($1)`, ids)
	return dberr.Wrap(err, "complete_asset_cleanup")
}

func (queue *PostgresQueue) Reschedule(context context.Context, id int64, reason string, next time.Time, dead bool) error {
	const query = `
		UPDATE media.assetcleanup
		SET attempts      = attempts + 1,
			lasterror     = $2,
			nextattemptat = $3,
			deadat        = CASE WHEN $4 THEN now() ELSE NULL END,
			updatedat     = now()
		WHERE id = $1
	`
	_, err := queue.db.Exec(context, query, id, reason, next, dead)
	return dberr.Wrap(err, "reschedule_asset_cleanup")
}

func (queue *PostgresQueue) Pending(context context.Context) (int64, error) {
	var count int64
	err := queue.db.QueryRow(context, `SELECT count(*) FROM media.assetcleanup WHERE deadat IS NULL`).Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "count_asset_cleanup")
	}
	return count, nil
}

var _ Queue = (*PostgresQueue)(nil)
