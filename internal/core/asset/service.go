// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/ctxutil"
	"github.com/taibuivan/idolbase/internal/platform/objectstore"
	"github.com/taibuivan/idolbase/internal/platform/validate"
	"github.com/taibuivan/idolbase/pkg/uuid"
)

// # Service Layer

// Service uploads blobs and maintains the cleanup queue.
type Service struct {
	blobs  objectstore.Store
	queue  Queue
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new asset [Service].
func NewService(blobs objectstore.Store, queue Queue, logger *slog.Logger) *Service {
	return &Service{blobs: blobs, queue: queue, logger: logger, now: time.Now}
}

// UploadInput is one file received by the upload endpoint.
type UploadInput struct {
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

/*
Upload stores a media file under "<folder>/<yyyy>/<mm>/<uuid><ext>".

Returns:
  - *Asset: Public URL and storage key
  - error: VALIDATION_ERROR for a bad folder or a non-media content type
*/
func (service *Service) Upload(context context.Context, input UploadInput) (*Asset, error) {
	folder := strings.Trim(strings.ToLower(input.Folder), "/ ")
	if folder == "" {
		folder = DefaultFolder
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldFolder, folder, Folders...)
	validator.Custom(FieldFile, !isMedia(input.ContentType), "Only image and video files are accepted")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	key := objectKey(folder, input.Filename, service.now())
	if err := service.blobs.Put(context, key, input.Body, input.ContentType); err != nil {
		return nil, apperr.Internal(err)
	}

	ctxutil.GetLogger(context).Info("asset_uploaded",
		slog.String("key", key),
		slog.String("content_type", input.ContentType),
		slog.Int64("size", input.Size),
	)

	return &Asset{
		URL:         service.blobs.URL(key),
		Key:         key,
		ContentType: input.ContentType,
		Size:        input.Size,
	}, nil
}

/*
Cleanup deletes the blobs behind keys.

Description: Empty and duplicate keys are ignored. Keys the backend does not
delete are queued for [Service.Drain]. Nothing is returned: the owning
document is removed whether or not its blobs are.
*/
func (service *Service) Cleanup(parent context.Context, keys []string) {
	keys = normalizeKeys(keys)
	if len(keys) == 0 {
		return
	}

	// Queueing must survive the client going away mid-request.
	context := context.WithoutCancel(parent)
	logger := ctxutil.GetLogger(context)

	failed, err := service.blobs.Delete(context, keys)
	if len(failed) == 0 {
		return
	}

	reason := "backend refused deletion"
	if err != nil {
		reason = err.Error()
	}
	logger.Warn("asset_cleanup_failed",
		slog.Int("keys", len(keys)),
		slog.Int("failed", len(failed)),
		slog.String("reason", reason),
	)

	if err := service.queue.Enqueue(context, failed, reason); err != nil {
		logger.Error("asset_cleanup_enqueue_failed",
			slog.Any("keys", failed),
			slog.Any("error", err),
		)
	}
}

/*
Drain retries queued keys in batches of batchSize until no due job remains.

Returns:
  - DrainReport: Per-outcome totals
  - error: Queue failures; object store failures are rescheduled, not returned
*/
func (service *Service) Drain(context context.Context, batchSize int) (DrainReport, error) {
	var report DrainReport
	if batchSize <= 0 {
		batchSize = 100
	}

	for {
		if err := context.Err(); err != nil {
			return report, err
		}

		jobs, err := service.queue.Claim(context, batchSize, claimLease)
		if err != nil {
			return report, err
		}
		report.Claimed += len(jobs)
		if len(jobs) == 0 {
			break
		}

		if err := service.retry(context, jobs, &report); err != nil {
			return report, err
		}
		if len(jobs) < batchSize {
			break
		}
	}

	service.logger.Info("asset_cleanup_drained",
		slog.Int("claimed", report.Claimed),
		slog.Int("deleted", report.Deleted),
		slog.Int("retried", report.Retried),
		slog.Int("dead", report.Dead),
	)
	return report, nil
}

// Pending counts live queued keys.
func (service *Service) Pending(context context.Context) (int64, error) {
	return service.queue.Pending(context)
}

func (service *Service) retry(context context.Context, jobs []Job, report *DrainReport) error {
	keys := make([]string, len(jobs))
	for i, job := range jobs {
		keys[i] = job.Key
	}

	failed, deleteErr := service.blobs.Delete(context, keys)
	reason := "backend refused deletion"
	if deleteErr != nil {
		reason = deleteErr.Error()
	}

	var done []int64
	for _, job := range jobs {
		if !slices.Contains(failed, job.Key) {
			done = append(done, job.ID)
			continue
		}

		attempts := job.Attempts + 1
		dead := attempts >= maxAttempts
		if err := service.queue.Reschedule(context, job.ID, reason, service.now().Add(backoff(attempts)), dead); err != nil {
			return err
		}
		if dead {
			report.Dead++
			service.logger.Error("asset_cleanup_dead",
				slog.String("key", job.Key),
				slog.Int("attempts", attempts),
				slog.String("reason", reason),
			)
		} else {
			report.Retried++
		}
	}

	if err := service.queue.Complete(context, done); err != nil {
		return err
	}
	report.Deleted += len(done)
	return nil
}

// # Helpers

func objectKey(folder, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), int(now.Month()), uuid.New(), extension(filename))
}

// extension returns the lowercased extension of filename if it is a plain
// alphanumeric suffix, otherwise "".
func extension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func isMedia(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

func normalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
