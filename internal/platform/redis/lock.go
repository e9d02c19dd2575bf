// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/idolbase/internal/platform/constants"
	"github.com/taibuivan/idolbase/internal/platform/ctxutil"
	"github.com/taibuivan/idolbase/pkg/uuid"
)

// ErrLocked is returned by [Locker.Acquire] when another holder owns the lock.
var ErrLocked = errors.New("redis: lock held by another process")

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out expiring single-holder locks.
type Locker struct {
	client redis.Cmdable
}

// NewLocker constructs a [Locker] on client.
func NewLocker(client redis.Cmdable) *Locker {
	return &Locker{client: client}
}

// Lock is one held lock.
type Lock struct {
	client redis.Cmdable
	key    string
	token  string
}

/*
Acquire takes the lock name for ttl.

Returns:
  - *Lock: Release it when done; it also expires after ttl
  - error: ErrLocked if held elsewhere
*/
func (locker *Locker) Acquire(context stdctx.Context, name string, ttl time.Duration) (*Lock, error) {
	lock := &Lock{client: locker.client, key: constants.RedisPrefixLock + name, token: uuid.New()}

	acquired, err := locker.client.SetNX(context, lock.key, lock.token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire %q: %w", name, err)
	}
	if !acquired {
		return nil, ErrLocked
	}
	return lock, nil
}

// Release frees the lock if this holder still owns it.
func (lock *Lock) Release(context stdctx.Context) error {
	if err := releaseScript.Run(context, lock.client, []string{lock.key}, lock.token).Err(); err != nil {
		return fmt.Errorf("redis: release %q: %w", lock.key, err)
	}
	return nil
}

/*
Run executes job while holding the lock name.

Description: The lock is released once job returns, even if context was
cancelled meanwhile. A failed release is only logged; the lock still expires
after ttl.

Returns:
  - error: ErrLocked if held elsewhere, otherwise whatever job returns
*/
func (locker *Locker) Run(context stdctx.Context, name string, ttl time.Duration, job func(stdctx.Context) error) error {
	lock, err := locker.Acquire(context, name, ttl)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(stdctx.WithoutCancel(context)); err != nil {
			ctxutil.GetLogger(context).Error("lock_release_failed",
				slog.String("lock", name),
				slog.Any("error", err),
			)
		}
	}()

	return job(context)
}
