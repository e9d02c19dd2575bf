// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper implements [Deduper] with SET NX EX.
type RedisDeduper struct {
	client *redis.Client
}

// NewRedisDeduper constructs a Redis backed deduper.
func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (deduper *RedisDeduper) FirstSeen(context context.Context, key string, ttl time.Duration) (bool, error) {
	first, err := deduper.client.SetNX(context, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("engagement: dedupe %q: %w", key, err)
	}
	return first, nil
}

var _ Deduper = (*RedisDeduper)(nil)
