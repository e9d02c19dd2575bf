// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"time"
)

// Deduper remembers which viewers were already counted.
type Deduper interface {
	// FirstSeen marks key for ttl and reports whether it was unmarked before.
	FirstSeen(context context.Context, key string, ttl time.Duration) (bool, error)
}
