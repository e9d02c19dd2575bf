// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package integrity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/idolbase/internal/core/integrity"
	"github.com/taibuivan/idolbase/internal/platform/apperr"
	redisstore "github.com/taibuivan/idolbase/internal/platform/redis"
)

// fakeLocker grants the lock unless held is set.
type fakeLocker struct {
	held  bool
	names []string
	ttls  []time.Duration
}

func (locker *fakeLocker) Run(ctx context.Context, name string, ttl time.Duration, job func(context.Context) error) error {
	locker.names = append(locker.names, name)
	locker.ttls = append(locker.ttls, ttl)
	if locker.held {
		return redisstore.ErrLocked
	}
	locker.held = true
	defer func() { locker.held = false }()
	return job(ctx)
}

/*
TestHandler_Recount verifies the admin recount runs under the shared lock and
refuses to overlap a running one.
*/
func TestHandler_Recount(t *testing.T) {
	tests := []struct {
		name       string
		held       bool
		wantStatus int
		wantCode   string
		wantTree   int
	}{
		{name: "Runs under the lock", wantStatus: http.StatusOK, wantTree: 1},
		{name: "Already running", held: true, wantStatus: http.StatusConflict, wantCode: apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.repairs[integrity.GenreVideos.Name] = 2
			tree := &fakeTree{repaired: 1}
			locker := &fakeLocker{held: tt.held}
			handler := integrity.NewHandler(integrity.NewReconciler(store, tree, discardLogger()), locker)

			recorder := httptest.NewRecorder()
			handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/recount", nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, []string{integrity.RecountLock}, locker.names)
			assert.Equal(t, []time.Duration{integrity.RecountLockTTL}, locker.ttls)
			assert.Equal(t, tt.wantTree, tree.calls)

			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				return
			}
			report := body["data"].(map[string]any)["report"].(map[string]any)
			assert.Equal(t, float64(1), report["treeRepaired"])
		})
	}
}
