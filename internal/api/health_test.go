// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantState  string
	}{
		{"all healthy", []HealthCheck{{"mongodb", ok}, {"redis", ok}}, http.StatusOK, "ready"},
		{"one down", []HealthCheck{{"mongodb", ok}, {"postgres", down}}, http.StatusServiceUnavailable, "degraded"},
		{"no checks", nil, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := NewHealthHandlers(tt.checks, slog.New(slog.NewTextHandler(io.Discard, nil)))
			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			var payload struct {
				Data struct {
					Status string `json:"status"`
					Checks []struct {
						Name string `json:"name"`
						OK   bool   `json:"ok"`
					} `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
			assert.Equal(t, tt.wantState, payload.Data.Status)
			assert.Len(t, payload.Data.Checks, len(tt.checks))
		})
	}
}

func TestLiveness(t *testing.T) {
	liveness, _ := NewHealthHandlers(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
