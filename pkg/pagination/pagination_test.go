// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{name: "Defaults", query: "", page: DefaultPage, limit: DefaultLimit},
		{name: "Explicit", query: "?page=3&limit=50", page: 3, limit: 50},
		{name: "Limit capped", query: "?limit=1000", page: DefaultPage, limit: MaxLimit},
		{name: "Zero and negative", query: "?page=0&limit=-5", page: DefaultPage, limit: DefaultLimit},
		{name: "Not a number", query: "?page=two&limit=ten", page: DefaultPage, limit: DefaultLimit},
		{name: "Page capped", query: "?page=9223372036854775807&limit=100", page: MaxPage, limit: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := FromRequest(httptest.NewRequest("GET", "/api/idols"+tt.query, nil))
			assert.Equal(t, Params{Page: tt.page, Limit: tt.limit}, params)
			assert.GreaterOrEqual(t, params.Skip(), int64(0))
		})
	}
}

func TestParams_Skip(t *testing.T) {
	assert.Equal(t, int64(0), Params{Page: 1, Limit: 20}.Skip())
	assert.Equal(t, int64(40), Params{Page: 3, Limit: 20}.Skip())
	assert.Equal(t, int64(0), Params{Page: 0, Limit: 20}.Skip())
	assert.Equal(t, int64(MaxPage-1)*MaxLimit, Params{Page: math.MaxInt, Limit: math.MaxInt}.Skip())
	assert.Equal(t, int64(0), Params{Page: 5, Limit: -1}.Skip())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		total  int64
		want   Meta
	}{
		{
			name:   "Middle page",
			params: Params{Page: 2, Limit: 10},
			total:  25,
			want:   Meta{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10, HasNextPage: true, HasPrevPage: true},
		},
		{
			name:   "Last page",
			params: Params{Page: 3, Limit: 10},
			total:  25,
			want:   Meta{CurrentPage: 3, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10, HasPrevPage: true},
		},
		{
			name:   "Empty",
			params: Params{Page: 1, Limit: 20},
			want:   Meta{CurrentPage: 1, ItemsPerPage: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.params, tt.total))
		})
	}
}
