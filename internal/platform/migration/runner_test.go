// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/idolbase":   "pgx5://u:p@db:5432/idolbase",
		"postgresql://u:p@db:5432/idolbase": "pgx5://u:p@db:5432/idolbase",
		"pgx5://db/idolbase":                "pgx5://db/idolbase",
	}
	for input, want := range tests {
		assert.Equal(t, want, pgx5URL(input))
	}
}

func TestSource_Embedded(t *testing.T) {
	names, err := fs.Glob(Source(""), "*.up.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "000001_asset_cleanup.up.sql")
}
