// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/idolbase/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Setenv("BASE_URL", "https://admin.idolbase.app/dashboard")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/idolbase")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.idolbase.app")
}

/*
TestLoad_Defaults verifies defaults are applied when optional variables are absent.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "idolbase", cfg.MongoDatabase)
	assert.Equal(t, 100, cfg.CleanupBatchSize)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://admin.idolbase.app"}, cfg.TrustedOrigins())
}

/*
TestLoad_MissingRequired verifies that a required variable fails the load.
*/
func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGO_URI", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestTrustedOrigins verifies normalization of the extra origin list.
*/
func TestTrustedOrigins(t *testing.T) {
	cfg := &config.Config{
		BaseURL:      "https://Admin.Example.com/",
		ExtraOrigins: " http://localhost:3000 , not-a-url,https://preview.example.com/path",
	}

	assert.Equal(t, []string{
		"https://admin.example.com",
		"http://localhost:3000",
		"https://preview.example.com",
	}, cfg.TrustedOrigins())
}
