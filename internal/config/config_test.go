package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pdf-jobs", cfg.PubSubTopic)
	assert.Equal(t, "storage.googleapis.com", cfg.StoragePublicHost)
	assert.Equal(t, 20, cfg.MaxPages)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxImageBytes)
	assert.Equal(t, 4000, cfg.MaxImageDimension)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_PAGES", "5")
	t.Setenv("MAX_IMAGE_BYTES", "1048576")
	t.Setenv("MAX_IMAGE_DIMENSION", "2000")
	t.Setenv("WORKER_CONCURRENCY", "2")
	t.Setenv("INPUT_BUCKET", "in-bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, int64(1048576), cfg.MaxImageBytes)
	assert.Equal(t, 2000, cfg.MaxImageDimension)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
	assert.Equal(t, "in-bucket", cfg.InputBucket)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_PAGES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MaxPages)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero max pages",
			mutate:  func(c *Config) { c.MaxPages = 0 },
			wantErr: "MAX_PAGES",
		},
		{
			name:    "negative image bytes",
			mutate:  func(c *Config) { c.MaxImageBytes = -1 },
			wantErr: "MAX_IMAGE_BYTES",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.WorkerConcurrency = 0 },
			wantErr: "WORKER_CONCURRENCY",
		},
		{
			name: "release mode requires project",
			mutate: func(c *Config) {
				c.GinMode = "release"
				c.GCPProject = ""
			},
			wantErr: "GCP_PROJECT",
		},
		{
			name: "release mode requires buckets",
			mutate: func(c *Config) {
				c.GinMode = "release"
				c.GCPProject = "proj"
				c.InputBucket = ""
			},
			wantErr: "INPUT_BUCKET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				GinMode:           "debug",
				GCPProject:        "proj",
				PubSubTopic:       "pdf-jobs",
				InputBucket:       "in",
				OutputBucket:      "out",
				MaxPages:          20,
				MaxImageBytes:     1024,
				MaxImageDimension: 4000,
				WorkerConcurrency: 4,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
