package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // TASKDECK_DATABASE_URL (required)
	HTTPAddr    string // TASKDECK_HTTP_ADDR (default ":8080")
	NATSURL     string // TASKDECK_NATS_URL (optional, empty = no events)
	AuthToken   string // TASKDECK_AUTH_TOKEN (optional, empty = auth disabled)

	// Snapshot export settings
	SyncInterval   time.Duration // TASKDECK_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // TASKDECK_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // TASKDECK_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // TASKDECK_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // TASKDECK_SYNC_S3_KEY (default "taskdeck/backup.jsonl")
	SyncGitRepo    string        // TASKDECK_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // TASKDECK_SYNC_GIT_FILE (default "taskdeck.jsonl")
	SyncGitBranch  string        // TASKDECK_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("TASKDECK_DATABASE_URL"),
		HTTPAddr:       envOrDefault("TASKDECK_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("TASKDECK_NATS_URL"),
		AuthToken:      os.Getenv("TASKDECK_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("TASKDECK_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("TASKDECK_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("TASKDECK_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("TASKDECK_SYNC_S3_KEY", "taskdeck/backup.jsonl"),
		SyncGitRepo:    os.Getenv("TASKDECK_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("TASKDECK_SYNC_GIT_FILE", "taskdeck.jsonl"),
		SyncGitBranch:  envOrDefault("TASKDECK_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("TASKDECK_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("TASKDECK_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("TASKDECK_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
