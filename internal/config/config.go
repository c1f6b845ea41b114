package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // DATABASE_URL (optional, empty = in-memory store)
	HTTPAddr    string // SBX_HTTP_ADDR (default ":8000")
	NATSURL     string // SBX_NATS_URL (optional, empty = no events)
	AuthToken   string // SBX_AUTH_TOKEN (optional, empty = auth disabled)
	CORSOrigin  string // SBX_CORS_ORIGIN (default "*")
	StaticDir   string // SBX_STATIC_DIR (optional, serves the dashboard when set)
	CorpusCSV   string // SBX_CORPUS_CSV (optional, bootstraps the in-memory store)

	// Language model settings
	OpenAIKey     string // OPENAI_API_KEY (optional, empty = canned responses)
	OpenAIModel   string // SBX_OPENAI_MODEL (default "gpt-4o-mini")
	OpenAIBaseURL string // SBX_OPENAI_BASE_URL (default OpenAI public API)

	// Snapshot settings
	SyncInterval   time.Duration // SBX_SYNC_INTERVAL (default 0 = disabled)
	SyncS3Bucket   string        // SBX_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // SBX_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // SBX_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // SBX_SYNC_S3_KEY (default "biosci/corpus.jsonl")
	SyncGitRepo    string        // SBX_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // SBX_SYNC_GIT_FILE (default "corpus.jsonl")
	SyncGitBranch  string        // SBX_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPAddr:       envOrDefault("SBX_HTTP_ADDR", ":8000"),
		NATSURL:        os.Getenv("SBX_NATS_URL"),
		AuthToken:      os.Getenv("SBX_AUTH_TOKEN"),
		CORSOrigin:     envOrDefault("SBX_CORS_ORIGIN", "*"),
		StaticDir:      os.Getenv("SBX_STATIC_DIR"),
		CorpusCSV:      os.Getenv("SBX_CORPUS_CSV"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("SBX_OPENAI_MODEL"),
		OpenAIBaseURL:  os.Getenv("SBX_OPENAI_BASE_URL"),
		SyncS3Bucket:   os.Getenv("SBX_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("SBX_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("SBX_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("SBX_SYNC_S3_KEY", "biosci/corpus.jsonl"),
		SyncGitRepo:    os.Getenv("SBX_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("SBX_SYNC_GIT_FILE", "corpus.jsonl"),
		SyncGitBranch:  envOrDefault("SBX_SYNC_GIT_BRANCH", "main"),
	}

	if intervalStr := os.Getenv("SBX_SYNC_INTERVAL"); intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("SBX_SYNC_INTERVAL: %w", err)
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
