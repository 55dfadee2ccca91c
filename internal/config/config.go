package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Artifact output
	OutputDir string

	// Auth
	BookvoxAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Segmentation thresholds
	MaxSentenceLen      int
	MinMergeLen         int
	MaxMergeLen         int
	MaxWordsPerSub      int
	MinSplitWords       int
	MinParagraphsPerSub int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		OutputDir: envOr("OUTPUT_DIR", "data/books"),

		BookvoxAPIKey: os.Getenv("BOOKVOX_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MaxSentenceLen:      envInt("MAX_SENTENCE_LEN", 100),
		MinMergeLen:         envInt("MIN_MERGE_LEN", 15),
		MaxMergeLen:         envInt("MAX_MERGE_LEN", 100),
		MaxWordsPerSub:      envInt("MAX_WORDS_PER_SUB", 5000),
		MinSplitWords:       envInt("MIN_SPLIT_WORDS", 1000),
		MinParagraphsPerSub: envInt("MIN_PARAGRAPHS_PER_SUB", 2),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BookvoxAPIKey == "" {
		return fmt.Errorf("BOOKVOX_API_KEY is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.MinMergeLen > c.MaxMergeLen {
		return fmt.Errorf("MIN_MERGE_LEN (%d) exceeds MAX_MERGE_LEN (%d)", c.MinMergeLen, c.MaxMergeLen)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
