// Package store persists benchmark runs in a sqlite database.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"llmbench/internal/bench"
	"llmbench/internal/common/fsutil"
)

// BenchRun is one recorded benchmark run.
type BenchRun struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Model  string `gorm:"index;not null" json:"model"`
	Prompt string `json:"prompt"`
	URL    string `json:"url"`

	EvalCount        int     `json:"eval_count"`
	EvalDurationNS   int64   `json:"eval_duration_ns"`
	TotalDurationNS  int64   `json:"total_duration_ns"`
	TokensPerSecond  float64 `json:"tokens_per_second"`
	TimeToFirstTokNS int64   `json:"time_to_first_token_ns"`
	StreamedTokens   int     `json:"streamed_tokens"`
	SkippedLines     int     `json:"skipped_lines"`
	Outcome          string  `gorm:"index" json:"outcome"`
}

// Store wraps the history database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and migrates the schema.
func Open(path string) (*Store, error) {
	p, err := fsutil.PrepareFile(path)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(p), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", p, err)
	}
	s := &Store{db: db}
	if err := db.AutoMigrate(&BenchRun{}); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewRun converts a benchmark result into a history row.
func NewRun(model, prompt, url string, res bench.Result, runErr error) BenchRun {
	tps, _ := res.TokensPerSecond()
	return BenchRun{
		Model:            model,
		Prompt:           prompt,
		URL:              url,
		EvalCount:        res.Summary.EvalCount,
		EvalDurationNS:   int64(res.Summary.EvalDuration),
		TotalDurationNS:  int64(res.Summary.TotalDuration),
		TokensPerSecond:  tps,
		TimeToFirstTokNS: int64(res.TimeToFirstToken),
		StreamedTokens:   res.StreamedTokens,
		SkippedLines:     res.SkippedLines,
		Outcome:          bench.Outcome(runErr),
	}
}

// Record saves a run; ID and CreatedAt are filled in on success.
func (s *Store) Record(ctx context.Context, run *BenchRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. An empty model matches all.
func (s *Store) Recent(ctx context.Context, model string, limit int) ([]BenchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if model != "" {
		q = q.Where("model = ?", model)
	}
	var runs []BenchRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return runs, nil
}
