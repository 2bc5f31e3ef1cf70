package metrics

import (
	"context"
	"fmt"
	"time"

	"kitchen-assistant/internal/shared"

	"github.com/jmoiron/sqlx"
)

// GenerationMetric records metadata for a single generation stage.
type GenerationMetric struct {
	Stage            string
	Provider         string
	Model            string
	Outcome          shared.Outcome
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const insertMetric = `
INSERT INTO generation_metrics
	(stage, provider, model, outcome, prompt_tokens, completion_tokens, latency_ms, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.ExecContext(ctx, insertMetric,
		m.Stage, m.Provider, m.Model, string(m.Outcome),
		m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert generation metric: %w", err)
	}
	return nil
}

// RecordMeta records metrics directly from shared.StageMeta.
func (s *Store) RecordMeta(ctx context.Context, meta shared.StageMeta) error {
	return s.Record(ctx, MapMeta(meta))
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string `db:"day"`
	TotalPrompt     int    `db:"prompt"`
	TotalCompletion int    `db:"completion"`
	Generations     int    `db:"generations"`
	Fallbacks       int    `db:"fallbacks"`
	Failures        int    `db:"failures"`
}

const dailyUsage = `
SELECT
	date(created_at_ms / 1000, 'unixepoch') AS day,
	COALESCE(SUM(prompt_tokens), 0)         AS prompt,
	COALESCE(SUM(completion_tokens), 0)     AS completion,
	COUNT(*)                                AS generations,
	COALESCE(SUM(outcome = 'fallback'), 0)  AS fallbacks,
	COALESCE(SUM(outcome = 'failed'), 0)    AS failures
FROM generation_metrics
WHERE created_at_ms >= ?
GROUP BY day
ORDER BY day DESC`

// GetDailyUsage retrieves usage for the last N days, most recent day first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := s.now().AddDate(0, 0, -days).UnixMilli()

	var results []DailyUsage
	if err := s.db.SelectContext(ctx, &results, dailyUsage, since); err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().AddDate(0, 0, -olderThanDays).UnixMilli()

	res, err := s.db.ExecContext(ctx, `DELETE FROM generation_metrics WHERE created_at_ms < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapMeta converts stage metadata into a GenerationMetric.
func MapMeta(meta shared.StageMeta) GenerationMetric {
	return GenerationMetric{
		Stage:            meta.Stage,
		Provider:         meta.Provider,
		Model:            meta.Usage.Model,
		Outcome:          meta.Outcome,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
	}
}
