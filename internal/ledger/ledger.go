package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/storage"
)

// Assumed token counts per analysis. These are an estimate, not measured usage.
const (
	AssumedInputTokens  = 500
	AssumedOutputTokens = 800

	InputPricePerMillion  = 0.20
	OutputPricePerMillion = 0.50
)

// EstimateCost prices a request from token counts
func EstimateCost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1_000_000*InputPricePerMillion +
		float64(outputTokens)/1_000_000*OutputPricePerMillion
}

// EstimatedCostPerAnalysis is the fixed cost charged for every analysis
var EstimatedCostPerAnalysis = EstimateCost(AssumedInputTokens, AssumedOutputTokens)

// Ledger persists usage statistics and analysis history.
// Updates are read-modify-write with last-write-wins semantics.
type Ledger struct {
	store storage.Store
	now   func() time.Time
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock overrides the clock used for month bucketing
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates a ledger over store
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stats returns the current usage statistics, zero-valued if none are stored
func (l *Ledger) Stats(ctx context.Context) (models.UsageStats, error) {
	var stats models.UsageStats
	if _, err := l.store.Get(ctx, storage.KeyUsageStats, &stats); err != nil {
		return models.UsageStats{}, fmt.Errorf("failed to load usage stats: %w", err)
	}
	if stats.MonthlyAnalyses == nil {
		stats.MonthlyAnalyses = []models.MonthlyUsage{}
	}
	return stats, nil
}

// RecordAnalysis adds one analysis costing cost to the totals and to the current month's bucket
func (l *Ledger) RecordAnalysis(ctx context.Context, cost float64) (models.UsageStats, error) {
	stats, err := l.Stats(ctx)
	if err != nil {
		return models.UsageStats{}, err
	}

	now := l.now()
	if stats.LastResetDate == "" {
		stats.LastResetDate = now.UTC().Format(time.RFC3339)
	}
	stats.AnalysisCount++
	stats.TotalCost += cost

	month := models.MonthKey(now)
	bucket := stats.Month(month)
	if bucket == nil {
		stats.MonthlyAnalyses = append(stats.MonthlyAnalyses, models.MonthlyUsage{Month: month})
		bucket = &stats.MonthlyAnalyses[len(stats.MonthlyAnalyses)-1]
	}
	bucket.Count++
	bucket.Cost += cost

	if err := l.store.Set(ctx, storage.KeyUsageStats, stats); err != nil {
		return models.UsageStats{}, fmt.Errorf("failed to save usage stats: %w", err)
	}
	return stats, nil
}

// CurrentMonth returns the bucket for the ledger clock's current month
func (l *Ledger) CurrentMonth(ctx context.Context) (models.MonthlyUsage, error) {
	stats, err := l.Stats(ctx)
	if err != nil {
		return models.MonthlyUsage{}, err
	}
	month := models.MonthKey(l.now())
	if b := stats.Month(month); b != nil {
		return *b, nil
	}
	return models.MonthlyUsage{Month: month}, nil
}

// History returns the stored entries, newest first
func (l *Ledger) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if _, err := l.store.Get(ctx, storage.KeyAnalysisHistory, &entries); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

// RecordHistory prepends entry and drops anything beyond MaxHistoryEntries
func (l *Ledger) RecordHistory(ctx context.Context, entry models.HistoryEntry) error {
	entries, err := l.History(ctx)
	if err != nil {
		return err
	}

	if entry.Timestamp == "" {
		entry.Timestamp = l.now().UTC().Format(time.RFC3339Nano)
	}

	updated := make([]models.HistoryEntry, 0, len(entries)+1)
	updated = append(updated, entry)
	updated = append(updated, entries...)
	if len(updated) > models.MaxHistoryEntries {
		updated = updated[:models.MaxHistoryEntries]
	}

	if err := l.store.Set(ctx, storage.KeyAnalysisHistory, updated); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// ClearHistory removes every history entry. Usage stats are kept.
func (l *Ledger) ClearHistory(ctx context.Context) error {
	if err := l.store.Remove(ctx, storage.KeyAnalysisHistory); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
