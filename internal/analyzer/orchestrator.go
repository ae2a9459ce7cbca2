// Package analyzer runs one analysis attempt end to end: input checks, the
// cooldown gate, the relay call and the usage ledger.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/benvon/virality-checker/internal/ledger"
	logpkg "github.com/benvon/virality-checker/internal/logger"
	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/ratelimit"
	"github.com/benvon/virality-checker/internal/relayclient"
	"github.com/benvon/virality-checker/internal/storage"
	"go.uber.org/zap"
)

// Relay sends one analysis request to the relay service
type Relay interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Orchestrator coordinates analyses. It never retries; the caller re-triggers.
type Orchestrator struct {
	relay    Relay
	gate     *ratelimit.Gate
	ledger   *ledger.Ledger
	settings storage.Store
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithClock overrides the clock used for the cooldown and history timestamps
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithLogger sets the orchestrator logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator. settings is the synced scope holding user preferences.
func New(relay Relay, gate *ratelimit.Gate, l *ledger.Ledger, settings storage.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		relay:    relay,
		gate:     gate,
		ledger:   l,
		settings: settings,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze runs one attempt: validate, gate, relay, ledger, history, record.
func (o *Orchestrator) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(req.Content) > models.MaxContentLength {
		return nil, ErrContentTooLong
	}

	decision, err := o.gate.Check(ctx, o.now())
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		o.logger.Info("analysis_rate_limited", zap.Int("wait_seconds", decision.WaitSeconds))
		return nil, &RateLimitedError{WaitSeconds: decision.WaitSeconds}
	}

	result, err := o.relay.Analyze(ctx, &req)
	if err != nil {
		mapped := mapRelayError(err)
		o.logger.Warn("analysis_failed",
			zap.String("category", string(Classify(mapped))),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return nil, mapped
	}

	// The analysis already succeeded; bookkeeping failures are logged, not returned.
	if _, err := o.ledger.RecordAnalysis(ctx, ledger.EstimatedCostPerAnalysis); err != nil {
		o.logger.Warn("usage_stats_update_failed", zap.Error(err))
	}

	settings, err := LoadSettings(ctx, o.settings)
	if err != nil {
		o.logger.Warn("settings_load_failed", zap.Error(err))
	}
	if settings.SaveHistory {
		entry := models.HistoryEntry{
			Timestamp: o.now().UTC().Format(time.RFC3339Nano),
			Content:   req.Content,
			Score:     int(result.OverallScore),
			Rating:    string(result.Rating),
		}
		if err := o.ledger.RecordHistory(ctx, entry); err != nil {
			o.logger.Warn("history_update_failed", zap.Error(err))
		}
	}

	if err := o.gate.Record(ctx, o.now()); err != nil {
		o.logger.Warn("cooldown_record_failed", zap.Error(err))
	}

	o.logger.Info("analysis_completed",
		zap.Int("overall_score", int(result.OverallScore)),
		zap.String("rating", string(result.Rating)),
		zap.String("content_preview", logpkg.ContentPreview(req.Content, 0)),
	)
	return result, nil
}

// mapRelayError translates relay client errors into the orchestrator's taxonomy
func mapRelayError(err error) error {
	var statusErr *relayclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		return &UpstreamError{Code: statusErr.Code, StatusCode: statusErr.StatusCode, Message: statusErr.Message}
	case errors.Is(err, relayclient.ErrMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	case errors.Is(err, relayclient.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return err
}

// Ensure relayclient.Client satisfies Relay
var _ Relay = (*relayclient.Client)(nil)
