package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benvon/virality-checker/internal/ledger"
	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/ratelimit"
	"github.com/benvon/virality-checker/internal/relayclient"
	"github.com/benvon/virality-checker/internal/storage"
)

type fakeRelay struct {
	calls  atomic.Int32
	result *models.AnalysisResult
	err    error
}

func (f *fakeRelay) Analyze(context.Context, *models.AnalysisRequest) (*models.AnalysisResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fixture struct {
	relay  *fakeRelay
	local  *storage.MemoryStore
	synced *storage.MemoryStore
	ledger *ledger.Ledger
	orch   *Orchestrator
	now    time.Time
}

func newFixture(t *testing.T, relay *fakeRelay) *fixture {
	t.Helper()

	f := &fixture{
		relay:  relay,
		local:  storage.NewMemoryStore(),
		synced: storage.NewMemoryStore(),
		now:    time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.ledger = ledger.New(f.local, ledger.WithClock(clock))
	gate := ratelimit.NewGate(f.local, ratelimit.DefaultCooldown)
	f.orch = New(relay, gate, f.ledger, f.synced, WithClock(clock))
	return f
}

func okRelay(score int) *fakeRelay {
	return &fakeRelay{result: &models.AnalysisResult{OverallScore: models.Score(score), Rating: models.RatingGood}}
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t, okRelay(72))
	ctx := context.Background()

	result, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "Great tip!"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.OverallScore != 72 {
		t.Errorf("Expected score 72, got %d", result.OverallScore)
	}

	stats, _ := f.ledger.Stats(ctx)
	if stats.AnalysisCount != 1 {
		t.Errorf("Expected analysis count 1, got %d", stats.AnalysisCount)
	}
	if stats.TotalCost != ledger.EstimatedCostPerAnalysis {
		t.Errorf("Expected cost %v, got %v", ledger.EstimatedCostPerAnalysis, stats.TotalCost)
	}

	history, _ := f.ledger.History(ctx)
	if len(history) != 1 || history[0].Score != 72 || history[0].Content != "Great tip!" || history[0].Rating != "Good" {
		t.Errorf("Unexpected history: %+v", history)
	}

	var state models.RateLimitState
	if _, err := f.local.Get(ctx, storage.KeyLastAnalysisTime, &state); err != nil || state.LastAnalysisTimeMs != f.now.UnixMilli() {
		t.Errorf("Expected cooldown recorded at %d, got %d (err %v)", f.now.UnixMilli(), state.LastAnalysisTimeMs, err)
	}
}

func TestAnalyze_EmptyContent(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "   ", "\n\t "} {
		t.Run(fmt.Sprintf("%q", content), func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, okRelay(50))
			_, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{Content: content})
			if !errors.Is(err, ErrEmptyContent) {
				t.Fatalf("Expected ErrEmptyContent, got %v", err)
			}
			if Classify(err) != CategoryInput {
				t.Errorf("Expected input category, got %q", Classify(err))
			}
			if f.relay.calls.Load() != 0 {
				t.Error("Expected no relay call")
			}
			stats, _ := f.ledger.Stats(context.Background())
			if stats.AnalysisCount != 0 {
				t.Error("Expected ledger unchanged")
			}
		})
	}
}

func TestAnalyze_ContentTooLong(t *testing.T) {
	t.Parallel()

	f := newFixture(t, okRelay(50))
	_, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{Content: strings.Repeat("a", models.MaxContentLength+1)})
	if !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("Expected ErrContentTooLong, got %v", err)
	}
	if f.relay.calls.Load() != 0 {
		t.Error("Expected no relay call")
	}
}

func TestAnalyze_RateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t, okRelay(50))
	ctx := context.Background()

	last := models.RateLimitState{LastAnalysisTimeMs: f.now.Add(-2000 * time.Millisecond).UnixMilli()}
	if err := f.local.Set(ctx, storage.KeyLastAnalysisTime, last); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "Great tip!"})
	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Expected RateLimitedError, got %v", err)
	}
	if rateErr.WaitSeconds != 4 {
		t.Errorf("Expected wait 4 seconds, got %d", rateErr.WaitSeconds)
	}
	if f.relay.calls.Load() != 0 {
		t.Error("Expected no relay call")
	}
}

func TestAnalyze_SecondCallInsideCooldown(t *testing.T) {
	t.Parallel()

	f := newFixture(t, okRelay(50))
	ctx := context.Background()

	if _, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "first"}); err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}

	f.now = f.now.Add(5500 * time.Millisecond)
	_, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "second"})
	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) || rateErr.WaitSeconds != 1 {
		t.Fatalf("Expected RateLimitedError{1}, got %v", err)
	}

	f.now = f.now.Add(500 * time.Millisecond)
	if _, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "third"}); err != nil {
		t.Fatalf("Expected call after cooldown to pass, got %v", err)
	}
	if f.relay.calls.Load() != 2 {
		t.Errorf("Expected 2 relay calls, got %d", f.relay.calls.Load())
	}
}

func TestAnalyze_HistoryDisabled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, okRelay(60))
	ctx := context.Background()
	if err := SaveSettings(ctx, f.synced, models.Settings{SaveHistory: false, ShowWarnings: true}); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	if _, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "hello"}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	history, _ := f.ledger.History(ctx)
	if len(history) != 0 {
		t.Errorf("Expected no history when disabled, got %d entries", len(history))
	}
	stats, _ := f.ledger.Stats(ctx)
	if stats.AnalysisCount != 1 {
		t.Errorf("Expected usage still recorded, got %d", stats.AnalysisCount)
	}
}

func TestAnalyze_RelayFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantCategory Category
	}{
		{
			name:         "unreachable",
			err:          fmt.Errorf("%w: connection refused", relayclient.ErrUnavailable),
			wantCategory: CategoryTransport,
		},
		{
			name:         "malformed",
			err:          fmt.Errorf("%w: bad json", relayclient.ErrMalformed),
			wantCategory: CategoryResponseShape,
		},
		{
			name:         "invalid key",
			err:          &relayclient.StatusError{StatusCode: http.StatusUnauthorized, Code: models.CodeUpstreamAuth, Message: "Invalid API key configured on server"},
			wantCategory: CategoryUpstreamAuth,
		},
		{
			name:         "quota",
			err:          &relayclient.StatusError{StatusCode: http.StatusPaymentRequired, Code: models.CodeUpstreamQuota, Message: "Insufficient credits"},
			wantCategory: CategoryUpstreamQuota,
		},
		{
			name:         "upstream rate limit",
			err:          &relayclient.StatusError{StatusCode: http.StatusTooManyRequests, Code: models.CodeUpstreamRateLimited, Message: "slow down"},
			wantCategory: CategoryUpstreamRateLimit,
		},
		{
			name:         "relay ip limit",
			err:          &relayclient.StatusError{StatusCode: http.StatusTooManyRequests, Code: models.CodeRateLimited, Message: "Too many requests"},
			wantCategory: CategoryUpstreamRateLimit,
		},
		{
			name:         "shape error from relay",
			err:          &relayclient.StatusError{StatusCode: http.StatusInternalServerError, Code: models.CodeResponseShape, Message: "unexpected response format from LLM API"},
			wantCategory: CategoryResponseShape,
		},
		{
			name:         "generic upstream",
			err:          &relayclient.StatusError{StatusCode: http.StatusNotFound, Code: models.CodeUpstreamError, Message: "model not found"},
			wantCategory: CategoryUpstream,
		},
		{
			name:         "status without code",
			err:          &relayclient.StatusError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"},
			wantCategory: CategoryUpstreamAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, &fakeRelay{err: tt.err})
			ctx := context.Background()

			_, err := f.orch.Analyze(ctx, models.AnalysisRequest{Content: "hello"})
			if err == nil {
				t.Fatal("Expected error")
			}
			if got := Classify(err); got != tt.wantCategory {
				t.Errorf("Classify() = %q, want %q (err %v)", got, tt.wantCategory, err)
			}

			stats, _ := f.ledger.Stats(ctx)
			if stats.AnalysisCount != 0 {
				t.Error("Expected ledger unchanged on failure")
			}
			var state models.RateLimitState
			if found, _ := f.local.Get(ctx, storage.KeyLastAnalysisTime, &state); found {
				t.Error("Expected cooldown not recorded on failure")
			}
		})
	}
}

func TestAnalyze_UpstreamMessagePreserved(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &fakeRelay{err: &relayclient.StatusError{StatusCode: http.StatusNotFound, Code: models.CodeUpstreamError, Message: "model not found"}})
	_, err := f.orch.Analyze(context.Background(), models.AnalysisRequest{Content: "hello"})

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstreamErr.Message != "model not found" || upstreamErr.StatusCode != http.StatusNotFound {
		t.Errorf("Unexpected upstream error: %+v", upstreamErr)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want Category
	}{
		{nil, CategoryNone},
		{ErrEmptyContent, CategoryInput},
		{&RateLimitedError{WaitSeconds: 3}, CategoryRateLimit},
		{fmt.Errorf("wrapped: %w", ErrUpstreamUnavailable), CategoryTransport},
		{ErrMalformedResponse, CategoryResponseShape},
		{&UpstreamError{Code: models.CodeInvalidRequest, StatusCode: http.StatusBadRequest}, CategoryInput},
		{errors.New("disk full"), CategoryInternal},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemoryStore()

	settings, err := LoadSettings(ctx, store)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("Expected defaults, got %+v", settings)
	}

	// A stored object missing a field keeps that field's default
	if err := store.Set(ctx, storage.KeySettings, map[string]bool{"showWarnings": false}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	settings, _ = LoadSettings(ctx, store)
	if !settings.SaveHistory || settings.ShowWarnings {
		t.Errorf("Unexpected merged settings: %+v", settings)
	}
}
