package presentation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benvon/virality-checker/internal/analyzer"
	"github.com/benvon/virality-checker/internal/compose"
	"github.com/benvon/virality-checker/internal/models"
)

func sampleResult() *models.AnalysisResult {
	followers := 12500
	return &models.AnalysisResult{
		OverallScore: 72,
		Rating:       models.RatingStrongPerformance,
		Tone:         models.ToneEducational,
		Metrics:      models.Metrics{LengthScore: 90, ToneScore: 30},
		EngagementPrediction: models.EngagementPrediction{
			FollowerCount: &followers, Views: 1500, Likes: 40, Replies: 5, Retweets: 8, Reasoning: "solid",
		},
		Strengths: []string{"clear hook", "<b>bold</b>"},
		Suggestions: []models.Suggestion{
			{Issue: "low one", Impact: models.ImpactLow},
			{Issue: "high one", Impact: models.ImpactHigh},
			{Issue: "medium one", Impact: models.ImpactMedium},
			{Issue: "second high", Impact: models.ImpactHigh},
		},
		RewriteExample: "Better <script>alert(1)</script>",
		Risks:          []string{"may read as spam"},
	}
}

func TestScoreClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		class string
		emoji string
	}{
		{100, ClassExcellent, "🔥"},
		{85, ClassExcellent, "🔥"},
		{84, ClassGood, "⭐"},
		{70, ClassGood, "⭐"},
		{69, ClassAverage, "👍"},
		{55, ClassAverage, "👍"},
		{54, ClassNeedsWork, "📈"},
		{40, ClassNeedsWork, "📈"},
		{39, ClassPoor, "⚠️"},
		{0, ClassPoor, "⚠️"},
	}

	for _, tt := range tests {
		class, emoji := ScoreClass(tt.score)
		if class != tt.class || emoji != tt.emoji {
			t.Errorf("ScoreClass(%d) = (%s, %s), want (%s, %s)", tt.score, class, emoji, tt.class, tt.emoji)
		}
	}
}

func TestSortSuggestions(t *testing.T) {
	t.Parallel()

	in := sampleResult().Suggestions
	got := SortSuggestions(in)

	want := []string{"high one", "second high", "medium one", "low one"}
	for i, w := range want {
		if got[i].Issue != w {
			t.Errorf("position %d = %q, want %q", i, got[i].Issue, w)
		}
	}
	if in[0].Issue != "low one" {
		t.Error("Expected input slice to be left unsorted")
	}
}

func TestBuildView(t *testing.T) {
	t.Parallel()

	v := BuildView(sampleResult(), "original", models.Settings{ShowWarnings: true})
	if v.Class != ClassGood || v.Tone != "Educational" || v.Suggestions[0].Number != 1 || v.Suggestions[0].Icon != "🔥" {
		t.Errorf("Unexpected view: %+v", v)
	}
	if len(v.Metrics) != 10 || v.Metrics[0].Label != "Length Optimization" || v.Metrics[0].Class != ClassExcellent {
		t.Errorf("Unexpected metrics: %+v", v.Metrics)
	}
	if len(v.Risks) != 1 {
		t.Errorf("Expected risks shown, got %v", v.Risks)
	}

	hidden := BuildView(sampleResult(), "original", models.Settings{ShowWarnings: false})
	if len(hidden.Risks) != 0 {
		t.Errorf("Expected risks hidden, got %v", hidden.Risks)
	}
}

func TestRenderHTML_Escapes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderHTML(&buf, BuildView(sampleResult(), "Before & <after>", models.Settings{ShowWarnings: true})); err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	out := buf.String()

	for _, bad := range []string{"<script>alert(1)</script>", "<b>bold</b>", "<after>"} {
		if strings.Contains(out, bad) {
			t.Errorf("Expected %q to be escaped", bad)
		}
	}
	for _, want := range []string{"&lt;script&gt;", "Before &amp; &lt;after&gt;", "score-good", "Potential Risks", "Quick Wins"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderText(&buf, BuildView(sampleResult(), "draft", models.Settings{})); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"72/100", "Strong Performance", "Views 1,500", "12,500 followers", "1. 🔥 high one"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Potential Risks") {
		t.Error("Expected risks hidden when warnings are off")
	}
}

func TestFollowerLabel(t *testing.T) {
	t.Parallel()

	zero := 0
	big := 1234567
	if got := FollowerLabel(nil); got != "unknown" {
		t.Errorf("FollowerLabel(nil) = %q", got)
	}
	if got := FollowerLabel(&zero); got != "0" {
		t.Errorf("FollowerLabel(0) = %q", got)
	}
	if got := FollowerLabel(&big); got != "1,234,567" {
		t.Errorf("FollowerLabel(1234567) = %q", got)
	}
}

func TestNotificationFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantLevel Level
		contains  string
	}{
		{"empty", analyzer.ErrEmptyContent, LevelWarning, "Please write something first"},
		{"rate limited", &analyzer.RateLimitedError{WaitSeconds: 4}, LevelWarning, "Please wait 4 seconds"},
		{"network", fmt.Errorf("%w: refused", analyzer.ErrUpstreamUnavailable), LevelError, "Network error"},
		{"auth", &analyzer.UpstreamError{Code: models.CodeUpstreamAuth, StatusCode: 401}, LevelError, "Invalid API key"},
		{"quota", &analyzer.UpstreamError{Code: models.CodeUpstreamQuota, StatusCode: 402}, LevelError, "Insufficient Grok credits"},
		{"upstream rate", &analyzer.UpstreamError{Code: models.CodeUpstreamRateLimited, StatusCode: 429}, LevelWarning, "Rate limit exceeded"},
		{"shape", analyzer.ErrMalformedResponse, LevelError, "Unexpected response format"},
		{"generic", &analyzer.UpstreamError{Code: models.CodeUpstreamError, StatusCode: 404, Message: "model not found"}, LevelError, "model not found"},
		{"internal", errors.New("disk full"), LevelError, "Please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			toast := NotificationFor(tt.err)
			if toast.Level != tt.wantLevel || !strings.Contains(toast.Message, tt.contains) {
				t.Errorf("NotificationFor() = %+v, want level %s containing %q", toast, tt.wantLevel, tt.contains)
			}
		})
	}
}

func TestRenderHistoryAndUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil, time.UTC); err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No analysis history yet") {
		t.Errorf("Unexpected empty history output: %q", buf.String())
	}

	buf.Reset()
	entries := []models.HistoryEntry{{
		Timestamp: "2026-05-10T12:00:00Z",
		Content:   strings.Repeat("x", 80),
		Score:     72,
		Rating:    "Good",
	}}
	if err := RenderHistory(&buf, entries, time.UTC); err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2026-05-10 12:00:00") || !strings.Contains(out, "Score: 72 (Good)") {
		t.Errorf("Unexpected history output: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("x", 60)+"...") || strings.Contains(out, strings.Repeat("x", 61)) {
		t.Errorf("Expected 60-character preview, got %q", out)
	}

	buf.Reset()
	month := models.MonthlyUsage{Month: "2026-05", Count: 3, Cost: 0.00153}
	if err := RenderUsage(&buf, month, models.UsageStats{AnalysisCount: 7, TotalCost: 0.00357}); err != nil {
		t.Fatalf("RenderUsage() error = %v", err)
	}
	if !strings.Contains(buf.String(), "3 analyses, $0.0015") || !strings.Contains(buf.String(), "7 analyses, $0.0036") {
		t.Errorf("Unexpected usage output: %q", buf.String())
	}
}

// recordingOverlay records every call
type recordingOverlay struct {
	mu      sync.Mutex
	loading int
	results []View
	toasts  []Toast
	closed  int
}

func (r *recordingOverlay) ShowLoading() { r.mu.Lock(); r.loading++; r.mu.Unlock() }
func (r *recordingOverlay) HideLoading() { r.mu.Lock(); r.loading--; r.mu.Unlock() }
func (r *recordingOverlay) ShowResult(v View) {
	r.mu.Lock()
	r.results = append(r.results, v)
	r.mu.Unlock()
}
func (r *recordingOverlay) Close() { r.mu.Lock(); r.closed++; r.mu.Unlock() }
func (r *recordingOverlay) Notify(t Toast) {
	r.mu.Lock()
	r.toasts = append(r.toasts, t)
	r.mu.Unlock()
}

func TestController_LoadingAlwaysCleared(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		analyze AnalyzeFunc
	}{
		{"success", func(context.Context, string) (*models.AnalysisResult, error) { return sampleResult(), nil }},
		{"failure", func(context.Context, string) (*models.AnalysisResult, error) {
			return nil, analyzer.ErrMalformedResponse
		}},
		{"panic-free error", func(context.Context, string) (*models.AnalysisResult, error) {
			return nil, &analyzer.RateLimitedError{WaitSeconds: 2}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			overlay := &recordingOverlay{}
			c := NewController(overlay, nil)
			c.Trigger(context.Background(), "draft", tt.analyze, models.DefaultSettings())

			if overlay.loading != 0 {
				t.Errorf("Expected loading cleared, counter = %d", overlay.loading)
			}
			if len(overlay.results)+len(overlay.toasts) != 1 {
				t.Errorf("Expected exactly one result or toast, got %d results %d toasts", len(overlay.results), len(overlay.toasts))
			}
		})
	}
}

func TestController_LateResultDiscarded(t *testing.T) {
	t.Parallel()

	overlay := &recordingOverlay{}
	c := NewController(overlay, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Trigger(context.Background(), "draft", func(context.Context, string) (*models.AnalysisResult, error) {
			close(started)
			<-release
			return sampleResult(), nil
		}, models.DefaultSettings())
	}()

	<-started
	c.Close()
	close(release)
	<-done

	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	if len(overlay.results) != 0 {
		t.Errorf("Expected late result discarded, got %d results", len(overlay.results))
	}
	if overlay.loading != 0 {
		t.Errorf("Expected loading cleared, counter = %d", overlay.loading)
	}
}

func TestController_ApplyRewrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	overlay := &recordingOverlay{}
	c := NewController(overlay, nil)
	loc := compose.NewStaticLocator("draft", compose.Profile{})

	c.Trigger(ctx, "draft", func(context.Context, string) (*models.AnalysisResult, error) {
		r := sampleResult()
		r.RewriteExample = "Improved draft"
		return r, nil
	}, models.DefaultSettings())

	if err := c.ApplyRewrite(ctx, loc, loc); err != nil {
		t.Fatalf("ApplyRewrite() error = %v", err)
	}
	if _, text, _ := compose.ActiveText(ctx, loc); text != "Improved draft" {
		t.Errorf("Expected draft replaced, got %q", text)
	}
	if last := overlay.toasts[len(overlay.toasts)-1]; last != ToastRewriteApplied {
		t.Errorf("Expected applied toast, got %+v", last)
	}
	if overlay.closed != 1 {
		t.Errorf("Expected overlay closed after applying, got %d", overlay.closed)
	}
}

func TestController_ApplyRewriteDraftChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	overlay := &recordingOverlay{}
	c := NewController(overlay, nil)
	loc := compose.NewStaticLocator("draft", compose.Profile{})

	c.Trigger(ctx, "draft", func(context.Context, string) (*models.AnalysisResult, error) {
		return sampleResult(), nil
	}, models.DefaultSettings())

	// The user kept typing after the analysis
	_ = loc.SetText(ctx, compose.Surface{}, "draft, edited")

	if err := c.ApplyRewrite(ctx, loc, loc); !errors.Is(err, compose.ErrNoComposeSurface) {
		t.Fatalf("Expected ErrNoComposeSurface, got %v", err)
	}
	if last := overlay.toasts[len(overlay.toasts)-1]; last != ToastRewriteMissing {
		t.Errorf("Expected missing toast, got %+v", last)
	}
}
