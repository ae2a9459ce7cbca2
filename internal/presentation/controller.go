package presentation

import (
	"context"
	"strings"
	"sync"

	"github.com/benvon/virality-checker/internal/compose"
	"github.com/benvon/virality-checker/internal/models"
	"go.uber.org/zap"
)

// Overlay is where the controller draws
type Overlay interface {
	ShowLoading()
	HideLoading()
	ShowResult(v View)
	Close()
	Notify(t Toast)
}

// AnalyzeFunc runs one analysis of content
type AnalyzeFunc func(ctx context.Context, content string) (*models.AnalysisResult, error)

// Controller owns the single open overlay. Each Trigger opens a new session; a
// result arriving after its session was closed or replaced is discarded.
type Controller struct {
	overlay Overlay
	logger  *zap.Logger

	mu       sync.Mutex
	session  uint64
	open     bool
	result   *models.AnalysisResult
	original string
}

// NewController creates a controller drawing on overlay
func NewController(overlay Overlay, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{overlay: overlay, logger: logger}
}

// Trigger analyzes content and shows the result or a toast. The loading
// indicator is always cleared, whatever the outcome.
func (c *Controller) Trigger(ctx context.Context, content string, analyze AnalyzeFunc, settings models.Settings) {
	c.mu.Lock()
	c.session++
	id := c.session
	c.open = true
	c.result = nil
	c.original = content
	c.mu.Unlock()

	c.overlay.ShowLoading()
	result, err := func() (*models.AnalysisResult, error) {
		defer c.overlay.HideLoading()
		return analyze(ctx, content)
	}()

	c.mu.Lock()
	current := c.open && c.session == id
	if current && err == nil {
		c.result = result
	}
	if current && err != nil {
		c.open = false
	}
	c.mu.Unlock()

	if !current {
		c.logger.Debug("late_result_discarded", zap.Uint64("session", id), zap.Bool("failed", err != nil))
		return
	}
	if err != nil {
		c.overlay.Notify(NotificationFor(err))
		return
	}
	c.overlay.ShowResult(BuildView(result, content, settings))
}

// Close dismisses the overlay. A pending analysis keeps running but its result is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	wasOpen := c.open
	c.open = false
	c.result = nil
	c.mu.Unlock()

	if wasOpen {
		c.overlay.Close()
	}
}

// ApplyRewrite replaces the draft with the current result's rewrite. The target is the
// surface whose text still matches the analyzed content.
func (c *Controller) ApplyRewrite(ctx context.Context, loc compose.Locator, w compose.Writer) error {
	c.mu.Lock()
	result, original, open := c.result, c.original, c.open
	c.mu.Unlock()

	if !open || result == nil || result.RewriteExample == "" {
		c.overlay.Notify(ToastNoRewrite)
		return nil
	}

	surfaces, err := loc.LocateComposeSurfaces(ctx)
	if err != nil {
		c.overlay.Notify(ToastRewriteMissing)
		return err
	}
	for _, s := range surfaces {
		text, err := loc.ExtractText(ctx, s)
		if err != nil || strings.TrimSpace(text) != strings.TrimSpace(original) {
			continue
		}
		if err := w.SetText(ctx, s, result.RewriteExample); err != nil {
			c.overlay.Notify(ToastRewriteMissing)
			return err
		}
		c.overlay.Notify(ToastRewriteApplied)
		c.Close()
		return nil
	}

	c.overlay.Notify(ToastRewriteMissing)
	return compose.ErrNoComposeSurface
}
