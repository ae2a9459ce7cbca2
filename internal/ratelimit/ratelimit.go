package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/storage"
)

// DefaultCooldown is the minimum interval between analyses
const DefaultCooldown = 6000 * time.Millisecond

// Decision is the outcome of a cooldown check
type Decision struct {
	Allowed     bool
	WaitSeconds int
}

// CheckAllowed reports whether a request at nowMs may proceed given the last accepted request at lastMs.
// A zero lastMs means no request has been recorded.
func CheckAllowed(nowMs, lastMs int64, cooldown time.Duration) Decision {
	if lastMs == 0 {
		return Decision{Allowed: true}
	}
	cooldownMs := cooldown.Milliseconds()
	elapsed := nowMs - lastMs
	if elapsed >= cooldownMs {
		return Decision{Allowed: true}
	}
	remaining := cooldownMs - elapsed
	// ceil(remaining / 1000) for positive remaining
	return Decision{WaitSeconds: int((remaining + 999) / 1000)}
}

// Gate enforces the cooldown using a single timestamp held in a Store
type Gate struct {
	store    storage.Store
	cooldown time.Duration
}

// NewGate creates a gate persisting its timestamp in store
func NewGate(store storage.Store, cooldown time.Duration) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{store: store, cooldown: cooldown}
}

// Cooldown returns the configured interval
func (g *Gate) Cooldown() time.Duration {
	return g.cooldown
}

// Check reads the last accepted time and decides whether now may proceed
func (g *Gate) Check(ctx context.Context, now time.Time) (Decision, error) {
	var state models.RateLimitState
	if _, err := g.store.Get(ctx, storage.KeyLastAnalysisTime, &state); err != nil {
		return Decision{}, fmt.Errorf("failed to load cooldown state: %w", err)
	}
	return CheckAllowed(now.UnixMilli(), state.LastAnalysisTimeMs, g.cooldown), nil
}

// Record overwrites the stored timestamp with now
func (g *Gate) Record(ctx context.Context, now time.Time) error {
	state := models.RateLimitState{LastAnalysisTimeMs: now.UnixMilli()}
	if err := g.store.Set(ctx, storage.KeyLastAnalysisTime, state); err != nil {
		return fmt.Errorf("failed to save cooldown state: %w", err)
	}
	return nil
}
