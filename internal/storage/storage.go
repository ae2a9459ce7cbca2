package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// Keys persisted by the host
const (
	KeySettings         = "settings"
	KeyUsageStats       = "usageStats"
	KeyAnalysisHistory  = "analysisHistory"
	KeyLastAnalysisTime = "lastAnalysisTime"
)

// Scope names
const (
	ScopeLocal  = "local"
	ScopeSynced = "sync"
)

// Store is a JSON key-value store. Get reports false when the key is absent.
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, keys ...string) error
}

// Scopes bundles the two storage scopes the host uses.
// Local holds the cooldown timestamp, usage stats and history; Synced holds settings.
type Scopes struct {
	Local  Store
	Synced Store

	closers []func() error
}

// Close releases every backend opened by OpenScopes
func (s *Scopes) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenScopes opens the SQLite database under dataDir for the local scope.
// The synced scope uses Redis when syncRedisURL is set and the same SQLite file otherwise.
func OpenScopes(ctx context.Context, dataDir, syncRedisURL string) (*Scopes, error) {
	db, err := OpenSQLite(ctx, filepath.Join(dataDir, "virality.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	scopes := &Scopes{
		Local:   db.Scope(ScopeLocal),
		Synced:  db.Scope(ScopeSynced),
		closers: []func() error{db.Close},
	}

	if syncRedisURL != "" {
		rs, err := NewRedisStore(ctx, syncRedisURL, "virality:"+ScopeSynced+":")
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open synced store: %w", err)
		}
		scopes.Synced = rs
		scopes.closers = append(scopes.closers, rs.Close)
	}

	return scopes, nil
}
