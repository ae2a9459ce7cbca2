package compose

import (
	"context"
	"strings"
	"sync"
)

// StaticLocator serves a single in-memory draft, for text given on the command line or stdin
type StaticLocator struct {
	mu      sync.Mutex
	text    string
	profile Profile
}

// NewStaticLocator creates a locator over text
func NewStaticLocator(text string, profile Profile) *StaticLocator {
	return &StaticLocator{text: text, profile: profile}
}

// LocateComposeSurfaces returns one focused main surface
func (l *StaticLocator) LocateComposeSurfaces(context.Context) ([]Surface, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return []Surface{{
		Kind:     KindMain,
		Selector: MainCompose,
		Focused:  true,
		HasText:  strings.TrimSpace(l.text) != "",
	}}, nil
}

// ExtractText returns the draft
func (l *StaticLocator) ExtractText(context.Context, Surface) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text, nil
}

// SetText replaces the draft
func (l *StaticLocator) SetText(_ context.Context, _ Surface, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
	return nil
}

// ReadProfile returns the profile given at construction
func (l *StaticLocator) ReadProfile(context.Context) (Profile, error) {
	return l.profile, nil
}

var (
	_ Locator       = (*StaticLocator)(nil)
	_ Writer        = (*StaticLocator)(nil)
	_ ProfileReader = (*StaticLocator)(nil)
)
