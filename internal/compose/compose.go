// Package compose finds the text region a user is drafting in and reads or replaces its text.
package compose

import (
	"context"
	"errors"
	"strings"

	"github.com/benvon/virality-checker/internal/models"
)

// ErrNoComposeSurface means no compose surface is present
var ErrNoComposeSurface = errors.New("no compose surface found")

// ErrSurfaceGone means a located surface disappeared before it was read or written
var ErrSurfaceGone = errors.New("compose surface no longer present")

// Kind identifies which compose surface a handle refers to
type Kind string

const (
	KindMain  Kind = "main"
	KindReply Kind = "reply"
	KindDM    Kind = "dm"
)

// Surface is a handle to one compose surface
type Surface struct {
	Kind     Kind   `json:"kind"`
	Selector string `json:"selector"`
	Focused  bool   `json:"focused"`
	HasText  bool   `json:"hasText"`
}

// Locator finds compose surfaces and reads their text
type Locator interface {
	LocateComposeSurfaces(ctx context.Context) ([]Surface, error)
	ExtractText(ctx context.Context, s Surface) (string, error)
}

// Writer replaces the text of a compose surface
type Writer interface {
	SetText(ctx context.Context, s Surface, text string) error
}

// Profile is what the author's profile page says about them
type Profile struct {
	FollowerCount *int
	Bio           string
}

// ProfileReader reads the author's follower count and bio
type ProfileReader interface {
	ReadProfile(ctx context.Context) (Profile, error)
}

// ActiveText picks the surface the user is drafting in: the focused main compose box,
// then a reply box with text, then a main box with text, then a DM box with text.
// When none has text the first surface is returned with empty text.
func ActiveText(ctx context.Context, loc Locator) (Surface, string, error) {
	surfaces, err := loc.LocateComposeSurfaces(ctx)
	if err != nil {
		return Surface{}, "", err
	}
	if len(surfaces) == 0 {
		return Surface{}, "", ErrNoComposeSurface
	}

	chosen, ok := pick(surfaces)
	if !ok {
		return surfaces[0], "", nil
	}

	text, err := loc.ExtractText(ctx, chosen)
	if err != nil {
		return Surface{}, "", err
	}
	return chosen, text, nil
}

func pick(surfaces []Surface) (Surface, bool) {
	find := func(match func(Surface) bool) (Surface, bool) {
		for _, s := range surfaces {
			if match(s) {
				return s, true
			}
		}
		return Surface{}, false
	}

	if s, ok := find(func(s Surface) bool { return s.Kind == KindMain && s.Focused }); ok {
		return s, true
	}
	if s, ok := find(func(s Surface) bool { return s.Kind == KindReply && s.HasText }); ok {
		return s, true
	}
	if s, ok := find(func(s Surface) bool { return s.Kind == KindMain && s.HasText }); ok {
		return s, true
	}
	return find(func(s Surface) bool { return s.Kind == KindDM && s.HasText })
}

// ParseFollowerCount parses a profile follower label such as "12.5K" or "1,234".
// Unparseable labels yield nil, which the prompt renders as unknown.
func ParseFollowerCount(label string) *int {
	label = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), "Followers"))
	if label == "" {
		return nil
	}
	n, err := models.ParseCount(label)
	if err != nil {
		return nil
	}
	v := int(n)
	return &v
}
