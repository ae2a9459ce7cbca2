package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benvon/virality-checker/internal/config"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultUserAgent is a realistic Chrome user agent
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// allocatorOptions returns chromedp allocator options. A user data dir keeps the
// x.com login between runs.
func allocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		// navigator.webdriver = true gets the page served a login wall
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(DefaultUserAgent),
		chromedp.WindowSize(1280, 900),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	}
	return opts
}

// Browser locates compose surfaces in a chromedp-driven Chrome tab
type Browser struct {
	cfg        config.BrowserConfig
	logger     *zap.Logger
	browserCtx context.Context
	cancel     context.CancelFunc
}

// OpenBrowser starts Chrome, opens cfg.PageURL and waits for a compose toolbar
func OpenBrowser(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Browser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(cfg)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	b := &Browser{
		cfg:        cfg,
		logger:     logger,
		browserCtx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}

	waitCtx, waitCancel := context.WithTimeout(browserCtx, b.waitTimeout())
	defer waitCancel()

	logger.Debug("browser_navigating", zap.String("url", cfg.PageURL))
	if err := chromedp.Run(waitCtx,
		chromedp.Navigate(cfg.PageURL),
		chromedp.WaitVisible(Toolbar, chromedp.ByQuery),
	); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to load compose page %s: %w", cfg.PageURL, err)
	}
	return b, nil
}

// Close shuts the browser down
func (b *Browser) Close() {
	b.cancel()
}

func (b *Browser) waitTimeout() time.Duration {
	if b.cfg.WaitTimeout > 0 {
		return b.cfg.WaitTimeout
	}
	return 30 * time.Second
}

// LocateComposeSurfaces reports every compose surface currently in the page
func (b *Browser) LocateComposeSurfaces(ctx context.Context) ([]Surface, error) {
	script, err := locateScript()
	if err != nil {
		return nil, err
	}

	var surfaces []Surface
	if err := b.run(ctx, chromedp.Evaluate(script, &surfaces)); err != nil {
		return nil, fmt.Errorf("failed to locate compose surfaces: %w", err)
	}
	return surfaces, nil
}

// ExtractText returns the text content of s
func (b *Browser) ExtractText(ctx context.Context, s Surface) (string, error) {
	sel, err := json.Marshal(s.Selector)
	if err != nil {
		return "", err
	}

	var res struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	script := fmt.Sprintf(`(function(sel){
		const el = document.querySelector(sel);
		return el ? {found: true, text: el.textContent || ''} : {found: false, text: ''};
	})(%s)`, sel)
	if err := b.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return "", fmt.Errorf("failed to read compose text: %w", err)
	}
	if !res.Found {
		return "", ErrSurfaceGone
	}
	return res.Text, nil
}

// SetText replaces the text of s with text, as if the user had typed it
func (b *Browser) SetText(ctx context.Context, s Surface, text string) error {
	var found bool
	sel, err := json.Marshal(s.Selector)
	if err != nil {
		return err
	}
	selectAll := fmt.Sprintf(`(function(sel){
		const el = document.querySelector(sel);
		if (!el) return false;
		el.focus();
		document.execCommand('selectAll', false, null);
		return true;
	})(%s)`, sel)

	err = b.run(ctx,
		chromedp.Evaluate(selectAll, &found),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if !found {
				return ErrSurfaceGone
			}
			return input.InsertText(text).Do(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to set compose text: %w", err)
	}
	return nil
}

type rawProfile struct {
	Followers string `json:"followers"`
	Bio       string `json:"bio"`
}

const profileScript = `(function(){
	const link = document.querySelector(` + "`" + FollowersLink + "`" + `);
	let followers = '';
	if (link) {
		const span = link.querySelector('span');
		followers = ((span ? span.textContent : link.textContent) || '').trim();
	}
	const bioEl = document.querySelector(` + "`" + UserBio + "`" + `);
	return {followers: followers, bio: bioEl ? (bioEl.textContent || '').trim() : ''};
})()`

// ReadProfile opens cfg.ProfileURL in a second tab so the draft is left untouched
func (b *Browser) ReadProfile(ctx context.Context) (Profile, error) {
	if b.cfg.ProfileURL == "" {
		return Profile{}, nil
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, b.waitTimeout())
	defer timeoutCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var raw rawProfile
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(b.cfg.ProfileURL),
		chromedp.WaitVisible(ProfileHeader, chromedp.ByQuery),
		chromedp.Evaluate(profileScript, &raw),
	); err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", b.cfg.ProfileURL, err)
	}

	profile := Profile{FollowerCount: ParseFollowerCount(raw.Followers), Bio: raw.Bio}
	b.logger.Debug("profile_read",
		zap.Bool("has_follower_count", profile.FollowerCount != nil),
		zap.Int("bio_length", len(profile.Bio)),
	)
	return profile, nil
}

// run executes actions in the compose tab, cancelled when either ctx or the browser ends
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.browserCtx, b.waitTimeout())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// locateScript builds the page script that reports each present surface
func locateScript() (string, error) {
	sels, err := json.Marshal(surfaceSelectors)
	if err != nil {
		return "", fmt.Errorf("failed to encode selectors: %w", err)
	}
	return fmt.Sprintf(`(function(sels){
		const out = [];
		for (const s of sels) {
			const el = document.querySelector(s.selector);
			if (!el) continue;
			out.push({
				kind: s.kind,
				selector: s.selector,
				focused: !!(document.activeElement && el.contains(document.activeElement)),
				hasText: (el.textContent || '').trim().length > 0
			});
		}
		return out;
	})(%s)`, sels), nil
}

var (
	_ Locator       = (*Browser)(nil)
	_ Writer        = (*Browser)(nil)
	_ ProfileReader = (*Browser)(nil)
)
