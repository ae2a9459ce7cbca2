package compose

// x.com DOM selectors.
// These are isolated here because X changes their DOM frequently.
// Update these when surface detection breaks.

const (
	// Compose surfaces
	MainCompose  = `[data-testid="tweetTextarea_0"]`
	ReplyCompose = `[data-testid="tweetTextarea_1"]`
	DMCompose    = `[data-testid="dmComposerTextInput"]`

	// Compose toolbar, present whenever a compose dialog is open
	Toolbar = `[data-testid="toolBar"]`

	// Profile page
	ProfileHeader  = `[data-testid="UserName"]`
	FollowersLink  = `a[href$="/verified_followers"], a[href$="/followers"]`
	UserBio        = `[data-testid="UserDescription"]`
	LoginIndicator = `[data-testid="loginButton"]`
)

// surfaceSelectors lists compose surfaces in lookup order
var surfaceSelectors = []Surface{
	{Kind: KindMain, Selector: MainCompose},
	{Kind: KindReply, Selector: ReplyCompose},
	{Kind: KindDM, Selector: DMCompose},
}
