package presentation

import (
	"errors"
	"fmt"

	"github.com/benvon/virality-checker/internal/analyzer"
)

// Level is a toast's severity
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is a transient, dismissible notification
type Toast struct {
	Level   Level
	Message string
}

// Toasts for the rewrite action
var (
	ToastRewriteApplied = Toast{Level: LevelSuccess, Message: "✅ Rewrite applied! Review and edit as needed."}
	ToastRewriteMissing = Toast{Level: LevelError, Message: "❌ Could not find the tweet box. Please copy manually."}
	ToastNoRewrite      = Toast{Level: LevelInfo, Message: "💡 This analysis has no rewrite to apply."}
)

// NotificationFor maps an analysis failure onto the toast shown to the user
func NotificationFor(err error) Toast {
	switch analyzer.Classify(err) {
	case analyzer.CategoryInput:
		if errors.Is(err, analyzer.ErrEmptyContent) {
			return Toast{Level: LevelWarning, Message: "⚠️ Please write something first!"}
		}
		return Toast{Level: LevelWarning, Message: fmt.Sprintf("⚠️ %s", err.Error())}
	case analyzer.CategoryRateLimit:
		var rateErr *analyzer.RateLimitedError
		errors.As(err, &rateErr)
		return Toast{Level: LevelWarning, Message: fmt.Sprintf("⏳ Please wait %d seconds before analyzing again", rateErr.WaitSeconds)}
	case analyzer.CategoryTransport:
		return Toast{Level: LevelError, Message: "🌐 Network error. Please check your connection."}
	case analyzer.CategoryUpstreamAuth:
		return Toast{Level: LevelError, Message: "❌ Invalid API key. Please check the relay configuration."}
	case analyzer.CategoryUpstreamQuota:
		return Toast{Level: LevelError, Message: "💳 Insufficient Grok credits. Please add credits to your account."}
	case analyzer.CategoryUpstreamRateLimit:
		return Toast{Level: LevelWarning, Message: "⏳ Rate limit exceeded. Please wait a moment."}
	case analyzer.CategoryResponseShape:
		return Toast{Level: LevelError, Message: "❌ Unexpected response format. Please try again."}
	case analyzer.CategoryUpstream:
		return Toast{Level: LevelError, Message: fmt.Sprintf("❌ Error: %s", err.Error())}
	case analyzer.CategoryNone:
		return Toast{}
	default:
		return Toast{Level: LevelError, Message: "❌ Extension error. Please try again."}
	}
}
