package presentation

import (
	"fmt"
	"io"
	"strings"
)

// RenderText writes the overlay for a terminal
func RenderText(w io.Writer, v View) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %d/100  %s\n", v.Emoji, v.Score, v.Rating)
	if v.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", v.Tone)
	}

	b.WriteString("\n🎯 Predicted Engagement\n")
	fmt.Fprintf(&b, "  Views %s · Likes %s · Replies %s · Retweets %s\n",
		formatThousands(int64(v.Prediction.Views)),
		formatThousands(int64(v.Prediction.Likes)),
		formatThousands(int64(v.Prediction.Replies)),
		formatThousands(int64(v.Prediction.Retweets)),
	)
	if v.Prediction.FollowerCount != nil {
		fmt.Fprintf(&b, "  Based on %s followers\n", FollowerLabel(v.Prediction.FollowerCount))
	}
	if v.Prediction.Reasoning != "" {
		fmt.Fprintf(&b, "  %s\n", v.Prediction.Reasoning)
	}

	if len(v.Suggestions) > 0 {
		b.WriteString("\n⚡ Quick Wins\n")
		for _, s := range v.Suggestions {
			fmt.Fprintf(&b, "  %d. %s %s\n     %s\n", s.Number, s.Icon, s.Issue, s.Suggestion)
		}
	}

	if len(v.Strengths) > 0 {
		b.WriteString("\n✅ Strengths\n")
		for _, s := range v.Strengths {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}

	if v.Rewrite != "" {
		b.WriteString("\n📝 Rewrite\n")
		fmt.Fprintf(&b, "  Before: %s\n  After:  %s\n", v.Original, v.Rewrite)
	}

	b.WriteString("\n📊 Score Breakdown\n")
	for _, m := range v.Metrics {
		fmt.Fprintf(&b, "  %-22s %3d/100\n", m.Label, m.Value)
	}

	if len(v.Risks) > 0 {
		b.WriteString("\n⚠️ Potential Risks\n")
		for _, r := range v.Risks {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
