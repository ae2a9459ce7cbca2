// Package presentation turns an analysis into what the user sees: the overlay
// view model, its HTML and terminal renderings, and toasts for failures.
package presentation

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/benvon/virality-checker/internal/models"
)

// Score classes, from best to worst
const (
	ClassExcellent = "score-excellent"
	ClassGood      = "score-good"
	ClassAverage   = "score-average"
	ClassNeedsWork = "score-needs-work"
	ClassPoor      = "score-poor"
)

// ScoreClass buckets a 0-100 score and returns its CSS class and emoji
func ScoreClass(score int) (string, string) {
	switch {
	case score >= 85:
		return ClassExcellent, "🔥"
	case score >= 70:
		return ClassGood, "⭐"
	case score >= 55:
		return ClassAverage, "👍"
	case score >= 40:
		return ClassNeedsWork, "📈"
	default:
		return ClassPoor, "⚠️"
	}
}

// ImpactIcon returns the icon shown next to a suggestion
func ImpactIcon(impact models.Impact) string {
	switch impact {
	case models.ImpactHigh:
		return "🔥"
	case models.ImpactMedium:
		return "⭐"
	default:
		return "💡"
	}
}

// SortSuggestions returns suggestions ordered high, medium, low. Equal impacts keep their order.
func SortSuggestions(suggestions []models.Suggestion) []models.Suggestion {
	sorted := make([]models.Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Impact.Rank() < sorted[j].Impact.Rank()
	})
	return sorted
}

// SuggestionView is one numbered suggestion
type SuggestionView struct {
	Number     int
	Icon       string
	Impact     string
	Issue      string
	Suggestion string
}

// MetricView is one sub-score row
type MetricView struct {
	Label string
	Value int
	Class string
}

// View is everything the overlay shows for one analysis
type View struct {
	Score       int
	Class       string
	Emoji       string
	Rating      string
	Tone        string
	Prediction  models.EngagementPrediction
	Suggestions []SuggestionView
	Strengths   []string
	Original    string
	Rewrite     string
	Metrics     []MetricView
	Risks       []string
}

// BuildView prepares result for display. Risks are dropped when settings.ShowWarnings is off.
func BuildView(result *models.AnalysisResult, original string, settings models.Settings) View {
	class, emoji := ScoreClass(int(result.OverallScore))
	v := View{
		Score:      int(result.OverallScore),
		Class:      class,
		Emoji:      emoji,
		Rating:     string(result.Rating),
		Tone:       capitalizeFirst(string(result.Tone)),
		Prediction: result.EngagementPrediction,
		Strengths:  result.Strengths,
		Original:   original,
		Rewrite:    result.RewriteExample,
	}

	for i, s := range SortSuggestions(result.Suggestions) {
		v.Suggestions = append(v.Suggestions, SuggestionView{
			Number:     i + 1,
			Icon:       ImpactIcon(s.Impact),
			Impact:     string(s.Impact),
			Issue:      s.Issue,
			Suggestion: s.Suggestion,
		})
	}

	for _, m := range result.Metrics.Entries() {
		c, _ := ScoreClass(int(m.Value))
		v.Metrics = append(v.Metrics, MetricView{Label: m.Label, Value: int(m.Value), Class: c})
	}

	if settings.ShowWarnings {
		v.Risks = result.Risks
	}
	return v
}

// FollowerLabel renders a follower count, or "unknown" when none was known
func FollowerLabel(count *int) string {
	if count == nil {
		return "unknown"
	}
	return formatThousands(int64(*count))
}

// Preview cuts content to maxChars characters, adding "..." when it was longer
func Preview(content string, maxChars int) string {
	if utf8.RuneCountInString(content) <= maxChars {
		return content
	}
	return string([]rune(content)[:maxChars]) + "..."
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func formatThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if strings.HasPrefix(digits, "-") {
		b.WriteByte('-')
		digits = digits[1:]
	}
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}
