package presentation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benvon/virality-checker/internal/models"
)

// HistoryPreviewLength is how much of each past post the history listing shows
const HistoryPreviewLength = 60

// FormatCost renders a dollar amount the way the usage view does
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}

// RenderUsage writes the current month's analysis count and cost
func RenderUsage(w io.Writer, month models.MonthlyUsage, stats models.UsageStats) error {
	_, err := fmt.Fprintf(w, "This month (%s): %d analyses, %s\nAll time: %d analyses, %s\n",
		month.Month, month.Count, FormatCost(month.Cost),
		stats.AnalysisCount, FormatCost(stats.TotalCost),
	)
	return err
}

// RenderHistory writes the history listing, newest first, in loc's time zone
func RenderHistory(w io.Writer, entries []models.HistoryEntry, loc *time.Location) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, "No analysis history yet. Start analyzing posts to build your history!\n")
		return err
	}

	var b strings.Builder
	b.WriteString("Analysis History:\n\n")
	for i, e := range entries {
		when := e.Timestamp
		if ts, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
			when = ts.In(loc).Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, when)
		fmt.Fprintf(&b, "   Score: %d (%s)\n", e.Score, e.Rating)
		fmt.Fprintf(&b, "   Content: %s\n\n", Preview(e.Content, HistoryPreviewLength))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
