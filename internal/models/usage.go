package models

import "time"

// MaxHistoryEntries caps the analysis history
const MaxHistoryEntries = 50

// MonthKeyLayout formats a time as a "YYYY-MM" month key
const MonthKeyLayout = "2006-01"

// MonthKey returns the calendar month key for t in t's location
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// MonthlyUsage aggregates analyses for one calendar month
type MonthlyUsage struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// UsageStats tracks cumulative and per-month analysis counts and estimated cost
type UsageStats struct {
	AnalysisCount   int            `json:"analysisCount"`
	TotalCost       float64        `json:"totalCost"`
	LastResetDate   string         `json:"lastResetDate,omitempty"`
	MonthlyAnalyses []MonthlyUsage `json:"monthlyAnalyses"`
}

// Month returns the bucket for month, or nil if none exists
func (s *UsageStats) Month(month string) *MonthlyUsage {
	for i := range s.MonthlyAnalyses {
		if s.MonthlyAnalyses[i].Month == month {
			return &s.MonthlyAnalyses[i]
		}
	}
	return nil
}

// HistoryEntry is one past analysis
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Score     int    `json:"score"`
	Rating    string `json:"rating"`
}

// Settings are the user's synced preferences
type Settings struct {
	SaveHistory  bool `json:"saveHistory" yaml:"save_history"`
	ShowWarnings bool `json:"showWarnings" yaml:"show_warnings"`
}

// DefaultSettings returns the settings used before the user changes anything
func DefaultSettings() Settings {
	return Settings{SaveHistory: true, ShowWarnings: true}
}

// RateLimitState is the single shared cooldown timestamp
type RateLimitState struct {
	LastAnalysisTimeMs int64 `json:"lastAnalysisTime"`
}
