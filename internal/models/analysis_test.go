package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Count
		wantErr bool
	}{
		{"plain", "1200", 1200, false},
		{"commas", "1,234,567", 1234567, false},
		{"thousands suffix", "1.2K", 1200, false},
		{"lowercase k", "3k", 3000, false},
		{"millions", "2.5M", 2500000, false},
		{"approx prefix", "~500", 500, false},
		{"empty", "", 0, false},
		{"negative clamps", "-5", 0, false},
		{"garbage", "lots", 0, true},
		{"huge clamps", "1e30", math.MaxInt64, false},
		{"huge with suffix clamps", "9.9e99K", math.MaxInt64, false},
		{"infinity", "inf", 0, true},
		{"negative infinity", "-Inf", 0, true},
		{"not a number", "NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngagementPrediction_UnmarshalMixedCounts(t *testing.T) {
	t.Parallel()

	raw := `{"followerCount":10000,"views":"1,200","likes":30,"replies":"3","retweets":null,"reasoning":"steady"}`

	var p EngagementPrediction
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.Views != 1200 || p.Likes != 30 || p.Replies != 3 || p.Retweets != 0 {
		t.Errorf("unexpected counts: %+v", p)
	}
	if p.FollowerCount == nil || *p.FollowerCount != 10000 {
		t.Errorf("expected follower count 10000, got %v", p.FollowerCount)
	}
}

func TestEngagementPrediction_UnmarshalOutOfRangeCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantViews Count
		wantErr   bool
	}{
		{"huge number", `{"views":1e30}`, math.MaxInt64, false},
		{"huge string", `{"views":"9.9e99K"}`, math.MaxInt64, false},
		{"negative number", `{"views":-12}`, 0, false},
		{"infinity string", `{"views":"inf"}`, 0, true},
		{"nan string", `{"views":"NaN"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p EngagementPrediction
			err := json.Unmarshal([]byte(tt.raw), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if p.Views != tt.wantViews || p.Views < 0 {
				t.Errorf("Views = %d, want %d", p.Views, tt.wantViews)
			}
		})
	}
}

func TestAnalysisResult_UnmarshalScores(t *testing.T) {
	t.Parallel()

	var r AnalysisResult
	raw := `{"overallScore":72.0,"metrics":{"lengthScore":"88","toneScore":64.6,"linkScore":null}}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.OverallScore != 72 || r.Metrics.LengthScore != 88 || r.Metrics.ToneScore != 65 || r.Metrics.LinkScore != 0 {
		t.Errorf("Unexpected scores: overall %d, metrics %+v", r.OverallScore, r.Metrics)
	}

	for _, bad := range []string{
		`{"overallScore":1e30}`,
		`{"overallScore":"NaN"}`,
		`{"overallScore":"high"}`,
		`{"overallScore":true}`,
	} {
		if err := json.Unmarshal([]byte(bad), &r); err == nil {
			t.Errorf("Expected error decoding %s", bad)
		}
	}
}

func TestEngagementPrediction_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   EngagementPrediction
		want EngagementPrediction
	}{
		{
			name: "already ordered",
			in:   EngagementPrediction{Views: 1200, Likes: 30, Replies: 3, Retweets: 8},
			want: EngagementPrediction{Views: 1200, Likes: 30, Replies: 3, Retweets: 8},
		},
		{
			name: "retweets above likes",
			in:   EngagementPrediction{Views: 1000, Likes: 5, Replies: 2, Retweets: 9},
			want: EngagementPrediction{Views: 1000, Likes: 9, Replies: 2, Retweets: 9},
		},
		{
			name: "likes above views",
			in:   EngagementPrediction{Views: 10, Likes: 50, Replies: 1, Retweets: 1},
			want: EngagementPrediction{Views: 50, Likes: 50, Replies: 1, Retweets: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := tt.in
			p.Normalize()
			if p != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", p, tt.want)
			}
			if !p.Ordered() {
				t.Errorf("expected ordered prediction after Normalize, got %+v", p)
			}
		})
	}
}

func TestAnalysisResult_Canonicalize(t *testing.T) {
	t.Parallel()

	a := AnalysisResult{
		Rating:      "needs improvement",
		Tone:        "Humorous",
		Strengths:   []string{"a", "b", "c"},
		Suggestions: []Suggestion{{Issue: "x", Impact: "HIGH"}},
	}
	a.Canonicalize()

	if a.Rating != RatingNeedsImprovement {
		t.Errorf("Rating = %q, want %q", a.Rating, RatingNeedsImprovement)
	}
	if a.Tone != ToneHumorous {
		t.Errorf("Tone = %q, want %q", a.Tone, ToneHumorous)
	}
	if len(a.Strengths) != MaxStrengths {
		t.Errorf("expected %d strengths, got %d", MaxStrengths, len(a.Strengths))
	}
	if a.Suggestions[0].Impact != ImpactHigh {
		t.Errorf("Impact = %q, want high", a.Suggestions[0].Impact)
	}
}

func TestImpactRank(t *testing.T) {
	t.Parallel()

	if !(ImpactHigh.Rank() < ImpactMedium.Rank() && ImpactMedium.Rank() < ImpactLow.Rank()) {
		t.Error("expected high < medium < low")
	}
	if Impact("unknown").Rank() <= ImpactLow.Rank() {
		t.Error("expected unknown impact to sort after low")
	}
}

func TestMetricsEntries(t *testing.T) {
	t.Parallel()

	m := Metrics{LengthScore: 80, ToneScore: 40}
	entries := m.Entries()
	if len(entries) != 10 {
		t.Fatalf("expected 10 metric entries, got %d", len(entries))
	}
	if entries[0].Key != "lengthScore" || entries[0].Value != 80 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[9].Key != "toneScore" || entries[9].Value != 40 {
		t.Errorf("unexpected last entry: %+v", entries[9])
	}
}

func TestMonthKeyAndLookup(t *testing.T) {
	t.Parallel()

	key := MonthKey(time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC))
	if key != "2026-03" {
		t.Fatalf("MonthKey() = %q, want 2026-03", key)
	}

	stats := UsageStats{MonthlyAnalyses: []MonthlyUsage{{Month: "2026-03", Count: 2}}}
	if m := stats.Month("2026-03"); m == nil || m.Count != 2 {
		t.Errorf("Month(2026-03) = %+v", m)
	}
	if m := stats.Month("2026-04"); m != nil {
		t.Errorf("expected nil for missing month, got %+v", m)
	}
}
