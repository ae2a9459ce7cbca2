package models

import (
	"strings"
)

// MaxContentLength is the maximum number of characters accepted for analysis
const MaxContentLength = 5000

// Rating is the overall virality rating returned by the LLM
type Rating string

const (
	RatingViralPotential    Rating = "Viral Potential"
	RatingStrongPerformance Rating = "Strong Performance"
	RatingGood              Rating = "Good"
	RatingNeedsImprovement  Rating = "Needs Improvement"
	RatingLowEngagement     Rating = "Low Engagement"
)

// Ratings lists every rating in descending order of potential
var Ratings = []Rating{
	RatingViralPotential,
	RatingStrongPerformance,
	RatingGood,
	RatingNeedsImprovement,
	RatingLowEngagement,
}

// Tone is the detected tone of the post
type Tone string

const (
	ToneInspirational Tone = "inspirational"
	ToneEducational   Tone = "educational"
	ToneControversial Tone = "controversial"
	ToneHumorous      Tone = "humorous"
	ToneNeutral       Tone = "neutral"
	ToneOther         Tone = "other"
)

// Tones lists every known tone
var Tones = []Tone{ToneInspirational, ToneEducational, ToneControversial, ToneHumorous, ToneNeutral, ToneOther}

// Impact is the expected impact of a suggestion
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Rank orders impacts high to low. Unknown impacts sort last.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 0
	case ImpactMedium:
		return 1
	case ImpactLow:
		return 2
	default:
		return 3
	}
}

// ParseRating matches a rating case-insensitively
func ParseRating(s string) (Rating, bool) {
	for _, r := range Ratings {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return Rating(s), false
}

// ParseTone matches a tone case-insensitively
func ParseTone(s string) (Tone, bool) {
	for _, t := range Tones {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return Tone(s), false
}

// ParseImpact matches an impact case-insensitively
func ParseImpact(s string) (Impact, bool) {
	switch Impact(strings.ToLower(strings.TrimSpace(s))) {
	case ImpactHigh:
		return ImpactHigh, true
	case ImpactMedium:
		return ImpactMedium, true
	case ImpactLow:
		return ImpactLow, true
	}
	return Impact(s), false
}

// AnalysisRequest is the payload sent to the relay for one analysis
type AnalysisRequest struct {
	Content       string `json:"content" validate:"required,max=5000"`
	FollowerCount *int   `json:"followerCount,omitempty" validate:"omitempty,min=0"`
	Bio           string `json:"bio,omitempty"`
	// UserBio is accepted for older clients that sent the bio under this key
	UserBio string `json:"userBio,omitempty"`
}

// BioText returns the bio, preferring the current field name
func (r *AnalysisRequest) BioText() string {
	if r.Bio != "" {
		return r.Bio
	}
	return r.UserBio
}

// Metrics holds the fixed set of named sub-scores
type Metrics struct {
	LengthScore         Score `json:"lengthScore" validate:"min=0,max=100"`
	MentionScore        Score `json:"mentionScore" validate:"min=0,max=100"`
	LinkScore           Score `json:"linkScore" validate:"min=0,max=100"`
	MediaIndicatorScore Score `json:"mediaIndicatorScore" validate:"min=0,max=100"`
	QuestionScore       Score `json:"questionScore" validate:"min=0,max=100"`
	EngagementScore     Score `json:"engagementScore" validate:"min=0,max=100"`
	StructureScore      Score `json:"structureScore" validate:"min=0,max=100"`
	ReadabilityScore    Score `json:"readabilityScore" validate:"min=0,max=100"`
	ContentQualityScore Score `json:"contentQualityScore" validate:"min=0,max=100"`
	ToneScore           Score `json:"toneScore" validate:"min=0,max=100"`
}

// MetricEntry is one labelled sub-score
type MetricEntry struct {
	Key   string
	Label string
	Value Score
}

// Entries returns the sub-scores in display order
func (m Metrics) Entries() []MetricEntry {
	return []MetricEntry{
		{"lengthScore", "Length Optimization", m.LengthScore},
		{"mentionScore", "Mentions & Tags", m.MentionScore},
		{"linkScore", "Link Strategy", m.LinkScore},
		{"mediaIndicatorScore", "Media Potential", m.MediaIndicatorScore},
		{"questionScore", "Engagement Triggers", m.QuestionScore},
		{"engagementScore", "Engagement Language", m.EngagementScore},
		{"structureScore", "Content Structure", m.StructureScore},
		{"readabilityScore", "Readability", m.ReadabilityScore},
		{"contentQualityScore", "Content Quality", m.ContentQualityScore},
		{"toneScore", "Tone & Voice", m.ToneScore},
	}
}

// EngagementPrediction is the LLM's estimate of how the post will perform
type EngagementPrediction struct {
	FollowerCount *int   `json:"followerCount"`
	Views         Count  `json:"views"`
	Likes         Count  `json:"likes"`
	Replies       Count  `json:"replies"`
	Retweets      Count  `json:"retweets"`
	Reasoning     string `json:"reasoning"`
}

// Ordered reports whether views >= likes >= max(replies, retweets)
func (p EngagementPrediction) Ordered() bool {
	return p.Views >= p.Likes && p.Likes >= p.Replies && p.Likes >= p.Retweets
}

// Normalize raises views and likes so that views >= likes >= max(replies, retweets).
// Counts are only ever raised, never lowered.
func (p *EngagementPrediction) Normalize() {
	if p.Replies > p.Likes {
		p.Likes = p.Replies
	}
	if p.Retweets > p.Likes {
		p.Likes = p.Retweets
	}
	if p.Likes > p.Views {
		p.Views = p.Likes
	}
}

// Suggestion is one actionable edit
type Suggestion struct {
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	Impact     Impact `json:"impact" validate:"omitempty,impact"`
}

// AnalysisResult is the structured critique produced by the LLM
type AnalysisResult struct {
	OverallScore         Score                `json:"overallScore" validate:"min=0,max=100"`
	Rating               Rating               `json:"rating" validate:"omitempty,rating"`
	Metrics              Metrics              `json:"metrics"`
	EngagementPrediction EngagementPrediction `json:"engagementPrediction"`
	Tone                 Tone                 `json:"tone" validate:"omitempty,tone"`
	Strengths            []string             `json:"strengths"`
	Suggestions          []Suggestion         `json:"suggestions" validate:"dive"`
	RewriteExample       string               `json:"rewriteExample"`
	Risks                []string             `json:"risks"`
}

// MaxStrengths is the number of strengths kept from a result
const MaxStrengths = 2

// Canonicalize fixes enum casing and trims strengths to MaxStrengths.
// Numeric values are left as the LLM produced them.
func (a *AnalysisResult) Canonicalize() {
	if r, ok := ParseRating(string(a.Rating)); ok {
		a.Rating = r
	}
	if t, ok := ParseTone(string(a.Tone)); ok {
		a.Tone = t
	}
	for i := range a.Suggestions {
		if imp, ok := ParseImpact(string(a.Suggestions[i].Impact)); ok {
			a.Suggestions[i].Impact = imp
		}
	}
	if len(a.Strengths) > MaxStrengths {
		a.Strengths = a.Strengths[:MaxStrengths]
	}
}
