package presentation

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

var overlayTemplate = template.Must(template.New("overlay").Parse(overlayHTML))

// RenderHTML writes the overlay as a standalone HTML document. All analysis
// text is escaped; nothing from the LLM is trusted as markup.
func RenderHTML(w io.Writer, v View) error {
	var buf bytes.Buffer
	if err := overlayTemplate.Execute(&buf, v); err != nil {
		return fmt.Errorf("failed to render overlay: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	return nil
}

const overlayHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Virality Analysis</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#F7F9F9;color:#0F1419;margin:0;padding:24px}
.virality-modal-container{max-width:640px;margin:0 auto;background:#FFFFFF;border:1px solid #EFF3F4;border-radius:16px;padding:24px}
.virality-score-card{border-radius:12px;padding:16px;text-align:center;color:#FFFFFF}
.score-excellent{background:#00BA7C}.score-good{background:#1D9BF0}.score-average{background:#F4B000}
.score-needs-work{background:#F4B000}.score-poor{background:#F4212E}
.score-number{font-size:48px;font-weight:700}
.metric-bar-container{background:#EFF3F4;border-radius:4px;height:8px;width:200px;display:inline-block}
.metric-bar{height:8px;border-radius:4px}
.rewrite-box{border:1px solid #EFF3F4;border-radius:8px;padding:12px;margin:8px 0;white-space:pre-wrap}
.section-title{font-size:16px;margin-top:24px}
.virality-footer-info{color:#536471;font-size:13px;margin-top:24px}
</style>
</head>
<body>
<div class="virality-modal-container">
<h2 class="modal-title">⚡ Virality Analysis</h2>

<div class="virality-score-card {{.Class}}">
<div class="score-emoji">{{.Emoji}}</div>
<div class="score-number">{{.Score}}</div>
<div class="score-rating">{{.Rating}}</div>
<div class="score-tone">Tone: {{.Tone}}</div>
</div>

<div class="virality-engagement-section">
<h3 class="section-title">🎯 Predicted Engagement</h3>
<ul class="engagement-grid">
<li>Views: {{.Prediction.Views}}</li>
<li>Likes: {{.Prediction.Likes}}</li>
<li>Replies: {{.Prediction.Replies}}</li>
<li>Retweets: {{.Prediction.Retweets}}</li>
</ul>
{{with .Prediction.Reasoning}}<p class="engagement-reasoning">{{.}}</p>{{end}}
</div>

{{if .Suggestions}}
<div class="virality-suggestions-section">
<h3 class="section-title">⚡ Quick Wins - Make These Changes</h3>
<div class="suggestions-intro">Here's exactly what to edit to boost engagement:</div>
<ul class="suggestions-list">
{{range .Suggestions}}<li class="suggestion-item impact-{{.Impact}}">
<span class="suggestion-number">{{.Number}}</span>
<span class="suggestion-icon">{{.Icon}}</span> <strong>{{.Issue}}</strong>
<div class="suggestion-how">{{.Suggestion}}</div>
</li>
{{end}}</ul>
</div>
{{end}}

{{if .Strengths}}
<div class="virality-strengths-section">
<h3 class="section-title">✅ Strengths</h3>
<ul class="strengths-list">
{{range .Strengths}}<li class="strength-item">{{.}}</li>
{{end}}</ul>
</div>
{{end}}

{{if .Rewrite}}
<div class="virality-rewrite-section">
<h3 class="section-title">📝 Your Tweet With Improvements Applied</h3>
<div class="rewrite-box rewrite-original"><div class="rewrite-label">Before</div><div class="rewrite-content">{{.Original}}</div></div>
<div class="rewrite-box rewrite-improved"><div class="rewrite-label">After</div><div class="rewrite-content">{{.Rewrite}}</div></div>
</div>
{{end}}

<div class="virality-metrics-section">
<h3 class="metrics-title">📊 Score Breakdown</h3>
{{range .Metrics}}<div class="metric-row">
<span class="metric-name">{{.Label}}</span>
<span class="metric-bar-container"><span class="metric-bar {{.Class}}" style="display:block;width: {{.Value}}%"></span></span>
<span class="metric-score">{{.Value}}/100</span>
</div>
{{end}}</div>

{{if .Risks}}
<div class="virality-risks-section">
<h3 class="section-title">⚠️ Potential Risks</h3>
<ul class="risks-list">
{{range .Risks}}<li class="risk-item">{{.}}</li>
{{end}}</ul>
</div>
{{end}}

<div class="virality-footer-info">🤖 Powered by <strong>Grok AI</strong> • Based on X's recommendation algorithm</div>
</div>
</body>
</html>
`
