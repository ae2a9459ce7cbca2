package models

// Relay error codes carried in AnalyzeResponse.Code
const (
	CodeInvalidRequest      = "invalid_request"
	CodeRateLimited         = "rate_limited"
	CodeUpstreamAuth        = "upstream_auth"
	CodeUpstreamRateLimited = "upstream_rate_limited"
	CodeUpstreamQuota       = "upstream_quota"
	CodeUpstreamError       = "upstream_error"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeResponseShape       = "response_shape"
	CodeInternal            = "internal"
)

// AnalyzeResponse is the relay's reply to POST /analyze
type AnalyzeResponse struct {
	Success  bool            `json:"success"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
	Code     string          `json:"code,omitempty"`
}

// HealthResponse is the relay's reply to GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}
