package analyzer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/benvon/virality-checker/internal/models"
)

var (
	// ErrEmptyContent means the draft is blank after trimming
	ErrEmptyContent = errors.New("content is empty")
	// ErrContentTooLong means the draft exceeds models.MaxContentLength characters
	ErrContentTooLong = fmt.Errorf("content exceeds %d characters", models.MaxContentLength)
	// ErrUpstreamUnavailable means the relay could not be reached
	ErrUpstreamUnavailable = errors.New("relay service unavailable")
	// ErrMalformedResponse means the relay answered success with an unreadable body
	ErrMalformedResponse = errors.New("malformed response from relay service")
)

// RateLimitedError rejects a request made inside the cooldown window
type RateLimitedError struct {
	WaitSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before analyzing again", e.WaitSeconds)
}

// UpstreamError is a non-success status returned by the relay
type UpstreamError struct {
	Code       string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// IsAuth reports a rejected server credential
func (e *UpstreamError) IsAuth() bool {
	return e.Code == models.CodeUpstreamAuth || (e.Code == "" && e.StatusCode == http.StatusUnauthorized)
}

// IsQuota reports exhausted LLM credits
func (e *UpstreamError) IsQuota() bool {
	return e.Code == models.CodeUpstreamQuota || (e.Code == "" && e.StatusCode == http.StatusPaymentRequired)
}

// IsRateLimit reports throttling by the relay or by the LLM API
func (e *UpstreamError) IsRateLimit() bool {
	return e.Code == models.CodeUpstreamRateLimited || e.Code == models.CodeRateLimited ||
		(e.Code == "" && e.StatusCode == http.StatusTooManyRequests)
}

// IsShape reports an LLM response the relay could not decode
func (e *UpstreamError) IsShape() bool {
	return e.Code == models.CodeResponseShape
}

// IsInput reports a request the relay rejected as invalid
func (e *UpstreamError) IsInput() bool {
	return e.Code == models.CodeInvalidRequest
}

// Category groups failures by how they are surfaced to the user
type Category string

const (
	CategoryNone              Category = ""
	CategoryInput             Category = "input"
	CategoryRateLimit         Category = "rate_limit"
	CategoryTransport         Category = "transport"
	CategoryUpstreamAuth      Category = "upstream_auth"
	CategoryUpstreamQuota     Category = "upstream_quota"
	CategoryUpstreamRateLimit Category = "upstream_rate_limit"
	CategoryUpstream          Category = "upstream"
	CategoryResponseShape     Category = "response_shape"
	CategoryInternal          Category = "internal"
)

// Classify maps an Analyze error onto its user-facing category
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}

	var rateErr *RateLimitedError
	var upstreamErr *UpstreamError
	switch {
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
		return CategoryInput
	case errors.As(err, &rateErr):
		return CategoryRateLimit
	case errors.Is(err, ErrUpstreamUnavailable):
		return CategoryTransport
	case errors.Is(err, ErrMalformedResponse):
		return CategoryResponseShape
	case errors.As(err, &upstreamErr):
		switch {
		case upstreamErr.IsAuth():
			return CategoryUpstreamAuth
		case upstreamErr.IsQuota():
			return CategoryUpstreamQuota
		case upstreamErr.IsRateLimit():
			return CategoryUpstreamRateLimit
		case upstreamErr.IsShape():
			return CategoryResponseShape
		case upstreamErr.IsInput():
			return CategoryInput
		}
		return CategoryUpstream
	}
	return CategoryInternal
}
