package ai

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstreamUnavailable wraps transport failures reaching the LLM API
	ErrUpstreamUnavailable = errors.New("LLM API unreachable")
	// ErrUnexpectedEnvelope indicates the response matched neither known envelope shape
	ErrUnexpectedEnvelope = errors.New("unexpected response format from LLM API")
	// ErrInvalidAnalysisJSON indicates the envelope text is not a JSON analysis
	ErrInvalidAnalysisJSON = errors.New("invalid JSON response from LLM API")
)

// UpstreamKind classifies a non-2xx LLM API status
type UpstreamKind string

const (
	UpstreamAuth        UpstreamKind = "auth"
	UpstreamRateLimited UpstreamKind = "rate_limited"
	UpstreamQuota       UpstreamKind = "quota"
	UpstreamGeneric     UpstreamKind = "generic"
)

// User-facing messages for the mapped statuses
const (
	MessageInvalidKey   = "Invalid API key configured on server"
	MessageRateLimited  = "Rate limit exceeded. Please try again in a moment."
	MessageInsufficient = "Insufficient credits. Please add credits to Grok account."
)

// UpstreamError is a non-2xx response from the LLM API
type UpstreamError struct {
	Kind       UpstreamKind
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("LLM API error (status %d, kind %s): %s", e.StatusCode, e.Kind, e.Message)
}

// NewUpstreamError maps an upstream status to a kind and message.
// upstreamMessage is used only for statuses without a dedicated message.
func NewUpstreamError(statusCode int, upstreamMessage string) *UpstreamError {
	switch statusCode {
	case http.StatusUnauthorized:
		return &UpstreamError{Kind: UpstreamAuth, StatusCode: statusCode, Message: MessageInvalidKey}
	case http.StatusTooManyRequests:
		return &UpstreamError{Kind: UpstreamRateLimited, StatusCode: statusCode, Message: MessageRateLimited}
	case http.StatusPaymentRequired:
		return &UpstreamError{Kind: UpstreamQuota, StatusCode: statusCode, Message: MessageInsufficient}
	}

	msg := upstreamMessage
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	if msg == "" {
		msg = "API Error"
	}
	return &UpstreamError{Kind: UpstreamGeneric, StatusCode: statusCode, Message: msg}
}

// IsShapeError reports whether err came from decoding the LLM response
func IsShapeError(err error) bool {
	return errors.Is(err, ErrUnexpectedEnvelope) || errors.Is(err, ErrInvalidAnalysisJSON)
}
