package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/request"
	"github.com/benvon/virality-checker/internal/telemetry"
	"github.com/benvon/virality-checker/internal/validation"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	// DefaultGrokModel is the default model to use
	DefaultGrokModel = "grok-4"
	// DefaultGrokBaseURL is the default xAI API base URL
	DefaultGrokBaseURL = "https://api.x.ai/v1"
	// DefaultTemperature is the sampling temperature sent with every request
	DefaultTemperature = 0.7

	responsesPath = "responses"
)

// GrokConfig configures a GrokProvider
type GrokConfig struct {
	APIKey              string
	BaseURL             string
	Model               string
	Temperature         float64
	NormalizeEngagement bool
	// HTTPClient defaults to a client without an overall timeout
	HTTPClient *http.Client
	Logger     *zap.Logger
	DebugMode  bool
}

// GrokProvider implements AIProvider against xAI's responses endpoint
type GrokProvider struct {
	client      openai.Client
	model       string
	temperature float64
	normalize   bool
	logger      *zap.Logger
	debugMode   bool
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type responsesRequest struct {
	Model          string         `json:"model"`
	Input          []inputMessage `json:"input"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

// NewGrokProvider creates a new Grok provider
func NewGrokProvider(cfg GrokConfig) *GrokProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultGrokModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGrokBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(cfg.HTTPClient),
		// Failures are terminal for the attempt; the caller decides whether to try again
		option.WithMaxRetries(0),
	)

	return &GrokProvider{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		normalize:   cfg.NormalizeEngagement,
		logger:      cfg.Logger,
		debugMode:   cfg.DebugMode,
	}
}

// NewGrokProviderFactory returns a ProviderFactory reading api_key, base_url, model,
// temperature and normalize_engagement from the config map
func NewGrokProviderFactory(logger *zap.Logger, debugMode bool) ProviderFactory {
	return func(config map[string]string) (AIProvider, error) {
		apiKey := config["api_key"]
		if apiKey == "" {
			return nil, errors.New("grok provider requires api_key")
		}

		var temperature float64
		if v := config["temperature"]; v != "" {
			t, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid temperature %q: %w", v, err)
			}
			temperature = t
		}

		normalize, _ := strconv.ParseBool(config["normalize_engagement"])

		return NewGrokProvider(GrokConfig{
			APIKey:              apiKey,
			BaseURL:             config["base_url"],
			Model:               config["model"],
			Temperature:         temperature,
			NormalizeEngagement: normalize,
			Logger:              logger,
			DebugMode:           debugMode,
		}), nil
	}
}

// AnalyzePost sends the analysis prompt to Grok and decodes the structured result
func (p *GrokProvider) AnalyzePost(ctx context.Context, req *models.AnalysisRequest) (result *models.AnalysisResult, err error) {
	prompt := buildAnalysisPrompt(req.Content, req.FollowerCount, req.BioText())
	params := responsesRequest{
		Model: p.model,
		Input: []inputMessage{
			{Role: "system", Content: SystemMessage},
			{Role: "user", Content: prompt},
		},
		Temperature:    p.temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	ctx, span := telemetry.StartSpan(ctx, "llm.analyze_post",
		attribute.String("llm.model", p.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	requestID := request.RequestIDFromContext(ctx)
	if p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "analyze_post"),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("request_id", requestID),
		)
	}

	var body []byte
	start := time.Now()
	err = p.client.Post(ctx, responsesPath, params, &body)
	latency := time.Since(start)
	if err != nil {
		if p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "analyze_post"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return nil, classifyTransportError(err)
	}

	if p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "analyze_post"),
			zap.String("model", p.model),
			zap.Int("response_length", len(body)),
			zap.String("response_preview", SanitizeResponse(string(body), true)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	result, kind, err := DecodeAnalysis(body)
	if err != nil {
		p.logger.Warn("llm_response_decode_failed",
			zap.String("envelope", string(kind)),
			zap.Error(err),
			zap.String("response_preview", SanitizeResponse(string(body), false)),
			zap.String("request_id", requestID),
		)
		return nil, err
	}

	result.Canonicalize()
	if p.normalize && !result.EngagementPrediction.Ordered() {
		p.logger.Info("engagement_prediction_normalized",
			zap.Int64("views", int64(result.EngagementPrediction.Views)),
			zap.Int64("likes", int64(result.EngagementPrediction.Likes)),
			zap.String("request_id", requestID),
		)
		result.EngagementPrediction.Normalize()
	}

	// The result is passed through even when it breaks the declared ranges
	if verr := validation.ValidateAnalysisResult(result); verr != nil {
		p.logger.Warn("llm_result_out_of_shape",
			zap.Error(verr),
			zap.String("request_id", requestID),
		)
	}

	return result, nil
}

// classifyTransportError maps an SDK error onto UpstreamError or ErrUpstreamUnavailable
func classifyTransportError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return NewUpstreamError(apiErr.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

// Ensure GrokProvider implements AIProvider
var _ AIProvider = (*GrokProvider)(nil)
