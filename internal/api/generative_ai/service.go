package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wanderlust-places/app/observability/metrics"
	"github.com/FACorreiaa/go-wanderlust-places/config"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

const (
	providerGemini     = "gemini"
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second
	mimeJSON           = "application/json"
)

// CompletionRequest is a single stateless completion: one system prompt and
// one user turn.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	// JSON asks the model for a JSON document only.
	JSON bool
	// Temperature overrides the configured temperature when set.
	Temperature *float32
}

// CompletionClient returns the model's text for a request.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

var _ CompletionClient = (*AIClient)(nil)

type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewAIClient builds a Gemini client. A missing API key is not an error here:
// the server still starts and every Complete call reports ErrConfiguration.
func NewAIClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	ai := &AIClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger.With(slog.String("component", "ai_client")),
	}
	if ai.model == "" {
		ai.model = defaultModel
	}
	if ai.temperature <= 0 {
		ai.temperature = defaultTemperature
	}
	if ai.timeout <= 0 {
		ai.timeout = defaultTimeout
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		ai.logger.WarnContext(ctx, "GOOGLE_GEMINI_API_KEY is not set, AI recommendations are disabled")
		span.SetStatus(codes.Ok, "AI client created without key")
		return ai, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	ai.client = client

	span.SetStatus(codes.Ok, "AI client created successfully")
	return ai, nil
}

func (ai *AIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Complete", trace.WithAttributes(
		attribute.Int("prompt.length", len(req.UserPrompt)),
		attribute.String("model", ai.model),
		attribute.Bool("json", req.JSON),
	))
	defer span.End()

	if ai.client == nil {
		err := fmt.Errorf("%w: Gemini API key not configured", types.ErrConfiguration)
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return "", err
	}

	temperature := ai.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}
	if req.JSON {
		cfg.ResponseMIMEType = mimeJSON
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	start := time.Now()
	outcome := "success"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("provider", providerGemini),
			attribute.String("operation", "generate_content"),
			attribute.String("outcome", outcome),
		)
		metrics.Get().UpstreamRequestsTotal.Add(ctx, 1, attrs)
		metrics.Get().UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(req.UserPrompt), cfg)
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		ai.logger.ErrorContext(ctx, "Gemini request failed", slog.Any("error", err))
		return "", &types.UpstreamError{Provider: providerGemini, Status: "GENERATE_FAILED", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		outcome = "empty"
		err := &types.UpstreamError{Provider: providerGemini, Status: "EMPTY_RESPONSE", Err: types.ErrUpstreamTransport}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty response")
		return "", err
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return text, nil
}
