package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-wanderlust-places/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-wanderlust-places/internal/api/generative_ai"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service runs the recommendation dialogue. It holds no conversation state:
// the caller sends the state in and gets the next one back.
type Service interface {
	Respond(ctx context.Context, state types.ConversationState, query string) (types.ConversationState, types.StageReply, error)
	Itinerary(ctx context.Context, req types.ItineraryRequest) (types.ItineraryResponse, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	ai     generativeAI.CompletionClient
}

func NewServiceImpl(ai generativeAI.CompletionClient, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		ai:     ai,
	}
}

// Respond sends one turn to the model and advances the state when the reply
// has the shape the current stage expects. On any failure the input state is
// returned unchanged.
func (s *ServiceImpl) Respond(ctx context.Context, state types.ConversationState, query string) (types.ConversationState, types.StageReply, error) {
	if state.Stage == "" {
		state.Stage = types.StageInitial
	}
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "Respond", trace.WithAttributes(
		attribute.String("dialogue.stage", string(state.Stage)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Respond"), slog.String("stage", string(state.Stage)))

	outcome := "advanced"
	defer func() {
		metrics.Get().DialogueTurnsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", string(state.Stage)),
			attribute.String("outcome", outcome),
		))
	}()

	if !state.Stage.Valid() {
		outcome = "bad_request"
		err := fmt.Errorf("%w: unknown stage %q", types.ErrBadRequest, state.Stage)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown stage")
		return state, nil, err
	}

	userPrompt := userPromptFor(state, query)
	if strings.TrimSpace(userPrompt) == "" {
		outcome = "bad_request"
		return state, nil, fmt.Errorf("%w: query is required", types.ErrBadRequest)
	}

	raw, err := s.ai.Complete(ctx, generativeAI.CompletionRequest{
		SystemPrompt: systemPromptFor(state.Stage),
		UserPrompt:   userPrompt,
		JSON:         true,
	})
	if err != nil {
		outcome = "upstream_error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		l.ErrorContext(ctx, "Completion failed", slog.Any("error", err))
		return state, nil, fmt.Errorf("completion failed: %w", err)
	}

	reply, err := parseStageReply(state.Stage, raw)
	if err != nil {
		outcome = "invalid_reply"
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid reply")
		l.WarnContext(ctx, "Model reply failed validation", slog.Any("error", err))
		return state, nil, err
	}

	next := advance(state, reply)
	span.SetAttributes(attribute.String("dialogue.next_stage", string(next.Stage)))
	span.SetStatus(codes.Ok, "turn completed")
	l.DebugContext(ctx, "Dialogue turn completed", slog.String("next_stage", string(next.Stage)))
	return next, reply, nil
}

// advance applies the transition table. The state only moves forward.
func advance(state types.ConversationState, reply types.StageReply) types.ConversationState {
	next := state
	switch r := reply.(type) {
	case types.ActivityReply:
		next.Stage = types.StageActivityIdentified
		next.CurrentActivity = r.Activity
	case types.InterestsReply:
		next.Stage = types.StageInterestsRefined
		next.CurrentInterests = append([]string(nil), r.Interests...)
	case types.CountryDetailsReply:
		next.Stage = types.StageInterestsRefined
	}
	if next.Stage.Rank() < state.Stage.Rank() {
		return state
	}
	return next
}

// Itinerary asks the model to fill in the travel report template and returns
// its markdown unmodified.
func (s *ServiceImpl) Itinerary(ctx context.Context, req types.ItineraryRequest) (types.ItineraryResponse, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "Itinerary", trace.WithAttributes(
		attribute.Float64("itinerary.total_days", req.TotalDays),
		attribute.Int("itinerary.landmarks", len(req.Landmarks)),
	))
	defer span.End()

	outcome := "completed"
	defer func() {
		metrics.Get().DialogueTurnsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", "itinerary"),
			attribute.String("outcome", outcome),
		))
	}()

	userPrompt := req.Query
	if strings.TrimSpace(userPrompt) == "" {
		userPrompt = "Create my travel report."
	}

	content, err := s.ai.Complete(ctx, generativeAI.CompletionRequest{
		SystemPrompt: itineraryPrompt(req),
		UserPrompt:   userPrompt,
	})
	if err != nil {
		outcome = "upstream_error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		s.logger.ErrorContext(ctx, "Itinerary completion failed", slog.Any("error", err))
		return types.ItineraryResponse{}, fmt.Errorf("itinerary completion failed: %w", err)
	}

	span.SetStatus(codes.Ok, "itinerary generated")
	return types.ItineraryResponse{
		Content:   content,
		Countries: extractCountries(content),
	}, nil
}
