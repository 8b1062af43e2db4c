package recommend

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-wanderlust-places/internal/api"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

// Request types understood by POST /api/ai-recommend.
const (
	TypeActivityIdentification = "activity_identification"
	TypeInterestRefinement     = "interest_refinement"
	TypeCountryRecommendation  = "country_recommendation"
	TypeItinerary              = "itinerary"
)

type HandlerImpl struct {
	recommendService Service
	logger           *slog.Logger
}

func NewHandlerImpl(recommendService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		recommendService: recommendService,
		logger:           logger,
	}
}

// stageForType maps the legacy request type onto a dialogue stage. Unknown
// and empty types start the conversation.
func stageForType(t string) types.Stage {
	switch t {
	case TypeInterestRefinement:
		return types.StageActivityIdentified
	case TypeCountryRecommendation:
		return types.StageInterestsRefined
	default:
		return types.StageInitial
	}
}

// Recommend godoc
// @Summary      AI travel recommendation
// @Description  Runs one turn of the recommendation dialogue, or renders the travel report when type is "itinerary".
// @Description  An explicit stage in the body takes precedence over type.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        request body types.RecommendRequest true "Dialogue turn"
// @Success      200 {object} types.RecommendResponse "Dialogue reply and next state, or types.ItineraryResponse for itineraries"
// @Failure      400 {object} api.ErrorBody
// @Failure      500 {object} api.ErrorBody
// @Router       /ai-recommend [post]
func (h *HandlerImpl) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "Recommend", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/ai-recommend"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommend"))

	var req types.RecommendRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	span.SetAttributes(attribute.String("recommend.type", req.Type))

	if req.Type == TypeItinerary && req.Stage == "" {
		resp, err := h.recommendService.Itinerary(ctx, types.ItineraryRequest{
			Query:           req.Query,
			Landmarks:       req.Landmarks,
			TotalDays:       req.TotalDays,
			Travelers:       req.Travelers,
			Personality:     req.Personality,
			MainDestination: req.MainDestination,
			Dates:           req.Dates,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "itinerary failed")
			writeServiceError(w, r, err)
			return
		}
		l.InfoContext(ctx, "Itinerary generated", slog.Int("countries", len(resp.Countries)))
		api.WriteJSONResponse(w, r, http.StatusOK, resp)
		return
	}

	stage := req.Stage
	if stage == "" {
		stage = stageForType(req.Type)
	}
	state := types.ConversationState{
		Stage:            stage,
		CurrentActivity:  req.CurrentActivity,
		CurrentInterests: req.CurrentInterests,
	}

	next, reply, err := h.recommendService.Respond(ctx, state, req.Query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dialogue turn failed")
		l.ErrorContext(ctx, "Dialogue turn failed", slog.String("stage", string(stage)), slog.Any("error", err))
		writeServiceError(w, r, err)
		return
	}

	l.InfoContext(ctx, "Dialogue turn completed",
		slog.String("stage", string(stage)),
		slog.String("next_stage", string(next.Stage)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.RecommendResponse{
		Content: reply,
		State:   &next,
	})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrConfiguration):
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Gemini API key not configured")
	case errors.Is(err, types.ErrValidation):
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError, "Invalid response format from AI", err.Error())
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get AI recommendations")
	}
}
