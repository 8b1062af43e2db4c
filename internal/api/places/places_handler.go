package places

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-wanderlust-places/internal/api"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

type HandlerImpl struct {
	placesService Service
	logger        *slog.Logger
}

func NewHandlerImpl(placesService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		placesService: placesService,
		logger:        logger,
	}
}

// SearchPlaces godoc
// @Summary      Search landmarks around a point
// @Description  Runs the activity category's nearby searches, merges and filters them into landmarks.
// @Tags         Places
// @Produce      json
// @Param        location   query string true  "Center as lat,lng"
// @Param        type       query string false "Activity category (museum, wine, hiking, ...)"
// @Param        radius     query int    false "Radius in metres, capped at 50000"
// @Param        maxResults query int    false "Maximum number of landmarks (default 5)"
// @Param        keyword    query string false "Free-text keyword replacing the category keyword"
// @Param        details    query bool   false "Enrich each landmark with a details lookup (default true)"
// @Success      200 {object} types.SearchResponse
// @Failure      400 {object} api.ErrorBody "Missing or invalid parameters"
// @Failure      403 {object} api.ErrorBody "Provider denied the request"
// @Failure      500 {object} api.ErrorBody "Configuration or upstream failure"
// @Router       /places/search [get]
func (h *HandlerImpl) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/places/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))
	q := r.URL.Query()

	location := strings.TrimSpace(q.Get("location"))
	if location == "" {
		l.WarnContext(ctx, "Location parameter missing")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Location parameter is required")
		return
	}
	center, err := ParseLocation(location)
	if err != nil {
		l.WarnContext(ctx, "Invalid location", slog.String("location", location), slog.Any("error", err))
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid location parameter", err.Error())
		return
	}
	radius, err := optionalInt(q.Get("radius"))
	if err != nil {
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid radius parameter", err.Error())
		return
	}
	maxResults, err := optionalInt(q.Get("maxResults"))
	if err != nil || maxResults < 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid maxResults parameter")
		return
	}
	enrich := true
	if v := q.Get("details"); v != "" {
		enrich, err = strconv.ParseBool(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid details parameter")
			return
		}
	}

	params := types.SearchParams{
		Center:     center,
		Radius:     radius,
		Category:   q.Get("type"),
		Keyword:    q.Get("keyword"),
		MaxResults: maxResults,
		Enrich:     enrich,
	}
	span.SetAttributes(attribute.String("places.category", params.Category))
	l = l.With(slog.String("category", params.Category))

	landmarks, err := h.placesService.SearchLandmarks(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		l.ErrorContext(ctx, "Place search failed", slog.Any("error", err))
		writeServiceError(w, r, err, "Failed to search places")
		return
	}

	l.InfoContext(ctx, "Place search completed", slog.Int("results", len(landmarks)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.SearchResponse{Results: landmarks})
}

// GetPhoto godoc
// @Summary      Photo proxy
// @Description  Relays a provider photo so the API key stays on the server.
// @Tags         Places
// @Produce      image/jpeg
// @Param        photo_reference query string true  "Provider photo reference"
// @Param        maxwidth        query int    false "Maximum width in pixels (default 400)"
// @Success      200 {file} binary
// @Failure      400 {object} api.ErrorBody
// @Failure      500 {object} api.ErrorBody
// @Router       /places/photo [get]
func (h *HandlerImpl) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetPhoto", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/places/photo"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPhoto"))

	maxWidth, err := optionalInt(r.URL.Query().Get("maxwidth"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid maxwidth parameter")
		return
	}

	photo, err := h.placesService.Photo(ctx, r.URL.Query().Get("photo_reference"), maxWidth)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "photo failed")
		l.ErrorContext(ctx, "Failed to fetch photo", slog.Any("error", err))
		writeServiceError(w, r, err, "Failed to fetch photo")
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(photo.Data); err != nil {
		l.WarnContext(ctx, "Failed to write photo", slog.Any("error", err))
	}
}

// GetPlaceDetails godoc
// @Summary      Raw place details
// @Description  Returns the provider's details payload for a place id unchanged.
// @Tags         Places
// @Produce      json
// @Param        placeId path string true "Provider place id"
// @Success      200 {object} object
// @Failure      400 {object} api.ErrorBody
// @Failure      403 {object} api.ErrorBody
// @Failure      500 {object} api.ErrorBody
// @Router       /places/details/{placeId} [get]
func (h *HandlerImpl) GetPlaceDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetPlaceDetails", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/places/details/{placeId}"),
	))
	defer span.End()

	placeID := chi.URLParam(r, "placeId")
	l := h.logger.With(slog.String("handler", "GetPlaceDetails"), slog.String("place_id", placeID))

	raw, err := h.placesService.RawDetails(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details failed")
		l.ErrorContext(ctx, "Failed to get place details", slog.Any("error", err))
		writeServiceError(w, r, err, "Failed to get place details")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		l.WarnContext(ctx, "Failed to write details", slog.Any("error", err))
	}
}

// GetLandmark godoc
// @Summary      Normalised place details
// @Description  Resolves a place id to a landmark. Unknown or malformed ids yield the "unavailable" placeholder.
// @Tags         Places
// @Produce      json
// @Param        placeId path string true "Provider place id or landmark id"
// @Success      200 {object} types.Landmark
// @Router       /places/landmark/{placeId} [get]
func (h *HandlerImpl) GetLandmark(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetLandmark", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/places/landmark/{placeId}"),
	))
	defer span.End()

	placeID := chi.URLParam(r, "placeId")
	landmark := h.placesService.LandmarkDetails(ctx, placeID)
	span.SetAttributes(attribute.String("landmark.detail_level", string(landmark.DetailLevel)))
	api.WriteJSONResponse(w, r, http.StatusOK, landmark)
}

// SearchOSM godoc
// @Summary      Search OpenStreetMap landmarks
// @Description  Searches Nominatim for tourism features in Europe.
// @Tags         Places
// @Produce      json
// @Param        q            query string true  "Free-text query"
// @Param        type         query string false "Category assigned to the results"
// @Param        countrycodes query string false "Comma separated ISO country codes"
// @Success      200 {object} types.SearchResponse
// @Failure      400 {object} api.ErrorBody
// @Failure      500 {object} api.ErrorBody
// @Router       /places/osm/search [get]
func (h *HandlerImpl) SearchOSM(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchOSM", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/places/osm/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchOSM"))
	q := r.URL.Query()

	landmarks, err := h.placesService.SearchOSM(ctx, types.OSMSearchParams{
		Query:        q.Get("q"),
		Type:         q.Get("type"),
		CountryCodes: q.Get("countrycodes"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "osm search failed")
		l.ErrorContext(ctx, "OpenStreetMap search failed", slog.Any("error", err))
		writeServiceError(w, r, err, "Failed to search OpenStreetMap")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.SearchResponse{Results: landmarks})
}

// writeServiceError maps the domain errors to HTTP. Anything unmapped gets
// the generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrConfiguration):
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Google Places API key not configured")
	case errors.Is(err, types.ErrUpstreamDenied):
		details := types.ProviderMessage(err)
		if details == "" {
			details = "Unknown error"
		}
		api.ErrorResponseWithDetails(w, r, http.StatusForbidden, "Google Places API request denied", details)
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, generic)
	}
}

func optionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
