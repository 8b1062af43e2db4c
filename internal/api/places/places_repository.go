package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-wanderlust-places/app/observability/metrics"
	"github.com/FACorreiaa/go-wanderlust-places/config"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

const (
	providerGoogle = "google_places"
	maxPhotoBytes  = 10 << 20
	maxJSONBytes   = 5 << 20
)

// detailsFields is the field set requested from the details endpoint.
var detailsFields = strings.Join([]string{
	"place_id", "name", "formatted_address", "vicinity", "geometry", "rating",
	"user_ratings_total", "price_level", "types", "photos", "reviews", "website",
	"formatted_phone_number", "international_phone_number", "opening_hours",
}, ",")

var _ Repository = (*RepositoryImpl)(nil)

// Repository talks to the Google Places web service.
type Repository interface {
	NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.PlaceResult, error)
	Details(ctx context.Context, placeID string) (*types.PlaceResult, error)
	RawDetails(ctx context.Context, placeID string) (json.RawMessage, error)
	Photo(ctx context.Context, reference string, maxWidth int) (*types.PhotoPayload, error)
}

type RepositoryImpl struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewRepository(cfg config.PlacesConfig, logger *slog.Logger) *RepositoryImpl {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RepositoryImpl{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger.With(slog.String("component", "places_repository")),
	}
}

func (r *RepositoryImpl) NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.PlaceResult, error) {
	ctx, span := otel.Tracer("PlacesRepository").Start(ctx, "NearbySearch", trace.WithAttributes(
		attribute.String("places.type", q.Type),
		attribute.String("places.keyword", q.Keyword),
		attribute.Int("places.radius", q.Radius),
	))
	defer span.End()

	params := url.Values{}
	params.Set("location", formatLocation(q.Location))
	params.Set("radius", strconv.Itoa(q.Radius))
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}

	body, _, err := r.get(ctx, "nearby_search", "/nearbysearch/json", params, maxJSONBytes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		return nil, err
	}

	var resp types.NearbySearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, &types.UpstreamError{Provider: providerGoogle, Status: "DECODE_ERROR", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}

	switch resp.Status {
	case types.PlacesStatusOK:
		span.SetAttributes(attribute.Int("places.results", len(resp.Results)))
		return resp.Results, nil
	case types.PlacesStatusZeroResults:
		return []types.PlaceResult{}, nil
	default:
		err := statusError(resp.Status, resp.ErrorMessage, types.ErrUpstreamTransport)
		span.RecordError(err)
		span.SetStatus(codes.Error, resp.Status)
		return nil, err
	}
}

func (r *RepositoryImpl) Details(ctx context.Context, placeID string) (*types.PlaceResult, error) {
	ctx, span := otel.Tracer("PlacesRepository").Start(ctx, "Details", trace.WithAttributes(
		attribute.String("places.place_id", placeID),
	))
	defer span.End()

	body, err := r.RawDetails(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details failed")
		return nil, err
	}

	var resp types.PlaceDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &types.UpstreamError{Provider: providerGoogle, Status: "DECODE_ERROR", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}
	if resp.Status != types.PlacesStatusOK {
		err := statusError(resp.Status, resp.ErrorMessage, types.ErrDetailsUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, resp.Status)
		return nil, err
	}
	if resp.Result == nil {
		return nil, &types.UpstreamError{Provider: providerGoogle, Status: resp.Status, Message: "empty result", Err: types.ErrDetailsUnavailable}
	}
	return resp.Result, nil
}

// RawDetails returns the provider's details payload untouched.
func (r *RepositoryImpl) RawDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	body, _, err := r.get(ctx, "details", "/details/json", params, maxJSONBytes)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &types.UpstreamError{Provider: providerGoogle, Status: "DECODE_ERROR", Message: "details payload is not JSON", Err: types.ErrUpstreamTransport}
	}
	return body, nil
}

func (r *RepositoryImpl) Photo(ctx context.Context, reference string, maxWidth int) (*types.PhotoPayload, error) {
	ctx, span := otel.Tracer("PlacesRepository").Start(ctx, "Photo")
	defer span.End()

	params := url.Values{}
	params.Set("photo_reference", reference)
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	body, contentType, err := r.get(ctx, "photo", "/photo", params, maxPhotoBytes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "photo failed")
		return nil, err
	}
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return &types.PhotoPayload{ContentType: contentType, Data: body}, nil
}

// get performs one rate-limited GET and returns the body and content type.
// Errors never carry the request URL, which holds the API key.
func (r *RepositoryImpl) get(ctx context.Context, operation, path string, params url.Values, limit int64) ([]byte, string, error) {
	if r.apiKey == "" {
		return nil, "", fmt.Errorf("%w: Google Places API key not configured", types.ErrConfiguration)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, "", &types.UpstreamError{Provider: providerGoogle, Status: "RATE_LIMITED", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}

	params.Set("key", r.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build %s request: %w", operation, errors.Join(types.ErrUpstreamTransport, redact(err)))
	}

	start := time.Now()
	outcome := "success"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("provider", providerGoogle),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		)
		metrics.Get().UpstreamRequestsTotal.Add(ctx, 1, attrs)
		metrics.Get().UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	resp, err := r.client.Do(req)
	if err != nil {
		outcome = "transport_error"
		err = redact(err)
		r.logger.WarnContext(ctx, "Upstream request failed", slog.String("operation", operation), slog.Any("error", err))
		return nil, "", &types.UpstreamError{Provider: providerGoogle, Status: "TRANSPORT_ERROR", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		outcome = "transport_error"
		return nil, "", &types.UpstreamError{Provider: providerGoogle, Status: "READ_ERROR", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}
	if int64(len(body)) > limit {
		outcome = "too_large"
		r.logger.WarnContext(ctx, "Upstream response exceeds size limit",
			slog.String("operation", operation),
			slog.Int64("limit", limit))
		return nil, "", &types.UpstreamError{Provider: providerGoogle, Status: "TOO_LARGE", Message: fmt.Sprintf("response larger than %d bytes", limit), Err: types.ErrUpstreamTransport}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "http_" + strconv.Itoa(resp.StatusCode)
		r.logger.WarnContext(ctx, "Upstream returned non-2xx",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode))
		return nil, "", &types.UpstreamError{Provider: providerGoogle, Status: resp.Status, Err: types.ErrUpstreamTransport}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// statusError maps a provider status field to the domain error taxonomy.
// notFound is used for NOT_FOUND and INVALID_REQUEST.
func statusError(status, message string, notFound error) error {
	ue := &types.UpstreamError{Provider: providerGoogle, Status: status, Message: message}
	switch status {
	case types.PlacesStatusRequestDenied, types.PlacesStatusOverQueryLimit:
		ue.Err = types.ErrUpstreamDenied
	case types.PlacesStatusNotFound, types.PlacesStatusInvalidRequest:
		ue.Err = notFound
	default:
		ue.Err = types.ErrUpstreamTransport
	}
	return ue
}

// redact strips the URL from net/http client errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
