package places

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
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
	providerOSM = "openstreetmap"

	// European countries searched when the caller gives none.
	defaultOSMCountryCodes = "fr,de,it,es,uk,at,ch,be,nl,pt,gr,dk,se,no,fi,ie,pl,cz,hu,ro,bg,hr,si,sk,lt,lv,ee,is,mt,cy,lu,mc,va,sm,ad,li"
	europeViewbox          = "-10,70,40,30"
)

var _ OSMRepository = (*OSMRepositoryImpl)(nil)

// OSMRepository searches the Nominatim geocoder.
type OSMRepository interface {
	Search(ctx context.Context, params types.OSMSearchParams) ([]types.OSMPlace, error)
}

type OSMRepositoryImpl struct {
	baseURL   string
	userAgent string
	limit     int
	client    *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewOSMRepository builds a Nominatim client limited to one request per second,
// the public instance's usage policy.
func NewOSMRepository(cfg config.OSMConfig, logger *slog.Logger) *OSMRepositoryImpl {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}
	return &OSMRepositoryImpl{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		limit:     limit,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger.With(slog.String("component", "osm_repository")),
	}
}

func (r *OSMRepositoryImpl) Search(ctx context.Context, params types.OSMSearchParams) ([]types.OSMPlace, error) {
	ctx, span := otel.Tracer("OSMRepository").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("osm.query", params.Query),
	))
	defer span.End()

	countryCodes := params.CountryCodes
	if countryCodes == "" {
		countryCodes = defaultOSMCountryCodes
	}
	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(r.limit))
	q.Set("countrycodes", countryCodes)
	q.Set("featuretype", "tourism")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "en")
	q.Set("bounded", "1")
	q.Set("viewbox", europeViewbox)

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &types.UpstreamError{Provider: providerOSM, Status: "RATE_LIMITED", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &types.UpstreamError{Provider: providerOSM, Status: "BAD_REQUEST", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent)

	start := time.Now()
	outcome := "success"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("provider", providerOSM),
			attribute.String("operation", "search"),
			attribute.String("outcome", outcome),
		)
		metrics.Get().UpstreamRequestsTotal.Add(ctx, 1, attrs)
		metrics.Get().UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	resp, err := r.client.Do(req)
	if err != nil {
		outcome = "transport_error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		r.logger.WarnContext(ctx, "Nominatim request failed", slog.Any("error", err))
		return nil, &types.UpstreamError{Provider: providerOSM, Status: "TRANSPORT_ERROR", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "http_" + strconv.Itoa(resp.StatusCode)
		span.SetStatus(codes.Error, resp.Status)
		return nil, &types.UpstreamError{Provider: providerOSM, Status: resp.Status, Err: types.ErrUpstreamTransport}
	}

	var places []types.OSMPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBytes)).Decode(&places); err != nil {
		outcome = "decode_error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, &types.UpstreamError{Provider: providerOSM, Status: "DECODE_ERROR", Message: err.Error(), Err: types.ErrUpstreamTransport}
	}
	span.SetAttributes(attribute.Int("osm.results", len(places)))
	return places, nil
}
