package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-wanderlust-places/app/observability/metrics"
	"github.com/FACorreiaa/go-wanderlust-places/config"
	"github.com/FACorreiaa/go-wanderlust-places/internal/cache"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

const (
	DefaultPhotoPath   = "/api/places/photo"
	maxPhotoWidth      = 1600
	enrichConcurrency  = 5
	detailsKeyPrefix   = "details:"
	defaultMaxRadius   = 50000
	defaultMaxResults  = 5
	defaultDetailsWait = 8 * time.Second
)

var _ Service = (*ServiceImpl)(nil)

// Service is the place search and details contract used by the handlers.
type Service interface {
	SearchLandmarks(ctx context.Context, params types.SearchParams) ([]types.Landmark, error)
	Details(ctx context.Context, placeID string) (*types.PlaceResult, error)
	LandmarkDetails(ctx context.Context, placeID string) types.Landmark
	RawDetails(ctx context.Context, placeID string) (json.RawMessage, error)
	Photo(ctx context.Context, reference string, maxWidth int) (*types.PhotoPayload, error)
	SearchOSM(ctx context.Context, params types.OSMSearchParams) ([]types.Landmark, error)
}

// Store is the slice of the cache the service needs.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type Options struct {
	MaxRadius         int
	DefaultMaxResults int
	DetailsTimeout    time.Duration
	PhotoPath         string
	PhotoMaxWidth     int
}

func OptionsFromConfig(cfg config.PlacesConfig) Options {
	return Options{
		MaxRadius:         cfg.MaxRadius,
		DefaultMaxResults: cfg.DefaultMaxResults,
		DetailsTimeout:    cfg.DetailsTimeout,
		PhotoPath:         DefaultPhotoPath,
		PhotoMaxWidth:     cfg.PhotoMaxWidth,
	}
}

type ServiceImpl struct {
	logger         *slog.Logger
	repo           Repository
	osm            OSMRepository
	cache          Store
	group          singleflight.Group
	maxRadius      int
	maxResults     int
	detailsTimeout time.Duration
	photoPath      string
	photoMaxWidth  int
}

func NewServiceImpl(repo Repository, osm OSMRepository, store Store, opts Options, logger *slog.Logger) *ServiceImpl {
	s := &ServiceImpl{
		logger:         logger,
		repo:           repo,
		osm:            osm,
		cache:          store,
		maxRadius:      opts.MaxRadius,
		maxResults:     opts.DefaultMaxResults,
		detailsTimeout: opts.DetailsTimeout,
		photoPath:      opts.PhotoPath,
		photoMaxWidth:  opts.PhotoMaxWidth,
	}
	if s.maxRadius <= 0 {
		s.maxRadius = defaultMaxRadius
	}
	if s.maxResults <= 0 {
		s.maxResults = defaultMaxResults
	}
	if s.detailsTimeout <= 0 {
		s.detailsTimeout = defaultDetailsWait
	}
	if s.photoPath == "" {
		s.photoPath = DefaultPhotoPath
	}
	if s.photoMaxWidth <= 0 {
		s.photoMaxWidth = 400
	}
	return s
}

// SearchLandmarks fans the category's queries out, merges them in query order,
// drops duplicate ids and lodging, then truncates. Sub-query failures are
// tolerated as long as one query succeeds.
func (s *ServiceImpl) SearchLandmarks(ctx context.Context, params types.SearchParams) ([]types.Landmark, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchLandmarks", trace.WithAttributes(
		attribute.String("places.category", params.Category),
		attribute.Float64("places.lat", params.Center.Lat),
		attribute.Float64("places.lng", params.Center.Lng),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchLandmarks"), slog.String("category", params.Category))

	spec := LookupCategory(params.Category)
	queries := spec.QueriesFor(params.Keyword)
	radius := clampRadius(params.Radius, s.maxRadius)
	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	category := strings.ToLower(strings.TrimSpace(params.Category))
	if category == "" {
		category = fallbackPlaceType
	}

	results := make([][]types.PlaceResult, len(queries))
	errs := make([]error, len(queries))
	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			results[i], errs[i] = s.repo.NearbySearch(ctx, types.NearbyQuery{
				Location: params.Center,
				Radius:   radius,
				Type:     q.Type,
				Keyword:  q.Keyword,
			})
			return nil
		})
	}
	_ = g.Wait()

	if err := aggregateError(errs); err != nil {
		l.ErrorContext(ctx, "All place queries failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "all queries failed")
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			l.WarnContext(ctx, "Place sub-query failed, continuing with partial results",
				slog.String("type", queries[i].Type),
				slog.Any("error", err))
		}
	}

	seen := make(map[string]struct{})
	landmarks := make([]types.Landmark, 0, maxResults)
	for _, set := range results {
		for _, p := range set {
			lm := s.toLandmark(p, category)
			if _, dup := seen[lm.ID]; dup {
				continue
			}
			seen[lm.ID] = struct{}{}
			if !spec.Keep(lm.Name, lm.Types) {
				continue
			}
			landmarks = append(landmarks, lm)
		}
	}
	if len(landmarks) > maxResults {
		landmarks = landmarks[:maxResults]
	}

	if params.Enrich {
		landmarks = s.enrichAll(ctx, landmarks)
	}

	metrics.Get().SearchResultsCount.Record(ctx, int64(len(landmarks)),
		metric.WithAttributes(attribute.String("category", category)))
	span.SetAttributes(attribute.Int("places.results", len(landmarks)))
	span.SetStatus(codes.Ok, "search completed")
	l.DebugContext(ctx, "Search completed", slog.Int("results", len(landmarks)))
	return landmarks, nil
}

// aggregateError returns nil when at least one query succeeded. Otherwise a
// configuration error wins over a denial, which wins over anything else.
func aggregateError(errs []error) error {
	var firstErr, denied error
	for _, err := range errs {
		if err == nil {
			return nil
		}
		if errors.Is(err, types.ErrConfiguration) {
			return err
		}
		if denied == nil && errors.Is(err, types.ErrUpstreamDenied) {
			denied = err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if denied != nil {
		return denied
	}
	return firstErr
}

// enrichAll builds new Landmarks from details lookups. A failed lookup keeps
// the basic record.
func (s *ServiceImpl) enrichAll(ctx context.Context, basic []types.Landmark) []types.Landmark {
	out := make([]types.Landmark, len(basic))
	copy(out, basic)

	g := new(errgroup.Group)
	g.SetLimit(enrichConcurrency)
	for i, lm := range basic {
		if lm.PlaceID == "" {
			continue
		}
		g.Go(func() error {
			details, err := s.Details(ctx, lm.PlaceID)
			if err != nil {
				s.logger.WarnContext(ctx, "Details enrichment failed, keeping basic record",
					slog.String("place_id", lm.PlaceID),
					slog.Any("error", err))
				return nil
			}
			out[i] = s.enrich(lm, *details)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Details resolves a place id through the cache. Concurrent lookups of one id
// share a single upstream call bounded by the details timeout.
func (s *ServiceImpl) Details(ctx context.Context, placeID string) (*types.PlaceResult, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Details", trace.WithAttributes(
		attribute.String("places.place_id", placeID),
	))
	defer span.End()

	if !validPlaceID(placeID) {
		return nil, fmt.Errorf("%w: malformed place id %q", types.ErrDetailsUnavailable, placeID)
	}

	key := detailsKeyPrefix + placeID
	if p, ok := cache.GetAs[types.PlaceResult](s.cache, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &p, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.detailsTimeout)
		defer cancel()
		p, err := s.repo.Details(callCtx, placeID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, *p)
		return *p, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details unavailable")
		return nil, fmt.Errorf("%w: %w", types.ErrDetailsUnavailable, err)
	}
	span.SetAttributes(attribute.Bool("singleflight.shared", shared))
	p := v.(types.PlaceResult)
	return &p, nil
}

// LandmarkDetails never fails: an unresolvable id yields the unavailable placeholder.
func (s *ServiceImpl) LandmarkDetails(ctx context.Context, placeID string) types.Landmark {
	p, err := s.Details(ctx, placeID)
	if err != nil {
		s.logger.InfoContext(ctx, "Returning unavailable landmark",
			slog.String("place_id", placeID),
			slog.Any("error", err))
		return UnavailableLandmark(placeID)
	}
	category := fallbackPlaceType
	if len(p.Types) > 0 {
		category = p.Types[0]
	}
	lm := s.toLandmark(*p, category)
	lm.EstimatedDays = 1
	lm.DetailLevel = types.DetailLevelEnriched
	return lm
}

func (s *ServiceImpl) RawDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "RawDetails")
	defer span.End()

	if strings.TrimSpace(placeID) == "" {
		return nil, fmt.Errorf("%w: place id is required", types.ErrBadRequest)
	}
	raw, err := s.repo.RawDetails(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "raw details failed")
		return nil, err
	}
	return raw, nil
}

func (s *ServiceImpl) Photo(ctx context.Context, reference string, maxWidth int) (*types.PhotoPayload, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: photo_reference is required", types.ErrBadRequest)
	}
	if maxWidth <= 0 {
		maxWidth = s.photoMaxWidth
	}
	if maxWidth > maxPhotoWidth {
		maxWidth = maxPhotoWidth
	}
	return s.repo.Photo(ctx, reference, maxWidth)
}

// SearchOSM queries Nominatim, caching the raw hits per (query, country codes).
func (s *ServiceImpl) SearchOSM(ctx context.Context, params types.OSMSearchParams) ([]types.Landmark, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchOSM", trace.WithAttributes(
		attribute.String("osm.query", params.Query),
	))
	defer span.End()

	params.Query = strings.TrimSpace(params.Query)
	if params.Query == "" {
		return nil, fmt.Errorf("%w: q is required", types.ErrBadRequest)
	}

	cc := params.CountryCodes
	if cc == "" {
		cc = "all"
	}
	key := fmt.Sprintf("osm-%s-%s", params.Query, cc)

	hits, ok := cache.GetAs[[]types.OSMPlace](s.cache, key)
	if !ok || hits == nil {
		var err error
		hits, err = s.osm.Search(ctx, params)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "osm search failed")
			return nil, err
		}
		s.cache.Set(key, hits)
	}

	out := make([]types.Landmark, 0, len(hits))
	for _, h := range hits {
		out = append(out, osmToLandmark(h, params.Type))
	}
	return out, nil
}
