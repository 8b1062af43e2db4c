package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SearchLandmarks(ctx context.Context, params types.SearchParams) ([]types.Landmark, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Landmark), args.Error(1)
}

func (m *MockService) Details(ctx context.Context, placeID string) (*types.PlaceResult, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PlaceResult), args.Error(1)
}

func (m *MockService) LandmarkDetails(ctx context.Context, placeID string) types.Landmark {
	args := m.Called(ctx, placeID)
	return args.Get(0).(types.Landmark)
}

func (m *MockService) RawDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockService) Photo(ctx context.Context, reference string, maxWidth int) (*types.PhotoPayload, error) {
	args := m.Called(ctx, reference, maxWidth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PhotoPayload), args.Error(1)
}

func (m *MockService) SearchOSM(ctx context.Context, params types.OSMSearchParams) ([]types.Landmark, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Landmark), args.Error(1)
}

func newTestRouter(svc Service) http.Handler {
	h := NewHandlerImpl(svc, testLogger())
	r := chi.NewRouter()
	r.Get("/api/places/search", h.SearchPlaces)
	r.Get("/api/places/photo", h.GetPhoto)
	r.Get("/api/places/details/{placeId}", h.GetPlaceDetails)
	r.Get("/api/places/landmark/{placeId}", h.GetLandmark)
	r.Get("/api/places/osm/search", h.SearchOSM)
	return r
}

func doGet(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestSearchPlacesHandler_Validation(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantError string
	}{
		{"missing location", "/api/places/search?type=museum", "Location parameter is required"},
		{"bad location", "/api/places/search?location=paris", "Invalid location parameter"},
		{"bad radius", "/api/places/search?location=48.8,2.3&radius=far", "Invalid radius parameter"},
		{"bad maxResults", "/api/places/search?location=48.8,2.3&maxResults=-1", "Invalid maxResults parameter"},
		{"bad details", "/api/places/search?location=48.8,2.3&details=maybe", "Invalid details parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			rr := doGet(t, newTestRouter(svc), tt.target)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, rr)["error"])
			svc.AssertNotCalled(t, "SearchLandmarks", mock.Anything, mock.Anything)
		})
	}
}

func TestSearchPlacesHandler_Success(t *testing.T) {
	rating := 4.7
	svc := new(MockService)
	svc.On("SearchLandmarks", mock.Anything, types.SearchParams{
		Center:     types.LatLng{Lat: 48.8566, Lng: 2.3522},
		Radius:     5000,
		Category:   "museum",
		MaxResults: 3,
		Enrich:     true,
	}).Return([]types.Landmark{
		{ID: "ChIJ1", Name: "Louvre", Rating: &rating, Type: "museum", DetailLevel: types.DetailLevelEnriched},
	}, nil)

	rr := doGet(t, newTestRouter(svc), "/api/places/search?location=48.8566,2.3522&type=museum&radius=5000&maxResults=3")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Louvre", resp.Results[0].Name)
	svc.AssertExpectations(t)
}

func TestSearchPlacesHandler_DetailsOff(t *testing.T) {
	svc := new(MockService)
	svc.On("SearchLandmarks", mock.Anything, mock.MatchedBy(func(p types.SearchParams) bool {
		return !p.Enrich && p.Keyword == "louvre"
	})).Return([]types.Landmark{}, nil)

	rr := doGet(t, newTestRouter(svc), "/api/places/search?location=48.8,2.3&keyword=louvre&details=false")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[]}`, rr.Body.String())
}

func TestSearchPlacesHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantDetails string
	}{
		{"denied", errDenied, http.StatusForbidden, "Google Places API request denied", "The provided API key is invalid."},
		{"denied without message", &types.UpstreamError{Provider: providerGoogle, Status: "OVER_QUERY_LIMIT", Err: types.ErrUpstreamDenied}, http.StatusForbidden, "Google Places API request denied", "Unknown error"},
		{"missing key", types.ErrConfiguration, http.StatusInternalServerError, "Google Places API key not configured", ""},
		{"transport", errTransport, http.StatusInternalServerError, "Failed to search places", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("SearchLandmarks", mock.Anything, mock.Anything).Return(nil, tt.err)

			rr := doGet(t, newTestRouter(svc), "/api/places/search?location=48.8,2.3&type=wine")

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantDetails != "" {
				assert.Equal(t, tt.wantDetails, body["details"])
			} else {
				assert.NotContains(t, body, "details")
			}
		})
	}
}

func TestGetLandmarkHandler_AlwaysOK(t *testing.T) {
	svc := new(MockService)
	svc.On("LandmarkDetails", mock.Anything, "ChIJunknown").Return(UnavailableLandmark("ChIJunknown"))

	rr := doGet(t, newTestRouter(svc), "/api/places/landmark/ChIJunknown")

	require.Equal(t, http.StatusOK, rr.Code)
	var lm types.Landmark
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lm))
	assert.Equal(t, "ChIJunknown", lm.ID)
	assert.Equal(t, "Unknown Place", lm.Name)
	assert.Equal(t, types.DetailLevelUnavailable, lm.DetailLevel)
}

func TestGetPlaceDetailsHandler(t *testing.T) {
	svc := new(MockService)
	raw := json.RawMessage(`{"status":"OK","result":{"name":"Louvre"}}`)
	svc.On("RawDetails", mock.Anything, "ChIJ1").Return(raw, nil)
	svc.On("RawDetails", mock.Anything, "ChIJdenied").Return(nil, errDenied)

	rr := doGet(t, newTestRouter(svc), "/api/places/details/ChIJ1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, string(raw), rr.Body.String())

	rr = doGet(t, newTestRouter(svc), "/api/places/details/ChIJdenied")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetPhotoHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("Photo", mock.Anything, "ref-1", 0).Return(&types.PhotoPayload{ContentType: "image/png", Data: []byte("png")}, nil)
	svc.On("Photo", mock.Anything, "", 0).Return(nil, types.ErrBadRequest)

	rr := doGet(t, newTestRouter(svc), "/api/places/photo?photo_reference=ref-1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png", rr.Body.String())

	rr = doGet(t, newTestRouter(svc), "/api/places/photo")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doGet(t, newTestRouter(svc), "/api/places/photo?photo_reference=x&maxwidth=wide")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchOSMHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("SearchOSM", mock.Anything, types.OSMSearchParams{Query: "Acropolis", Type: "historic site", CountryCodes: "gr"}).
		Return([]types.Landmark{{ID: "osm-1", Name: "Acropolis", Source: types.SourceOpenStreetMap}}, nil)
	svc.On("SearchOSM", mock.Anything, types.OSMSearchParams{}).Return(nil, types.ErrBadRequest)

	rr := doGet(t, newTestRouter(svc), "/api/places/osm/search?q=Acropolis&type=historic+site&countrycodes=gr")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "osm-1", resp.Results[0].ID)

	rr = doGet(t, newTestRouter(svc), "/api/places/osm/search")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
