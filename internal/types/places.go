package types

// Wire shapes of the Google Places web service. Only the fields the service
// reads are declared.

const (
	PlacesStatusOK             = "OK"
	PlacesStatusZeroResults    = "ZERO_RESULTS"
	PlacesStatusRequestDenied  = "REQUEST_DENIED"
	PlacesStatusOverQueryLimit = "OVER_QUERY_LIMIT"
	PlacesStatusInvalidRequest = "INVALID_REQUEST"
	PlacesStatusNotFound       = "NOT_FOUND"
)

type PlaceGeometry struct {
	Location LatLng `json:"location"`
}

type PlaceOpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// PlaceResult is one entry of a nearby search or the result of a details call.
type PlaceResult struct {
	PlaceID                  string             `json:"place_id"`
	Name                     string             `json:"name"`
	FormattedAddress         string             `json:"formatted_address"`
	Vicinity                 string             `json:"vicinity"`
	Geometry                 PlaceGeometry      `json:"geometry"`
	Rating                   *float64           `json:"rating,omitempty"`
	UserRatingsTotal         int                `json:"user_ratings_total"`
	PriceLevel               *int               `json:"price_level,omitempty"`
	Types                    []string           `json:"types"`
	Photos                   []Photo            `json:"photos"`
	Reviews                  []Review           `json:"reviews"`
	Website                  string             `json:"website"`
	FormattedPhoneNumber     string             `json:"formatted_phone_number"`
	InternationalPhoneNumber string             `json:"international_phone_number"`
	OpeningHours             *PlaceOpeningHours `json:"opening_hours,omitempty"`
}

type NearbySearchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Results      []PlaceResult `json:"results"`
}

type PlaceDetailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Result       *PlaceResult `json:"result,omitempty"`
}

// NearbyQuery is one upstream nearby-search request.
type NearbyQuery struct {
	Location LatLng
	Radius   int
	Type     string
	Keyword  string
}

// OSMPlace is one Nominatim search hit.
type OSMPlace struct {
	PlaceID     int64   `json:"place_id"`
	Licence     string  `json:"licence"`
	OSMType     string  `json:"osm_type"`
	OSMID       int64   `json:"osm_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// PhotoPayload is an image relayed from the provider.
type PhotoPayload struct {
	ContentType string
	Data        []byte
}
