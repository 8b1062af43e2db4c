package types

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DetailLevel tells the client how much of a Landmark was resolved.
type DetailLevel string

const (
	DetailLevelEnriched    DetailLevel = "enriched"
	DetailLevelBasic       DetailLevel = "basic"
	DetailLevelUnavailable DetailLevel = "unavailable"
)

const (
	SourceGooglePlaces  = "google_places"
	SourceOpenStreetMap = "openstreetmap"
)

// Landmark is a place normalised away from the provider's response shape.
type Landmark struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Location      LatLng      `json:"location"`
	Rating        *float64    `json:"rating,omitempty"`
	PriceLevel    *int        `json:"priceLevel,omitempty"`
	Type          string      `json:"type"`
	EstimatedDays float64     `json:"estimatedDays"`
	Source        string      `json:"source"`
	Country       string      `json:"country,omitempty"`
	PlaceID       string      `json:"placeId,omitempty"`
	TotalRatings  int         `json:"totalRatings"`
	Types         []string    `json:"types"`
	Photos        []Photo     `json:"photos,omitempty"`
	Reviews       []Review    `json:"reviews,omitempty"`
	Website       string      `json:"website,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	OpeningHours  []string    `json:"openingHours,omitempty"`
	ImageURL      string      `json:"imageUrl,omitempty"`
	DetailLevel   DetailLevel `json:"detailLevel"`
}

// Photo is a provider photo reference. It is fetched through the photo proxy.
type Photo struct {
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
}

type Review struct {
	AuthorName              string  `json:"author_name"`
	Rating                  float64 `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description,omitempty"`
	Time                    int64   `json:"time,omitempty"`
}

// SearchParams is the input of a landmark search around a point.
type SearchParams struct {
	Center     LatLng
	Radius     int
	Category   string
	Keyword    string
	MaxResults int
	Enrich     bool
}

// OSMSearchParams is the input of an OpenStreetMap landmark search.
type OSMSearchParams struct {
	Query        string
	Type         string
	CountryCodes string
}

type SearchResponse struct {
	Results []Landmark `json:"results"`
}
