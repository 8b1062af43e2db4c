package places

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

const (
	unknownPlaceName  = "Unknown Place"
	fallbackPlaceType = "point_of_interest"
	syntheticIDPrefix = "place-"
	osmIDPrefix       = "osm-"
	maxPlaceIDLength  = 512
)

// landmarkNamespace seeds the SHA-1 ids of places the provider gave no id for.
var landmarkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://wanderlust.places/landmark"))

// StableID derives an id from the normalised name and coordinates rounded to
// five decimals (about a metre), so re-fetches of the same place collapse.
func StableID(name string, loc types.LatLng) string {
	key := fmt.Sprintf("%s|%.5f|%.5f", normalizeName(name), loc.Lat, loc.Lng)
	return syntheticIDPrefix + uuid.NewSHA1(landmarkNamespace, []byte(key)).String()
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func landmarkID(p types.PlaceResult) string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return StableID(p.Name, p.Geometry.Location)
}

// IsSyntheticID reports ids minted by StableID. They have no upstream record.
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, syntheticIDPrefix)
}

// validPlaceID rejects ids that cannot be an upstream place id.
func validPlaceID(id string) bool {
	if id == "" || len(id) > maxPlaceIDLength || IsSyntheticID(id) {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || r == '/' || r == '?' || r == '#' {
			return false
		}
	}
	return true
}

// ParseLocation parses "lat,lng".
func ParseLocation(s string) (types.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return types.LatLng{}, fmt.Errorf("%w: location must be \"lat,lng\"", types.ErrBadRequest)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return types.LatLng{}, fmt.Errorf("%w: invalid latitude %q", types.ErrBadRequest, parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return types.LatLng{}, fmt.Errorf("%w: invalid longitude %q", types.ErrBadRequest, parts[1])
	}
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return types.LatLng{}, fmt.Errorf("%w: location out of range", types.ErrBadRequest)
	}
	return types.LatLng{Lat: lat, Lng: lng}, nil
}

func formatLocation(loc types.LatLng) string {
	return strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
}

// clampRadius bounds a radius to (0, max]; non-positive means "as wide as allowed".
func clampRadius(radius, max int) int {
	if radius <= 0 || radius > max {
		return max
	}
	return radius
}

// estimateDays is the visit length for a category, refined by the place's own types.
func estimateDays(category string, placeTypes []string) float64 {
	for _, t := range append([]string{category}, placeTypes...) {
		switch strings.ToLower(t) {
		case "national_park":
			return 2
		case "amusement_park", "theme_park":
			return 1
		}
	}
	return 0.5
}

func validRating(r *float64) *float64 {
	if r == nil || math.IsNaN(*r) || *r < 0 || *r > 5 {
		return nil
	}
	v := *r
	return &v
}

func validPriceLevel(p *int) *int {
	if p == nil || *p < 0 || *p > 4 {
		return nil
	}
	v := *p
	return &v
}

// photoURL points at this service's photo proxy; the provider key never leaves the server.
func photoURL(photoPath, reference string, maxWidth int) string {
	q := url.Values{}
	q.Set("photo_reference", reference)
	q.Set("maxwidth", strconv.Itoa(maxWidth))
	return photoPath + "?" + q.Encode()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// toLandmark normalises a provider record. The result is a basic-level Landmark.
func (s *ServiceImpl) toLandmark(p types.PlaceResult, category string) types.Landmark {
	lm := types.Landmark{
		ID:            landmarkID(p),
		Name:          firstNonEmpty(strings.TrimSpace(p.Name), unknownPlaceName),
		Description:   firstNonEmpty(p.FormattedAddress, p.Vicinity),
		Location:      p.Geometry.Location,
		Rating:        validRating(p.Rating),
		PriceLevel:    validPriceLevel(p.PriceLevel),
		Type:          category,
		EstimatedDays: estimateDays(category, p.Types),
		Source:        types.SourceGooglePlaces,
		PlaceID:       p.PlaceID,
		TotalRatings:  p.UserRatingsTotal,
		Types:         append([]string{}, p.Types...),
		Photos:        p.Photos,
		Reviews:       p.Reviews,
		Website:       p.Website,
		Phone:         firstNonEmpty(p.FormattedPhoneNumber, p.InternationalPhoneNumber),
		DetailLevel:   types.DetailLevelBasic,
	}
	if p.OpeningHours != nil {
		lm.OpeningHours = p.OpeningHours.WeekdayText
	}
	if len(p.Photos) > 0 && p.Photos[0].PhotoReference != "" {
		lm.ImageURL = photoURL(s.photoPath, p.Photos[0].PhotoReference, s.photoMaxWidth)
	}
	return lm
}

// enrich layers a details record over a search record. The id, category and
// estimate of the search record are kept.
func (s *ServiceImpl) enrich(basic types.Landmark, details types.PlaceResult) types.Landmark {
	d := s.toLandmark(details, basic.Type)
	out := basic
	if strings.TrimSpace(details.Name) != "" {
		out.Name = d.Name
	}
	if d.Description != "" {
		out.Description = d.Description
	}
	if d.Location != (types.LatLng{}) {
		out.Location = d.Location
	}
	if d.Rating != nil {
		out.Rating = d.Rating
	}
	if d.PriceLevel != nil {
		out.PriceLevel = d.PriceLevel
	}
	if d.TotalRatings > 0 {
		out.TotalRatings = d.TotalRatings
	}
	if len(d.Types) > 0 {
		out.Types = d.Types
	}
	if len(d.Photos) > 0 {
		out.Photos = d.Photos
		out.ImageURL = d.ImageURL
	}
	if len(d.Reviews) > 0 {
		out.Reviews = d.Reviews
	}
	if d.Website != "" {
		out.Website = d.Website
	}
	if d.Phone != "" {
		out.Phone = d.Phone
	}
	if len(d.OpeningHours) > 0 {
		out.OpeningHours = d.OpeningHours
	}
	out.DetailLevel = types.DetailLevelEnriched
	return out
}

// UnavailableLandmark is returned when details cannot be resolved.
func UnavailableLandmark(id string) types.Landmark {
	return types.Landmark{
		ID:            id,
		Name:          unknownPlaceName,
		Type:          fallbackPlaceType,
		EstimatedDays: 1,
		Source:        types.SourceGooglePlaces,
		Types:         []string{},
		DetailLevel:   types.DetailLevelUnavailable,
	}
}

// osmToLandmark normalises a Nominatim hit. Importance in [0,1] maps to a 1-5 rating.
func osmToLandmark(p types.OSMPlace, category string) types.Landmark {
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lng, _ := strconv.ParseFloat(p.Lon, 64)

	parts := strings.Split(p.DisplayName, ",")
	name := strings.TrimSpace(parts[0])
	country := ""
	if len(parts) > 1 {
		country = strings.TrimSpace(parts[len(parts)-1])
	}

	rating := math.Round(p.Importance*4 + 1)
	rating = math.Max(1, math.Min(5, rating))
	price := osmPriceLevel(p.Type)

	if category == "" {
		category = p.Type
	}
	return types.Landmark{
		ID:            osmIDPrefix + strconv.FormatInt(p.PlaceID, 10),
		Name:          firstNonEmpty(name, unknownPlaceName),
		Description:   p.DisplayName,
		Location:      types.LatLng{Lat: lat, Lng: lng},
		Rating:        &rating,
		PriceLevel:    &price,
		Type:          category,
		EstimatedDays: osmEstimateDays(category),
		Source:        types.SourceOpenStreetMap,
		Country:       country,
		Types:         []string{p.Class, p.Type},
		DetailLevel:   types.DetailLevelBasic,
	}
}

func osmPriceLevel(osmType string) int {
	switch osmType {
	case "restaurant", "hotel", "attraction", "museum":
		return 2
	default:
		return 1
	}
}

func osmEstimateDays(category string) float64 {
	switch strings.ToLower(category) {
	case "museum", "castle", "historic site":
		return 0.5
	case "national park", "wine region":
		return 2
	case "city", "island":
		return 3
	default:
		return 1
	}
}
