package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"

	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

// cleanJSONResponse strips code fences and any prose around the outermost object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return response[firstBrace : lastBrace+1]
}

// requiredFields lists the keys a reply must carry for each stage.
var requiredFields = map[types.Stage][]string{
	types.StageInitial:            {"activity", "followUpQuestion", "availableInterests"},
	types.StageActivityIdentified: {"interests", "countryRecommendations", "summary", "nextStep"},
	types.StageInterestsRefined:   {"summary", "details", "nextStep"},
}

// parseStageReply decodes the model output for a stage. Missing, null or
// empty required fields fail with ErrValidation.
func parseStageReply(stage types.Stage, raw string) (types.StageReply, error) {
	cleaned := cleanJSONResponse(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object: %w", types.ErrValidation, err)
	}
	var missing []string
	for _, name := range requiredFields[stage] {
		if v, ok := fields[name]; !ok || isEmptyJSON(v) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", types.ErrValidation, strings.Join(missing, ", "))
	}

	switch stage {
	case types.StageInitial:
		return decodeReply[types.ActivityReply](cleaned)
	case types.StageActivityIdentified:
		return decodeReply[types.InterestsReply](cleaned)
	case types.StageInterestsRefined:
		return decodeReply[types.CountryDetailsReply](cleaned)
	default:
		return nil, fmt.Errorf("%w: unknown stage %q", types.ErrBadRequest, stage)
	}
}

func decodeReply[T types.StageReply](cleaned string) (types.StageReply, error) {
	var reply T
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrValidation, err)
	}
	return reply, nil
}

func isEmptyJSON(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", `""`, "false", "0":
		return true
	}
	return false
}

// europeanCountries are picked out of narrative itinerary text.
var europeanCountries = []string{
	"France", "Germany", "Italy", "Spain", "Portugal", "Greece",
	"Netherlands", "Belgium", "Switzerland", "Austria", "Norway",
	"Sweden", "Denmark", "Finland", "Iceland", "Ireland", "UK",
}

var countryMatcher = newCountryMatcher()

func newCountryMatcher() a.AhoCorasick {
	b := a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  true,
	})
	return b.Build(europeanCountries)
}

// extractCountries lists the European countries named in text, in order of
// first mention.
func extractCountries(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range countryMatcher.FindAll(text) {
		name := text[m.Start():m.End()]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
