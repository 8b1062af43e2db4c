package recommend

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

const (
	selectedLandmarksMarker = "Here are the selected landmarks:"
	maxItineraryDays        = 60
)

const jsonOnlyPreamble = `You are a travel assistant. Your ONLY task is to return a JSON object.
DO NOT include any text, explanations, or markdown outside the JSON object.
DO NOT use any formatting or styling.
DO NOT add any additional information.
The response must be a valid JSON object with this exact structure:
`

const jsonOnlyClosing = `
Remember: ONLY return the JSON object, nothing else.`

var stagePrompts = map[types.Stage]string{
	types.StageInitial: jsonOnlyPreamble + `{
  "activity": "theaters and performing arts",
  "followUpQuestion": "What type of performances interest you most?",
  "availableInterests": ["Classical Performances", "Contemporary Shows", "Opera", "Ballet", "Historical Venues", "Modern Theaters"]
}` + jsonOnlyClosing,

	types.StageActivityIdentified: jsonOnlyPreamble + `{
  "interests": ["Classical Performances", "Historical Venues"],
  "countryRecommendations": [
    {
      "country": "Austria",
      "interests": [
        {
          "name": "Classical Performances",
          "description": "Experience world-class classical performances in Vienna",
          "coordinates": [16.3738, 48.2082],
          "imageUrl": "https://example.com/vienna-opera.jpg"
        }
      ]
    }
  ],
  "summary": "Based on your interests, here are some perfect destinations for you!",
  "nextStep": "Click on any interest to see detailed recommendations."
}` + jsonOnlyClosing,

	types.StageInterestsRefined: jsonOnlyPreamble + `{
  "summary": "Discover Europe's finest classical performances in historic venues.",
  "details": [
    {
      "country": "Austria",
      "highlights": ["Vienna State Opera", "Salzburg Festival"],
      "bestTime": "July-August",
      "tips": ["Book standing room tickets", "Visit during festival season"]
    }
  ],
  "nextStep": "Would you like to explore more activities?"
}` + jsonOnlyClosing,
}

func systemPromptFor(stage types.Stage) string {
	return stagePrompts[stage]
}

// userPromptFor is the user turn for a stage. The last stage can run without
// free text, from the recorded interests alone.
func userPromptFor(state types.ConversationState, query string) string {
	if state.Stage == types.StageInterestsRefined && strings.TrimSpace(query) == "" {
		return fmt.Sprintf("Based on the user's interests in %s, create a structured recommendation.",
			strings.Join(state.CurrentInterests, ", "))
	}
	return query
}

var listNumbering = regexp.MustCompile(`^\d+\.\s*`)

// landmarksFromQuery pulls the numbered list that follows the selected
// landmarks marker out of a free-text query. The list ends at the first line
// that is not a numbered item once items have started.
func landmarksFromQuery(query string) []string {
	_, after, found := strings.Cut(query, selectedLandmarksMarker)
	if !found {
		return nil
	}
	var out []string
	for _, line := range strings.Split(after, "\n") {
		line = strings.TrimSpace(line)
		if !listNumbering.MatchString(line) {
			if line == "" && len(out) == 0 {
				continue
			}
			break
		}
		if item := strings.TrimSpace(listNumbering.ReplaceAllString(line, "")); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// itineraryDays turns a possibly fractional trip length into table rows.
func itineraryDays(totalDays float64) int {
	if math.IsNaN(totalDays) || totalDays <= 0 {
		return 1
	}
	days := int(math.Ceil(totalDays))
	if days > maxItineraryDays {
		return maxItineraryDays
	}
	return days
}

// itineraryPrompt renders the fixed travel report template the model must fill in.
func itineraryPrompt(req types.ItineraryRequest) string {
	landmarks := req.Landmarks
	if len(landmarks) == 0 {
		landmarks = landmarksFromQuery(req.Query)
	}

	daysLabel := "[Calculate based on landmarks]"
	if req.TotalDays > 0 {
		daysLabel = strconv.FormatFloat(req.TotalDays, 'f', -1, 64)
	}

	var b strings.Builder
	b.WriteString("You are a knowledgeable travel assistant. Create a detailed travel report following this EXACT markdown format. DO NOT add any additional sections or modify the format:\n\n")
	b.WriteString("# Travel Planning Report\n\n")

	b.WriteString("## 🗺️ Basic Travel Overview\n")
	fmt.Fprintf(&b, "- **Destination**: %s\n", orDefault(req.MainDestination, "[Extract from landmarks]"))
	fmt.Fprintf(&b, "- **Number of Days**: %s\n", daysLabel)
	fmt.Fprintf(&b, "- **Number of Travelers**: %s\n", orDefault(req.Travelers, "2-4"))
	fmt.Fprintf(&b, "- **Personality Type**: %s\n", orDefault(req.Personality, "Cultural Explorer"))
	if req.Dates != "" {
		fmt.Fprintf(&b, "- **Travel Dates**: %s\n", req.Dates)
	}
	b.WriteString("\n")

	b.WriteString("## 🎯 Selected Landmarks\n")
	for _, lm := range landmarks {
		fmt.Fprintf(&b, "- %s\n", lm)
	}
	b.WriteString("\n")

	b.WriteString(`## 💰 Budget Planning
### Overall Budget
[Provide budget range]

### Budget Optimization Suggestions
- [Budget tip 1]
- [Budget tip 2]
- [Budget tip 3]

## 🏨 Accommodation Arrangements
### Recommended Accommodation Types
- **Accommodation Style**: [Based on personality]
- **Budget Accommodation Options**:
  1. [Option 1]
  2. [Option 2]

## 📅 Detailed Itinerary
### Itinerary Overview
| Date | Morning | Afternoon | Evening |
|:---:|:---:|:---:|:---:|
`)
	for day := 1; day <= itineraryDays(req.TotalDays); day++ {
		fmt.Fprintf(&b, "| Day %d | | | |\n", day)
	}
	b.WriteString(`
## 💡 Personalized Recommendations
### Curated Based on Your Travel Personality
- **Must-Do Experiences**:
  - [Experience 1]
  - [Experience 2]
  - [Experience 3]
- **Hidden Travel Gems**:
  - [Hidden gem 1]
  - [Hidden gem 2]
- **Unique Local Experiences**:
  - [Local experience 1]
  - [Local experience 2]

Use the provided landmarks and their descriptions to fill in the specific details. Make sure to incorporate all selected landmarks into the daily itinerary. Maintain exact emoji usage and formatting. Focus on providing practical and engaging content while keeping the exact structure.`)
	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
