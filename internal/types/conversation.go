package types

// Stage is a step of the recommendation conversation.
type Stage string

const (
	StageInitial            Stage = "initial"
	StageActivityIdentified Stage = "activity_identified"
	StageInterestsRefined   Stage = "interests_refined"
)

// Rank orders stages so callers can check the conversation only moves forward.
func (s Stage) Rank() int {
	switch s {
	case StageActivityIdentified:
		return 1
	case StageInterestsRefined:
		return 2
	default:
		return 0
	}
}

func (s Stage) Valid() bool {
	return s == StageInitial || s == StageActivityIdentified || s == StageInterestsRefined
}

// ConversationState is held by the client and sent back on every turn.
type ConversationState struct {
	Stage            Stage    `json:"stage"`
	CurrentActivity  string   `json:"currentActivity"`
	CurrentInterests []string `json:"currentInterests"`
}

// StageReply is the structured model answer for one stage.
type StageReply interface {
	ReplyStage() Stage
}

type ActivityReply struct {
	Activity           string   `json:"activity"`
	FollowUpQuestion   string   `json:"followUpQuestion"`
	AvailableInterests []string `json:"availableInterests"`
}

func (ActivityReply) ReplyStage() Stage { return StageInitial }

type InterestRecommendation struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

type CountryRecommendation struct {
	Country   string                   `json:"country"`
	Interests []InterestRecommendation `json:"interests"`
}

type InterestsReply struct {
	Interests              []string                `json:"interests"`
	CountryRecommendations []CountryRecommendation `json:"countryRecommendations"`
	Summary                string                  `json:"summary"`
	NextStep               string                  `json:"nextStep"`
}

func (InterestsReply) ReplyStage() Stage { return StageActivityIdentified }

type CountryDetail struct {
	Country    string   `json:"country"`
	Highlights []string `json:"highlights"`
	BestTime   string   `json:"bestTime"`
	Tips       []string `json:"tips"`
}

type CountryDetailsReply struct {
	Summary  string          `json:"summary"`
	Details  []CountryDetail `json:"details"`
	NextStep string          `json:"nextStep"`
}

func (CountryDetailsReply) ReplyStage() Stage { return StageInterestsRefined }

// ItineraryRequest drives the free-text travel report.
type ItineraryRequest struct {
	Query           string
	Landmarks       []string
	TotalDays       float64
	Travelers       string
	Personality     string
	MainDestination string
	Dates           string
}

// RecommendRequest is the body of POST /api/ai-recommend.
type RecommendRequest struct {
	Query            string   `json:"query"`
	Type             string   `json:"type"`
	Stage            Stage    `json:"stage,omitempty"`
	CurrentActivity  string   `json:"currentActivity,omitempty"`
	CurrentInterests []string `json:"currentInterests,omitempty"`
	Dates            string   `json:"dates,omitempty"`
	Travelers        string   `json:"travelers,omitempty"`
	Personality      string   `json:"personality,omitempty"`
	TotalDays        float64  `json:"totalDays,omitempty"`
	MainDestination  string   `json:"mainDestination,omitempty"`
	Landmarks        []string `json:"landmarks,omitempty"`
}

type RecommendResponse struct {
	Content any                `json:"content"`
	State   *ConversationState `json:"state,omitempty"`
}

type ItineraryResponse struct {
	Content   string   `json:"content"`
	Countries []string `json:"countries,omitempty"`
}
