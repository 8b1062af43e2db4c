package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/FACorreiaa/go-wanderlust-places/internal/api/generative_ai"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

// MockCompletionClient is a mock implementation of generativeAI.CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req generativeAI.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const activityJSON = `{
  "activity": "theaters and performing arts",
  "followUpQuestion": "What type of performances interest you most?",
  "availableInterests": ["Opera", "Ballet"]
}`

const interestsJSON = `{
  "interests": ["Opera", "Historical Venues"],
  "countryRecommendations": [
    {"country": "Austria", "interests": [{"name": "Opera", "description": "Vienna State Opera", "coordinates": [16.3738, 48.2082]}]}
  ],
  "summary": "Based on your interests, here are some perfect destinations for you!",
  "nextStep": "Click on any interest to see detailed recommendations."
}`

const detailsJSON = `{
  "summary": "Discover Europe's finest classical performances in historic venues.",
  "details": [{"country": "Austria", "highlights": ["Vienna State Opera"], "bestTime": "July-August", "tips": ["Book standing room tickets"]}],
  "nextStep": "Would you like to explore more activities?"
}`

func TestRespond_InitialAdvancesAndEchoesFollowUp(t *testing.T) {
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		return req.JSON &&
			req.UserPrompt == "I love the theatre" &&
			strings.Contains(req.SystemPrompt, `"followUpQuestion"`)
	})).Return(activityJSON, nil)

	svc := NewServiceImpl(ai, testLogger())
	next, reply, err := svc.Respond(context.Background(), types.ConversationState{Stage: types.StageInitial}, "I love the theatre")

	require.NoError(t, err)
	assert.Equal(t, types.StageActivityIdentified, next.Stage)
	assert.Equal(t, "theaters and performing arts", next.CurrentActivity)
	activity, ok := reply.(types.ActivityReply)
	require.True(t, ok)
	assert.Equal(t, "What type of performances interest you most?", activity.FollowUpQuestion)
	assert.Equal(t, []string{"Opera", "Ballet"}, activity.AvailableInterests)
	ai.AssertExpectations(t)
}

func TestRespond_EmptyStageStartsConversation(t *testing.T) {
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.Anything).Return("```json\n"+activityJSON+"\n```", nil)

	svc := NewServiceImpl(ai, testLogger())
	next, _, err := svc.Respond(context.Background(), types.ConversationState{}, "wine")

	require.NoError(t, err)
	assert.Equal(t, types.StageActivityIdentified, next.Stage)
}

func TestRespond_InterestsAdvance(t *testing.T) {
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		return strings.Contains(req.SystemPrompt, `"countryRecommendations"`)
	})).Return(interestsJSON, nil)

	svc := NewServiceImpl(ai, testLogger())
	state := types.ConversationState{Stage: types.StageActivityIdentified, CurrentActivity: "theaters and performing arts"}
	next, reply, err := svc.Respond(context.Background(), state, "Opera and historical venues")

	require.NoError(t, err)
	assert.Equal(t, types.StageInterestsRefined, next.Stage)
	assert.Equal(t, "theaters and performing arts", next.CurrentActivity)
	assert.Equal(t, []string{"Opera", "Historical Venues"}, next.CurrentInterests)
	interests := reply.(types.InterestsReply)
	require.Len(t, interests.CountryRecommendations, 1)
	assert.Equal(t, "Austria", interests.CountryRecommendations[0].Country)
}

func TestRespond_RefinedStaysAndUsesInterestsPrompt(t *testing.T) {
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		return req.UserPrompt == "Based on the user's interests in Opera, Ballet, create a structured recommendation."
	})).Return(detailsJSON, nil)

	svc := NewServiceImpl(ai, testLogger())
	state := types.ConversationState{Stage: types.StageInterestsRefined, CurrentInterests: []string{"Opera", "Ballet"}}
	next, reply, err := svc.Respond(context.Background(), state, "")

	require.NoError(t, err)
	assert.Equal(t, state, next)
	details := reply.(types.CountryDetailsReply)
	assert.Equal(t, "July-August", details.Details[0].BestTime)
	ai.AssertExpectations(t)
}

func TestRespond_ValidationFailureKeepsStage(t *testing.T) {
	tests := []struct {
		name  string
		state types.ConversationState
		reply string
	}{
		{"missing followUpQuestion", types.ConversationState{Stage: types.StageInitial}, `{"activity":"hiking","availableInterests":["Alps"]}`},
		{"empty activity", types.ConversationState{Stage: types.StageInitial}, `{"activity":"","followUpQuestion":"?","availableInterests":[]}`},
		{"not json", types.ConversationState{Stage: types.StageInitial}, `Sure! Here are some ideas.`},
		{"wrong shape", types.ConversationState{Stage: types.StageInitial}, `{"activity":"hiking","followUpQuestion":"?","availableInterests":"Alps"}`},
		{"null summary", types.ConversationState{Stage: types.StageActivityIdentified, CurrentActivity: "wine"}, `{"interests":[],"countryRecommendations":[],"summary":null,"nextStep":"x"}`},
		{"missing details", types.ConversationState{Stage: types.StageInterestsRefined, CurrentInterests: []string{"Opera"}}, `{"summary":"s","nextStep":"n"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := new(MockCompletionClient)
			ai.On("Complete", mock.Anything, mock.Anything).Return(tt.reply, nil)

			svc := NewServiceImpl(ai, testLogger())
			next, reply, err := svc.Respond(context.Background(), tt.state, "query")

			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Nil(t, reply)
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestRespond_CompletionErrorKeepsStage(t *testing.T) {
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("%w: key missing", types.ErrConfiguration))

	svc := NewServiceImpl(ai, testLogger())
	state := types.ConversationState{Stage: types.StageActivityIdentified, CurrentActivity: "wine"}
	next, _, err := svc.Respond(context.Background(), state, "reds")

	assert.ErrorIs(t, err, types.ErrConfiguration)
	assert.Equal(t, state, next)
}

func TestRespond_BadInput(t *testing.T) {
	ai := new(MockCompletionClient)
	svc := NewServiceImpl(ai, testLogger())

	_, _, err := svc.Respond(context.Background(), types.ConversationState{Stage: "final"}, "hello")
	assert.ErrorIs(t, err, types.ErrBadRequest)

	_, _, err = svc.Respond(context.Background(), types.ConversationState{Stage: types.StageInitial}, "   ")
	assert.ErrorIs(t, err, types.ErrBadRequest)

	ai.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAdvance(t *testing.T) {
	refined := types.ConversationState{
		Stage:            types.StageInterestsRefined,
		CurrentActivity:  "wine",
		CurrentInterests: []string{"Douro"},
	}

	tests := []struct {
		name  string
		state types.ConversationState
		reply types.StageReply
		want  types.ConversationState
	}{
		{
			name:  "activity reply moves initial forward",
			state: types.ConversationState{Stage: types.StageInitial},
			reply: types.ActivityReply{Activity: "wine"},
			want:  types.ConversationState{Stage: types.StageActivityIdentified, CurrentActivity: "wine"},
		},
		{
			name:  "country details keep the refined stage",
			state: refined,
			reply: types.CountryDetailsReply{Summary: "s"},
			want:  refined,
		},
		{
			name:  "earlier stage reply never moves back",
			state: refined,
			reply: types.ActivityReply{Activity: "hiking"},
			want:  refined,
		},
		{
			name:  "interests reply never moves back from refined",
			state: refined,
			reply: types.InterestsReply{Interests: []string{"Port"}},
			want: types.ConversationState{
				Stage:            types.StageInterestsRefined,
				CurrentActivity:  "wine",
				CurrentInterests: []string{"Port"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advance(tt.state, tt.reply)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Stage.Rank(), tt.state.Stage.Rank())
		})
	}
}

func TestItinerary(t *testing.T) {
	markdown := "# Travel Planning Report\n\nStart in France then Italy and finish in France again\n"
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		return !req.JSON &&
			strings.Contains(req.SystemPrompt, "| Day 3 | | | |") &&
			!strings.Contains(req.SystemPrompt, "| Day 4 |") &&
			strings.Contains(req.SystemPrompt, "- Eiffel Tower\n") &&
			strings.Contains(req.SystemPrompt, "- Colosseum\n") &&
			strings.Contains(req.SystemPrompt, "- **Destination**: Paris")
	})).Return(markdown, nil)

	svc := NewServiceImpl(ai, testLogger())
	resp, err := svc.Itinerary(context.Background(), types.ItineraryRequest{
		Query:           "Plan my trip. Here are the selected landmarks:\n1. Eiffel Tower\n2. Colosseum",
		TotalDays:       2.5,
		MainDestination: "Paris",
	})

	require.NoError(t, err)
	assert.Equal(t, markdown, resp.Content)
	assert.Equal(t, []string{"France", "Italy"}, resp.Countries)
	ai.AssertExpectations(t)
}

func TestItinerary_Error(t *testing.T) {
	ai := new(MockCompletionClient)
	ai.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	svc := NewServiceImpl(ai, testLogger())
	_, err := svc.Itinerary(context.Background(), types.ItineraryRequest{Query: "trip"})
	assert.Error(t, err)
}
