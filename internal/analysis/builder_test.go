package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

func sampleActivity() domain.Activity {
	return domain.Activity{
		ID:     "act-1",
		UserID: "user-1",
		Type:   "Running",
	}
}

func TestBuildRecommendationDefaultWhenExtractionFailed(t *testing.T) {
	rec := BuildRecommendation(sampleActivity(), nil)

	require.NotEmpty(t, rec.ID)
	require.Equal(t, "act-1", rec.ActivityID)
	require.Equal(t, "user-1", rec.UserID)
	require.Equal(t, "Running", rec.ActivityType)
	require.Equal(t, "Unable to generate detailed analysis", rec.Analysis)
	require.Equal(t, []string{"Data unavailable"}, rec.Improvements)
	require.Equal(t, []string{"Consider consulting a fitness professional"}, rec.Suggestions)
	require.Equal(t, []string{
		"Always warm up before exercise",
		"Stay hydrated",
		"Listen to your body",
	}, rec.Safety)
	require.WithinDuration(t, time.Now().UTC(), rec.CreatedAt, time.Minute)
}

func TestBuildRecommendationCopiesParsed(t *testing.T) {
	parsed := &Parsed{
		Narrative:    "Overall: Strong effort",
		Improvements: []string{"Cadence: Increase slightly"},
		Suggestions:  []string{"Recovery run: Easy 30 minutes"},
		Safety:       []string{"Cool down afterwards"},
	}

	rec := BuildRecommendation(sampleActivity(), parsed)

	require.Equal(t, "Overall: Strong effort", rec.Analysis)
	require.Equal(t, parsed.Improvements, rec.Improvements)
	require.Equal(t, parsed.Suggestions, rec.Suggestions)
	require.Equal(t, parsed.Safety, rec.Safety)
}

func TestBuildRecommendationReappliesSentinels(t *testing.T) {
	rec := BuildRecommendation(sampleActivity(), &Parsed{Narrative: "Overall: Fine"})

	require.Equal(t, []string{"No specific improvements provided"}, rec.Improvements)
	require.Equal(t, []string{"No specific suggestions provided"}, rec.Suggestions)
	require.Equal(t, []string{"Follow general safety guidelines"}, rec.Safety)
}

func TestBuildRecommendationListsNeverEmpty(t *testing.T) {
	inputs := []*Parsed{
		nil,
		{},
		{Improvements: []string{"a: b"}},
		{Suggestions: []string{"c: d"}},
		{Safety: []string{"e"}},
	}

	for _, parsed := range inputs {
		rec := BuildRecommendation(sampleActivity(), parsed)
		require.NotEmpty(t, rec.Improvements)
		require.NotEmpty(t, rec.Suggestions)
		require.NotEmpty(t, rec.Safety)
	}
}
