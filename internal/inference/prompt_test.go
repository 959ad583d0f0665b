package inference

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

func TestBuildPromptWithoutMetrics(t *testing.T) {
	activity := domain.Activity{
		Type:           "Cycling",
		DurationMin:    45,
		CaloriesBurned: 520,
	}

	prompt := BuildPrompt(activity)

	require.Contains(t, prompt, "- Type: Cycling")
	require.Contains(t, prompt, "- Duration: 45 minutes")
	require.Contains(t, prompt, "- Calories Burned: 520")
	require.Contains(t, prompt, "- Additional Metrics: None provided")
	require.Contains(t, prompt, `"improvements"`)
}

func TestBuildPromptRendersMetricsSorted(t *testing.T) {
	activity := domain.Activity{
		Type:        "Running",
		DurationMin: 30,
		AdditionalMetrics: map[string]any{
			"distanceKm": 5.2,
			"avgHr":      148,
			"cadence":    172,
		},
	}

	prompt := BuildPrompt(activity)
	require.Contains(t, prompt, "- Additional Metrics: avgHr=148, cadence=172, distanceKm=5.2")

	// Deterministic regardless of map iteration order.
	require.Equal(t, prompt, BuildPrompt(activity))
}
