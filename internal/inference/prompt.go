package inference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

const promptTemplate = `You are a professional fitness coach and activity analyst.
Analyze the following user activity and provide a structured JSON response with:
- Detailed performance analysis
- Areas for improvement
- Personalized next workout suggestions
- Important safety guidelines

Activity Details:
- Type: %s
- Duration: %d minutes
- Calories Burned: %d
- Additional Metrics: %s

Respond with ONLY valid JSON in this exact structure (no extra text, no markdown):

{
    "analysis": {
        "overall": "string",
        "pace": "string",
        "heartRate": "string",
        "caloriesBurned": "string"
    },
    "improvements": [
        {
            "area": "string",
            "recommendation": "string"
        }
    ],
    "suggestions": [
        {
            "workout": "string",
            "description": "string"
        }
    ],
    "safety": [
        "string"
    ]
}`

// BuildPrompt renders the analysis prompt for one activity. The rendering is
// deterministic: additional metrics are sorted by name.
func BuildPrompt(activity domain.Activity) string {
	return fmt.Sprintf(promptTemplate,
		activity.Type,
		activity.DurationMin,
		activity.CaloriesBurned,
		renderMetrics(activity.AdditionalMetrics),
	)
}

func renderMetrics(metrics map[string]any) string {
	if len(metrics) == 0 {
		return "None provided"
	}

	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, metrics[key]))
	}
	return strings.Join(pairs, ", ")
}
