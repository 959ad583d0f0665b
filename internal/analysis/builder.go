package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

// Per-list sentinels substituted when a parsed reply carried nothing for a
// list, and the fixed recommendation used when extraction yields nothing at
// all. A recommendation is always produced, even a generic one.
const (
	noImprovementsSentinel = "No specific improvements provided"
	noSuggestionsSentinel  = "No specific suggestions provided"
	genericSafetySentinel  = "Follow general safety guidelines"

	unavailableAnalysis    = "Unable to generate detailed analysis"
	unavailableImprovement = "Data unavailable"
	unavailableSuggestion  = "Consider consulting a fitness professional"
)

func defaultSafety() []string {
	return []string{
		"Always warm up before exercise",
		"Stay hydrated",
		"Listen to your body",
	}
}

// BuildRecommendation maps a parsed analysis (or its absence) plus the source
// activity into the final Recommendation. It is total: a nil parsed produces
// the fixed default, and the per-list sentinels are re-applied as a second
// safety net, so the result's lists are never empty.
func BuildRecommendation(activity domain.Activity, parsed *Parsed) domain.Recommendation {
	rec := domain.Recommendation{
		ID:           uuid.NewString(),
		ActivityID:   activity.ID,
		UserID:       activity.UserID,
		ActivityType: activity.Type,
		CreatedAt:    time.Now().UTC(),
	}

	if parsed == nil {
		rec.Analysis = unavailableAnalysis
		rec.Improvements = []string{unavailableImprovement}
		rec.Suggestions = []string{unavailableSuggestion}
		rec.Safety = defaultSafety()
		return rec
	}

	rec.Analysis = parsed.Narrative
	rec.Improvements = orSentinel(parsed.Improvements, noImprovementsSentinel)
	rec.Suggestions = orSentinel(parsed.Suggestions, noSuggestionsSentinel)
	rec.Safety = orSentinel(parsed.Safety, genericSafetySentinel)
	return rec
}
