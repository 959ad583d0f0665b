package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness",
		Subsystem: "persistence",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted to Postgres.",
	})
	recommendationStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness",
		Subsystem: "persistence",
		Name:      "last_recommendation_stored_timestamp_seconds",
		Help:      "Unix timestamp of the most recent recommendation stored.",
	})
)

func init() {
	prometheus.MustRegister(activityPersistGauge, recommendationStoredGauge)
}

// RecordActivityPersisted updates the activity watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}

// RecordRecommendationStored updates the recommendation watermark gauge.
func RecordRecommendationStored(ts time.Time) {
	if ts.IsZero() {
		return
	}
	recommendationStoredGauge.Set(float64(ts.Unix()))
}
