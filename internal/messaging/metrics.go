package messaging

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "publisher",
		Name:      "activities_published_total",
		Help:      "Number of activities successfully published to the queue.",
	})

	publishFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "publisher",
		Name:      "publish_failures_total",
		Help:      "Number of swallowed publish failures (serialization or transport).",
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishFailureCounter)
}

func recordPublished() {
	publishedCounter.Inc()
}

func recordPublishFailure() {
	publishFailureCounter.Inc()
}
