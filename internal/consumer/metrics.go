package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "consumer",
		Name:      "messages_processed_total",
		Help:      "Number of queue messages successfully handled and acked.",
	})

	handlerErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "consumer",
		Name:      "handler_errors_total",
		Help:      "Number of handler failures (recommendation not persisted).",
	})

	decodeErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "consumer",
		Name:      "decode_errors_total",
		Help:      "Number of malformed deliveries acked as poison pills.",
	})

	fallbackCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "consumer",
		Name:      "default_recommendations_total",
		Help:      "Number of recommendations that fell back to the fixed default, by reason.",
	}, []string{"reason"})

	pipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitness",
		Subsystem: "consumer",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one full message pipeline, fetch to ack.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(processedCounter, handlerErrorCounter, decodeErrorCounter, fallbackCounter, pipelineDuration)
}

func recordProcessed(elapsed time.Duration) {
	processedCounter.Inc()
	pipelineDuration.Observe(elapsed.Seconds())
}

func recordHandlerError() {
	handlerErrorCounter.Inc()
}

func recordDecodeError() {
	decodeErrorCounter.Inc()
}

func recordFallback(reason string) {
	fallbackCounter.WithLabelValues(reason).Inc()
}
