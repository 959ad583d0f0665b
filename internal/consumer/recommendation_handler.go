package consumer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dhuman2317-tech/fitness-microservice/internal/analysis"
	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
	"github.com/dhuman2317-tech/fitness-microservice/internal/inference"
	"github.com/dhuman2317-tech/fitness-microservice/internal/messaging"
	"github.com/dhuman2317-tech/fitness-microservice/internal/observability"
)

// InferenceClient exposes the single text-completion operation the handler needs.
type InferenceClient interface {
	GetAnswer(ctx context.Context, prompt string) (string, error)
}

// HandlerOption configures optional behaviour for the RecommendationHandler.
type HandlerOption func(*RecommendationHandler)

// WithHandlerLogger overrides the handler's logger.
func WithHandlerLogger(logger *log.Logger) HandlerOption {
	return func(h *RecommendationHandler) {
		h.logger = logger
	}
}

// RecommendationHandler runs the inference, extraction, and build stages for
// one activity and persists the outcome. Inference and extraction failures
// are absorbed into the fixed default recommendation; only a persistence
// failure propagates to the processor.
type RecommendationHandler struct {
	client  InferenceClient
	recs    domain.RecommendationRepository
	timeout time.Duration
	logger  *log.Logger
}

// NewRecommendationHandler constructs a handler. The timeout bounds each
// inference call.
func NewRecommendationHandler(client InferenceClient, recs domain.RecommendationRepository, timeout time.Duration, opts ...HandlerOption) *RecommendationHandler {
	h := &RecommendationHandler{
		client:  client,
		recs:    recs,
		timeout: timeout,
		logger:  log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle generates and stores the recommendation for one activity message.
func (h *RecommendationHandler) Handle(ctx context.Context, msg messaging.ActivityMessage) error {
	activity := msg.ToActivity()

	var parsed *analysis.Parsed

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	raw, err := h.client.GetAnswer(callCtx, inference.BuildPrompt(activity))
	cancel()
	if err != nil {
		h.logger.Printf("activity %s: inference failed, using default recommendation: %v", activity.ID, err)
		recordFallback("inference_unavailable")
	} else {
		result, extractErr := analysis.Extract(raw)
		if extractErr != nil {
			h.logger.Printf("activity %s: extraction failed, using default recommendation: %v", activity.ID, extractErr)
			recordFallback("extraction_failed")
		} else {
			parsed = &result
		}
	}

	rec := analysis.BuildRecommendation(activity, parsed)
	if err := h.recs.CreateRecommendation(ctx, rec); err != nil {
		return fmt.Errorf("persist recommendation for activity %s: %w", activity.ID, err)
	}

	observability.RecordRecommendationStored(rec.CreatedAt)
	return nil
}
