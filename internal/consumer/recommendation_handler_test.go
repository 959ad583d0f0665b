package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
	"github.com/dhuman2317-tech/fitness-microservice/internal/inference"
	"github.com/dhuman2317-tech/fitness-microservice/internal/messaging"
)

type stubInferenceClient struct {
	answer  string
	err     error
	prompts []string
}

func (c *stubInferenceClient) GetAnswer(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, c.err
}

type stubRecommendationStore struct {
	err   error
	saved []domain.Recommendation
}

func (s *stubRecommendationStore) CreateRecommendation(_ context.Context, rec domain.Recommendation) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *stubRecommendationStore) GetRecommendationByActivity(context.Context, string) (*domain.Recommendation, error) {
	return nil, nil
}

func testMessage() messaging.ActivityMessage {
	return messaging.ActivityMessage{
		ID:       "act-42",
		UserID:   "user-7",
		Type:     "Cycling",
		Duration: 45,
		AdditionalMetrics: map[string]any{
			"distanceKm": 20.5,
		},
		StartTime: time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC),
	}
}

func TestHandlePersistsParsedRecommendation(t *testing.T) {
	client := &stubInferenceClient{
		answer: `{"analysis":{"overall":"Strong steady-state ride"},` +
			`"improvements":[{"area":"Cadence","recommendation":"Spin faster on climbs"}],` +
			`"suggestions":[{"workout":"Intervals","description":"4x5min at threshold"}],` +
			`"safety":["Check tire pressure"]}`,
	}
	store := &stubRecommendationStore{}
	handler := NewRecommendationHandler(client, store, time.Second, WithHandlerLogger(testLogger(t)))

	err := handler.Handle(context.Background(), testMessage())
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	require.Contains(t, client.prompts[0], "Cycling")

	require.Len(t, store.saved, 1)
	rec := store.saved[0]
	require.Equal(t, "act-42", rec.ActivityID)
	require.Equal(t, "user-7", rec.UserID)
	require.Equal(t, "Cycling", rec.ActivityType)
	require.Equal(t, "Overall: Strong steady-state ride", rec.Analysis)
	require.Equal(t, []string{"Cadence: Spin faster on climbs"}, rec.Improvements)
	require.Equal(t, []string{"Intervals: 4x5min at threshold"}, rec.Suggestions)
	require.Equal(t, []string{"Check tire pressure"}, rec.Safety)
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())
}

func TestHandleStoresDefaultOnInferenceFailure(t *testing.T) {
	client := &stubInferenceClient{err: inference.ErrUnavailable}
	store := &stubRecommendationStore{}
	handler := NewRecommendationHandler(client, store, time.Second, WithHandlerLogger(testLogger(t)))

	err := handler.Handle(context.Background(), testMessage())
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	rec := store.saved[0]
	require.Equal(t, "Unable to generate detailed analysis", rec.Analysis)
	require.Equal(t, []string{"Data unavailable"}, rec.Improvements)
	require.Equal(t, []string{"Consider consulting a fitness professional"}, rec.Suggestions)
	require.Equal(t, []string{
		"Always warm up before exercise",
		"Stay hydrated",
		"Listen to your body",
	}, rec.Safety)
}

func TestHandleStoresDefaultOnUnparseableReply(t *testing.T) {
	client := &stubInferenceClient{answer: "sorry, I cannot help with that"}
	store := &stubRecommendationStore{}
	handler := NewRecommendationHandler(client, store, time.Second, WithHandlerLogger(testLogger(t)))

	err := handler.Handle(context.Background(), testMessage())
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	require.Equal(t, "Unable to generate detailed analysis", store.saved[0].Analysis)
}

func TestHandlePropagatesStoreFailure(t *testing.T) {
	client := &stubInferenceClient{answer: `{"analysis":{"overall":"Fine"}}`}
	store := &stubRecommendationStore{err: errors.New("connection reset")}
	handler := NewRecommendationHandler(client, store, time.Second, WithHandlerLogger(testLogger(t)))

	err := handler.Handle(context.Background(), testMessage())
	require.Error(t, err)
	require.Contains(t, err.Error(), "act-42")
}
