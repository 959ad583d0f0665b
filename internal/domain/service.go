// Package domain defines the business logic for the fitness services.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnknownUser rejects a write referencing a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")
	// ErrActivityNotFound is returned when an activity cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrRecommendationNotFound is returned when no recommendation exists yet for an activity.
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

// ActivityRepository captures persistence operations for activities.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, activityID string) (*Activity, error)
	ListActivitiesByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Activity, *Cursor, error)
}

// RecommendationRepository captures persistence operations for recommendations.
type RecommendationRepository interface {
	CreateRecommendation(ctx context.Context, rec Recommendation) error
	GetRecommendationByActivity(ctx context.Context, activityID string) (*Recommendation, error)
}

// UserValidator answers whether a user identifier refers to a known user.
type UserValidator interface {
	ExistsByID(ctx context.Context, userID string) (bool, error)
}

// ActivityPublisher announces a stored activity to the recommendation
// pipeline. Publishing is best effort and never reports failure: the write
// has already been made durable by the time it runs.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity Activity)
}

// ActivityService orchestrates the activity write and read paths.
type ActivityService struct {
	repo      ActivityRepository
	recs      RecommendationRepository
	users     UserValidator
	publisher ActivityPublisher
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo ActivityRepository, recs RecommendationRepository, users UserValidator, publisher ActivityPublisher) *ActivityService {
	return &ActivityService{repo: repo, recs: recs, users: users, publisher: publisher}
}

// TrackActivityInput captures the payload from the API layer.
type TrackActivityInput struct {
	UserID            string
	Type              string
	DurationMin       int
	CaloriesBurned    int
	StartedAt         time.Time
	AdditionalMetrics map[string]any
}

// TrackActivity validates the owning user, persists the activity, and then
// publishes it for asynchronous recommendation generation. The publish step
// cannot fail the call.
func (s *ActivityService) TrackActivity(ctx context.Context, input TrackActivityInput) (*Activity, error) {
	valid, err := s.users.ExistsByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrUnknownUser
	}

	now := time.Now().UTC()
	activity := Activity{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		Type:              input.Type,
		DurationMin:       input.DurationMin,
		CaloriesBurned:    input.CaloriesBurned,
		StartedAt:         input.StartedAt.UTC(),
		AdditionalMetrics: input.AdditionalMetrics,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, activity)
	return &activity, nil
}

// GetActivity fetches by ID.
func (s *ActivityService) GetActivity(ctx context.Context, activityID string) (*Activity, error) {
	activity, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ListActivitiesByUser fetches activities with cursor pagination.
func (s *ActivityService) ListActivitiesByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Activity, *Cursor, error) {
	return s.repo.ListActivitiesByUser(ctx, userID, cursor, limit)
}

// GetRecommendation fetches the recommendation generated for an activity.
func (s *ActivityService) GetRecommendation(ctx context.Context, activityID string) (*Recommendation, error) {
	rec, err := s.recs.GetRecommendationByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecommendationNotFound
	}
	return rec, nil
}
