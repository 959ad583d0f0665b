// Package messaging carries stored activities over a durable AMQP queue to
// the recommendation worker.
package messaging

import (
	"time"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

// ActivityMessage is the wire representation of a stored activity.
type ActivityMessage struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	Type              string         `json:"type"`
	Duration          int            `json:"duration"`
	CaloriesBurned    int            `json:"caloriesBurned"`
	StartTime         time.Time      `json:"startTime"`
	AdditionalMetrics map[string]any `json:"additionalMetrics"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// FromActivity maps a domain activity onto the wire format.
func FromActivity(activity domain.Activity) ActivityMessage {
	return ActivityMessage{
		ID:                activity.ID,
		UserID:            activity.UserID,
		Type:              activity.Type,
		Duration:          activity.DurationMin,
		CaloriesBurned:    activity.CaloriesBurned,
		StartTime:         activity.StartedAt,
		AdditionalMetrics: activity.AdditionalMetrics,
		CreatedAt:         activity.CreatedAt,
		UpdatedAt:         activity.UpdatedAt,
	}
}

// ToActivity maps a received message back onto the domain type.
func (m ActivityMessage) ToActivity() domain.Activity {
	return domain.Activity{
		ID:                m.ID,
		UserID:            m.UserID,
		Type:              m.Type,
		DurationMin:       m.Duration,
		CaloriesBurned:    m.CaloriesBurned,
		StartedAt:         m.StartTime,
		AdditionalMetrics: m.AdditionalMetrics,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
