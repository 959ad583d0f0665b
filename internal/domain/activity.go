package domain

import "time"

// Activity is the canonical workout record stored in Postgres. It is written
// once by the tracking path and read-only everywhere else.
type Activity struct {
	ID                string
	UserID            string
	Type              string
	DurationMin       int
	CaloriesBurned    int
	StartedAt         time.Time
	AdditionalMetrics map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Recommendation is the coaching output derived from one Activity. It is a
// terminal entity: created exactly once per activity and never updated.
type Recommendation struct {
	ID           string
	ActivityID   string
	UserID       string
	ActivityType string
	Analysis     string
	Improvements []string
	Suggestions  []string
	Safety       []string
	CreatedAt    time.Time
}

// Cursor models the pagination token for activity listings.
type Cursor struct {
	StartedAt time.Time
	ID        string
}
