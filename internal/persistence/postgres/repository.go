// Package postgres provides pgx-backed persistence for users, activities,
// and recommendations.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
	"github.com/dhuman2317-tech/fitness-microservice/internal/observability"
)

// Repository implements the domain repository interfaces on a pgx pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateActivity persists a new activity. Activities are insert-only.
func (r *Repository) CreateActivity(ctx context.Context, activity domain.Activity) error {
	metrics, err := encodeMetrics(activity.AdditionalMetrics)
	if err != nil {
		return fmt.Errorf("encode additional metrics: %w", err)
	}

	const stmt = `INSERT INTO activities (activity_id, user_id, activity_type, duration_min, calories_burned, started_at, additional_metrics, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = r.pool.Exec(ctx, stmt,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.DurationMin,
		activity.CaloriesBurned,
		activity.StartedAt,
		metrics,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return err
	}

	observability.RecordActivityPersisted(activity.CreatedAt)
	return nil
}

// GetActivity retrieves an activity by ID. A missing row yields (nil, nil).
func (r *Repository) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	const query = `SELECT activity_id, user_id, activity_type, duration_min, calories_burned, started_at, additional_metrics, created_at, updated_at
        FROM activities WHERE activity_id=$1`

	row := r.pool.QueryRow(ctx, query, activityID)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return activity, nil
}

// ListActivitiesByUser returns activities for a user ordered by start time.
func (r *Repository) ListActivitiesByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT activity_id, user_id, activity_type, duration_min, calories_burned, started_at, additional_metrics, created_at, updated_at
        FROM activities WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (started_at, activity_id) < ($3, $4)`
		args = append(args, cursor.StartedAt, cursor.ID)
	}

	query += ` ORDER BY started_at DESC, activity_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.Activity, 0, limit)
	for rows.Next() {
		activity, scanErr := scanActivity(rows)
		if scanErr != nil {
			return nil, nil, scanErr
		}
		results = append(results, *activity)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{StartedAt: last.StartedAt, ID: last.ID}
	}
	return results, next, nil
}

// CreateRecommendation stores a recommendation. The insert is idempotent on
// activity_id so a redelivered message cannot produce a second row.
func (r *Repository) CreateRecommendation(ctx context.Context, rec domain.Recommendation) error {
	const stmt = `INSERT INTO recommendations (recommendation_id, activity_id, user_id, activity_type, analysis, improvements, suggestions, safety, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (activity_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, stmt,
		rec.ID,
		rec.ActivityID,
		rec.UserID,
		rec.ActivityType,
		rec.Analysis,
		rec.Improvements,
		rec.Suggestions,
		rec.Safety,
		rec.CreatedAt,
	)
	return err
}

// GetRecommendationByActivity fetches the recommendation generated for an
// activity. A missing row yields (nil, nil).
func (r *Repository) GetRecommendationByActivity(ctx context.Context, activityID string) (*domain.Recommendation, error) {
	const query = `SELECT recommendation_id, activity_id, user_id, activity_type, analysis, improvements, suggestions, safety, created_at
        FROM recommendations WHERE activity_id=$1`

	var rec domain.Recommendation
	err := r.pool.QueryRow(ctx, query, activityID).Scan(
		&rec.ID,
		&rec.ActivityID,
		&rec.UserID,
		&rec.ActivityType,
		&rec.Analysis,
		&rec.Improvements,
		&rec.Suggestions,
		&rec.Safety,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// CreateUser persists a new user.
func (r *Repository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `INSERT INTO users (user_id, email, password_hash, first_name, last_name, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, stmt,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// GetUser retrieves a user by ID. A missing row yields (nil, nil).
func (r *Repository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	const query = `SELECT user_id, email, password_hash, first_name, last_name, created_at, updated_at
        FROM users WHERE user_id=$1`

	var user domain.User
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether a user is already registered with the email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

// UserExists reports whether the user identifier refers to a known user.
func (r *Repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id=$1)`, userID).Scan(&exists)
	return exists, err
}

func encodeMetrics(metrics map[string]any) ([]byte, error) {
	if metrics == nil {
		return nil, nil
	}
	return json.Marshal(metrics)
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var activity domain.Activity
	var metrics []byte
	if err := row.Scan(
		&activity.ID,
		&activity.UserID,
		&activity.Type,
		&activity.DurationMin,
		&activity.CaloriesBurned,
		&activity.StartedAt,
		&metrics,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &activity.AdditionalMetrics); err != nil {
			return nil, fmt.Errorf("decode additional metrics: %w", err)
		}
	}
	return &activity, nil
}
