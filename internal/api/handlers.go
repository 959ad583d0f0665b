// Package api exposes HTTP handlers for the fitness services.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
	"github.com/dhuman2317-tech/fitness-microservice/internal/persistence"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	activities *domain.ActivityService
	users      *domain.UserService
}

// NewHandler builds a Handler.
func NewHandler(activities *domain.ActivityService, users *domain.UserService) *Handler {
	return &Handler{activities: activities, users: users}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/users", h.usersRoot)
	mux.HandleFunc("/v1/users/", h.userByID)
	mux.HandleFunc("/v1/activities", h.activitiesRoot)
	mux.HandleFunc("/v1/activities/", h.activityByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) usersRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.registerUser(w, r)
}

func (h *Handler) userByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	switch {
	case rest == "":
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
	case strings.HasSuffix(rest, "/validate"):
		h.validateUser(w, r, strings.TrimSuffix(rest, "/validate"))
	default:
		h.getUser(w, r, rest)
	}
}

func (h *Handler) activitiesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.trackActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	switch {
	case rest == "":
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
	case strings.HasSuffix(rest, "/recommendation"):
		h.getRecommendation(w, r, strings.TrimSuffix(rest, "/recommendation"))
	default:
		h.getActivity(w, r, rest)
	}
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), domain.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toUserView(*user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) validateUser(w http.ResponseWriter, r *http.Request, id string) {
	valid, err := h.users.ExistsByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ValidateUserResponse{UserID: id, Valid: valid})
}

func (h *Handler) trackActivity(w http.ResponseWriter, r *http.Request) {
	var req TrackActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	activity, err := h.activities.TrackActivity(r.Context(), domain.TrackActivityInput{
		UserID:            req.UserID,
		Type:              req.Type,
		DurationMin:       req.DurationMin,
		CaloriesBurned:    req.CaloriesBurned,
		StartedAt:         req.StartedAt,
		AdditionalMetrics: req.AdditionalMetrics,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown user")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toActivityView(*activity))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	activity, err := h.activities.GetActivity(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	activities, next, err := h.activities.ListActivitiesByUser(r.Context(), userID, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityView(activity))
	}
	writeJSON(w, http.StatusOK, ListActivitiesResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) getRecommendation(w http.ResponseWriter, r *http.Request, activityID string) {
	rec, err := h.activities.GetRecommendation(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, domain.ErrRecommendationNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "recommendation not available yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRecommendationView(*rec))
}

// RegisterUserRequest is the payload for POST /v1/users.
type RegisterUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate ensures request correctness.
func (r RegisterUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// TrackActivityRequest is the payload for POST /v1/activities.
type TrackActivityRequest struct {
	UserID            string         `json:"user_id"`
	Type              string         `json:"type"`
	DurationMin       int            `json:"duration_min"`
	CaloriesBurned    int            `json:"calories_burned"`
	StartedAt         time.Time      `json:"started_at"`
	AdditionalMetrics map[string]any `json:"additional_metrics"`
}

// Validate ensures request correctness.
func (r TrackActivityRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("type is required")
	}
	if r.DurationMin <= 0 {
		return errors.New("duration_min must be > 0")
	}
	if r.CaloriesBurned < 0 {
		return errors.New("calories_burned must be >= 0")
	}
	if r.StartedAt.IsZero() {
		return errors.New("started_at is required")
	}
	return nil
}

// UserView exposes a user profile without credentials.
type UserView struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateUserResponse answers the user-existence check.
type ValidateUserResponse struct {
	UserID string `json:"user_id"`
	Valid  bool   `json:"valid"`
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID        string         `json:"activity_id"`
	UserID            string         `json:"user_id"`
	Type              string         `json:"type"`
	DurationMin       int            `json:"duration_min"`
	CaloriesBurned    int            `json:"calories_burned"`
	StartedAt         time.Time      `json:"started_at"`
	AdditionalMetrics map[string]any `json:"additional_metrics,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items      []ActivityView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// RecommendationView exposes the coaching output for an activity.
type RecommendationView struct {
	RecommendationID string    `json:"recommendation_id"`
	ActivityID       string    `json:"activity_id"`
	UserID           string    `json:"user_id"`
	ActivityType     string    `json:"activity_type"`
	Analysis         string    `json:"analysis"`
	Improvements     []string  `json:"improvements"`
	Suggestions      []string  `json:"suggestions"`
	Safety           []string  `json:"safety"`
	CreatedAt        time.Time `json:"created_at"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toUserView(user domain.User) UserView {
	return UserView{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toActivityView(activity domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:        activity.ID,
		UserID:            activity.UserID,
		Type:              activity.Type,
		DurationMin:       activity.DurationMin,
		CaloriesBurned:    activity.CaloriesBurned,
		StartedAt:         activity.StartedAt,
		AdditionalMetrics: activity.AdditionalMetrics,
		CreatedAt:         activity.CreatedAt,
		UpdatedAt:         activity.UpdatedAt,
	}
}

func toRecommendationView(rec domain.Recommendation) RecommendationView {
	return RecommendationView{
		RecommendationID: rec.ID,
		ActivityID:       rec.ActivityID,
		UserID:           rec.UserID,
		ActivityType:     rec.ActivityType,
		Analysis:         rec.Analysis,
		Improvements:     rec.Improvements,
		Suggestions:      rec.Suggestions,
		Safety:           rec.Safety,
		CreatedAt:        rec.CreatedAt,
	}
}
