package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

type stubStore struct {
	users           map[string]domain.User
	emails          map[string]bool
	activities      map[string]domain.Activity
	recommendations map[string]domain.Recommendation
	published       []domain.Activity
}

func newStubStore() *stubStore {
	return &stubStore{
		users:           map[string]domain.User{},
		emails:          map[string]bool{},
		activities:      map[string]domain.Activity{},
		recommendations: map[string]domain.Recommendation{},
	}
}

func (s *stubStore) CreateUser(_ context.Context, user domain.User) error {
	s.users[user.ID] = user
	s.emails[user.Email] = true
	return nil
}

func (s *stubStore) GetUser(_ context.Context, userID string) (*domain.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *stubStore) EmailExists(_ context.Context, email string) (bool, error) {
	return s.emails[email], nil
}

func (s *stubStore) UserExists(_ context.Context, userID string) (bool, error) {
	_, ok := s.users[userID]
	return ok, nil
}

func (s *stubStore) CreateActivity(_ context.Context, activity domain.Activity) error {
	s.activities[activity.ID] = activity
	return nil
}

func (s *stubStore) GetActivity(_ context.Context, activityID string) (*domain.Activity, error) {
	activity, ok := s.activities[activityID]
	if !ok {
		return nil, nil
	}
	return &activity, nil
}

func (s *stubStore) ListActivitiesByUser(_ context.Context, userID string, _ *domain.Cursor, _ int) ([]domain.Activity, *domain.Cursor, error) {
	var out []domain.Activity
	for _, activity := range s.activities {
		if activity.UserID == userID {
			out = append(out, activity)
		}
	}
	return out, nil, nil
}

func (s *stubStore) CreateRecommendation(_ context.Context, rec domain.Recommendation) error {
	s.recommendations[rec.ActivityID] = rec
	return nil
}

func (s *stubStore) GetRecommendationByActivity(_ context.Context, activityID string) (*domain.Recommendation, error) {
	rec, ok := s.recommendations[activityID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *stubStore) Publish(_ context.Context, activity domain.Activity) {
	s.published = append(s.published, activity)
}

func newTestServer(t *testing.T) (*httptest.Server, *stubStore) {
	t.Helper()
	store := newStubStore()
	users := domain.NewUserService(store, bcrypt.MinCost)
	activities := domain.NewActivityService(store, store, users, store)

	mux := http.NewServeMux()
	NewHandler(activities, users).RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerTestUser(t *testing.T, server *httptest.Server) UserView {
	t.Helper()
	resp := postJSON(t, server.URL+"/v1/users", RegisterUserRequest{
		Email:     "runner@example.com",
		Password:  "long-enough-password",
		FirstName: "Alex",
		LastName:  "Runner",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view UserView
	decodeBody(t, resp, &view)
	return view
}

func trackRequest(userID string) TrackActivityRequest {
	return TrackActivityRequest{
		UserID:         userID,
		Type:           "Running",
		DurationMin:    30,
		CaloriesBurned: 320,
		StartedAt:      time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC),
		AdditionalMetrics: map[string]any{
			"distanceKm": 5.2,
		},
	}
}

func TestRegisterUserAndFetchProfile(t *testing.T) {
	server, _ := newTestServer(t)

	view := registerTestUser(t, server)
	require.NotEmpty(t, view.UserID)
	require.Equal(t, "runner@example.com", view.Email)

	resp, err := http.Get(server.URL + "/v1/users/" + view.UserID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched UserView
	decodeBody(t, resp, &fetched)
	require.Equal(t, view.UserID, fetched.UserID)
}

func TestRegisterUserDuplicateEmailConflicts(t *testing.T) {
	server, _ := newTestServer(t)
	registerTestUser(t, server)

	resp := postJSON(t, server.URL+"/v1/users", RegisterUserRequest{
		Email:    "runner@example.com",
		Password: "long-enough-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "email_taken", body["type"])
}

func TestValidateUserEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	user := registerTestUser(t, server)

	resp, err := http.Get(server.URL + "/v1/users/" + user.UserID + "/validate")
	require.NoError(t, err)
	var known ValidateUserResponse
	decodeBody(t, resp, &known)
	require.True(t, known.Valid)

	resp, err = http.Get(server.URL + "/v1/users/nobody/validate")
	require.NoError(t, err)
	var unknown ValidateUserResponse
	decodeBody(t, resp, &unknown)
	require.False(t, unknown.Valid)
}

func TestTrackActivityCreatesAndPublishes(t *testing.T) {
	server, store := newTestServer(t)
	user := registerTestUser(t, server)

	resp := postJSON(t, server.URL+"/v1/activities", trackRequest(user.UserID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view ActivityView
	decodeBody(t, resp, &view)
	require.NotEmpty(t, view.ActivityID)
	require.Equal(t, user.UserID, view.UserID)
	require.Equal(t, 30, view.DurationMin)

	require.Len(t, store.published, 1)
	require.Equal(t, view.ActivityID, store.published[0].ID)
}

func TestTrackActivityUnknownUserRejected(t *testing.T) {
	server, store := newTestServer(t)

	resp := postJSON(t, server.URL+"/v1/activities", trackRequest("ghost"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "validation_failed", body["type"])

	require.Empty(t, store.activities)
	require.Empty(t, store.published)
}

func TestTrackActivityValidatesPayload(t *testing.T) {
	server, _ := newTestServer(t)
	user := registerTestUser(t, server)

	req := trackRequest(user.UserID)
	req.DurationMin = 0
	resp := postJSON(t, server.URL+"/v1/activities", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListActivitiesRequiresUserID(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/activities")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListActivitiesReturnsUserItems(t *testing.T) {
	server, _ := newTestServer(t)
	user := registerTestUser(t, server)

	resp := postJSON(t, server.URL+"/v1/activities", trackRequest(user.UserID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/v1/activities?user_id=" + user.UserID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list ListActivitiesResponse
	decodeBody(t, resp, &list)
	require.Len(t, list.Items, 1)
	require.Empty(t, list.NextCursor)
}

func TestGetRecommendationLifecycle(t *testing.T) {
	server, store := newTestServer(t)
	user := registerTestUser(t, server)

	resp := postJSON(t, server.URL+"/v1/activities", trackRequest(user.UserID))
	var activity ActivityView
	decodeBody(t, resp, &activity)

	resp, err := http.Get(server.URL + "/v1/activities/" + activity.ActivityID + "/recommendation")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	err = store.CreateRecommendation(context.Background(), domain.Recommendation{
		ID:           "rec-1",
		ActivityID:   activity.ActivityID,
		UserID:       user.UserID,
		ActivityType: "Running",
		Analysis:     "Overall: Good",
		Improvements: []string{"No specific improvements provided"},
		Suggestions:  []string{"No specific suggestions provided"},
		Safety:       []string{"Follow general safety guidelines"},
	})
	require.NoError(t, err)

	resp, err = http.Get(server.URL + "/v1/activities/" + activity.ActivityID + "/recommendation")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec RecommendationView
	decodeBody(t, resp, &rec)
	require.Equal(t, "rec-1", rec.RecommendationID)
	require.Equal(t, "Overall: Good", rec.Analysis)
}

func TestGetActivityNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/activities/missing")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
