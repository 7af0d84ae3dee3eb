package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-exercisetracker/config"
	controller "golang-exercisetracker/controllers"
	"golang-exercisetracker/database"
	"golang-exercisetracker/metrics"
	"golang-exercisetracker/middleware"
	"golang-exercisetracker/models"
	"golang-exercisetracker/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	store   *database.MemoryStore
	metrics *metrics.Collector
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewMemoryStore()
	collector := metrics.NewCollector()
	opts := services.Options{Logger: logger, Metrics: collector, StoreTimeout: time.Second}

	users := services.NewUserService(store, opts)
	exercises := services.NewExerciseService(users, store, opts)

	router := NewRouter(Dependencies{
		Logger:      logger,
		Metrics:     collector,
		RateLimiter: limiter,
		CORS:        config.CORSConfig{AllowedOrigins: "*"},
		Users:       controller.NewUserController(users),
		Exercises:   controller.NewExerciseController(exercises),
		Store:       store,
		PingTimeout: time.Second,
	})

	return &testServer{router: router, store: store, metrics: collector}
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestExerciseTrackerFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.postForm(t, "/api/users", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	alice := decode[models.User](t, rr)
	assert.Equal(t, "alice", alice.Username)
	require.Len(t, alice.ID, 24)

	rr = s.postForm(t, "/api/users/"+alice.ID+"/exercises", url.Values{
		"description": {"cycling"},
		"duration":    {"45"},
		"date":        {"2023-05-10"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, fmt.Sprintf(
		`{"username":"alice","_id":%q,"description":"cycling","duration":45,"date":"Wed May 10 2023"}`, alice.ID,
	), rr.Body.String())

	rr = s.get(t, "/api/users/"+alice.ID+"/logs")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"_id":%q,"username":"alice","count":1,"log":[{"description":"cycling","duration":45,"date":"Wed May 10 2023"}]}`, alice.ID,
	), rr.Body.String())

	rr = s.get(t, "/api/users")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, fmt.Sprintf(`[{"username":"alice","_id":%q}]`, alice.ID), rr.Body.String())
}

func TestDuplicateUsername(t *testing.T) {
	s := newTestServer(t, nil)

	require.Equal(t, http.StatusOK, s.postForm(t, "/api/users", url.Values{"username": {"alice"}}).Code)

	rr := s.postForm(t, "/api/users", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Username already taken"}`, rr.Body.String())
	assert.Equal(t, 1, s.store.CountUsers())
}

func TestUnknownUser(t *testing.T) {
	s := newTestServer(t, nil)

	for _, id := range []string{"65f000000000000000000000", "not-an-object-id"} {
		rr := s.postForm(t, "/api/users/"+id+"/exercises", url.Values{"description": {"run"}, "duration": {"30"}})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid user ID"}`, rr.Body.String())

		rr = s.get(t, "/api/users/"+id+"/logs")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}
	assert.Equal(t, 0, s.store.CountExercises())
}

func TestAddExerciseMissingFields(t *testing.T) {
	s := newTestServer(t, nil)
	alice := decode[models.User](t, s.postForm(t, "/api/users", url.Values{"username": {"alice"}}))

	rr := s.postForm(t, "/api/users/"+alice.ID+"/exercises", url.Values{"duration": {"30"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"description is required"}`, rr.Body.String())

	rr = s.postForm(t, "/api/users/"+alice.ID+"/exercises", url.Values{"description": {"run"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"duration is required"}`, rr.Body.String())
}

func TestAddExerciseWithoutDateUsesToday(t *testing.T) {
	s := newTestServer(t, nil)
	alice := decode[models.User](t, s.postForm(t, "/api/users", url.Values{"username": {"alice"}}))

	before := time.Now().UTC().Format("Mon Jan 02 2006")
	rr := s.postForm(t, "/api/users/"+alice.ID+"/exercises", url.Values{"description": {"run"}, "duration": {"30"}})
	after := time.Now().UTC().Format("Mon Jan 02 2006")

	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[models.ExerciseResponse](t, rr)
	assert.Contains(t, []string{before, after}, res.Date)
	assert.Equal(t, 30, res.Duration)
}

func TestLogFilteringOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	alice := decode[models.User](t, s.postForm(t, "/api/users", url.Values{"username": {"alice"}}))

	for i := 0; i < 10; i++ {
		rr := s.postForm(t, "/api/users/"+alice.ID+"/exercises", url.Values{
			"description": {fmt.Sprintf("ex-%d", i)},
			"duration":    {"15"},
			"date":        {fmt.Sprintf("2023-01-%02d", 1+i*3)},
		})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := s.get(t, "/api/users/"+alice.ID+"/logs?from=2023-01-01&to=2023-01-31&limit=5")
	require.Equal(t, http.StatusOK, rr.Code)
	log := decode[models.LogResponse](t, rr)
	assert.Equal(t, 5, log.Count)
	assert.Len(t, log.Log, 5)
	assert.Equal(t, "ex-0", log.Log[0].Description)

	rr = s.get(t, "/api/users/"+alice.ID+"/logs?from=2023-01-20")
	log = decode[models.LogResponse](t, rr)
	// Jan 22, 25 and 28.
	assert.Equal(t, 3, log.Count)
}

func TestIndexHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.get(t, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Exercise tracker")

	rr = s.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)

	s.postForm(t, "/api/users", url.Values{"username": {"alice"}})
	rr = s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "exercisetracker_users_created_total 1")
	assert.Contains(t, rr.Body.String(), `exercisetracker_http_requests_total{method="POST",route="/api/users",status="200"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.get(t, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "https://client.example")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRateLimitAppliesToAPIOnly(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	t.Cleanup(limiter.Stop)
	s := newTestServer(t, limiter)

	assert.Equal(t, http.StatusOK, s.get(t, "/api/users").Code)
	assert.Equal(t, http.StatusTooManyRequests, s.get(t, "/api/users").Code)
	assert.Equal(t, http.StatusOK, s.get(t, "/healthz").Code)
}
