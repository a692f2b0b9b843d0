package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/models"
)

// fakeCoach returns canned results and records what it was called with.
type fakeCoach struct {
	result   *models.PipelineResult
	runErr   error
	reply    string
	coachErr error
	goal     string
	profile  map[string]interface{}
	query    string
	progress []string
}

func (f *fakeCoach) Run(ctx context.Context, goal string, profile map[string]interface{}) (*models.PipelineResult, error) {
	f.goal, f.profile = goal, profile
	return f.result, f.runErr
}

func (f *fakeCoach) Coach(ctx context.Context, query string, goalContext map[string]interface{}, recentProgress []string) (string, error) {
	f.query, f.progress = query, recentProgress
	return f.reply, f.coachErr
}

func newTestRouter(t *testing.T, coach Coach, ready func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		ServiceName:     "rein-coach-test",
		Logger:          logger.NewTestLogger(t),
		PipelineHandler: NewPipelineHandler(coach),
		HealthHandler:   NewHealthHandler(ready),
	})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t, &fakeCoach{}, nil)
	rec := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))

	rec = do(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	notReady := newTestRouter(t, &fakeCoach{}, func(context.Context) error { return errors.New("broker down") })
	rec = do(notReady, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "broker down")
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeCoach{}, nil)
	do(r, http.MethodGet, "/health", "")
	rec := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coach_http_requests_total")
}

func TestRunPipeline_OK(t *testing.T) {
	coach := &fakeCoach{result: &models.PipelineResult{
		PreprocessedGoal: &models.GoalPreprocessingResult{ClarifiedGoal: "Run a 5K by March"},
		Resolution:       &models.GeneratedResolution{Title: "Couch to 5K"},
		Evaluation:       models.QualityEvaluation{"overall_score": 8.0},
		Plan:             &models.GeneratedPlan{TotalWeeks: 12},
		Timestamp:        "2026-01-05T10:00:00Z",
	}}
	r := newTestRouter(t, coach, nil)

	rec := do(r, http.MethodPost, "/api/pipeline", `{"goal":"Run a 5K","profile":{"experience_level":"beginner","available_hours":5}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Couch to 5K", body["resolution"].(map[string]interface{})["title"])
	assert.Equal(t, 12.0, body["plan"].(map[string]interface{})["total_weeks"])

	assert.Equal(t, "Run a 5K", coach.goal)
	assert.Equal(t, 5.0, coach.profile["available_hours"])
}

func TestRunPipeline_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"transport", apperrors.WithStage(apperrors.NewTransportError(errors.New("503")), "generate_resolution"), http.StatusBadGateway},
		{"extraction", apperrors.NewExtractionError("no '{' found in response"), http.StatusUnprocessableEntity},
		{"parse", apperrors.NewParseError(errors.New("bad json")), http.StatusUnprocessableEntity},
		{"configuration", apperrors.NewConfigurationError("missing key"), http.StatusInternalServerError},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeCoach{runErr: tt.err}, nil)
			rec := do(r, http.MethodPost, "/api/pipeline", `{"goal":"Run a 5K"}`)
			assert.Equal(t, tt.status, rec.Code)

			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, string(apperrors.CodeOf(tt.err)), env.Error.Code)
		})
	}
}

func TestRunPipeline_InvalidBody(t *testing.T) {
	coach := &fakeCoach{}
	r := newTestRouter(t, coach, nil)

	for _, body := range []string{`not json`, `{}`, `{"goal":""}`, `{"goal":"x","profile":[]}`, `[]`} {
		rec := do(r, http.MethodPost, "/api/pipeline", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, coach.goal, "pipeline must not run on invalid input")
}

func TestCoachCheckIn(t *testing.T) {
	coach := &fakeCoach{reply: "Keep going, you are on track."}
	r := newTestRouter(t, coach, nil)

	rec := do(r, http.MethodPost, "/api/coach", `{"query":"Missed a run","goal_context":{"goal":"5K","current_week":3},"recent_progress":["ran 2K"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CoachResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Keep going, you are on track.", resp.Response)
	assert.Equal(t, "Missed a run", coach.query)
	assert.Equal(t, []string{"ran 2K"}, coach.progress)

	rec = do(r, http.MethodPost, "/api/coach", `{"goal_context":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
