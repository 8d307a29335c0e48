package progressclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/japanesestudent/progress-service/internal/gate"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ tracker.Reporter = (*Reporter)(nil)

func testSample() tracker.Sample {
	return tracker.Sample{
		Session:     tracker.Session{ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc"},
		CurrentTime: 150,
		Duration:    600,
		Percent:     25,
		Event:       models.ProgressEventProgress,
		Timestamp:   time.UnixMilli(1760000000123),
	}
}

func TestClient_Report(t *testing.T) {
	var received models.ProgressUpdateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/progress", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.LessonProgress{ViewerID: 1, CourseID: 2, LessonID: 3, WatchPercentage: 25, WatchCount: 1})
	}))
	defer server.Close()

	client := New(server.URL+"/", " token-1 ", server.Client(), zap.NewNop())
	progress, err := client.Report(context.Background(), testSample())

	require.NoError(t, err)
	assert.Equal(t, 25.0, progress.WatchPercentage)
	assert.Equal(t, models.ProgressUpdateRequest{
		ViewerID:    1,
		CourseID:    2,
		LessonID:    3,
		VideoID:     "abc",
		CurrentTime: 150,
		Duration:    600,
		Percent:     25,
		Event:       models.ProgressEventProgress,
		Timestamp:   1760000000123,
	}, received)
}

func TestClient_Report_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"validation error: invalid video id"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "t", server.Client(), nil).Report(context.Background(), testSample())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "validation error: invalid video id", statusErr.Message)
}

func TestClient_CourseProgressOrZero(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/progress/courses/2", r.URL.Path)
			json.NewEncoder(w).Encode(models.CourseProgressSummary{ViewerID: 1, CourseID: 2, TotalLessons: 3, OverallProgress: 40})
		}))
		defer server.Close()

		summary := New(server.URL, "t", server.Client(), nil).CourseProgressOrZero(context.Background(), 1, 2)

		assert.Equal(t, 3, summary.TotalLessons)
		assert.Equal(t, 40.0, summary.OverallProgress)
	})

	t.Run("server error degrades to zero", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		summary := New(server.URL, "t", server.Client(), nil).CourseProgressOrZero(context.Background(), 1, 2)

		assert.Equal(t, models.CourseProgressSummary{ViewerID: 1, CourseID: 2}, summary)
	})

	t.Run("unreachable server degrades to zero", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		summary := New(url, "t", nil, nil).CourseProgressOrZero(context.Background(), 1, 2)

		assert.Equal(t, models.CourseProgressSummary{ViewerID: 1, CourseID: 2}, summary)
	})
}

func TestClient_CheckExamGate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.ExamGateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(gate.Evaluate(gate.Snapshot{Percent: 40}, req.Exam, 70))
	}))
	defer server.Close()

	decision, err := New(server.URL, "t", server.Client(), nil).CheckExamGate(context.Background(), models.ExamGateRequest{
		CourseID: 2, LessonID: 3, Exam: models.ExamInfo{Title: "Final"},
	})

	require.NoError(t, err)
	assert.Equal(t, gate.OutcomeConfirm, decision.Outcome)
	require.NotNil(t, decision.Confirmation)
	assert.Equal(t, []gate.Choice{gate.ChoiceBackToVideo, gate.ChoiceProceedAnyway}, decision.Confirmation.Choices)
}

func TestReporter_DrivesTracker(t *testing.T) {
	received := make(chan models.ProgressUpdateRequest, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.ProgressUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			received <- req
		}
		json.NewEncoder(w).Encode(models.LessonProgress{})
	}))
	defer server.Close()

	reporter := NewReporter(New(server.URL, "t", server.Client(), nil))
	err := reporter.Report(context.Background(), testSample())

	require.NoError(t, err)
	select {
	case req := <-received:
		assert.Equal(t, "abc", req.VideoID)
	case <-time.After(time.Second):
		t.Fatal("no request received")
	}
}
