// Package progressclient is the HTTP client trackers use to reach the progress API.
package progressclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/japanesestudent/progress-service/internal/gate"
	"github.com/japanesestudent/progress-service/internal/middleware"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/tracker"
	"go.uber.org/zap"
)

// HTTPDoer describes the HTTP client used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("progress api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("progress api returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the progress API on behalf of one authenticated viewer
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *zap.Logger
}

// New creates a client. baseURL is the server root, e.g. http://localhost:8080.
func New(baseURL, token string, client HTTPDoer, logger *zap.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
		logger:  logger,
	}
}

// Report posts a tracker sample and returns the stored lesson progress
func (c *Client) Report(ctx context.Context, sample tracker.Sample) (*models.LessonProgress, error) {
	body := models.ProgressUpdateRequest{
		ViewerID:    sample.ViewerID,
		CourseID:    sample.CourseID,
		LessonID:    sample.LessonID,
		VideoID:     sample.VideoID,
		CurrentTime: sample.CurrentTime,
		Duration:    sample.Duration,
		Percent:     sample.Percent,
		Event:       sample.Event,
		Timestamp:   sample.Timestamp.UnixMilli(),
	}

	var progress models.LessonProgress
	if err := c.do(ctx, http.MethodPost, "/api/v1/progress", body, &progress); err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}
	return &progress, nil
}

// CourseProgress reads the viewer's course summary
func (c *Client) CourseProgress(ctx context.Context, courseID int) (*models.CourseProgressSummary, error) {
	var summary models.CourseProgressSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/progress/courses/%d", courseID), nil, &summary); err != nil {
		return nil, fmt.Errorf("get course progress: %w", err)
	}
	return &summary, nil
}

// CourseProgressOrZero reads the viewer's course summary and degrades to a zeroed
// summary when the read fails, so a course page never blocks on progress.
func (c *Client) CourseProgressOrZero(ctx context.Context, viewerID, courseID int) models.CourseProgressSummary {
	summary, err := c.CourseProgress(ctx, courseID)
	if err != nil {
		c.logger.Warn("course progress unavailable", zap.Error(err), zap.Int("course_id", courseID))
		return models.CourseProgressSummary{ViewerID: viewerID, CourseID: courseID}
	}
	return *summary
}

// CheckExamGate asks the server whether the viewer may start an exam right away
func (c *Client) CheckExamGate(ctx context.Context, req models.ExamGateRequest) (*gate.Decision, error) {
	var decision gate.Decision
	if err := c.do(ctx, http.MethodPost, "/api/v1/exams/gate", req, &decision); err != nil {
		return nil, fmt.Errorf("check exam gate: %w", err)
	}
	return &decision, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Reporter adapts Client to tracker.Reporter
type Reporter struct {
	client *Client
}

// NewReporter creates a tracker reporter backed by the client
func NewReporter(client *Client) *Reporter {
	return &Reporter{client: client}
}

// Report implements tracker.Reporter
func (r *Reporter) Report(ctx context.Context, sample tracker.Sample) error {
	_, err := r.client.Report(ctx, sample)
	return err
}
