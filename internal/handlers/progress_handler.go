package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps methods for viewer progress business logic
type ProgressService interface {
	// Method RecordProgress stores a progress sample for the authenticated viewer.
	//
	// Returns models.ErrValidation for malformed samples and models.ErrForbidden when the sample names another viewer.
	RecordProgress(ctx context.Context, viewerID int, req *models.ProgressUpdateRequest) (*models.LessonProgress, error)
	// Method GetCourseProgress computes the course summary of a viewer.
	//
	// A viewer who never watched a lesson of the course gets a zeroed summary.
	GetCourseProgress(ctx context.Context, viewerID, courseID int) (*models.CourseProgressSummary, error)
	// Method ListLessonProgress retrieves all lesson progress records of a viewer in a course.
	ListLessonProgress(ctx context.Context, viewerID, courseID int) ([]models.LessonProgress, error)
	// Method GetLessonProgress retrieves the progress record of a single lesson.
	//
	// Returns models.ErrNotFound if the viewer never watched the lesson.
	GetLessonProgress(ctx context.Context, viewerID, courseID, lessonID int) (*models.LessonProgress, error)
	// Method RecordQuizResult attaches a quiz score to a lesson the viewer already started.
	RecordQuizResult(ctx context.Context, viewerID int, req *models.QuizResultRequest) (*models.LessonProgress, error)
}

// ProgressHandler handles HTTP requests for viewer progress
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all progress handler routes.
// writeLimiter is applied to the sample endpoint only, which trackers hit every few seconds.
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMiddleware, writeLimiter func(http.Handler) http.Handler) {
	r.Route("/progress", func(r chi.Router) {
		r.Use(authMiddleware)
		r.With(writeLimiter).Post("/", h.RecordProgress)
		r.Post("/quiz", h.RecordQuizResult)
		r.Get("/courses/{courseId}", h.GetCourseProgress)
		r.Get("/courses/{courseId}/lessons", h.ListLessonProgress)
		r.Get("/courses/{courseId}/lessons/{lessonId}", h.GetLessonProgress)
	})
}

// RecordProgress handles POST /progress
// @Summary Record a progress sample
// @Description Store a playback sample posted by a video tracker. The watch percentage is recomputed from currentTime and duration.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProgressUpdateRequest true "Progress sample"
// @Success 200 {object} models.LessonProgress
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Sample belongs to another viewer"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress [post]
func (h *ProgressHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.viewerID(w, r)
	if !ok {
		return
	}

	var req models.ProgressUpdateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	progress, err := h.service.RecordProgress(r.Context(), viewerID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to save progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// GetCourseProgress handles GET /progress/courses/{courseId}
// @Summary Get course progress
// @Description Get the progress summary of the authenticated viewer across all lessons of a course
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} models.CourseProgressSummary
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress/courses/{courseId} [get]
func (h *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.viewerID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathInt(w, r, "courseId")
	if !ok {
		return
	}

	summary, err := h.service.GetCourseProgress(r.Context(), viewerID, courseID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get course progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, summary)
}

// ListLessonProgress handles GET /progress/courses/{courseId}/lessons
// @Summary List lesson progress
// @Description Get every lesson progress record of the authenticated viewer in a course, ordered by lesson
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {array} models.LessonProgress
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress/courses/{courseId}/lessons [get]
func (h *ProgressHandler) ListLessonProgress(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.viewerID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathInt(w, r, "courseId")
	if !ok {
		return
	}

	lessons, err := h.service.ListLessonProgress(r.Context(), viewerID, courseID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to list lesson progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}

// GetLessonProgress handles GET /progress/courses/{courseId}/lessons/{lessonId}
// @Summary Get lesson progress
// @Description Get the progress record of a single lesson for the authenticated viewer
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} models.LessonProgress
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lesson never watched"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress/courses/{courseId}/lessons/{lessonId} [get]
func (h *ProgressHandler) GetLessonProgress(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.viewerID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathInt(w, r, "courseId")
	if !ok {
		return
	}
	lessonID, ok := h.pathInt(w, r, "lessonId")
	if !ok {
		return
	}

	progress, err := h.service.GetLessonProgress(r.Context(), viewerID, courseID, lessonID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get lesson progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// RecordQuizResult handles POST /progress/quiz
// @Summary Record a quiz result
// @Description Attach a quiz score (0-100) to a lesson the authenticated viewer already started watching
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.QuizResultRequest true "Quiz result"
// @Success 200 {object} models.LessonProgress
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lesson never watched"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress/quiz [post]
func (h *ProgressHandler) RecordQuizResult(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.viewerID(w, r)
	if !ok {
		return
	}

	var req models.QuizResultRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	progress, err := h.service.RecordQuizResult(r.Context(), viewerID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to save quiz result")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}
