package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// AdminProgressService is the interface that wraps progress operations on behalf of any viewer
type AdminProgressService interface {
	// Method GetCourseProgress computes the course summary of a viewer.
	GetCourseProgress(ctx context.Context, viewerID, courseID int) (*models.CourseProgressSummary, error)
	// Method ResetProgress removes the progress of a viewer in a course.
	//
	// "lessonID" equal to 0 resets the whole course. Returns models.ErrNotFound when nothing was removed.
	ResetProgress(ctx context.Context, viewerID, courseID, lessonID int) (int64, error)
}

// AdminProgressHandler handles HTTP requests for progress administration
type AdminProgressHandler struct {
	BaseHandler
	service AdminProgressService
}

// NewAdminProgressHandler creates a new admin progress handler
func NewAdminProgressHandler(svc AdminProgressService, logger *zap.Logger) *AdminProgressHandler {
	return &AdminProgressHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all admin progress handler routes.
// Summaries are readable by admins and by other services holding the API key; resets need an admin token.
func (h *AdminProgressHandler) RegisterRoutes(r chi.Router, adminMiddleware, readMiddleware func(http.Handler) http.Handler) {
	r.Route("/admin/progress/courses/{courseId}/viewers/{viewerId}", func(r chi.Router) {
		r.With(readMiddleware).Get("/", h.GetViewerCourseProgress)
		r.With(adminMiddleware).Delete("/", h.ResetProgress)
	})
}

// GetViewerCourseProgress handles GET /admin/progress/courses/{courseId}/viewers/{viewerId}
// @Summary Get a viewer's course progress
// @Description Get the progress summary of any viewer in a course
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Param viewerId path int true "Viewer ID"
// @Success 200 {object} models.CourseProgressSummary
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/progress/courses/{courseId}/viewers/{viewerId} [get]
func (h *AdminProgressHandler) GetViewerCourseProgress(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathInt(w, r, "courseId")
	if !ok {
		return
	}
	viewerID, ok := h.pathInt(w, r, "viewerId")
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

// ResetProgress handles DELETE /admin/progress/courses/{courseId}/viewers/{viewerId}
// @Summary Reset a viewer's progress
// @Description Remove the progress of a viewer in a course, or of a single lesson when lessonId is given
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param viewerId path int true "Viewer ID"
// @Param lessonId query int false "Lesson ID"
// @Success 200 {object} map[string]int64 "Number of removed records"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Nothing to reset"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/progress/courses/{courseId}/viewers/{viewerId} [delete]
func (h *AdminProgressHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathInt(w, r, "courseId")
	if !ok {
		return
	}
	viewerID, ok := h.pathInt(w, r, "viewerId")
	if !ok {
		return
	}

	lessonID := 0
	if lessonStr := r.URL.Query().Get("lessonId"); lessonStr != "" {
		parsed, err := strconv.Atoi(lessonStr)
		if err != nil || parsed <= 0 {
			h.RespondError(w, http.StatusBadRequest, "invalid lessonId parameter")
			return
		}
		lessonID = parsed
	}

	deleted, err := h.service.ResetProgress(r.Context(), viewerID, courseID, lessonID)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to reset progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
