package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/japanesestudent/progress-service/internal/gate"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// ExamGateService is the interface that wraps the exam gate check
type ExamGateService interface {
	// Method CheckExamGate decides whether the viewer may start an exam right away or must confirm first.
	//
	// A prerequisite lesson the viewer never watched counts as 0%.
	CheckExamGate(ctx context.Context, viewerID int, req *models.ExamGateRequest) (*gate.Decision, error)
}

// ExamGateHandler handles HTTP requests for the exam gate
type ExamGateHandler struct {
	BaseHandler
	service ExamGateService
}

// NewExamGateHandler creates a new exam gate handler
func NewExamGateHandler(svc ExamGateService, logger *zap.Logger) *ExamGateHandler {
	return &ExamGateHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all exam gate handler routes
func (h *ExamGateHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/exams", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/gate", h.CheckExamGate)
	})
}

// CheckExamGate handles POST /exams/gate
// @Summary Check the exam gate
// @Description Decide whether the viewer watched enough of the prerequisite lesson to start an exam. A "confirm" outcome carries the dialog the client must show.
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExamGateRequest true "Exam and prerequisite lesson"
// @Success 200 {object} gate.Decision
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /exams/gate [post]
func (h *ExamGateHandler) CheckExamGate(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.viewerID(w, r)
	if !ok {
		return
	}

	var req models.ExamGateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	decision, err := h.service.CheckExamGate(r.Context(), viewerID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to check exam gate")
		return
	}

	h.RespondJSON(w, http.StatusOK, decision)
}
