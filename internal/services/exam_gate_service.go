package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/gate"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// LessonProgressReader is the read side of LessonProgressRepository used by the exam gate
type LessonProgressReader interface {
	// Method GetByViewerAndLesson retrieves the progress record of a lesson.
	//
	// Returns models.ErrNotFound if the viewer never watched the lesson.
	GetByViewerAndLesson(ctx context.Context, viewerID, courseID, lessonID int) (*models.LessonProgress, error)
}

type examGateService struct {
	repo      LessonProgressReader
	threshold float64
	logger    *zap.Logger
}

// NewExamGateService creates a new exam gate service
func NewExamGateService(repo LessonProgressReader, threshold float64, logger *zap.Logger) *examGateService {
	return &examGateService{
		repo:      repo,
		threshold: threshold,
		logger:    logger,
	}
}

// CheckExamGate evaluates the gate for the prerequisite lesson of an exam.
// A lesson the viewer never watched counts as 0% and not completed.
func (s *examGateService) CheckExamGate(ctx context.Context, viewerID int, req *models.ExamGateRequest) (*gate.Decision, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", models.ErrValidation)
	}
	if err := validateKey(viewerID, req.CourseID, req.LessonID); err != nil {
		return nil, err
	}

	var snapshot gate.Snapshot
	progress, err := s.repo.GetByViewerAndLesson(ctx, viewerID, req.CourseID, req.LessonID)
	switch {
	case err == nil:
		snapshot = gate.Snapshot{Percent: progress.WatchPercentage, Completed: progress.IsCompleted}
	case errors.Is(err, models.ErrNotFound):
	default:
		s.logger.Error("failed to get prerequisite progress", zap.Error(err), zap.Int("lesson_id", req.LessonID))
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	decision := gate.Evaluate(snapshot, req.Exam, s.threshold)
	return &decision, nil
}
