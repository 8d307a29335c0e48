package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/japanesestudent/progress-service/internal/config"
	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

// LessonProgressRepository is the interface that wraps methods for lesson_progress table data access
type LessonProgressRepository interface {
	// Method Upsert creates the progress record of a lesson or merges a new sample into it.
	//
	// The watch counter must be incremented by the database itself and a completed record must stay completed.
	// Returns the stored record or an error.
	Upsert(ctx context.Context, upsert *models.LessonProgressUpsert) (*models.LessonProgress, error)
	// Method GetByViewerAndLesson retrieves the progress record of a lesson.
	//
	// Returns models.ErrNotFound if the viewer never watched the lesson.
	GetByViewerAndLesson(ctx context.Context, viewerID, courseID, lessonID int) (*models.LessonProgress, error)
	// Method ListByViewerAndCourse retrieves all lesson progress records of a viewer in a course.
	//
	// An empty slice is returned when there are no records.
	ListByViewerAndCourse(ctx context.Context, viewerID, courseID int) ([]models.LessonProgress, error)
	// Method SetQuizResult attaches a quiz result to an existing lesson progress record.
	SetQuizResult(ctx context.Context, viewerID, courseID, lessonID int, score float64, passed bool) error
	// Method Delete removes lesson progress records of a viewer in a course.
	//
	// "lessonID" equal to 0 removes every lesson of the course.
	// Returns the number of removed records.
	Delete(ctx context.Context, viewerID, courseID, lessonID int) (int64, error)
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type progressService struct {
	repo       LessonProgressRepository
	thresholds config.ProgressConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(repo LessonProgressRepository, thresholds config.ProgressConfig, logger *zap.Logger) *progressService {
	return &progressService{
		repo:       repo,
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordProgress stores a progress sample posted by a tracker for the authenticated viewer.
//
// A viewer ID in the request body must match the authenticated viewer.
// CurrentTime and Duration of the sample become the watched and total durations.
func (s *progressService) RecordProgress(ctx context.Context, viewerID int, req *models.ProgressUpdateRequest) (*models.LessonProgress, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", models.ErrValidation)
	}
	if req.ViewerID != 0 && req.ViewerID != viewerID {
		return nil, fmt.Errorf("%w: progress can only be recorded for the authenticated viewer", models.ErrForbidden)
	}

	return s.Upsert(ctx, viewerID, req.CourseID, req.LessonID, req.VideoID, req.CurrentTime, req.Duration)
}

// Upsert validates a progress sample and merges it into the lesson progress record.
//
// The watch percentage is always recomputed from the two durations and clamped to [0, 100].
// Reaching the completion threshold marks the record completed; it never reverts.
func (s *progressService) Upsert(ctx context.Context, viewerID, courseID, lessonID int, videoID string, watchedDuration, totalDuration float64) (*models.LessonProgress, error) {
	if err := validateKey(viewerID, courseID, lessonID); err != nil {
		return nil, err
	}
	if !videoIDPattern.MatchString(videoID) {
		return nil, fmt.Errorf("%w: invalid video id %q", models.ErrValidation, videoID)
	}
	if math.IsNaN(watchedDuration) || math.IsInf(watchedDuration, 0) || watchedDuration < 0 {
		return nil, fmt.Errorf("%w: watched duration must be a non-negative number", models.ErrValidation)
	}
	if math.IsNaN(totalDuration) || math.IsInf(totalDuration, 0) || totalDuration <= 0 {
		return nil, fmt.Errorf("%w: total duration must be a positive number", models.ErrValidation)
	}

	percentage := WatchPercentage(watchedDuration, totalDuration)
	upsert := &models.LessonProgressUpsert{
		ViewerID:        viewerID,
		CourseID:        courseID,
		LessonID:        lessonID,
		VideoID:         videoID,
		WatchedDuration: watchedDuration,
		TotalDuration:   totalDuration,
		WatchPercentage: percentage,
		Completed:       percentage >= s.thresholds.CompletionThreshold,
		Now:             s.now().UTC(),
	}

	progress, err := s.repo.Upsert(ctx, upsert)
	if err != nil {
		s.logger.Error("failed to upsert lesson progress", zap.Error(err),
			zap.Int("viewer_id", viewerID), zap.Int("course_id", courseID), zap.Int("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	return progress, nil
}

// GetCourseProgress computes the course summary of a viewer from all lesson records.
// A viewer without records gets a zeroed summary.
func (s *progressService) GetCourseProgress(ctx context.Context, viewerID, courseID int) (*models.CourseProgressSummary, error) {
	if err := validateIDs(map[string]int{"viewer": viewerID, "course": courseID}); err != nil {
		return nil, err
	}

	lessons, err := s.repo.ListByViewerAndCourse(ctx, viewerID, courseID)
	if err != nil {
		s.logger.Error("failed to list lesson progress", zap.Error(err), zap.Int("course_id", courseID))
		return nil, fmt.Errorf("failed to get course progress: %w", err)
	}

	summary := SummarizeCourseProgress(viewerID, courseID, lessons)
	return &summary, nil
}

// ListLessonProgress retrieves all lesson progress records of a viewer in a course
func (s *progressService) ListLessonProgress(ctx context.Context, viewerID, courseID int) ([]models.LessonProgress, error) {
	if err := validateIDs(map[string]int{"viewer": viewerID, "course": courseID}); err != nil {
		return nil, err
	}

	lessons, err := s.repo.ListByViewerAndCourse(ctx, viewerID, courseID)
	if err != nil {
		s.logger.Error("failed to list lesson progress", zap.Error(err), zap.Int("course_id", courseID))
		return nil, fmt.Errorf("failed to list lesson progress: %w", err)
	}

	return lessons, nil
}

// GetLessonProgress retrieves the progress record of a single lesson
func (s *progressService) GetLessonProgress(ctx context.Context, viewerID, courseID, lessonID int) (*models.LessonProgress, error) {
	if err := validateKey(viewerID, courseID, lessonID); err != nil {
		return nil, err
	}

	progress, err := s.repo.GetByViewerAndLesson(ctx, viewerID, courseID, lessonID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to get lesson progress", zap.Error(err), zap.Int("lesson_id", lessonID))
		}
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	return progress, nil
}

// RecordQuizResult attaches a quiz score to a lesson the viewer has already started watching
func (s *progressService) RecordQuizResult(ctx context.Context, viewerID int, req *models.QuizResultRequest) (*models.LessonProgress, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", models.ErrValidation)
	}
	if err := validateKey(viewerID, req.CourseID, req.LessonID); err != nil {
		return nil, err
	}
	if math.IsNaN(req.Score) || req.Score < 0 || req.Score > 100 {
		return nil, fmt.Errorf("%w: score must be between 0 and 100", models.ErrValidation)
	}

	progress, err := s.repo.GetByViewerAndLesson(ctx, viewerID, req.CourseID, req.LessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	passed := req.Score >= s.thresholds.QuizPassScore
	if err := s.repo.SetQuizResult(ctx, viewerID, req.CourseID, req.LessonID, req.Score, passed); err != nil {
		s.logger.Error("failed to save quiz result", zap.Error(err), zap.Int("lesson_id", req.LessonID))
		return nil, fmt.Errorf("failed to save quiz result: %w", err)
	}

	score := req.Score
	progress.QuizCompleted = true
	progress.QuizScore = &score
	progress.QuizPassed = passed
	return progress, nil
}

// ResetProgress removes the progress of a viewer in a course, or of a single lesson when lessonID is positive.
// Returns models.ErrNotFound when nothing was removed.
func (s *progressService) ResetProgress(ctx context.Context, viewerID, courseID, lessonID int) (int64, error) {
	if err := validateIDs(map[string]int{"viewer": viewerID, "course": courseID}); err != nil {
		return 0, err
	}
	if lessonID < 0 {
		return 0, fmt.Errorf("%w: invalid lesson id", models.ErrValidation)
	}

	deleted, err := s.repo.Delete(ctx, viewerID, courseID, lessonID)
	if err != nil {
		s.logger.Error("failed to reset progress", zap.Error(err), zap.Int("viewer_id", viewerID), zap.Int("course_id", courseID))
		return 0, fmt.Errorf("failed to reset progress: %w", err)
	}
	if deleted == 0 {
		return 0, models.ErrNotFound
	}

	s.logger.Info("progress reset",
		zap.Int("viewer_id", viewerID),
		zap.Int("course_id", courseID),
		zap.Int("lesson_id", lessonID),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// WatchPercentage returns watched/total*100 clamped to [0, 100]; 0 when total is not positive
func WatchPercentage(watched, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, watched*100/total))
}

// validateKey validates the (viewer, course, lesson) identity of a progress record
func validateKey(viewerID, courseID, lessonID int) error {
	return validateIDs(map[string]int{"viewer": viewerID, "course": courseID, "lesson": lessonID})
}

// validateIDs checks that every named identifier is positive
func validateIDs(ids map[string]int) error {
	for _, name := range []string{"viewer", "course", "lesson"} {
		id, ok := ids[name]
		if ok && id <= 0 {
			return fmt.Errorf("%w: invalid %s id", models.ErrValidation, name)
		}
	}
	return nil
}
