package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
	"go.uber.org/zap"
)

const lessonProgressColumns = `
	id, viewer_id, course_id, lesson_id, video_id,
	watched_duration, total_duration, watch_percentage,
	is_completed, completed_at, last_watched_at, watch_count,
	quiz_completed, quiz_score, quiz_passed
`

type lessonProgressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLessonProgressRepository creates a new lesson progress repository
func NewLessonProgressRepository(db *sql.DB, logger *zap.Logger) *lessonProgressRepository {
	return &lessonProgressRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLessonProgress scans a row selected with lessonProgressColumns
func scanLessonProgress(row rowScanner) (*models.LessonProgress, error) {
	var (
		progress    models.LessonProgress
		completedAt sql.NullTime
		quizScore   sql.NullFloat64
	)
	err := row.Scan(
		&progress.ID,
		&progress.ViewerID,
		&progress.CourseID,
		&progress.LessonID,
		&progress.VideoID,
		&progress.WatchedDuration,
		&progress.TotalDuration,
		&progress.WatchPercentage,
		&progress.IsCompleted,
		&completedAt,
		&progress.LastWatchedAt,
		&progress.WatchCount,
		&progress.QuizCompleted,
		&quizScore,
		&progress.QuizPassed,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		progress.CompletedAt = &t
	}
	if quizScore.Valid {
		score := quizScore.Float64
		progress.QuizScore = &score
	}

	return &progress, nil
}

// Upsert inserts or updates the progress record of a lesson and returns the stored row.
//
// The write is a single INSERT ... ON DUPLICATE KEY UPDATE statement so the watch counter is incremented in place.
// MySQL applies the assignments left to right, so completed_at is evaluated before is_completed changes,
// which keeps the first completion time and never turns a completed record back.
func (r *lessonProgressRepository) Upsert(ctx context.Context, upsert *models.LessonProgressUpsert) (*models.LessonProgress, error) {
	query := `
		INSERT INTO lesson_progress (
			viewer_id, course_id, lesson_id, video_id,
			watched_duration, total_duration, watch_percentage,
			is_completed, completed_at, last_watched_at, watch_count
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON DUPLICATE KEY UPDATE
			video_id = VALUES(video_id),
			watched_duration = VALUES(watched_duration),
			total_duration = VALUES(total_duration),
			watch_percentage = VALUES(watch_percentage),
			completed_at = IF(is_completed, completed_at, VALUES(completed_at)),
			is_completed = is_completed OR VALUES(is_completed),
			last_watched_at = VALUES(last_watched_at),
			watch_count = watch_count + 1
	`

	var completedAt any
	if upsert.Completed {
		completedAt = upsert.Now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		upsert.ViewerID,
		upsert.CourseID,
		upsert.LessonID,
		upsert.VideoID,
		upsert.WatchedDuration,
		upsert.TotalDuration,
		upsert.WatchPercentage,
		upsert.Completed,
		completedAt,
		upsert.Now,
	)
	if err != nil {
		r.logger.Error("failed to upsert lesson progress", zap.Error(err),
			zap.Int("viewer_id", upsert.ViewerID), zap.Int("course_id", upsert.CourseID), zap.Int("lesson_id", upsert.LessonID))
		return nil, fmt.Errorf("failed to upsert lesson progress: %w", err)
	}

	selectQuery := `SELECT ` + lessonProgressColumns + `
		FROM lesson_progress
		WHERE viewer_id = ? AND course_id = ? AND lesson_id = ?
	`
	progress, err := scanLessonProgress(tx.QueryRowContext(ctx, selectQuery, upsert.ViewerID, upsert.CourseID, upsert.LessonID))
	if err != nil {
		r.logger.Error("failed to read upserted lesson progress", zap.Error(err))
		return nil, fmt.Errorf("failed to read lesson progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit lesson progress", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return progress, nil
}

// GetByViewerAndLesson retrieves the progress record of a single lesson
func (r *lessonProgressRepository) GetByViewerAndLesson(ctx context.Context, viewerID, courseID, lessonID int) (*models.LessonProgress, error) {
	query := `SELECT ` + lessonProgressColumns + `
		FROM lesson_progress
		WHERE viewer_id = ? AND course_id = ? AND lesson_id = ?
	`

	progress, err := scanLessonProgress(r.db.QueryRowContext(ctx, query, viewerID, courseID, lessonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("failed to query lesson progress", zap.Error(err), zap.Int("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to query lesson progress: %w", err)
	}

	return progress, nil
}

// ListByViewerAndCourse retrieves all lesson progress records of a viewer in a course
func (r *lessonProgressRepository) ListByViewerAndCourse(ctx context.Context, viewerID, courseID int) ([]models.LessonProgress, error) {
	query := `SELECT ` + lessonProgressColumns + `
		FROM lesson_progress
		WHERE viewer_id = ? AND course_id = ?
		ORDER BY lesson_id
	`

	rows, err := r.db.QueryContext(ctx, query, viewerID, courseID)
	if err != nil {
		r.logger.Error("failed to query course progress", zap.Error(err), zap.Int("course_id", courseID))
		return nil, fmt.Errorf("failed to query lesson progress: %w", err)
	}
	defer rows.Close()

	progress := []models.LessonProgress{}
	for rows.Next() {
		item, err := scanLessonProgress(rows)
		if err != nil {
			r.logger.Error("failed to scan lesson progress", zap.Error(err))
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		progress = append(progress, *item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return progress, nil
}

// SetQuizResult attaches a quiz result to an existing lesson progress record
func (r *lessonProgressRepository) SetQuizResult(ctx context.Context, viewerID, courseID, lessonID int, score float64, passed bool) error {
	query := `
		UPDATE lesson_progress
		SET quiz_completed = TRUE, quiz_score = ?, quiz_passed = ?
		WHERE viewer_id = ? AND course_id = ? AND lesson_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, score, passed, viewerID, courseID, lessonID)
	if err != nil {
		r.logger.Error("failed to update quiz result", zap.Error(err), zap.Int("lesson_id", lessonID))
		return fmt.Errorf("failed to update quiz result: %w", err)
	}

	return nil
}

// Delete removes progress records of a viewer in a course.
// A zero lessonID removes every lesson of the course.
func (r *lessonProgressRepository) Delete(ctx context.Context, viewerID, courseID, lessonID int) (int64, error) {
	query := `DELETE FROM lesson_progress WHERE viewer_id = ? AND course_id = ?`
	args := []any{viewerID, courseID}
	if lessonID > 0 {
		query += ` AND lesson_id = ?`
		args = append(args, lessonID)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to delete lesson progress", zap.Error(err), zap.Int("course_id", courseID))
		return 0, fmt.Errorf("failed to delete lesson progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
