package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var progressColumns = []string{
	"id", "viewer_id", "course_id", "lesson_id", "video_id",
	"watched_duration", "total_duration", "watch_percentage",
	"is_completed", "completed_at", "last_watched_at", "watch_count",
	"quiz_completed", "quiz_score", "quiz_passed",
}

// setupLessonProgressTestRepository creates a lesson progress repository with a mock database
func setupLessonProgressTestRepository(t *testing.T) (*lessonProgressRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := NewLessonProgressRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewLessonProgressRepository(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	db := &sql.DB{}

	repo := NewLessonProgressRepository(db, logger)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, logger, repo.logger)
}

func TestLessonProgressRepository_Upsert(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	completedAt := now.Add(-time.Hour)

	tests := []struct {
		name          string
		upsert        *models.LessonProgressUpsert
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		check         func(*testing.T, *models.LessonProgress)
	}{
		{
			name: "success - first sample",
			upsert: &models.LessonProgressUpsert{
				ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc",
				WatchedDuration: 150, TotalDuration: 600, WatchPercentage: 25, Now: now,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO lesson_progress (.+) ON DUPLICATE KEY UPDATE (.+)` +
					`completed_at = IF\(is_completed, completed_at, VALUES\(completed_at\)\),\s+` +
					`is_completed = is_completed OR VALUES\(is_completed\),(.+)` +
					`watch_count = watch_count \+ 1`).
					WithArgs(1, 2, 3, "abc", 150.0, 600.0, 25.0, false, nil, now).
					WillReturnResult(sqlmock.NewResult(1, 1))
				rows := sqlmock.NewRows(progressColumns).
					AddRow(1, 1, 2, 3, "abc", 150.0, 600.0, 25.0, false, nil, now, 1, false, nil, false)
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress WHERE viewer_id = \? AND course_id = \? AND lesson_id = \?`).
					WithArgs(1, 2, 3).
					WillReturnRows(rows)
				mock.ExpectCommit()
			},
			check: func(t *testing.T, p *models.LessonProgress) {
				assert.Equal(t, 1, p.ID)
				assert.Equal(t, 25.0, p.WatchPercentage)
				assert.False(t, p.IsCompleted)
				assert.Nil(t, p.CompletedAt)
				assert.Nil(t, p.QuizScore)
				assert.Equal(t, 1, p.WatchCount)
			},
		},
		{
			name: "success - completing sample passes completion time",
			upsert: &models.LessonProgressUpsert{
				ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc",
				WatchedDuration: 570, TotalDuration: 600, WatchPercentage: 95, Completed: true, Now: now,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO lesson_progress`).
					WithArgs(1, 2, 3, "abc", 570.0, 600.0, 95.0, true, now, now).
					WillReturnResult(sqlmock.NewResult(1, 2))
				rows := sqlmock.NewRows(progressColumns).
					AddRow(1, 1, 2, 3, "abc", 570.0, 600.0, 95.0, true, completedAt, now, 5, true, 80.0, true)
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2, 3).
					WillReturnRows(rows)
				mock.ExpectCommit()
			},
			check: func(t *testing.T, p *models.LessonProgress) {
				assert.True(t, p.IsCompleted)
				require.NotNil(t, p.CompletedAt)
				assert.Equal(t, completedAt, *p.CompletedAt)
				require.NotNil(t, p.QuizScore)
				assert.Equal(t, 80.0, *p.QuizScore)
				assert.Equal(t, 5, p.WatchCount)
			},
		},
		{
			name:   "begin error",
			upsert: &models.LessonProgressUpsert{ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc", TotalDuration: 600, Now: now},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			expectedError: true,
		},
		{
			name:   "exec error rolls back",
			upsert: &models.LessonProgressUpsert{ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc", TotalDuration: 600, Now: now},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO lesson_progress`).
					WillReturnError(errors.New("database error"))
				mock.ExpectRollback()
			},
			expectedError: true,
		},
		{
			name:   "read back error rolls back",
			upsert: &models.LessonProgressUpsert{ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc", TotalDuration: 600, Now: now},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO lesson_progress`).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WillReturnError(errors.New("database error"))
				mock.ExpectRollback()
			},
			expectedError: true,
		},
		{
			name:   "commit error",
			upsert: &models.LessonProgressUpsert{ViewerID: 1, CourseID: 2, LessonID: 3, VideoID: "abc", TotalDuration: 600, Now: now},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO lesson_progress`).
					WillReturnResult(sqlmock.NewResult(1, 1))
				rows := sqlmock.NewRows(progressColumns).
					AddRow(1, 1, 2, 3, "abc", 0.0, 600.0, 0.0, false, nil, now, 1, false, nil, false)
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WillReturnRows(rows)
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupLessonProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.Upsert(context.Background(), tt.upsert)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				tt.check(t, result)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLessonProgressRepository_GetByViewerAndLesson(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedAny   bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressColumns).
					AddRow(7, 1, 2, 3, "abc", 300.0, 600.0, 50.0, false, nil, now, 2, false, nil, false)
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress WHERE viewer_id = \? AND course_id = \? AND lesson_id = \?`).
					WithArgs(1, 2, 3).
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2, 3).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2, 3).
					WillReturnError(errors.New("database error"))
			},
			expectedAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupLessonProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.GetByViewerAndLesson(context.Background(), 1, 2, 3)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			case tt.expectedAny:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, models.ErrNotFound)
				assert.Nil(t, result)
			default:
				require.NoError(t, err)
				assert.Equal(t, 7, result.ID)
				assert.Equal(t, 50.0, result.WatchPercentage)
				assert.Equal(t, 2, result.WatchCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLessonProgressRepository_ListByViewerAndCourse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressColumns).
					AddRow(1, 1, 2, 3, "abc", 300.0, 600.0, 50.0, false, nil, now, 2, false, nil, false).
					AddRow(2, 1, 2, 4, "def", 580.0, 600.0, 96.67, true, now, now, 9, false, nil, false)
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress WHERE viewer_id = \? AND course_id = \? ORDER BY lesson_id`).
					WithArgs(1, 2).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name: "empty result is not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2).
					WillReturnRows(sqlmock.NewRows(progressColumns))
			},
			expectedCount: 0,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name: "scan error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id"}).AddRow(1)
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2).
					WillReturnRows(rows)
			},
			expectedError: true,
		},
		{
			name: "rows error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressColumns).
					AddRow(1, 1, 2, 3, "abc", 300.0, 600.0, 50.0, false, nil, now, 2, false, nil, false).
					RowError(0, errors.New("row error"))
				mock.ExpectQuery(`SELECT (.+) FROM lesson_progress`).
					WithArgs(1, 2).
					WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupLessonProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.ListByViewerAndCourse(context.Background(), 1, 2)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Len(t, result, tt.expectedCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLessonProgressRepository_SetQuizResult(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE lesson_progress SET quiz_completed = TRUE, quiz_score = \?, quiz_passed = \? WHERE viewer_id = \? AND course_id = \? AND lesson_id = \?`).
					WithArgs(75.0, true, 1, 2, 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE lesson_progress`).
					WithArgs(75.0, true, 1, 2, 3).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupLessonProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.SetQuizResult(context.Background(), 1, 2, 3, 75, true)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLessonProgressRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		lessonID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedRows  int64
	}{
		{
			name:     "whole course",
			lessonID: 0,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_progress WHERE viewer_id = \? AND course_id = \?$`).
					WithArgs(1, 2).
					WillReturnResult(sqlmock.NewResult(0, 4))
			},
			expectedRows: 4,
		},
		{
			name:     "single lesson",
			lessonID: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_progress WHERE viewer_id = \? AND course_id = \? AND lesson_id = \?`).
					WithArgs(1, 2, 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedRows: 1,
		},
		{
			name:     "database error",
			lessonID: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_progress`).
					WithArgs(1, 2, 3).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name:     "rows affected error",
			lessonID: 0,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM lesson_progress`).
					WithArgs(1, 2).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected error")))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupLessonProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			deleted, err := repo.Delete(context.Background(), 1, 2, tt.lessonID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedRows, deleted)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
