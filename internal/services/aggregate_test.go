package services

import (
	"testing"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeCourseProgress(t *testing.T) {
	tests := []struct {
		name     string
		lessons  []models.LessonProgress
		expected models.CourseProgressSummary
	}{
		{
			name:     "no lessons",
			lessons:  nil,
			expected: models.CourseProgressSummary{ViewerID: 1, CourseID: 2},
		},
		{
			name: "mixed lessons",
			lessons: []models.LessonProgress{
				{WatchedDuration: 540, TotalDuration: 600, IsCompleted: true},
				{WatchedDuration: 100, TotalDuration: 300},
				{WatchedDuration: 0, TotalDuration: 100},
			},
			expected: models.CourseProgressSummary{
				ViewerID: 1, CourseID: 2,
				TotalLessons: 3, CompletedLessons: 1,
				TotalWatchTime: 640, TotalDuration: 1000, OverallProgress: 64,
			},
		},
		{
			name: "completed lesson after a seek back keeps counting as completed",
			lessons: []models.LessonProgress{
				{WatchedDuration: 30, TotalDuration: 600, IsCompleted: true},
			},
			expected: models.CourseProgressSummary{
				ViewerID: 1, CourseID: 2,
				TotalLessons: 1, CompletedLessons: 1,
				TotalWatchTime: 30, TotalDuration: 600, OverallProgress: 5,
			},
		},
		{
			name: "zero total duration gives zero progress",
			lessons: []models.LessonProgress{
				{WatchedDuration: 0, TotalDuration: 0},
			},
			expected: models.CourseProgressSummary{ViewerID: 1, CourseID: 2, TotalLessons: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := SummarizeCourseProgress(1, 2, tt.lessons)

			assert.Equal(t, tt.expected.TotalLessons, summary.TotalLessons)
			assert.Equal(t, tt.expected.CompletedLessons, summary.CompletedLessons)
			assert.InDelta(t, tt.expected.TotalWatchTime, summary.TotalWatchTime, 1e-9)
			assert.InDelta(t, tt.expected.TotalDuration, summary.TotalDuration, 1e-9)
			assert.InDelta(t, tt.expected.OverallProgress, summary.OverallProgress, 1e-9)
			assert.Equal(t, 1, summary.ViewerID)
			assert.Equal(t, 2, summary.CourseID)
		})
	}
}
