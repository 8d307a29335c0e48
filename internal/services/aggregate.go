package services

import "github.com/japanesestudent/progress-service/internal/models"

// SummarizeCourseProgress derives course-level progress from the lesson progress records of one viewer.
//
// OverallProgress is the summed watched time over the summed duration, and 0 when there is no duration at all.
func SummarizeCourseProgress(viewerID, courseID int, lessons []models.LessonProgress) models.CourseProgressSummary {
	summary := models.CourseProgressSummary{
		ViewerID:     viewerID,
		CourseID:     courseID,
		TotalLessons: len(lessons),
	}

	for _, lesson := range lessons {
		summary.TotalWatchTime += lesson.WatchedDuration
		summary.TotalDuration += lesson.TotalDuration
		if lesson.IsCompleted {
			summary.CompletedLessons++
		}
	}

	if summary.TotalDuration > 0 {
		summary.OverallProgress = summary.TotalWatchTime / summary.TotalDuration * 100
	}

	return summary
}
