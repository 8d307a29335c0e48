package models

// CourseProgressSummary represents course-level progress derived from lesson progress records
type CourseProgressSummary struct {
	ViewerID         int     `json:"viewerId"`
	CourseID         int     `json:"courseId"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
	TotalWatchTime   float64 `json:"totalWatchTime"`
	TotalDuration    float64 `json:"totalDuration"`
	OverallProgress  float64 `json:"overallProgress"`
}
