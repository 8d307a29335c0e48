package models

import "time"

// LessonProgress represents a viewer's watch progress for one lesson of a course.
// (ViewerID, CourseID, LessonID) is unique.
type LessonProgress struct {
	ID              int        `json:"id"`
	ViewerID        int        `json:"viewerId"`
	CourseID        int        `json:"courseId"`
	LessonID        int        `json:"lessonId"`
	VideoID         string     `json:"videoId"`
	WatchedDuration float64    `json:"watchedDuration"`
	TotalDuration   float64    `json:"totalDuration"`
	WatchPercentage float64    `json:"watchPercentage"`
	IsCompleted     bool       `json:"isCompleted"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	LastWatchedAt   time.Time  `json:"lastWatchedAt"`
	WatchCount      int        `json:"watchCount"`
	QuizCompleted   bool       `json:"quizCompleted"`
	QuizScore       *float64   `json:"quizScore,omitempty"`
	QuizPassed      bool       `json:"quizPassed"`
}

// ProgressEvent is the kind of a progress sample reported by a tracker
type ProgressEvent string

const (
	ProgressEventProgress  ProgressEvent = "progress"
	ProgressEventCompleted ProgressEvent = "completed"
)

// ProgressUpdateRequest represents a progress sample posted by a tracker.
// CurrentTime and Duration become the watched and total durations; Percent and Event are advisory.
type ProgressUpdateRequest struct {
	ViewerID    int           `json:"viewerId,omitempty" validate:"gte=0"`
	CourseID    int           `json:"courseId" validate:"gt=0"`
	LessonID    int           `json:"lessonId" validate:"gt=0"`
	VideoID     string        `json:"videoId" validate:"required,max=64"`
	CurrentTime float64       `json:"currentTime" validate:"gte=0"`
	Duration    float64       `json:"duration" validate:"gt=0"`
	Percent     float64       `json:"percent" validate:"gte=0,lte=100"`
	Event       ProgressEvent `json:"event" validate:"omitempty,oneof=progress completed"`
	Timestamp   int64         `json:"timestamp" validate:"gte=0"` // unix milliseconds at sampling time
}

// LessonProgressUpsert holds the validated values written by one progress update
type LessonProgressUpsert struct {
	ViewerID        int
	CourseID        int
	LessonID        int
	VideoID         string
	WatchedDuration float64
	TotalDuration   float64
	WatchPercentage float64
	// Completed reports whether this sample alone reaches the completion threshold
	Completed bool
	Now       time.Time
}

// QuizResultRequest represents a quiz result attached to a lesson progress record
type QuizResultRequest struct {
	CourseID int     `json:"courseId" validate:"gt=0"`
	LessonID int     `json:"lessonId" validate:"gt=0"`
	Score    float64 `json:"score" validate:"gte=0,lte=100"`
}
