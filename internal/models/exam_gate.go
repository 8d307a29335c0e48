package models

// ExamInfo represents the exam a viewer wants to enter
type ExamInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ExamGateRequest represents a request to check whether a viewer may enter an exam directly
type ExamGateRequest struct {
	CourseID int      `json:"courseId" validate:"gt=0"`
	LessonID int      `json:"lessonId" validate:"gt=0"`
	Exam     ExamInfo `json:"exam"`
}
