package models

// Exam is a scheduled OMR exam inside a course.
type Exam struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id,omitempty"`
	Name      string `json:"name"`
	ExamAt    string `json:"exam_at,omitempty"`
	IsLocked  bool   `json:"is_locked"`
	BatchName string `json:"batch_name,omitempty"`
}

// EntityID implements Entity.
func (e Exam) EntityID() string { return e.ID }
