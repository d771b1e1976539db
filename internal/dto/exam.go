package dto

// ExamInput creates or edits an exam.
type ExamInput struct {
	Name      string `json:"name" validate:"required"`
	ExamAt    string `json:"exam_at"`
	BatchName string `json:"batch_name"`
	IsLocked  bool   `json:"is_locked"`
}
