package dto

import "strings"

// StudentInput is the console form for creating or editing a student.
type StudentInput struct {
	Roll          string
	Registration  string
	Phone         string
	GuardianPhone string
	BatchName     string
	ExtraDetails  map[string]interface{}
}

// CreateStudentRequest is the body of POST /students/. Blank optional fields
// are sent as null.
type CreateStudentRequest struct {
	CourseID      string                 `json:"course_id" validate:"required"`
	Roll          string                 `json:"roll" validate:"required"`
	Registration  *string                `json:"registration"`
	Phone         *string                `json:"phone"`
	GuardianPhone *string                `json:"guardian_phone"`
	BatchName     *string                `json:"batch_name"`
	ExtraDetails  map[string]interface{} `json:"extra_details"`
}

// UpdateStudentRequest is the body of PATCH /students/{id}. Blank fields are
// left out so the backend keeps its value.
type UpdateStudentRequest struct {
	Roll          *string                `json:"roll,omitempty" validate:"required"`
	Registration  *string                `json:"registration,omitempty"`
	Phone         *string                `json:"phone,omitempty"`
	GuardianPhone *string                `json:"guardian_phone,omitempty"`
	BatchName     *string                `json:"batch_name,omitempty"`
	ExtraDetails  map[string]interface{} `json:"extra_details,omitempty"`
}

// StudentListQuery scopes GET /students/course/{courseId}.
type StudentListQuery struct {
	Skip      int
	Limit     int
	Roll      string
	BatchName string
}

// NewCreateStudentRequest trims the form into a create payload.
func NewCreateStudentRequest(courseID string, in StudentInput) CreateStudentRequest {
	extra := in.ExtraDetails
	if extra == nil {
		extra = map[string]interface{}{}
	}
	return CreateStudentRequest{
		CourseID:      courseID,
		Roll:          strings.TrimSpace(in.Roll),
		Registration:  Trimmed(in.Registration),
		Phone:         Trimmed(in.Phone),
		GuardianPhone: Trimmed(in.GuardianPhone),
		BatchName:     Trimmed(in.BatchName),
		ExtraDetails:  extra,
	}
}

// NewUpdateStudentRequest trims the form into a patch payload.
func NewUpdateStudentRequest(in StudentInput) UpdateStudentRequest {
	return UpdateStudentRequest{
		Roll:          Trimmed(in.Roll),
		Registration:  Trimmed(in.Registration),
		Phone:         Trimmed(in.Phone),
		GuardianPhone: Trimmed(in.GuardianPhone),
		BatchName:     Trimmed(in.BatchName),
		ExtraDetails:  in.ExtraDetails,
	}
}

// Trimmed returns nil for blank input and a pointer to the trimmed value otherwise.
func Trimmed(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
