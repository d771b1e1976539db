package models

// Student is a learner enrolled in a course.
type Student struct {
	ID            string                 `json:"id"`
	CourseID      string                 `json:"course_id,omitempty"`
	Roll          string                 `json:"roll"`
	Registration  *string                `json:"registration"`
	Phone         *string                `json:"phone"`
	GuardianPhone *string                `json:"guardian_phone"`
	BatchName     *string                `json:"batch_name"`
	ExtraDetails  map[string]interface{} `json:"extra_details,omitempty"`
	CreatedAt     string                 `json:"created_at,omitempty"`
}

// EntityID implements Entity.
func (s Student) EntityID() string { return s.ID }

// StudentFilter narrows a course roster.
type StudentFilter struct {
	Roll      string `json:"roll"`
	BatchName string `json:"batch_name"`
}
