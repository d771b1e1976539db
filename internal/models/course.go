package models

// Course groups students and exams inside an organization.
type Course struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	MessageTemplate string `json:"message_template,omitempty"`
	OrgID           string `json:"org_id,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// EntityID implements Entity.
func (c Course) EntityID() string { return c.ID }
